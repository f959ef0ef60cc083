// core/handlers.go
package core

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Entry is a handler function the manifest can reference by name, with the
// names of its request parameters in declaration order.
type Entry struct {
	Fn     any
	Params []string
}

// Catalog maps manifest handler names to functions.
type Catalog struct {
	mu sync.RWMutex
	m  map[string]Entry
}

func NewCatalog() *Catalog { return &Catalog{m: make(map[string]Entry)} }

var ErrDuplicateHandler = errors.New("core: duplicate handler name")

// Register makes fn available under name.
func (c *Catalog) Register(name string, fn any, params ...string) error {
	if name == "" {
		return errors.New("core: handler name required")
	}
	if v := reflect.ValueOf(fn); !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("core: handler %q is not a function", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.m[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateHandler, name)
	}
	c.m[name] = Entry{Fn: fn, Params: append([]string(nil), params...)}
	return nil
}

func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[name]
	return e, ok
}

// Names lists registered handler names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.m))
	for n := range c.m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var registry = NewCatalog()

// Default is the process-wide catalog used by Register and Lookup.
func Default() *Catalog { return registry }

// Register makes a handler available under a name referenced in manifest.toml.
// It panics on an invalid or duplicate name and is meant for init functions.
func Register(name string, fn any, params ...string) {
	if err := registry.Register(name, fn, params...); err != nil {
		panic(err)
	}
}

// Lookup retrieves a registered handler by name.
func Lookup(name string) (Entry, bool) { return registry.Lookup(name) }
