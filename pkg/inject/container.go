// pkg/inject/container.go
package inject

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Lifetime controls how often a provider's constructor runs.
type Lifetime uint8

const (
	// Transient builds a fresh instance on every resolution.
	Transient Lifetime = iota
	// Scoped builds one instance per Scope (one per dispatch call).
	Scoped
	// Singleton builds one instance per Container.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "transient"
	}
}

type provider struct {
	key      reflect.Type
	fn       reflect.Value
	in       []reflect.Type
	fallible bool
	lifetime Lifetime
	seedOnly bool

	// singleton state
	mu    sync.Mutex
	built bool
	value reflect.Value
}

type ProvideOption func(*provider)

func AsTransient() ProvideOption { return func(p *provider) { p.lifetime = Transient } }
func AsScoped() ProvideOption    { return func(p *provider) { p.lifetime = Scoped } }
func AsSingleton() ProvideOption { return func(p *provider) { p.lifetime = Singleton } }

// Container maps capability types to constructors.
type Container struct {
	mu        sync.RWMutex
	providers map[reflect.Type]*provider
	names     map[string]reflect.Type
	auto      bool
}

type Option func(*Container)

// WithoutAutoConstruct disables zero-value construction of unregistered struct types.
func WithoutAutoConstruct() Option { return func(c *Container) { c.auto = false } }

func New(opts ...Option) *Container {
	c := &Container{
		providers: make(map[reflect.Type]*provider),
		names:     make(map[string]reflect.Type),
		auto:      true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// Provide registers ctor as the constructor for T. T is usually an interface
// or a pointer type; ctor must return a value assignable to T, optionally
// followed by an error. ctor's parameters are its dependencies.
func Provide[T any](c *Container, ctor any, opts ...ProvideOption) error {
	key := typeOf[T]()
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return fmt.Errorf("%w: %s: not a function", ErrBadConstructor, key)
	}
	ft := fn.Type()
	if ft.IsVariadic() {
		return fmt.Errorf("%w: %s: variadic constructors are not supported", ErrBadConstructor, key)
	}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return fmt.Errorf("%w: %s: second result must be error", ErrBadConstructor, key)
		}
	default:
		return fmt.Errorf("%w: %s: want 1 or 2 results, got %d", ErrBadConstructor, key, ft.NumOut())
	}
	if !ft.Out(0).AssignableTo(key) {
		return fmt.Errorf("%w: %s not assignable to %s", ErrBadConstructor, ft.Out(0), key)
	}

	p := &provider{key: key, fn: fn, fallible: ft.NumOut() == 2}
	for i := 0; i < ft.NumIn(); i++ {
		p.in = append(p.in, ft.In(i))
	}
	for _, o := range opts {
		o(p)
	}
	return c.add(p)
}

// Supply registers a ready-made value for T. Supplied values are singletons.
func Supply[T any](c *Container, v T) error {
	p := &provider{key: typeOf[T](), lifetime: Singleton, built: true}
	p.value = reflect.ValueOf(&v).Elem()
	return c.add(p)
}

// RequireSeed declares T as a per-scope value that only Seed can supply,
// such as the request being dispatched. Singletons may not depend on it.
func RequireSeed[T any](c *Container) error {
	return c.add(&provider{key: typeOf[T](), lifetime: Scoped, seedOnly: true})
}

func MustProvide[T any](c *Container, ctor any, opts ...ProvideOption) {
	if err := Provide[T](c, ctor, opts...); err != nil {
		panic(err)
	}
}

func MustSupply[T any](c *Container, v T) {
	if err := Supply[T](c, v); err != nil {
		panic(err)
	}
}

func (c *Container) add(p *provider) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.providers[p.key]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.key)
	}
	if err := c.checkCaptive(p); err != nil {
		return err
	}
	c.providers[p.key] = p
	c.names[p.key.String()] = p.key
	return nil
}

// checkCaptive rejects a direct singleton -> scoped edge, whichever side is
// registered second. Edges through transient providers are caught when the
// singleton is built.
func (c *Container) checkCaptive(p *provider) error {
	switch p.lifetime {
	case Singleton:
		for _, in := range p.in {
			if q := c.providers[in]; q != nil && q.lifetime == Scoped {
				return fmt.Errorf("%w: singleton %s needs scoped %s", ErrCaptiveDependency, p.key, in)
			}
		}
	case Scoped:
		for _, q := range c.providers {
			if q.lifetime != Singleton {
				continue
			}
			for _, in := range q.in {
				if in == p.key {
					return fmt.Errorf("%w: singleton %s needs scoped %s", ErrCaptiveDependency, q.key, p.key)
				}
			}
		}
	}
	return nil
}

func (c *Container) lookup(t reflect.Type) *provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.providers[t]
}

// Has reports whether a provider is registered for t.
func (c *Container) Has(t reflect.Type) bool { return c.lookup(t) != nil }

// TypeByName finds a registered type by its reflect name, e.g. "*demo.Greeter".
func (c *Container) TypeByName(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.names[name]
	return t, ok
}

// Instantiate builds the registered type with the given name in a fresh scope.
func (c *Container) Instantiate(ctx context.Context, typeName string) (any, error) {
	t, ok := c.TypeByName(typeName)
	if !ok {
		return nil, &InstantiationError{Type: typeName, Chain: []string{typeName}, Err: ErrNotProvided}
	}
	v, err := c.NewScope(ctx).Resolve(t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Instantiate builds T in a fresh scope.
func Instantiate[T any](ctx context.Context, c *Container) (T, error) {
	return Resolve[T](c.NewScope(ctx))
}

var (
	errorType   = typeOf[error]()
	contextType = typeOf[context.Context]()
)
