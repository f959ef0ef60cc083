package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/steeze-kernel/pkg/route"
)

// Route binds an HTTP method and path pattern to a catalog handler.
type Route struct {
	Path    string   `toml:"path"`
	Method  string   `toml:"method"`
	Handler string   `toml:"handler"`
	Guard   Guard    `toml:"guard"`
	Tags    []string `toml:"tags"`
}

// Guard restricts a route or command to authenticated callers.
type Guard struct {
	Roles       []string `toml:"roles"`
	Users       []string `toml:"users"`
	RequireAuth bool     `toml:"require_auth"`
}

// Empty reports whether the guard admits everyone.
func (g Guard) Empty() bool {
	return !g.RequireAuth && len(g.Users) == 0 && len(g.Roles) == 0
}

// normalize path/method/handler
func (r *Route) normalize() error {
	if strings.TrimSpace(r.Path) == "" {
		return errors.New("path is required")
	}
	r.Path = route.NormalizePath(strings.TrimSpace(r.Path))
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "GET"
	}
	r.Handler = strings.TrimSpace(r.Handler)
	return nil
}

func (r *Route) validate() error {
	if r.Handler == "" {
		return errors.New("handler is required")
	}
	if _, err := route.ParseMethod(r.Method); err != nil {
		return err
	}
	if _, err := route.ParsePattern(r.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRoutes() error {
	seen := make(map[string]int, len(c.Routes))
	for i := range c.Routes {
		rt := &c.Routes[i]
		if err := rt.normalize(); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
		if err := rt.validate(); err != nil {
			return fmt.Errorf("route %d (%s %s): %w", i, rt.Method, rt.Path, err)
		}
		key := rt.Method + " " + rt.Path
		if j, dup := seen[key]; dup {
			return fmt.Errorf("route %d (%s): duplicates route %d", i, key, j)
		}
		seen[key] = i
	}
	return nil
}
