package serverfx

import (
	"context"

	"github.com/joeydtaylor/steeze-kernel/pkg/core"
	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
)

// ---------- Options ----------

type manifestMode uint8

const (
	manifestOptional manifestMode = iota
	manifestRequired
	manifestOff
)

type settings struct {
	catalog     *core.Catalog
	services    []func(*inject.Container) error
	controllers []func(context.Context, *kernel.Discovery)
	manifest    manifestMode
}

type Option func(*settings)

// WithServices registers providers on the dispatch container.
func WithServices(fn func(*inject.Container) error) Option {
	return func(s *settings) { s.services = append(s.services, fn) }
}

// WithControllers declares routes on the discovery, typically through
// kernel.AddController.
func WithControllers(fn func(context.Context, *kernel.Discovery)) Option {
	return func(s *settings) { s.controllers = append(s.controllers, fn) }
}

// Controller adds T, built by the container, to discovery.
func Controller[T kernel.Controller]() Option {
	return WithControllers(func(ctx context.Context, d *kernel.Discovery) {
		kernel.AddController[T](ctx, d)
	})
}

// ControllerByName adds controllers by their registered type name, such as
// "*demo.HelloController". Unknown names and types that are not controllers
// are reported to the discovery sink.
func ControllerByName(names ...string) Option {
	return WithControllers(func(ctx context.Context, d *kernel.Discovery) {
		for _, n := range names {
			d.AddType(ctx, n)
		}
	})
}

// WithCatalog binds manifest handler names against c instead of the
// process-wide catalog.
func WithCatalog(c *core.Catalog) Option { return func(s *settings) { s.catalog = c } }

// RequireManifest fails startup when KERNEL_MANIFEST does not exist.
func RequireManifest() Option { return func(s *settings) { s.manifest = manifestRequired } }

// WithoutManifest skips manifest loading.
func WithoutManifest() Option { return func(s *settings) { s.manifest = manifestOff } }

func newSettings(opts []Option) settings {
	s := settings{catalog: core.Default()}
	for _, o := range opts {
		o(&s)
	}
	return s
}
