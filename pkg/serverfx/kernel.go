package serverfx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joeydtaylor/steeze-kernel/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-kernel/pkg/config"
	"github.com/joeydtaylor/steeze-kernel/pkg/core"
	"github.com/joeydtaylor/steeze-kernel/pkg/inject"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-kernel/pkg/transport/cli"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Container ----------

func provideContainer(s settings, cfg config.Config, log *zap.Logger) (*inject.Container, error) {
	c := inject.New()
	if err := inject.Supply(c, log); err != nil {
		return nil, err
	}
	if err := inject.Supply(c, cfg); err != nil {
		return nil, err
	}
	if err := inject.Provide[auth.User](c, auth.CurrentUser, inject.AsScoped()); err != nil {
		return nil, err
	}
	for _, fn := range s.services {
		if err := fn(c); err != nil {
			return nil, fmt.Errorf("register services: %w", err)
		}
	}
	return c, nil
}

// ---------- Registry ----------

type registryDeps struct {
	fx.In

	Settings  settings
	Config    config.Config
	Container *inject.Container
	Auth      *auth.Middleware `optional:"true"`
	Log       *zap.Logger
}

func provideRegistry(d registryDeps) (*kernel.Registry, error) {
	ctx := context.Background()
	disc := kernel.NewDiscovery(d.Container, kernel.LogSink(d.Log))
	core.ReserveRoutes(disc)
	cli.ReserveCommands(disc)
	for _, fn := range d.Settings.controllers {
		fn(ctx, disc)
	}
	for _, name := range d.Config.Controllers {
		disc.AddType(ctx, name)
	}

	if d.Settings.manifest != manifestOff {
		man, err := core.LoadConfig(d.Config.Manifest)
		switch {
		case errors.Is(err, fs.ErrNotExist) && d.Settings.manifest == manifestOptional:
			d.Log.Info("no manifest, using declared controllers only", zap.String("path", d.Config.Manifest))
		case err != nil:
			return nil, fmt.Errorf("manifest load failed: %w", err)
		default:
			admin := ""
			if d.Auth != nil {
				admin = d.Auth.AdminRole()
			}
			core.Discover(disc, man, d.Settings.catalog, admin)
		}
	}

	reg := disc.Registry()
	d.Log.Info("registry sealed", zap.Int("handlers", reg.Len()))
	return reg, nil
}

// ---------- Kernel ----------

type kernelDeps struct {
	fx.In

	Registry  *kernel.Registry
	Container *inject.Container
	Log       *zap.Logger
	Observers []kernel.Observer `group:"observers"`
}

func provideKernel(d kernelDeps) *kernel.Kernel {
	opts := []kernel.Option{kernel.WithLogger(d.Log)}
	for _, o := range d.Observers {
		opts = append(opts, kernel.WithObserver(o))
	}
	return kernel.New(d.Registry, d.Container, opts...)
}

// KernelModule wires configuration, logging, auth, metrics and a ready
// kernel, without an HTTP server. The CLI transport uses it directly.
func KernelModule(opts ...Option) fx.Option {
	s := newSettings(opts)
	return fx.Options(
		fx.Supply(s),
		fx.Provide(config.Load),
		bundlefx.Module,
		fx.Provide(provideContainer),
		fx.Provide(provideRegistry),
		fx.Provide(provideKernel),
	)
}

// OpenKernel builds a kernel for one-shot CLI dispatch. Logs go to the log
// directory only so stdout carries nothing but the response body.
func OpenKernel(opts ...Option) (*kernel.Kernel, error) {
	var k *kernel.Kernel
	app := fx.New(
		fx.NopLogger,
		KernelModule(opts...),
		fx.Decorate(func(cfg config.Config, _ *zap.Logger) *zap.Logger {
			return logger.NewLog("system.log", logger.WithDir(cfg.LogDir), logger.WithLevel(cfg.Level()), logger.WithoutConsole()).
				With(zap.String("service", cfg.Service))
		}),
		fx.Populate(&k),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return k, nil
}
