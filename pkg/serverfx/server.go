package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/joeydtaylor/steeze-kernel/pkg/config"
	"github.com/joeydtaylor/steeze-kernel/pkg/core"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-kernel/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Router ----------

type routerDeps struct {
	fx.In

	Config     config.Config
	Kernel     *kernel.Kernel
	AuthMW     *auth.Middleware
	LogMW      *logger.Middleware
	Metrics    *metrics.Metrics
	R          httpx.Router
	Shutdowner fx.Shutdowner
	Log        *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	var use []func(http.Handler) http.Handler
	if d.Config.MaxRequests > 0 {
		use = append(use, requestLimit(d.Config.MaxRequests, d.Shutdowner, d.Log))
	}
	return core.BuildRouter(d.Kernel, core.BuildDeps{
		Auth:    d.AuthMW,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Router:  d.R,
		Timeout: d.Config.DispatchTimeout,
		Use:     use,
	})
}

// requestLimit asks fx to shut down once limit requests have been served.
func requestLimit(limit int, sd fx.Shutdowner, log *zap.Logger) func(http.Handler) http.Handler {
	var served atomic.Int64
	var once sync.Once
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if served.Add(1) >= int64(limit) {
				once.Do(func() {
					log.Info("request limit reached, shutting down", zap.Int("max_requests", limit))
					go func() { _ = sd.Shutdown() }()
				})
			}
		})
	}
}

// ---------- Server lifecycle ----------

// Server is the running HTTP server.
type Server struct {
	srv  *http.Server
	addr atomic.Value
}

// Addr is the bound listen address once started.
func (s *Server) Addr() string {
	if v, ok := s.addr.Load().(string); ok {
		return v
	}
	return ""
}

type serverDeps struct {
	fx.In

	Config     config.Config
	Logger     *zap.Logger
	App        http.Handler `name:"app"`
	Shutdowner fx.Shutdowner
}

func provideServer(lc fx.Lifecycle, d serverDeps) *Server {
	cfg := d.Config
	s := &Server{srv: &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      d.App,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}}
	useTLS := cfg.TLS() && fileExists(cfg.TLSCert) && fileExists(cfg.TLSKey)
	if cfg.TLS() && !useTLS {
		d.Logger.Warn("TLS configured but certificate files missing, serving plaintext",
			zap.String("cert", cfg.TLSCert), zap.String("key", cfg.TLSKey))
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", cfg.ListenAddress)
			if err != nil {
				return err
			}
			s.addr.Store(ln.Addr().String())

			serve := func() error { return s.srv.Serve(ln) }
			if useTLS {
				d.Logger.Info("server starting (TLS)", zap.String("addr", s.Addr()), zap.String("cert", cfg.TLSCert))
				serve = func() error { return s.srv.ServeTLS(ln, cfg.TLSCert, cfg.TLSKey) }
			} else {
				d.Logger.Info("server starting (PLAINTEXT)", zap.String("addr", s.Addr()))
				s.srv.TLSConfig = nil
			}
			go func() {
				if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Error("server failed", zap.Error(err))
					_ = d.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping")
			return s.srv.Shutdown(ctx)
		},
	})
	return s
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ---------- Public Fx module ----------

// Module is KernelModule plus the chi router and the HTTP server lifecycle.
func Module(opts ...Option) fx.Option {
	return fx.Options(
		KernelModule(opts...),
		fx.Provide(httpx.NewChi),
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),
		fx.Provide(provideServer),
		fx.Invoke(func(*Server) {}),
	)
}

// Run serves until fx is asked to shut down or ctx is done.
func Run(ctx context.Context, opts ...Option) error {
	app := fx.New(Module(opts...))
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	code := 0
	select {
	case sig := <-app.Wait():
		code = sig.ExitCode
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("server exited with code %d", code)
	}
	return nil
}
