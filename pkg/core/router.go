package core

import (
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/steeze-kernel/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
	httpx "github.com/joeydtaylor/steeze-kernel/pkg/transport/httpx"
)

const (
	PingPath    = "/ping"
	MetricsPath = "/metrics"
)

// ReserveRoutes claims the paths BuildRouter answers before the kernel sees
// the request, so handlers declared for them are reported instead of
// silently never running.
func ReserveRoutes(d *kernel.Discovery) {
	d.Reserve(route.Get, PingPath, "heartbeat")
	d.Reserve(route.Head, PingPath, "heartbeat")
	d.Reserve(route.Get, MetricsPath, "metrics")
}

type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics *hmetrics.Metrics
	Router  httpx.Router
	Timeout time.Duration
	// Extra middleware applied after the built-in chain.
	Use []func(http.Handler) http.Handler
}

// BuildRouter mounts the kernel behind the standard middleware chain.
// Everything except PingPath and MetricsPath is dispatched by k.
func BuildRouter(k httpx.Dispatcher, d BuildDeps) http.Handler {
	r := d.Router
	if r == nil {
		r = httpx.NewChi()
	}
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat(PingPath))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Collect(d.Auth))
	}
	if d.Timeout > 0 {
		r.Use(chimd.Timeout(d.Timeout))
	}
	if len(d.Use) > 0 {
		r.Use(d.Use...)
	}

	if d.Metrics != nil {
		r.Get(MetricsPath, d.Metrics.Handler())
	}
	r.Any("/*", httpx.Handler(k))
	return r.Mux()
}
