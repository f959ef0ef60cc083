// middleware/metrics/metrics.go
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the HTTP and dispatch collectors and the registry they are
// exposed from.
type Metrics struct {
	reg *prometheus.Registry

	responseTime              prometheus.Histogram
	totalHttpRequestsFromRole *prometheus.CounterVec
	totalHttpRequestsToUri    *prometheus.CounterVec
	totalHttpRequests         *prometheus.CounterVec

	dispatches      *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec

	skip      map[string]struct{}
	normalize func(*http.Request) string
}

type Option func(*Metrics)

// WithSkipPaths excludes paths from HTTP collection. "/metrics" is always skipped.
func WithSkipPaths(paths ...string) Option {
	return func(m *Metrics) {
		for _, p := range paths {
			if p = strings.TrimSpace(p); p != "" {
				m.skip[p] = struct{}{}
			}
		}
	}
}

// WithPathNormalizer sets the uri label function (e.g. to collapse IDs).
func WithPathNormalizer(fn func(*http.Request) string) Option {
	return func(m *Metrics) {
		if fn != nil {
			m.normalize = fn
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Metrics) {
		m.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

func New(opts ...Option) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		responseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		}),
		totalHttpRequestsFromRole: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
			[]string{"role"},
		),
		totalHttpRequestsToUri: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
			[]string{"code", "uri", "method"},
		),
		totalHttpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
			[]string{"code", "method"},
		),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "kernel_dispatch_total", Help: "kernel dispatches by domain, verb, pattern and outcome"},
			[]string{"domain", "verb", "pattern", "outcome"},
		),
		dispatchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kernel_dispatch_seconds",
				Help:    "kernel dispatch latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"domain", "outcome"},
		),
		skip:      map[string]struct{}{"/metrics": {}},
		normalize: func(r *http.Request) string { return r.URL.Path },
	}
	m.reg.MustRegister(
		m.responseTime,
		m.totalHttpRequestsFromRole,
		m.totalHttpRequestsToUri,
		m.totalHttpRequests,
		m.dispatches,
		m.dispatchLatency,
	)
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
