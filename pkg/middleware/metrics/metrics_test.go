package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectHTTP(t *testing.T) {
	m := New(WithSkipPaths("/ping"))
	h := m.Collect(auth.New(auth.Config{}, nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))

	for _, p := range []string{"/a", "/a", "/missing", "/metrics", "/ping"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	// "/metrics" and "/ping" are skipped
	assert.Equal(t, 2, testutil.CollectAndCount(m.totalHttpRequestsToUri))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.totalHttpRequestsToUri.WithLabelValues("200", "/a", "GET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalHttpRequests.WithLabelValues("404", "GET")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.totalHttpRequestsFromRole.WithLabelValues("")))
}

func TestPathNormalizer(t *testing.T) {
	m := New(WithPathNormalizer(func(*http.Request) string { return "/users/{id}" }))
	h := m.Collect(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.totalHttpRequestsToUri.WithLabelValues("200", "/users/{id}", "GET")))
}

func TestObserveDispatch(t *testing.T) {
	m := New()
	d := kernel.NewDiscovery(nil, nil)
	d.Func("test", func(r *kernel.Routes) {
		r.Get("/hello/{name}", func(name string) string { return name }, "name")
	})
	k := kernel.New(d.Registry(), nil, kernel.WithObserver(m))
	ctx := context.Background()

	_, _ = k.DispatchHTTP(ctx, "GET", "/hello/a")
	_, _ = k.DispatchHTTP(ctx, "GET", "/hello/b")
	_, _ = k.DispatchHTTP(ctx, "GET", "/nope")
	_, _ = k.DispatchArgs(ctx, []string{"app", "whatever"})
	_, _ = k.DispatchHTTP(ctx, "BREW", "/pot")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatches.WithLabelValues("http", "GET", "/hello/{name}", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("http", "GET", "", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("cli", "", "", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("http", "", "", "bad_request")))
}

func TestObserveDispatchDirect(t *testing.T) {
	m := New()
	m.ObserveDispatch(kernel.DispatchEvent{
		Verb:     route.Command("greet"),
		Pattern:  "greet",
		Outcome:  kernel.OutcomeHandlerErr,
		Duration: 3 * time.Millisecond,
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("cli", "greet", "greet", "handler_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.dispatchLatency))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveDispatch(kernel.DispatchEvent{Verb: route.Get, Pattern: "/", Outcome: kernel.OutcomeOK})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `kernel_dispatch_total{domain="http",outcome="ok",pattern="/",verb="GET"} 1`)
}
