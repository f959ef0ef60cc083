package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
)

// Collect produces the HTTP middleware that records the counters/histogram.
func (m *Metrics) Collect(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				if _, skip := m.skip[r.URL.Path]; skip {
					return
				}
				role := ""
				if ca != nil {
					role = ca.GetUser(r.Context()).Role.Name
				}
				code := strconv.Itoa(ww.Status())

				m.totalHttpRequestsFromRole.WithLabelValues(role).Inc()
				m.totalHttpRequestsToUri.WithLabelValues(code, m.normalize(r), r.Method).Inc()
				m.totalHttpRequests.WithLabelValues(code, r.Method).Inc()
				m.responseTime.Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
