package logger

import (
	"net/http"
	"sync"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-kernel/pkg/middleware/auth"
	"go.uber.org/zap"
)

// Middleware writes one access log entry per HTTP request. The access
// logger is created on first use so CLI runs never open the file.
type Middleware struct {
	once sync.Once
	mk   func() *zap.Logger
	l    *zap.Logger
}

// NewMiddleware takes a constructor for the access logger.
func NewMiddleware(mk func() *zap.Logger) *Middleware {
	return &Middleware{mk: mk}
}

func (m *Middleware) access() *zap.Logger {
	m.once.Do(func() {
		if m.mk != nil {
			m.l = m.mk()
		}
		if m.l == nil {
			m.l = zap.NewNop()
		}
	})
	return m.l
}

func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)

			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}

			start := time.Now()
			defer func() {
				var u auth.User
				if ca != nil {
					u = ca.GetUser(r.Context())
				}
				m.access().Info("",
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme),
					zap.Bool("isAuthenticated", u.Authenticated()),
					zap.String("username", u.Username),
					zap.String("role", u.Role.Name),
					zap.String("authenticationProvider", u.AuthenticationSource.Provider),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Duration("lat", time.Since(start)),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", ww.Status()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
