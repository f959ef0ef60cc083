package auth

import (
	"context"
	"net/http"
	"strings"
)

// Middleware authenticates HTTP requests and stores the User in the request
// context. Requests without credentials continue anonymously.
type Middleware struct {
	cfg  Config
	keys *KeySet
}

func New(cfg Config, keys *KeySet) *Middleware {
	if keys == nil {
		keys = NewKeySet(cfg, nil)
	}
	return &Middleware{cfg: cfg, keys: keys}
}

func (m *Middleware) Keys() *KeySet { return m.keys }

func (m *Middleware) AdminRole() string { return m.cfg.AdminRole }

func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := m.authenticate(r); ok {
				r = r.WithContext(WithUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) authenticate(r *http.Request) (User, bool) {
	if m.cfg.DevBypass {
		if u := devUserFromHeaders(r); u.Authenticated() {
			return u, true
		}
	}
	if m.keys.Key() == nil {
		return User{}, false
	}

	// Bearer header first, then the assertion cookie.
	if h := r.Header.Get("Authorization"); h != "" {
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			if u, err := m.ValidateAssertion(strings.TrimSpace(raw)); err == nil {
				return u, true
			}
		}
	}
	if c, err := r.Cookie(m.cfg.CookieName); err == nil && c.Value != "" {
		if u, err := m.ValidateAssertion(c.Value); err == nil {
			return u, true
		}
	}
	return User{}, false
}

func devUserFromHeaders(r *http.Request) User {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return User{}
	}
	return User{
		Username:             user,
		AuthenticationSource: AuthenticationSource{Provider: r.Header.Get("X-Dev-Provider")},
		Role:                 Role{Name: r.Header.Get("X-Dev-Role")},
	}
}

func (m *Middleware) GetUser(ctx context.Context) User {
	u, _ := UserFromContext(ctx)
	return u
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	_, ok := UserFromContext(ctx)
	return ok
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	u, ok := UserFromContext(ctx)
	return ok && m.cfg.AdminRole != "" && u.Role.Name == m.cfg.AdminRole
}

func (m *Middleware) IsRole(ctx context.Context, role Role) bool {
	u, ok := UserFromContext(ctx)
	return ok && (u.Role.Name == role.Name || m.IsAdmin(ctx))
}

func (m *Middleware) IsUser(ctx context.Context, username string) bool {
	u, ok := UserFromContext(ctx)
	return ok && (u.Username == username || m.IsAdmin(ctx))
}
