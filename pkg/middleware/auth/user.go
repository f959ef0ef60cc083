package auth

import "context"

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

// User is the authenticated caller. Handlers and services can declare it as
// a parameter; it resolves to the zero User for anonymous requests.
type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
}

func (u User) Authenticated() bool { return u.Username != "" }

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext returns the user stored by the HTTP middleware, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey).(User)
	return u, ok && u.Authenticated()
}

// CurrentUser is a constructor for the dispatch container: it reads the user
// from the request context seeded into each dispatch scope.
func CurrentUser(ctx context.Context) User {
	u, _ := UserFromContext(ctx)
	return u
}
