package auth

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoKey            = errors.New("auth: assertion key not configured")
	ErrInvalidAssertion = errors.New("auth: invalid assertion")
	ErrBadIssuer        = errors.New("auth: bad issuer")
	ErrBadAudience      = errors.New("auth: bad audience")
	ErrMissingSubject   = errors.New("auth: assertion has no uid or sub")
)

type assertionClaims struct {
	jwt.RegisteredClaims
	Ver   int      `json:"ver"`
	SID   string   `json:"sid"`
	UID   string   `json:"uid"`
	Org   string   `json:"org"`
	Roles []string `json:"roles"`
	Role  string   `json:"role"`
}

// ValidateAssertion verifies an RS256 assertion and maps its claims to a User.
func (m *Middleware) ValidateAssertion(raw string) (User, error) {
	pub := m.keys.Key()
	if pub == nil {
		return User{}, ErrNoKey
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.cfg.Leeway),
	)

	var claims assertionClaims
	tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return pub, nil })
	if err != nil || !tok.Valid {
		return User{}, errors.Join(ErrInvalidAssertion, err)
	}
	if m.cfg.Issuer != "" && claims.Issuer != m.cfg.Issuer {
		return User{}, ErrBadIssuer
	}
	if m.cfg.Audience != "" && !slices.Contains(claims.Audience, m.cfg.Audience) {
		return User{}, ErrBadAudience
	}

	username := claims.UID
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return User{}, ErrMissingSubject
	}

	role := claims.Role
	if role == "" && len(claims.Roles) > 0 {
		role = claims.Roles[0]
	}
	return User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: "assert"},
		Role:                 Role{Name: role},
	}, nil
}
