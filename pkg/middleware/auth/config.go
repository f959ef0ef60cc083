package auth

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds authentication settings read from the environment.
type Config struct {
	// Dev-only header identity (X-Dev-User / X-Dev-Role / X-Dev-Provider). Never enable in prod.
	DevBypass bool   `envconfig:"AUTH_DEV_BYPASS" default:"false"`
	AdminRole string `envconfig:"ADMIN_ROLE_NAME"`

	// Assertion verification
	CookieName string        `envconfig:"ASSERTION_COOKIE_NAME" default:"assert"`
	KeyURL     string        `envconfig:"ASSERTION_KEY_URL"`
	KeyFile    string        `envconfig:"ASSERTION_KEY_FILE"`
	KeyKID     string        `envconfig:"ASSERTION_KEY_KID"`
	Issuer     string        `envconfig:"ASSERTION_ISSUER"`
	Audience   string        `envconfig:"ASSERTION_AUDIENCE"`
	Leeway     time.Duration `envconfig:"ASSERTION_LEEWAY" default:"60s"`
	KeyTTL     time.Duration `envconfig:"ASSERTION_KEY_TTL" default:"1h"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
