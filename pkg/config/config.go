// Package config provides process configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

const logPrefix = "config:Load"

// Config holds server and kernel configuration.
type Config struct {
	// Service name used in log fields.
	Service string `envconfig:"SERVICE_NAME" default:"steeze-kernel"`

	// HTTP server
	ListenAddress   string        `envconfig:"SERVER_LISTEN_ADDRESS" default:":4000"`
	TLSCert         string        `envconfig:"SSL_SERVER_CERTIFICATE"`
	TLSKey          string        `envconfig:"SSL_SERVER_KEY"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	DispatchTimeout time.Duration `envconfig:"DISPATCH_TIMEOUT" default:"25s"`

	// Stop serving after this many HTTP requests (0 = unlimited) so a
	// supervisor can recycle the process.
	MaxRequests int `envconfig:"MAX_REQUESTS" default:"0"`

	// Routing manifest; optional when all routes come from controllers.
	Manifest string `envconfig:"KERNEL_MANIFEST" default:"manifest.toml"`

	// Extra controllers by registered type name, comma separated.
	Controllers []string `envconfig:"KERNEL_CONTROLLERS"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogDir   string `envconfig:"LOG_DIR" default:"log"`
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("%s - %w", logPrefix, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("%s - SERVER_LISTEN_ADDRESS is required", logPrefix)
	}
	if c.MaxRequests < 0 {
		return fmt.Errorf("%s - MAX_REQUESTS must be >= 0", logPrefix)
	}
	if c.DispatchTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("%s - timeouts must be >= 0", logPrefix)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("%s - SSL_SERVER_CERTIFICATE and SSL_SERVER_KEY must be set together", logPrefix)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s - LOG_LEVEL: %w", logPrefix, err)
	}
	return nil
}

// Level is the parsed LOG_LEVEL, defaulting to info.
func (c Config) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// TLS reports whether the server should listen with TLS.
func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }
