package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SupportedVersions is the manifest format constraint this build accepts.
const SupportedVersions = "^1"

// Config is the top-level manifest: HTTP routes and CLI commands bound to
// handlers from the named catalog.
type Config struct {
	Version  string    `toml:"version"`
	Routes   []Route   `toml:"route"`
	Commands []Command `toml:"command"`
}

// Validate normalizes every entry in place and checks the whole manifest.
// Duplicate (method, path) pairs and duplicate command names are rejected
// since only the first of them could ever match.
func (c *Config) Validate() error {
	if err := c.checkVersion(); err != nil {
		return err
	}
	if len(c.Routes) == 0 && len(c.Commands) == 0 {
		return fmt.Errorf("manifest declares no routes or commands")
	}
	if err := c.validateRoutes(); err != nil {
		return err
	}
	return c.validateCommands()
}

func (c *Config) checkVersion() error {
	raw := strings.TrimSpace(c.Version)
	if raw == "" {
		raw = "1"
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("manifest version %q: %w", c.Version, err)
	}
	con, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !con.Check(v) {
		return fmt.Errorf("manifest version %s not supported (want %s)", v, SupportedVersions)
	}
	c.Version = v.String()
	return nil
}
