package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Command binds a CLI command token to a catalog handler.
type Command struct {
	Name        string `toml:"name"`
	Handler     string `toml:"handler"`
	Description string `toml:"description"`
	Guard       Guard  `toml:"guard"`
}

func (c *Command) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Handler = strings.TrimSpace(c.Handler)
	c.Description = strings.TrimSpace(c.Description)
}

func (c *Command) validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if strings.ContainsAny(c.Name, " \t\r\n") {
		return errors.New("name must be a single token")
	}
	if c.Handler == "" {
		return errors.New("handler is required")
	}
	return nil
}

func (c *Config) validateCommands() error {
	seen := make(map[string]int, len(c.Commands))
	for i := range c.Commands {
		cmd := &c.Commands[i]
		cmd.normalize()
		if err := cmd.validate(); err != nil {
			return fmt.Errorf("command %d (%s): %w", i, cmd.Name, err)
		}
		if j, dup := seen[cmd.Name]; dup {
			return fmt.Errorf("command %d (%s): duplicates command %d", i, cmd.Name, j)
		}
		seen[cmd.Name] = i
	}
	return nil
}
