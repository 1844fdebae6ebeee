package config

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// MinCommandTimeout is the smallest TimeoutSeconds SSM SendCommand accepts.
const MinCommandTimeout = 30 * time.Second

// shellUnsafe lists characters that must not appear in values embedded
// unquoted into the probe shell command.
const shellUnsafe = " \t\r\n'\"`$;&|<>()\\*?!{}[]#~"

// Validate checks the configuration for errors that would produce a broken
// probe command or a rejected SSM request.
func (c *Config) Validate() error {
	if err := c.validateSSH(); err != nil {
		return fmt.Errorf("ssh validation failed: %w", err)
	}
	if err := c.validateCommand(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}
	return nil
}

func (c *Config) validateSSH() error {
	if c.SSH.User == "" {
		return fmt.Errorf("user is required")
	}
	if strings.ContainsAny(c.SSH.User, shellUnsafe+"@/") {
		return fmt.Errorf("user %q contains invalid characters", c.SSH.User)
	}
	paths := []struct {
		name string
		p    string
	}{
		{"identityFile", c.SSH.IdentityFile},
		{"home", c.SSH.Home},
	}
	for _, f := range paths {
		name, p := f.name, f.p
		if p == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !path.IsAbs(p) {
			return fmt.Errorf("%s must be an absolute path, got %q", name, p)
		}
		if strings.ContainsAny(p, shellUnsafe) {
			return fmt.Errorf("%s %q contains characters that are unsafe in a shell command", name, p)
		}
	}
	if c.SSH.ConnectTimeout < time.Second {
		return fmt.Errorf("connectTimeout must be at least 1s, got %v", c.SSH.ConnectTimeout)
	}
	if c.SSH.Timeout <= c.SSH.ConnectTimeout {
		return fmt.Errorf("timeout (%v) must be greater than connectTimeout (%v)", c.SSH.Timeout, c.SSH.ConnectTimeout)
	}
	return nil
}

func (c *Config) validateCommand() error {
	if c.Command.Timeout < MinCommandTimeout {
		return fmt.Errorf("timeout must be at least %v, got %v", MinCommandTimeout, c.Command.Timeout)
	}
	if c.Command.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be positive, got %v", c.Command.PollInterval)
	}
	if c.Command.PollInterval > c.Command.Timeout {
		return fmt.Errorf("pollInterval (%v) must not exceed timeout (%v)", c.Command.PollInterval, c.Command.Timeout)
	}
	if c.SSH.Timeout >= c.Command.Timeout {
		return fmt.Errorf("ssh timeout (%v) must be shorter than command timeout (%v)", c.SSH.Timeout, c.Command.Timeout)
	}
	return nil
}
