package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables overriding command timing.
const (
	EnvCommandTimeout = "NETVERIFY_COMMAND_TIMEOUT"
	EnvPollInterval   = "NETVERIFY_POLL_INTERVAL"
)

// ApplyEnv overrides command timing from environment variables.
// Unset or unparseable values leave the current setting untouched.
// A nil lookup reads the process environment.
//
// Environment Variables:
//   - NETVERIFY_COMMAND_TIMEOUT (duration like "45s", or whole seconds)
//   - NETVERIFY_POLL_INTERVAL (duration like "2s", or whole seconds)
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	c.Command.Timeout = parseDuration(lookup, EnvCommandTimeout, c.Command.Timeout)
	c.Command.PollInterval = parseDuration(lookup, EnvPollInterval, c.Command.PollInterval)
}

// parseDuration parses a duration from an environment variable.
// Bare integers are read as seconds. If the variable is not set or parsing
// fails, the current value is returned.
func parseDuration(lookup func(string) (string, bool), envVar string, current time.Duration) time.Duration {
	val, ok := lookup(envVar)
	if !ok || val == "" {
		return current
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return current
	}

	return d
}
