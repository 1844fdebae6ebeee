package testing

import (
	"time"

	"github.com/imamik/netverify/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a ConfigBuilder starting from the defaults with
// a short poll interval so tests do not sleep.
func NewConfigBuilder() *ConfigBuilder {
	cfg := *config.Default()
	cfg.Command.PollInterval = 10 * time.Millisecond
	return &ConfigBuilder{cfg: cfg}
}

// WithSSHUser sets the login user for both probes.
func (b *ConfigBuilder) WithSSHUser(user string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.SSH.User = user
	return newBuilder
}

// WithIdentityFile sets the key used by the probe that must connect.
func (b *ConfigBuilder) WithIdentityFile(path string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.SSH.IdentityFile = path
	return newBuilder
}

// WithCommandTiming sets the command timeout and poll interval.
func (b *ConfigBuilder) WithCommandTiming(timeout, pollInterval time.Duration) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Command.Timeout = timeout
	newBuilder.cfg.Command.PollInterval = pollInterval
	return newBuilder
}

// WithOutputBucket enables S3 command output.
func (b *ConfigBuilder) WithOutputBucket(bucket string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Output.Bucket = bucket
	return newBuilder
}

// Build returns a copy of the built configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}
