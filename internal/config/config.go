package config

import "time"

// Config holds the probe and command settings for a verification run.
type Config struct {
	SSH     SSHConfig     `yaml:"ssh"`
	Command CommandConfig `yaml:"command"`
	Output  OutputConfig  `yaml:"output"`
}

// SSHConfig describes how the SSH probes are built on the source instance.
type SSHConfig struct {
	// User is the login user on the target instance.
	User string `yaml:"user"`
	// IdentityFile is the private key used by the probe that must succeed.
	IdentityFile string `yaml:"identityFile"`
	// Home overrides $HOME for the probe that must fail, so it sees no
	// agent keys or known_hosts of the user running the SSM agent.
	Home string `yaml:"home"`
	// ConnectTimeout is passed to ssh as -o ConnectTimeout.
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	// Timeout bounds the whole ssh invocation through coreutils timeout(1).
	Timeout time.Duration `yaml:"timeout"`
}

// CommandConfig controls remote command dispatch and polling.
type CommandConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"pollInterval"`
}

// OutputConfig optionally sends full command output to S3.
type OutputConfig struct {
	Bucket    string `yaml:"bucket"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		SSH: SSHConfig{
			User:           "ubuntu",
			IdentityFile:   "/home/ssm-user/.ssh/id_ed25519",
			Home:           "/home/ssm-user",
			ConnectTimeout: 5 * time.Second,
			Timeout:        10 * time.Second,
		},
		Command: CommandConfig{
			Timeout:      30 * time.Second,
			PollInterval: 2 * time.Second,
		},
		Output: OutputConfig{
			KeyPrefix: "netverify",
		},
	}
}
