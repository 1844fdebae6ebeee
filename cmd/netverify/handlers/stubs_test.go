package handlers

import (
	"bytes"
	"context"

	"github.com/imamik/netverify/internal/config"
	awsplatform "github.com/imamik/netverify/internal/platform/aws"
)

// verifyStubs replaces the verify factories and captures output.
type verifyStubs struct {
	stdout       *bytes.Buffer
	stderr       *bytes.Buffer
	platformOpts awsplatform.Options
	env          map[string]string
}

func installVerifyStubs(platform Platform, cfg *config.Config) (*verifyStubs, func()) {
	origPlatform := newPlatform
	origLoad := loadConfig
	origRunID := newRunID
	origLookup := lookupEnv
	origStdout := stdout
	origStderr := stderr

	s := &verifyStubs{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		env:    map[string]string{},
	}

	newPlatform = func(_ context.Context, opts awsplatform.Options) (Platform, error) {
		s.platformOpts = opts
		return platform, nil
	}
	loadConfig = func(_ string) (*config.Config, error) {
		c := *cfg
		return &c, nil
	}
	newRunID = func() string { return "run-0001" }
	lookupEnv = func(key string) (string, bool) {
		v, ok := s.env[key]
		return v, ok
	}
	stdout = s.stdout
	stderr = s.stderr

	return s, func() {
		newPlatform = origPlatform
		loadConfig = origLoad
		newRunID = origRunID
		lookupEnv = origLookup
		stdout = origStdout
		stderr = origStderr
	}
}
