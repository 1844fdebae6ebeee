package config

import (
	"os"
	"strings"
)

// DefaultRegion is used when no region is configured in the environment.
const DefaultRegion = "us-east-1"

// RegionEnvVars lists the environment variables consulted for the AWS region,
// in order of precedence.
var RegionEnvVars = []string{"AWS_DEFAULT_REGION", "AWS_REGION"}

// Region is a resolved AWS region and where it came from.
type Region struct {
	Name string
	// Source is the environment variable or flag the region was read from.
	// It is empty when the region was defaulted.
	Source    string
	Defaulted bool
}

// ResolveRegion returns the first non-empty region from RegionEnvVars,
// falling back to DefaultRegion. A nil lookup reads the process environment.
func ResolveRegion(lookup func(string) (string, bool)) Region {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, key := range RegionEnvVars {
		if val, ok := lookup(key); ok && strings.TrimSpace(val) != "" {
			return Region{Name: strings.TrimSpace(val), Source: key}
		}
	}

	return Region{Name: DefaultRegion, Defaulted: true}
}
