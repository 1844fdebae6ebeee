// Package config resolves the settings of a verification run.
//
// Settings come from, in increasing precedence: [Default], an optional YAML
// file ([LoadFile]), NETVERIFY_* environment variables ([Config.ApplyEnv]),
// and command-line flags applied by the caller. The AWS region is resolved
// separately by [ResolveRegion] from the standard AWS environment variables.
package config
