// Package aws wraps the EC2, SSM and S3 APIs used to verify the blue/orange
// SSH policy.
//
// # Overview
//
//   - client.go: builds one shared aws.Config and the service clients
//   - instances.go: looks up the running blue and orange instances by Name tag
//   - command.go: dispatches a shell command through SSM Run Command and
//     polls the invocation until it reaches a terminal status
//   - errors.go: classifies SSM errors that mean "not visible yet"
//
// Every call that talks to AWS takes a context. Command execution never
// returns an error: API failures, timeouts and cancellation all become a
// failed [CommandOutcome] so the caller can report them as a probe failure.
package aws
