// Package retry provides a bounded, fixed-interval retry loop for polling
// operations that may not have finished yet.
//
// The [Do] function runs an operation up to a configured number of attempts,
// sleeping a fixed interval between them. It is used to poll SSM command
// invocations until they reach a terminal status. Errors wrapped with [Fatal]
// stop the loop immediately.
package retry
