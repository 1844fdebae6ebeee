// Package testing provides mocks, builders and fixtures shared by the
// handler and command tests.
//
//   - MockPlatform: testify mock for the AWS platform used by the verify handler
//   - MockReporter: testify mock for probe progress reporting
//   - ConfigBuilder: fluent builder for verification configs
//   - NodesFixture: blue/orange instances and canned command outcomes
//
// Usage:
//
//	fixture := testing.NewNodesFixture()
//	platform := fixture.PolicyHolds()
//	cfg := testing.NewConfigBuilder().WithOutputBucket("logs").Build()
package testing
