package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	awsplatform "github.com/imamik/netverify/internal/platform/aws"
	"github.com/imamik/netverify/internal/probe"
)

// MockPlatform is a mock of the AWS platform the verify handler talks to.
type MockPlatform struct {
	mock.Mock
}

// Region returns the mocked region.
func (m *MockPlatform) Region() string {
	args := m.Called()
	return args.String(0)
}

// FindNodes returns the mocked blue/orange pair.
func (m *MockPlatform) FindNodes(ctx context.Context) (*awsplatform.Nodes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awsplatform.Nodes), args.Error(1)
}

// RunCommand returns the mocked outcome for a command on an instance.
func (m *MockPlatform) RunCommand(ctx context.Context, instanceID, command string, opts awsplatform.CommandOptions) awsplatform.CommandOutcome {
	args := m.Called(ctx, instanceID, command, opts)
	return args.Get(0).(awsplatform.CommandOutcome)
}

// MockReporter is a mock of probe.Reporter.
type MockReporter struct {
	mock.Mock
}

// ProbeStarted records the start of a probe.
func (m *MockReporter) ProbeStarted(index int, p probe.Probe) {
	m.Called(index, p)
}

// ProbeFinished records a probe result.
func (m *MockReporter) ProbeFinished(index int, r probe.Result) {
	m.Called(index, r)
}
