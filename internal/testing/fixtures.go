package testing

import (
	"github.com/stretchr/testify/mock"

	awsplatform "github.com/imamik/netverify/internal/platform/aws"
)

// FixtureRegion is the region reported by fixture platforms.
const FixtureRegion = "us-east-1"

// NodesFixture builds platform mocks for common verification scenarios.
type NodesFixture struct {
	Nodes *awsplatform.Nodes
}

// NewNodesFixture returns a fixture with instances named "blue-server" and
// "orange-server".
func NewNodesFixture() *NodesFixture {
	return &NodesFixture{
		Nodes: &awsplatform.Nodes{
			Blue: awsplatform.Instance{
				ID:        "i-0blue",
				PrivateIP: "10.0.1.10",
				Name:      "blue-server",
				Canonical: "blue",
			},
			Orange: awsplatform.Instance{
				ID:        "i-0orange",
				PrivateIP: "10.0.1.20",
				Name:      "orange-server",
				Canonical: "orange",
			},
		},
	}
}

// ConnectedOutcome is what a successful ssh probe returns.
func ConnectedOutcome() awsplatform.CommandOutcome {
	return awsplatform.CommandOutcome{Success: true, Stdout: "SSH_SUCCESS\n", ExitCode: 0, Status: "Success"}
}

// DeniedOutcome is what an ssh probe rejected by the target returns.
func DeniedOutcome() awsplatform.CommandOutcome {
	return awsplatform.CommandOutcome{
		Success:  false,
		Stderr:   "ubuntu@10.0.1.10: Permission denied (publickey).",
		ExitCode: 255,
		Status:   "Failed",
	}
}

// TimeoutOutcome is what RunCommand returns when polling runs out.
func TimeoutOutcome() awsplatform.CommandOutcome {
	return awsplatform.CommandOutcome{Success: false, Stderr: awsplatform.TimeoutMessage, ExitCode: awsplatform.NoExitCode}
}

// Platform returns a mock that finds the fixture nodes and returns the given
// outcomes for the blue and orange probes.
func (f *NodesFixture) Platform(blue, orange awsplatform.CommandOutcome) *MockPlatform {
	m := &MockPlatform{}
	m.On("Region").Return(FixtureRegion).Maybe()
	m.On("FindNodes", mock.Anything).Return(f.Nodes, nil)
	m.On("RunCommand", mock.Anything, f.Nodes.Blue.ID, mock.Anything, mock.Anything).Return(blue)
	m.On("RunCommand", mock.Anything, f.Nodes.Orange.ID, mock.Anything, mock.Anything).Return(orange)
	return m
}

// PolicyHolds returns a mock where blue reaches orange and orange is denied.
func (f *NodesFixture) PolicyHolds() *MockPlatform {
	return f.Platform(ConnectedOutcome(), DeniedOutcome())
}

// LookupFails returns a mock whose instance lookup fails with err.
func (f *NodesFixture) LookupFails(err error) *MockPlatform {
	m := &MockPlatform{}
	m.On("Region").Return(FixtureRegion).Maybe()
	m.On("FindNodes", mock.Anything).Return(nil, err)
	return m
}
