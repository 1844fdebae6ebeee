package aws

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/go-logr/logr/testr"

	s3output "github.com/imamik/netverify/internal/platform/s3"
)

// mockEC2 serves DescribeInstances from a fixed list of pages.
type mockEC2 struct {
	pages  []*ec2.DescribeInstancesOutput
	err    error
	inputs []*ec2.DescribeInstancesInput
}

func (m *mockEC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.inputs) - 1
	if idx >= len(m.pages) {
		return &ec2.DescribeInstancesOutput{}, nil
	}
	page := *m.pages[idx]
	if idx < len(m.pages)-1 {
		page.NextToken = aws.String(fmt.Sprintf("page-%d", idx+1))
	}
	return &page, nil
}

// mockSSM delegates to function fields.
type mockSSM struct {
	SendCommandFunc          func(ctx context.Context, params *ssm.SendCommandInput) (*ssm.SendCommandOutput, error)
	GetCommandInvocationFunc func(ctx context.Context, params *ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error)

	sent  []*ssm.SendCommandInput
	polls int
}

func (m *mockSSM) SendCommand(ctx context.Context, params *ssm.SendCommandInput, _ ...func(*ssm.Options)) (*ssm.SendCommandOutput, error) {
	m.sent = append(m.sent, params)
	return m.SendCommandFunc(ctx, params)
}

func (m *mockSSM) GetCommandInvocation(ctx context.Context, params *ssm.GetCommandInvocationInput, _ ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error) {
	m.polls++
	return m.GetCommandInvocationFunc(ctx, params)
}

// mockOutput returns a fixed S3 output or error.
type mockOutput struct {
	out      *s3output.CommandOutput
	err      error
	bucket   string
	prefixes []string
}

func (m *mockOutput) FetchCommandOutput(_ context.Context, bucketName, prefix string) (*s3output.CommandOutput, error) {
	m.bucket = bucketName
	m.prefixes = append(m.prefixes, prefix)
	return m.out, m.err
}

func sentCommand(id string) func(context.Context, *ssm.SendCommandInput) (*ssm.SendCommandOutput, error) {
	return func(context.Context, *ssm.SendCommandInput) (*ssm.SendCommandOutput, error) {
		return &ssm.SendCommandOutput{Command: &ssmtypes.Command{CommandId: aws.String(id)}}, nil
	}
}

func newTestClient(t *testing.T, ec2API EC2API, ssmAPI SSMAPI, output OutputFetcher) *Client {
	t.Helper()
	return &Client{
		ec2:    ec2API,
		ssm:    ssmAPI,
		output: output,
		log:    testr.New(t),
		region: "us-east-1",
	}
}

func instance(id, ip, name string) ec2types.Instance {
	inst := ec2types.Instance{
		InstanceId:       aws.String(id),
		PrivateIpAddress: aws.String(ip),
	}
	if name != "" {
		inst.Tags = []ec2types.Tag{
			{Key: aws.String("Environment"), Value: aws.String("test")},
			{Key: aws.String("Name"), Value: aws.String(name)},
		}
	}
	return inst
}

func reservations(instances ...ec2types.Instance) *ec2.DescribeInstancesOutput {
	return &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: instances}},
	}
}

// Short aliases for table-driven tests.
type (
	ec2DescribeOutput = ec2.DescribeInstancesOutput
	ec2Instance       = ec2types.Instance
)
