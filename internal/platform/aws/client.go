package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go/logging"
	"github.com/go-logr/logr"

	s3output "github.com/imamik/netverify/internal/platform/s3"
)

// EC2API is the subset of the EC2 client used for instance lookup.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// SSMAPI is the subset of the SSM client used for Run Command.
type SSMAPI interface {
	SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
	GetCommandInvocation(ctx context.Context, params *ssm.GetCommandInvocationInput, optFns ...func(*ssm.Options)) (*ssm.GetCommandInvocationOutput, error)
}

// OutputFetcher reads full command output written to S3.
type OutputFetcher interface {
	FetchCommandOutput(ctx context.Context, bucketName, prefix string) (*s3output.CommandOutput, error)
}

// Options configures NewClient.
type Options struct {
	Region string
	// Profile selects a shared config profile. Empty uses the default chain.
	Profile string
	// Endpoint overrides the service endpoint for all clients, e.g. for
	// LocalStack. S3 switches to path-style addressing when it is set.
	Endpoint string
	// Credentials overrides the default credential chain when non-nil.
	Credentials aws.CredentialsProvider
	Logger      logr.Logger
}

// Client talks to EC2, SSM and S3 in a single region.
type Client struct {
	ec2    EC2API
	ssm    SSMAPI
	output OutputFetcher
	log    logr.Logger
	region string
}

// NewClient loads the AWS configuration from the environment and builds
// the service clients from it.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	log := opts.Logger

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
		config.WithLogger(sdkLogger(log)),
		config.WithClientLogMode(aws.LogRetries),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Credentials != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(opts.Credentials))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var endpoint *string
	if opts.Endpoint != "" {
		endpoint = aws.String(opts.Endpoint)
	}

	return &Client{
		ec2: ec2.NewFromConfig(cfg, func(o *ec2.Options) {
			o.BaseEndpoint = endpoint
		}),
		ssm: ssm.NewFromConfig(cfg, func(o *ssm.Options) {
			o.BaseEndpoint = endpoint
		}),
		output: s3output.NewOutputStore(cfg, func(o *s3.Options) {
			o.BaseEndpoint = endpoint
			o.UsePathStyle = endpoint != nil
		}),
		log:    log,
		region: cfg.Region,
	}, nil
}

// Region returns the region the clients were built for.
func (c *Client) Region() string {
	return c.region
}

// sdkLogger forwards SDK retry logging to the logger at V(2).
func sdkLogger(log logr.Logger) logging.Logger {
	sdkLog := log.WithName("sdk").V(2)
	return logging.LoggerFunc(func(classification logging.Classification, format string, v ...interface{}) {
		sdkLog.Info(fmt.Sprintf(format, v...), "classification", string(classification))
	})
}
