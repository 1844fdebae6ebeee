package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/netverify/cmd/netverify/handlers"
)

// Verify returns the verify command.
//
// The verify command finds the blue and orange instances, runs both SSH
// probes through SSM and exits non-zero unless blue reaches orange and
// orange is refused by blue.
func Verify(global *globalOptions) *cobra.Command {
	opts := handlers.VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that blue can SSH to orange and orange cannot SSH to blue",
		Long: `Verify runs two SSH probes through AWS Systems Manager Run Command.

Instances are found by their Name tag: any running instance whose name
contains "blue" or "orange". Exactly one of each must exist.

  Test 1: blue runs ssh with the configured key against orange and must succeed.
  Test 2: orange runs ssh without a key against blue and must be refused.

The region comes from --region, AWS_DEFAULT_REGION, AWS_REGION, or defaults
to us-east-1. Credentials come from the standard AWS credential chain.

Example:
  netverify verify
  netverify verify --region eu-west-1 -c netverify.yaml
  netverify verify --output-bucket my-ssm-logs -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Verbosity = global.verbosity
			return handlers.Verify(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: ./netverify.yaml if present)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "AWS region (overrides AWS_DEFAULT_REGION and AWS_REGION)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "Shared config profile to use")
	cmd.Flags().StringVar(&opts.EndpointURL, "endpoint-url", "", "Override the AWS endpoint for EC2, SSM and S3")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Per-probe command timeout (default 30s)")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", 0, "Interval between command status checks (default 2s)")
	cmd.Flags().StringVar(&opts.OutputBucket, "output-bucket", "", "S3 bucket receiving full command output")
	cmd.Flags().StringVar(&opts.OutputPrefix, "output-prefix", "", "Key prefix for command output in S3 (default netverify)")

	return cmd
}
