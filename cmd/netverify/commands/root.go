// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/netverify/cmd/netverify/handlers"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	envFile   string
	verbosity int
}

// Root returns the root command for the netverify CLI.
//
// The root command loads the optional .env file before any subcommand runs
// so AWS credentials and netverify timeouts can be kept next to the project.
func Root() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "netverify",
		Short: "Verify the blue/orange SSH network policy on EC2",
		// main prints the returned error.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.LoadEnvFile(opts.envFile, cmd.Flags().Changed("env-file"))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", handlers.DefaultEnvFile, "Path to a .env file loaded before running")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(Verify(opts))
	cmd.AddCommand(Version())

	return cmd
}
