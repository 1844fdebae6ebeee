// Package main is the entry point for the netverify CLI.
//
// netverify checks an asymmetric SSH policy between two EC2 instances
// tagged "blue" and "orange": blue must be able to SSH to orange, and
// orange must be refused when it tries to SSH to blue. Probes run on the
// instances themselves through SSM Run Command.
//
// For detailed usage information, run:
//
//	netverify --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/netverify/cmd/netverify/commands"
	"github.com/imamik/netverify/cmd/netverify/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !handlers.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
