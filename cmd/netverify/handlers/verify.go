package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/netverify/internal/config"
	awsplatform "github.com/imamik/netverify/internal/platform/aws"
	"github.com/imamik/netverify/internal/probe"
	"github.com/imamik/netverify/internal/ui/console"
)

// Platform is the AWS surface used by Verify.
type Platform interface {
	probe.CommandRunner
	Region() string
	FindNodes(ctx context.Context) (*awsplatform.Nodes, error)
}

// Factory function variables for verify - can be replaced in tests.
var (
	newPlatform = func(ctx context.Context, opts awsplatform.Options) (Platform, error) {
		return awsplatform.NewClient(ctx, opts)
	}

	loadConfig = func(path string) (*config.Config, error) {
		return config.Load(path, nil)
	}

	newRunID = uuid.NewString

	lookupEnv = os.LookupEnv

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// VerifyOptions carries the verify command flags. Zero values leave the
// configured setting in place.
type VerifyOptions struct {
	ConfigPath   string
	Region       string
	Profile      string
	EndpointURL  string
	Timeout      time.Duration
	PollInterval time.Duration
	OutputBucket string
	OutputPrefix string
	Verbosity    int
}

// Verify handles the verify command.
//
// It resolves the region, finds the blue and orange instances, runs both
// probes and prints the report. A failed lookup returns an error before any
// probe runs. A run where any probe fails returns ErrPolicyViolated, and a
// run cancelled before both probes finished returns ErrInterrupted. Every
// returned error has already been printed and is a *ReportedError.
func Verify(ctx context.Context, opts VerifyOptions) error {
	printer := console.NewAuto(stdout)
	log := newLogger(stderr, opts.Verbosity)

	printer.Start()

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return reportErr(printer, err, err)
	}
	if err := applyFlags(cfg, opts); err != nil {
		return reportErr(printer, err, err)
	}

	region := config.ResolveRegion(lookupEnv)
	if opts.Region != "" {
		region = config.Region{Name: opts.Region, Source: "--region"}
	}
	printer.Region(region)
	log.V(1).Info("resolved region", "region", region.Name, "source", region.Source)

	platform, err := newPlatform(ctx, awsplatform.Options{
		Region:   region.Name,
		Profile:  opts.Profile,
		Endpoint: opts.EndpointURL,
		Logger:   log.WithName("aws"),
	})
	if err != nil {
		return reportErr(printer, err, fmt.Errorf("failed to create AWS client: %w", err))
	}

	nodes, err := platform.FindNodes(ctx)
	if err != nil {
		return reportErr(printer, err, fmt.Errorf("instance lookup failed: %w", err))
	}
	printer.Found(nodes)
	printer.Configuration(nodes)

	probes, err := probe.Plan(nodes, cfg.SSH)
	if err != nil {
		return reportErr(printer, err, err)
	}

	runID := newRunID()
	log.Info("running probes", "runID", runID, "region", platform.Region(),
		"blue", nodes.Blue.ID, "orange", nodes.Orange.ID)

	runner := probe.NewRunner(platform, awsplatform.CommandOptions{
		Timeout:         cfg.Command.Timeout,
		PollInterval:    cfg.Command.PollInterval,
		OutputBucket:    cfg.Output.Bucket,
		OutputKeyPrefix: cfg.Output.KeyPrefix,
	}, printer, log.WithName("probe"), runID)

	results := runner.Run(ctx, probes)
	summary := probe.Summarize(results)
	// Probes skipped after cancellation count as not passed.
	summary.Total = len(probes)
	printer.Summary(summary)

	if err := ctx.Err(); err != nil {
		interrupted := fmt.Errorf("%w: %w", ErrInterrupted, err)
		return reportErr(printer, interrupted, interrupted)
	}
	if !summary.AllPassed() {
		return &ReportedError{Err: fmt.Errorf("%w: %d/%d tests passed", ErrPolicyViolated, summary.Passed, summary.Total)}
	}
	return nil
}

// applyFlags overlays command-line overrides onto cfg and revalidates it.
func applyFlags(cfg *config.Config, opts VerifyOptions) error {
	changed := false
	if opts.Timeout > 0 {
		cfg.Command.Timeout = opts.Timeout
		changed = true
	}
	if opts.PollInterval > 0 {
		cfg.Command.PollInterval = opts.PollInterval
		changed = true
	}
	if opts.OutputBucket != "" {
		cfg.Output.Bucket = opts.OutputBucket
		changed = true
	}
	if opts.OutputPrefix != "" {
		cfg.Output.KeyPrefix = opts.OutputPrefix
		changed = true
	}
	if !changed {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
