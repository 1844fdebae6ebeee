package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	awsplatform "github.com/imamik/netverify/internal/platform/aws"
)

// CommandRunner executes a shell command on an instance.
type CommandRunner interface {
	RunCommand(ctx context.Context, instanceID, command string, opts awsplatform.CommandOptions) awsplatform.CommandOutcome
}

// Reporter is told about probe progress.
type Reporter interface {
	ProbeStarted(index int, p Probe)
	ProbeFinished(index int, r Result)
}

// Runner executes probes sequentially.
type Runner struct {
	commands CommandRunner
	opts     awsplatform.CommandOptions
	reporter Reporter
	log      logr.Logger
	runID    string
}

// NewRunner creates a Runner. runID is attached to every dispatched command
// so a run can be found in the SSM command history.
func NewRunner(commands CommandRunner, opts awsplatform.CommandOptions, reporter Reporter, log logr.Logger, runID string) *Runner {
	return &Runner{
		commands: commands,
		opts:     opts,
		reporter: reporter,
		log:      log,
		runID:    runID,
	}
}

// Run executes the probes in order and returns one result per started probe.
// A failed probe does not stop the run. A cancelled context does: the probe
// in flight is recorded as not passed and no further probe is started.
func (r *Runner) Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, 0, len(probes))

	for i, p := range probes {
		if ctx.Err() != nil {
			r.log.Info("run interrupted, skipping remaining probes", "skipped", len(probes)-i)
			break
		}
		if r.reporter != nil {
			r.reporter.ProbeStarted(i, p)
		}

		opts := r.opts
		opts.Comment = fmt.Sprintf("netverify %s: %s", r.runID, p.Title)

		log := r.log.WithValues("probe", p.Title, "source", p.Source.ID, "target", p.Target.PrivateIP)
		log.V(1).Info("running probe", "expect", p.Expect.String())

		start := time.Now()
		outcome := r.commands.RunCommand(ctx, p.Source.ID, p.Command, opts)
		result := Result{
			Probe:    p,
			Outcome:  outcome,
			Passed:   p.Evaluate(outcome),
			Duration: time.Since(start),
		}
		if ctx.Err() != nil {
			result.Passed = false
			result.Interrupted = true
		}

		log.V(1).Info("probe finished", "passed", result.Passed, "reached", Reached(outcome), "duration", result.Duration.Round(time.Millisecond).String())

		if r.reporter != nil {
			r.reporter.ProbeFinished(i, result)
		}
		results = append(results, result)
	}

	return results
}
