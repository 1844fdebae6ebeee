package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	s3output "github.com/imamik/netverify/internal/platform/s3"
	"github.com/imamik/netverify/internal/util/retry"
)

const (
	// ShellDocument is the SSM document used to run shell commands on Linux.
	ShellDocument = "AWS-RunShellScript"

	// TimeoutMessage is the stderr of an outcome whose command never reached
	// a terminal status within the polling budget.
	TimeoutMessage = "Command timeout"

	// NoExitCode marks outcomes without a response code from the instance.
	NoExitCode = -1

	// maxCommentLength is the SSM limit for SendCommand comments.
	maxCommentLength = 100
)

// errPending signals the poller that the invocation has not finished yet.
var errPending = errors.New("command invocation still pending")

// CommandOptions controls a single RunCommand call.
type CommandOptions struct {
	// Timeout is sent as TimeoutSeconds and bounds polling: the invocation
	// is polled Timeout/PollInterval times.
	Timeout      time.Duration
	PollInterval time.Duration
	// Comment is attached to the command, truncated to the SSM limit.
	Comment string
	// OutputBucket, when set, makes SSM write full output to S3 and has
	// RunCommand read it back instead of the truncated inline content.
	OutputBucket    string
	OutputKeyPrefix string
}

// CommandOutcome is the result of a remote command.
type CommandOutcome struct {
	Success   bool
	Stdout    string
	Stderr    string
	ExitCode  int
	CommandID string
	// Status is the final SSM invocation status, empty when none was seen.
	Status string
}

// failedOutcome builds an outcome for a command that produced no result.
func failedOutcome(commandID, stderr string) CommandOutcome {
	return CommandOutcome{
		Success:   false,
		Stderr:    stderr,
		ExitCode:  NoExitCode,
		CommandID: commandID,
	}
}

// RunCommand runs a shell command on one instance through SSM and waits for
// it to finish. It never returns an error: dispatch and polling failures,
// timeouts and cancellation all produce an unsuccessful outcome whose Stderr
// describes what went wrong.
func (c *Client) RunCommand(ctx context.Context, instanceID, command string, opts CommandOptions) CommandOutcome {
	log := c.log.WithValues("instance", instanceID)

	commandID, err := c.sendCommand(ctx, instanceID, command, opts)
	if err != nil {
		log.Info("failed to send command", "error", err.Error())
		return failedOutcome("", fmt.Sprintf("SSM Error: %v", err))
	}
	log = log.WithValues("commandID", commandID)
	log.V(1).Info("command sent", "timeout", opts.Timeout)

	var invocation *ssm.GetCommandInvocationOutput
	err = retry.Do(ctx, func(attempt int) error {
		out, err := c.ssm.GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
			CommandId:  aws.String(commandID),
			InstanceId: aws.String(instanceID),
		})
		if err != nil {
			if IsInvocationPending(err) {
				log.V(1).Info("invocation not registered yet", "attempt", attempt+1)
				return errPending
			}
			return retry.Fatal(fmt.Errorf("failed to get command invocation: %w", err))
		}

		if !isTerminal(out.Status) {
			log.V(1).Info("command still running", "status", string(out.Status), "attempt", attempt+1)
			return errPending
		}

		invocation = out
		return nil
	},
		retry.WithMaxAttempts(retry.AttemptsFor(opts.Timeout, opts.PollInterval)),
		retry.WithInterval(opts.PollInterval))

	if err != nil {
		var fatal *retry.FatalError
		switch {
		case errors.As(err, &fatal):
			log.Info("aborted waiting for command", "error", fatal.Err.Error())
			return failedOutcome(commandID, fmt.Sprintf("SSM Error: %v", fatal.Err))
		case errors.Is(err, retry.ErrExhausted):
			log.V(1).Info("command did not finish in time")
			return failedOutcome(commandID, TimeoutMessage)
		default:
			return failedOutcome(commandID, err.Error())
		}
	}

	outcome := CommandOutcome{
		Success:   invocation.Status == ssmtypes.CommandInvocationStatusSuccess,
		Stdout:    aws.ToString(invocation.StandardOutputContent),
		Stderr:    aws.ToString(invocation.StandardErrorContent),
		ExitCode:  int(invocation.ResponseCode),
		CommandID: commandID,
		Status:    string(invocation.Status),
	}

	if opts.OutputBucket != "" && c.output != nil {
		c.fillFullOutput(ctx, &outcome, instanceID, opts)
	}

	log.V(1).Info("command finished", "status", outcome.Status, "exitCode", outcome.ExitCode)
	return outcome
}

// sendCommand dispatches the command and returns its ID.
func (c *Client) sendCommand(ctx context.Context, instanceID, command string, opts CommandOptions) (string, error) {
	input := &ssm.SendCommandInput{
		InstanceIds:  []string{instanceID},
		DocumentName: aws.String(ShellDocument),
		Parameters: map[string][]string{
			"commands": {command},
		},
		TimeoutSeconds: aws.Int32(int32(opts.Timeout / time.Second)),
	}
	if opts.Comment != "" {
		input.Comment = aws.String(truncate(opts.Comment, maxCommentLength))
	}
	if opts.OutputBucket != "" {
		input.OutputS3BucketName = aws.String(opts.OutputBucket)
		if opts.OutputKeyPrefix != "" {
			input.OutputS3KeyPrefix = aws.String(opts.OutputKeyPrefix)
		}
	}

	out, err := c.ssm.SendCommand(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send command to %s: %w", instanceID, err)
	}
	if out.Command == nil || aws.ToString(out.Command.CommandId) == "" {
		return "", fmt.Errorf("send command to %s returned no command ID", instanceID)
	}
	return aws.ToString(out.Command.CommandId), nil
}

// fillFullOutput replaces the inline output with the complete output from S3.
// The inline output is kept when S3 cannot be read.
func (c *Client) fillFullOutput(ctx context.Context, outcome *CommandOutcome, instanceID string, opts CommandOptions) {
	prefix := s3output.InvocationPrefix(opts.OutputKeyPrefix, outcome.CommandID, instanceID)
	full, err := c.output.FetchCommandOutput(ctx, opts.OutputBucket, prefix)
	if err != nil {
		c.log.Info("warning: keeping inline command output", "bucket", opts.OutputBucket, "prefix", prefix, "error", err.Error())
		return
	}
	outcome.Stdout = full.Stdout
	outcome.Stderr = full.Stderr
}

// isTerminal reports whether an invocation status will not change anymore.
func isTerminal(status ssmtypes.CommandInvocationStatus) bool {
	switch status {
	case ssmtypes.CommandInvocationStatusSuccess,
		ssmtypes.CommandInvocationStatusFailed,
		ssmtypes.CommandInvocationStatusTimedOut,
		ssmtypes.CommandInvocationStatusCancelled:
		return true
	default:
		return false
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
