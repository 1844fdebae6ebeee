package aws

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3output "github.com/imamik/netverify/internal/platform/s3"
)

func fastOpts() CommandOptions {
	return CommandOptions{
		Timeout:      30 * time.Millisecond,
		PollInterval: 2 * time.Millisecond,
	}
}

// invocations returns a poll function replaying the given results in order,
// repeating the last one.
func invocations(results ...any) func(context.Context, *ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error) {
	i := 0
	return func(context.Context, *ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error) {
		r := results[min(i, len(results)-1)]
		i++
		switch v := r.(type) {
		case error:
			return nil, v
		case *ssm.GetCommandInvocationOutput:
			return v, nil
		}
		panic("unexpected result type")
	}
}

func status(s ssmtypes.CommandInvocationStatus) *ssm.GetCommandInvocationOutput {
	return &ssm.GetCommandInvocationOutput{Status: s}
}

func TestRunCommand_Success(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: sentCommand("cmd-1"),
		GetCommandInvocationFunc: invocations(
			&ssmtypes.InvocationDoesNotExist{Message: aws.String("not yet")},
			status(ssmtypes.CommandInvocationStatusPending),
			status(ssmtypes.CommandInvocationStatusInProgress),
			&ssm.GetCommandInvocationOutput{
				Status:                ssmtypes.CommandInvocationStatusSuccess,
				StandardOutputContent: aws.String("SSH_SUCCESS\n"),
				StandardErrorContent:  aws.String(""),
				ResponseCode:          0,
			},
		),
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(context.Background(), "i-blue", "echo SSH_SUCCESS", fastOpts())

	assert.True(t, outcome.Success)
	assert.Equal(t, "SSH_SUCCESS\n", outcome.Stdout)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, "cmd-1", outcome.CommandID)
	assert.Equal(t, "Success", outcome.Status)
	assert.Equal(t, 4, ssmAPI.polls)
}

func TestRunCommand_SendCommandInput(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc:          sentCommand("cmd-1"),
		GetCommandInvocationFunc: invocations(status(ssmtypes.CommandInvocationStatusSuccess)),
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	opts := CommandOptions{
		Timeout:         45 * time.Second,
		PollInterval:    time.Millisecond,
		Comment:         "netverify " + strings.Repeat("x", 200),
		OutputBucket:    "probe-output",
		OutputKeyPrefix: "runs",
	}
	client.RunCommand(context.Background(), "i-blue", "hostname", opts)

	require.Len(t, ssmAPI.sent, 1)
	in := ssmAPI.sent[0]
	assert.Equal(t, []string{"i-blue"}, in.InstanceIds)
	assert.Equal(t, "AWS-RunShellScript", aws.ToString(in.DocumentName))
	assert.Equal(t, map[string][]string{"commands": {"hostname"}}, in.Parameters)
	assert.Equal(t, int32(45), aws.ToInt32(in.TimeoutSeconds))
	assert.Len(t, aws.ToString(in.Comment), 100)
	assert.Equal(t, "probe-output", aws.ToString(in.OutputS3BucketName))
	assert.Equal(t, "runs", aws.ToString(in.OutputS3KeyPrefix))
}

func TestRunCommand_Failed(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: sentCommand("cmd-2"),
		GetCommandInvocationFunc: invocations(&ssm.GetCommandInvocationOutput{
			Status:               ssmtypes.CommandInvocationStatusFailed,
			StandardErrorContent: aws.String("Permission denied (publickey).\n"),
			ResponseCode:         255,
		}),
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(context.Background(), "i-orange", "ssh blue", fastOpts())

	assert.False(t, outcome.Success)
	assert.Equal(t, 255, outcome.ExitCode)
	assert.Contains(t, outcome.Stderr, "Permission denied")
	assert.Equal(t, "Failed", outcome.Status)
}

func TestRunCommand_OtherTerminalStatuses(t *testing.T) {
	t.Parallel()

	for _, s := range []ssmtypes.CommandInvocationStatus{
		ssmtypes.CommandInvocationStatusTimedOut,
		ssmtypes.CommandInvocationStatusCancelled,
	} {
		t.Run(string(s), func(t *testing.T) {
			t.Parallel()
			ssmAPI := &mockSSM{
				SendCommandFunc:          sentCommand("cmd"),
				GetCommandInvocationFunc: invocations(status(s)),
			}
			client := newTestClient(t, nil, ssmAPI, nil)

			outcome := client.RunCommand(context.Background(), "i-1", "true", fastOpts())
			assert.False(t, outcome.Success)
			assert.Equal(t, string(s), outcome.Status)
			assert.Equal(t, 1, ssmAPI.polls)
		})
	}
}

func TestRunCommand_Timeout(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc:          sentCommand("cmd-3"),
		GetCommandInvocationFunc: invocations(status(ssmtypes.CommandInvocationStatusInProgress)),
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(context.Background(), "i-blue", "sleep 600", fastOpts())

	assert.Equal(t, CommandOutcome{
		Success:   false,
		Stderr:    "Command timeout",
		ExitCode:  -1,
		CommandID: "cmd-3",
	}, outcome)
	// 30ms budget / 2ms interval.
	assert.Equal(t, 15, ssmAPI.polls)
}

func TestRunCommand_PollCountWithinBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		timeout  time.Duration
		interval time.Duration
	}{
		{30 * time.Millisecond, 2 * time.Millisecond},
		{31 * time.Millisecond, 2 * time.Millisecond},
		{7 * time.Millisecond, 2 * time.Millisecond},
		{time.Millisecond, 2 * time.Millisecond},
	}

	for _, tt := range tests {
		ssmAPI := &mockSSM{
			SendCommandFunc:          sentCommand("cmd"),
			GetCommandInvocationFunc: invocations(&ssmtypes.InvocationDoesNotExist{}),
		}
		client := newTestClient(t, nil, ssmAPI, nil)

		outcome := client.RunCommand(context.Background(), "i-1", "true", CommandOptions{Timeout: tt.timeout, PollInterval: tt.interval})

		ceil := int((tt.timeout + tt.interval - 1) / tt.interval)
		assert.Equal(t, TimeoutMessage, outcome.Stderr)
		assert.LessOrEqual(t, ssmAPI.polls, max(ceil, 1), "timeout %v interval %v", tt.timeout, tt.interval)
		assert.GreaterOrEqual(t, ssmAPI.polls, 1)
	}
}

func TestRunCommand_PollErrorAborts(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: sentCommand("cmd-4"),
		GetCommandInvocationFunc: invocations(
			&ssmtypes.InvocationDoesNotExist{},
			&ssmtypes.InvalidInstanceId{Message: aws.String("instance not managed")},
		),
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(context.Background(), "i-gone", "true", fastOpts())

	assert.False(t, outcome.Success)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Equal(t, "cmd-4", outcome.CommandID)
	assert.True(t, strings.HasPrefix(outcome.Stderr, "SSM Error: failed to get command invocation"), outcome.Stderr)
	assert.Contains(t, outcome.Stderr, "instance not managed")
	assert.Equal(t, 2, ssmAPI.polls)
}

func TestRunCommand_SendError(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: func(context.Context, *ssm.SendCommandInput) (*ssm.SendCommandOutput, error) {
			return nil, errors.New("AccessDeniedException: not authorized")
		},
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(context.Background(), "i-blue", "true", fastOpts())

	assert.False(t, outcome.Success)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.True(t, strings.HasPrefix(outcome.Stderr, "SSM Error: failed to send command to i-blue"), outcome.Stderr)
	assert.Contains(t, outcome.Stderr, "not authorized")
	assert.Equal(t, 0, ssmAPI.polls)
}

func TestRunCommand_SendReturnsNoID(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: func(context.Context, *ssm.SendCommandInput) (*ssm.SendCommandOutput, error) {
			return &ssm.SendCommandOutput{}, nil
		},
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(context.Background(), "i-blue", "true", fastOpts())
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Stderr, "returned no command ID")
}

func TestRunCommand_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	ssmAPI := &mockSSM{
		SendCommandFunc: sentCommand("cmd-5"),
		GetCommandInvocationFunc: func(context.Context, *ssm.GetCommandInvocationInput) (*ssm.GetCommandInvocationOutput, error) {
			cancel()
			return status(ssmtypes.CommandInvocationStatusInProgress), nil
		},
	}
	client := newTestClient(t, nil, ssmAPI, nil)

	outcome := client.RunCommand(ctx, "i-blue", "true", CommandOptions{Timeout: time.Minute, PollInterval: time.Second})

	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Stderr, context.Canceled.Error())
	assert.Equal(t, 1, ssmAPI.polls)
}

func TestRunCommand_FullOutputFromS3(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: sentCommand("cmd-6"),
		GetCommandInvocationFunc: invocations(&ssm.GetCommandInvocationOutput{
			Status:                ssmtypes.CommandInvocationStatusSuccess,
			StandardOutputContent: aws.String("truncated..."),
		}),
	}
	output := &mockOutput{out: &s3output.CommandOutput{Stdout: "full stdout\nSSH_SUCCESS\n", Stderr: "full stderr"}}
	client := newTestClient(t, nil, ssmAPI, output)

	opts := fastOpts()
	opts.OutputBucket = "probe-output"
	opts.OutputKeyPrefix = "netverify"
	outcome := client.RunCommand(context.Background(), "i-blue", "true", opts)

	assert.True(t, outcome.Success)
	assert.Equal(t, "full stdout\nSSH_SUCCESS\n", outcome.Stdout)
	assert.Equal(t, "full stderr", outcome.Stderr)
	assert.Equal(t, "probe-output", output.bucket)
	assert.Equal(t, []string{"netverify/cmd-6/i-blue/"}, output.prefixes)
}

func TestRunCommand_FullOutputFallsBackToInline(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc: sentCommand("cmd-7"),
		GetCommandInvocationFunc: invocations(&ssm.GetCommandInvocationOutput{
			Status:                ssmtypes.CommandInvocationStatusSuccess,
			StandardOutputContent: aws.String("SSH_SUCCESS\n"),
		}),
	}
	output := &mockOutput{err: s3output.ErrNoOutput}
	client := newTestClient(t, nil, ssmAPI, output)

	opts := fastOpts()
	opts.OutputBucket = "probe-output"
	outcome := client.RunCommand(context.Background(), "i-blue", "true", opts)

	assert.True(t, outcome.Success)
	assert.Equal(t, "SSH_SUCCESS\n", outcome.Stdout)
}

func TestRunCommand_NoS3WithoutBucket(t *testing.T) {
	t.Parallel()

	ssmAPI := &mockSSM{
		SendCommandFunc:          sentCommand("cmd-8"),
		GetCommandInvocationFunc: invocations(status(ssmtypes.CommandInvocationStatusSuccess)),
	}
	output := &mockOutput{}
	client := newTestClient(t, nil, ssmAPI, output)

	client.RunCommand(context.Background(), "i-blue", "true", fastOpts())
	assert.Empty(t, output.prefixes)
	assert.Nil(t, ssmAPI.sent[0].OutputS3BucketName)
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	terminal := []ssmtypes.CommandInvocationStatus{"Success", "Failed", "TimedOut", "Cancelled"}
	pending := []ssmtypes.CommandInvocationStatus{"Pending", "InProgress", "Delayed", "Cancelling", ""}

	for _, s := range terminal {
		assert.True(t, isTerminal(s), s)
	}
	for _, s := range pending {
		assert.False(t, isTerminal(s), s)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "äö", truncate("äöü", 2))
}
