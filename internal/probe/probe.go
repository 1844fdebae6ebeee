package probe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	awsplatform "github.com/imamik/netverify/internal/platform/aws"
)

// Sentinel is echoed by the target when an SSH session was established.
const Sentinel = "SSH_SUCCESS"

// DetailLimit caps how many characters of captured output are reported.
const DetailLimit = 200

// Expectation is what a probe requires of the SSH attempt.
type Expectation int

const (
	// ExpectReachable passes when the source can log in to the target.
	ExpectReachable Expectation = iota
	// ExpectBlocked passes when the source cannot log in to the target.
	ExpectBlocked
)

func (e Expectation) String() string {
	switch e {
	case ExpectReachable:
		return "reachable"
	case ExpectBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("Expectation(%d)", int(e))
	}
}

// Probe is one directional SSH check.
type Probe struct {
	// Title is the headline, e.g. "Blue can SSH to Orange".
	Title       string
	PassMessage string
	FailMessage string

	Source  awsplatform.Instance
	Target  awsplatform.Instance
	Expect  Expectation
	Command string
}

// Reached reports whether the outcome proves an SSH session was established.
func Reached(o awsplatform.CommandOutcome) bool {
	return o.Success && strings.Contains(o.Stdout, Sentinel)
}

// Evaluate reports whether the outcome satisfies the probe's expectation.
func (p Probe) Evaluate(o awsplatform.CommandOutcome) bool {
	if p.Expect == ExpectReachable {
		return Reached(o)
	}
	return !Reached(o)
}

// Detail is one labelled line of failure diagnostics.
type Detail struct {
	Label string
	Value string
}

// Result is the evaluated outcome of a probe.
type Result struct {
	Probe    Probe
	Outcome  awsplatform.CommandOutcome
	Passed   bool
	Duration time.Duration

	// Interrupted is set when the run was cancelled while the probe ran.
	// An interrupted probe never passes.
	Interrupted bool
}

// FailureDetails returns what is reported when the probe failed. A probe
// that should have connected reports exit code and both streams; a probe
// that connected when it should not have only shows what the target printed.
func (r Result) FailureDetails() []Detail {
	if r.Passed {
		return nil
	}
	if r.Probe.Expect == ExpectBlocked {
		return []Detail{
			{Label: "Stdout", Value: Truncate(r.Outcome.Stdout, DetailLimit)},
		}
	}
	return []Detail{
		{Label: "Exit code", Value: strconv.Itoa(r.Outcome.ExitCode)},
		{Label: "Stdout", Value: Truncate(r.Outcome.Stdout, DetailLimit)},
		{Label: "Stderr", Value: Truncate(r.Outcome.Stderr, DetailLimit)},
	}
}

// Summary aggregates probe results.
type Summary struct {
	Passed int
	Total  int
}

// Summarize counts passed probes.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		}
	}
	return s
}

// AllPassed reports whether every probe passed. An empty run does not pass.
func (s Summary) AllPassed() bool {
	return s.Total > 0 && s.Passed == s.Total
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
