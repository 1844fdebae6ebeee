package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/imamik/netverify/internal/config"
	awsplatform "github.com/imamik/netverify/internal/platform/aws"
	"github.com/imamik/netverify/internal/probe"
)

const (
	passMark = "PASS"
	failMark = "FAIL"
)

// Printer writes report lines to an io.Writer.
type Printer struct {
	w     io.Writer
	paint paint
}

// New returns a Printer. Styling is applied only when styled is true.
func New(w io.Writer, styled bool) *Printer {
	return &Printer{w: w, paint: paint(styled)}
}

// NewAuto returns a Printer that styles output when w is a terminal.
func NewAuto(w io.Writer) *Printer {
	return New(w, IsTerminal(w))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Start prints the opening line of a run.
func (p *Printer) Start() {
	p.line("%s", p.paint.render(titleStyle, "Starting infrastructure tests..."))
}

// Region reports which region the run uses.
func (p *Printer) Region(r config.Region) {
	if r.Defaulted {
		p.line("%s", p.paint.render(warningStyle, "WARNING: No AWS region specified, using default: "+r.Name))
		return
	}
	p.line("Using AWS region: %s", r.Name)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	p.line("%s", p.paint.render(failStyle, "ERROR: "+msg))
}

// Found reports the discovered instances by their full Name tag.
func (p *Printer) Found(nodes *awsplatform.Nodes) {
	p.line("%s", p.paint.render(passStyle, fmt.Sprintf("SUCCESS: Found instances: [%s, %s]", nodes.Blue.Name, nodes.Orange.Name)))
}

// Configuration prints the instance IDs and addresses under test.
func (p *Printer) Configuration(nodes *awsplatform.Nodes) {
	p.line("")
	p.line("%s", p.paint.render(sectionStyle, "Test Configuration:"))
	p.line("   Blue: %s (%s)", nodes.Blue.ID, nodes.Blue.PrivateIP)
	p.line("   Orange: %s (%s)", nodes.Orange.ID, nodes.Orange.PrivateIP)
}

// ProbeStarted prints the probe headline.
func (p *Printer) ProbeStarted(index int, pr probe.Probe) {
	p.line("")
	p.line("%s", p.paint.render(sectionStyle, fmt.Sprintf("Test %d: %s (%s)", index+1, pr.Title, pr.Target.PrivateIP)))
}

// ProbeFinished prints the verdict and, on failure, the captured output.
func (p *Printer) ProbeFinished(_ int, r probe.Result) {
	if r.Passed {
		p.line("   %s: %s", p.paint.render(passStyle, passMark), r.Probe.PassMessage)
		return
	}
	if r.Interrupted {
		p.line("   %s: %s (interrupted before completion)", p.paint.render(failStyle, failMark), r.Probe.Title)
		return
	}
	p.line("   %s: %s", p.paint.render(failStyle, failMark), r.Probe.FailMessage)
	for _, d := range r.FailureDetails() {
		p.line("      %s: %s", d.Label, oneLine(d.Value))
	}
}

// Summary prints the totals and the overall verdict.
func (p *Printer) Summary(s probe.Summary) {
	p.line("")
	p.line("%s", p.paint.render(titleStyle, fmt.Sprintf("Test Results: %d/%d tests passed", s.Passed, s.Total)))
	if s.AllPassed() {
		p.line("%s", p.paint.render(passStyle, "SUCCESS: ALL TESTS PASSED! Infrastructure is working correctly."))
		return
	}
	p.line("%s", p.paint.render(failStyle, "ERROR: SOME TESTS FAILED! Check the infrastructure configuration."))
}

// oneLine keeps multi-line output aligned under its label.
func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n         ")
}
