package handlers

import (
	"errors"

	"github.com/imamik/netverify/internal/ui/console"
)

// ErrPolicyViolated is returned when at least one probe did not pass.
var ErrPolicyViolated = errors.New("network policy verification failed")

// ErrInterrupted is returned when the run was cancelled before every probe
// finished. Such a run never counts as passed.
var ErrInterrupted = errors.New("verification interrupted")

// ReportedError wraps an error that has already been shown to the user in
// the console report. main exits non-zero without printing it again.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// IsReported reports whether err was already printed by a handler.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

// reportErr prints shown as an ERROR line and returns err marked as reported.
func reportErr(printer *console.Printer, shown, err error) error {
	printer.Error(shown.Error())
	return &ReportedError{Err: err}
}
