package wizard

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user backs out of a prompt. It aborts
// the wizard without executing anything and is never shown as an error.
var ErrCancelled = errors.New("operation cancelled")

// Phase identifies which half of a run a step failed in.
type Phase string

const (
	PhasePrompt  Phase = "prompt"
	PhaseExecute Phase = "execute"
)

// StepError records which step failed.
type StepError struct {
	Phase  Phase
	StepID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step %q: %v", e.Phase, e.StepID, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// InternalError reports a broken precondition, such as a step reading a
// context field no earlier step wrote. It indicates a bug in step ordering
// rather than bad user input.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// IsCancelled reports whether err is a user or context cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// MarkReported wraps err to record that the user has already seen it.
func MarkReported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was marked with MarkReported.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
