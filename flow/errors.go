package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAborted indicates the user declined a confirmation before any
// further mutation. It is a clean stop, not a failure.
var ErrAborted = errors.New("aborted")

// StepError describes a failed workflow step with enough context for
// the user to fix it and re-run.
type StepError struct {
	// Step names the workflow step that failed.
	Step string

	// Message is a user-friendly description of what went wrong.
	Message string

	// Details provides additional context, such as command output.
	Details string

	// Suggestion is an actionable hint for the user.
	Suggestion string

	// Err is the underlying error.
	Err error
}

func (e *StepError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step, format string, args ...any) *StepError {
	return &StepError{Step: step, Message: fmt.Sprintf(format, args...)}
}
