package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the ladders command.
const (
	ExitSuccess      = 0 // Outputs written
	ExitFailure      = 1 // Input could not be scheduled, or outputs could not be written
	ExitCommandError = 2 // Usage error (missing argument, wrong file, bad flag or config)
)

// ExitError represents an error with a specific exit code.
// Reported is set once the diagnostic has been printed.
type ExitError struct {
	Code     int
	Message  string
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Errors that are not an ExitError come from cobra's own argument and flag
// handling and count as usage errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}
