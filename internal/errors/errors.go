package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes. A resolved race maps to ExitSuccess,
// ExitErrorTimeout or ExitErrorAllFailed; the rest cover problems outside the
// race itself.
const (
	ExitSuccess        = 0   // The race resolved to a task success.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // The race resolved to the timeout sentinel.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorAllFailed = 5   // The race resolved to the failure sentinel.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags,
// environment values or a malformed config file.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RoundError attaches a race round number to an error raised while running
// several rounds.
type RoundError struct {
	// Round is the 1-based round index.
	Round int
	// Cause is the underlying error.
	Cause error
}

// Error returns the round-prefixed message.
func (e RoundError) Error() string {
	return fmt.Sprintf("round %d: %v", e.Round, e.Cause)
}

// Unwrap returns the underlying cause.
func (e RoundError) Unwrap() error { return e.Cause }

// IsContextError reports whether err stems from a canceled or expired context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
