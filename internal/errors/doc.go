// Package apperrors defines structured application error types and exit
// codes, separating configuration problems from run-time conditions such as a
// race that timed out or a canceled process.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapper types implement Unwrap() to support errors.Is() and errors.As().
package apperrors
