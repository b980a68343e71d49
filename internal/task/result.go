package task

import (
	"fmt"
	"time"
)

// FailureStatus is the status reported for a failed task.
const FailureStatus int64 = -1

// Result is the normalized outcome of one task execution. It is either a
// Success carrying the measured duration and the task label, or the Failure
// sentinel, which carries no payload.
type Result struct {
	ok    bool
	Value time.Duration
	Label string
}

// Success builds a successful Result.
func Success(value time.Duration, label string) Result {
	return Result{ok: true, Value: value, Label: label}
}

// Failure returns the failure sentinel.
func Failure() Result {
	return Result{}
}

// OK reports whether r is a Success.
func (r Result) OK() bool { return r.ok }

// Status returns the duration in milliseconds for a Success and FailureStatus
// otherwise.
func (r Result) Status() int64 {
	if !r.ok {
		return FailureStatus
	}
	return r.Value.Milliseconds()
}

// String renders the (status, label) pair.
func (r Result) String() string {
	return fmt.Sprintf("(%d, %q)", r.Status(), r.Label)
}
