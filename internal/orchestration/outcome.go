package orchestration

import (
	"fmt"
	"time"

	"github.com/agbru/racecoord/internal/task"
)

// Sentinel statuses reported for non-success outcomes.
const (
	StatusAllFailed int64 = task.FailureStatus
	StatusTimedOut  int64 = -2
)

// OutcomeKind identifies the terminal state of a race.
type OutcomeKind int

const (
	// OutcomeSuccess is a task success accepted by the sink.
	OutcomeSuccess OutcomeKind = iota + 1
	// OutcomeAllFailed is the failure sentinel, only reachable when failures
	// are offered to the sink.
	OutcomeAllFailed
	// OutcomeTimedOut is emitted by the timeout task.
	OutcomeTimedOut
)

// String returns the label used in logs and metrics.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAllFailed:
		return "all_failed"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Outcome is the terminal value of a race.
type Outcome struct {
	Kind  OutcomeKind
	Value time.Duration
	Label string
}

// SuccessOutcome builds a success outcome.
func SuccessOutcome(value time.Duration, label string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Value: value, Label: label}
}

// AllFailed returns the failure sentinel outcome.
func AllFailed() Outcome { return Outcome{Kind: OutcomeAllFailed} }

// TimedOut returns the timeout sentinel outcome.
func TimedOut() Outcome { return Outcome{Kind: OutcomeTimedOut} }

// FromResult converts a normalized task result into the outcome it would
// produce if it won the race.
func FromResult(res task.Result) Outcome {
	if !res.OK() {
		return AllFailed()
	}
	return SuccessOutcome(res.Value, res.Label)
}

// Status returns the success duration in milliseconds, StatusAllFailed or
// StatusTimedOut.
func (o Outcome) Status() int64 {
	switch o.Kind {
	case OutcomeSuccess:
		return o.Value.Milliseconds()
	case OutcomeTimedOut:
		return StatusTimedOut
	default:
		return StatusAllFailed
	}
}

// IsSuccess reports whether the outcome came from a task success.
func (o Outcome) IsSuccess() bool { return o.Kind == OutcomeSuccess }

// String renders the (status, label) pair.
func (o Outcome) String() string {
	return fmt.Sprintf("(%d, %q)", o.Status(), o.Label)
}
