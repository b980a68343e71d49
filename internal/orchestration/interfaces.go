package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/racecoord/internal/task"
)

// EventKind identifies a race event.
type EventKind int

const (
	// EventTaskStarted is sent when a task begins its wait.
	EventTaskStarted EventKind = iota
	// EventTaskSucceeded is sent when a task finishes with a success.
	EventTaskSucceeded
	// EventTaskFailed is sent when a task finishes with the failure sentinel.
	EventTaskFailed
	// EventTimeoutFired is sent when the timeout task wakes up.
	EventTimeoutFired
	// EventResolved is sent once, by whichever offer filled the sink.
	EventResolved
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventTaskStarted:
		return "task_started"
	case EventTaskSucceeded:
		return "task_succeeded"
	case EventTaskFailed:
		return "task_failed"
	case EventTimeoutFired:
		return "timeout_fired"
	case EventResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Event is a diagnostic notification emitted during a race.
type Event struct {
	RaceID string
	Kind   EventKind
	// Task is the task name; empty for timeout and resolution events.
	Task string
	// Result is set for EventTaskSucceeded and EventTaskFailed.
	Result task.Result
	// Outcome is set for EventResolved.
	Outcome Outcome
	// Elapsed is the wall-clock time since the race started.
	Elapsed time.Duration
}

// EventReporter displays race events. This interface decouples the
// orchestration layer from the presentation layer.
type EventReporter interface {
	// DisplayEvents consumes events until the channel is closed, then calls
	// wg.Done. It runs in its own goroutine.
	DisplayEvents(wg *sync.WaitGroup, events <-chan Event, numTasks int, out io.Writer)
}

// EventReporterFunc is a function adapter that implements EventReporter.
type EventReporterFunc func(wg *sync.WaitGroup, events <-chan Event, numTasks int, out io.Writer)

// DisplayEvents calls the underlying function.
func (f EventReporterFunc) DisplayEvents(wg *sync.WaitGroup, events <-chan Event, numTasks int, out io.Writer) {
	f(wg, events, numTasks, out)
}

// NullEventReporter drains the channel without displaying anything.
// Useful for quiet mode or testing.
type NullEventReporter struct{}

// DisplayEvents drains the channel without output.
func (NullEventReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan Event, _ int, _ io.Writer) {
	defer wg.Done()
	for range events {
	}
}

// UntilResolved forwards events up to and including the first EventResolved,
// then closes the returned channel. Events emitted by losing tasks after the
// resolution stay in the source buffer.
func UntilResolved(events <-chan Event) <-chan Event {
	out := make(chan Event, cap(events))
	go func() {
		defer close(out)
		for ev := range events {
			out <- ev
			if ev.Kind == EventResolved {
				return
			}
		}
	}()
	return out
}

// OutcomePresenter formats race results for the user.
type OutcomePresenter interface {
	// PresentOutcome displays the resolved outcome of a single race.
	PresentOutcome(o Outcome, elapsed time.Duration, out io.Writer)
	// PresentSummary displays the tally of several rounds.
	PresentSummary(s RoundSummary, out io.Writer)
}

// Recorder receives race measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordTask(res task.Result, elapsed time.Duration)
	RecordOutcome(o Outcome, elapsed time.Duration)
}

// NopRecorder discards measurements.
type NopRecorder struct{}

// RecordTask does nothing.
func (NopRecorder) RecordTask(task.Result, time.Duration) {}

// RecordOutcome does nothing.
func (NopRecorder) RecordOutcome(Outcome, time.Duration) {}
