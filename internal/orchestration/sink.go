package orchestration

import (
	"context"
	"sync/atomic"
)

// Sink is a single-assignment cell for the race outcome. Any number of
// goroutines may call TryFill; exactly one call wins and the rest are no-ops.
type Sink struct {
	filled  atomic.Bool
	done    chan struct{}
	outcome Outcome
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{done: make(chan struct{})}
}

// TryFill stores o if the sink is still empty and reports whether this call
// was the winner.
func (s *Sink) TryFill(o Outcome) bool {
	if !s.filled.CompareAndSwap(false, true) {
		return false
	}
	// Written before done is closed; readers only look after <-done.
	s.outcome = o
	close(s.done)
	return true
}

// Done returns a channel closed once the sink is filled.
func (s *Sink) Done() <-chan struct{} { return s.done }

// Await blocks until the sink is filled or ctx is done.
func (s *Sink) Await(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		return s.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Peek returns the outcome without blocking.
func (s *Sink) Peek() (Outcome, bool) {
	select {
	case <-s.done:
		return s.outcome, true
	default:
		return Outcome{}, false
	}
}
