package orchestration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestSinkHighContention verifies that exactly one of many concurrent TryFill
// calls wins, repeated to increase confidence.
func TestSinkHighContention(t *testing.T) {
	for round := 0; round < 50; round++ {
		sink := NewSink()
		var wg sync.WaitGroup
		var winners atomic.Int32
		var winner atomic.Int64
		numGoroutines := 500

		barrier := make(chan struct{})
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				defer wg.Done()
				<-barrier
				if sink.TryFill(SuccessOutcome(time.Duration(id)*time.Millisecond, "task")) {
					winners.Add(1)
					winner.Store(int64(id))
				}
			}(i)
		}
		close(barrier)
		wg.Wait()

		if got := winners.Load(); got != 1 {
			t.Fatalf("round %d: %d winners, want exactly 1", round, got)
		}
		o, ok := sink.Peek()
		if !ok {
			t.Fatalf("round %d: sink should be filled", round)
		}
		if o.Value != time.Duration(winner.Load())*time.Millisecond {
			t.Errorf("round %d: stored %v, winner offered %dms", round, o.Value, winner.Load())
		}
	}
}

func TestSinkImmutableAfterFill(t *testing.T) {
	t.Parallel()
	sink := NewSink()
	if !sink.TryFill(TimedOut()) {
		t.Fatal("first TryFill should win")
	}
	if sink.TryFill(SuccessOutcome(time.Second, "late")) {
		t.Error("second TryFill should lose")
	}
	o, err := sink.Await(context.Background())
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if o != TimedOut() {
		t.Errorf("outcome = %v, want TimedOut", o)
	}
}

func TestSinkAwaitBlocksUntilFilled(t *testing.T) {
	t.Parallel()
	sink := NewSink()
	if _, ok := sink.Peek(); ok {
		t.Fatal("new sink should be empty")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		sink.TryFill(SuccessOutcome(5*time.Millisecond, "task1"))
	}()

	o, err := sink.Await(context.Background())
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if o.Label != "task1" {
		t.Errorf("label = %q, want task1", o.Label)
	}
	select {
	case <-sink.Done():
	default:
		t.Error("Done should be closed after fill")
	}
}

func TestSinkAwaitContext(t *testing.T) {
	t.Parallel()
	sink := NewSink()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sink.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}
