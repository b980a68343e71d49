package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/racecoord/internal/orchestration"
)

func TestRaceSaver_WaitsForPendingSave(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": time.Millisecond})
	h := orchestration.New([]string{"a"}, w, 5*time.Second, orchestration.WithCancelLosers(true)).Start(context.Background())

	var saved atomic.Bool
	saver := newRaceSaver()
	saver.track(h, func(o orchestration.Outcome) {
		time.Sleep(50 * time.Millisecond)
		if o.IsSuccess() {
			saved.Store(true)
		}
	})

	<-h.Done()
	saver.closeAndWait()
	if !saved.Load() {
		t.Error("closeAndWait returned before the save finished")
	}
}

func TestRaceSaver_SkipsUndecidedRace(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": time.Minute})
	h := orchestration.New([]string{"a"}, w, time.Minute, orchestration.WithCancelLosers(true)).Start(context.Background())

	var calls atomic.Int32
	saver := newRaceSaver()
	saver.track(h, func(orchestration.Outcome) { calls.Add(1) })

	done := make(chan struct{})
	go func() {
		saver.closeAndWait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("closeAndWait blocked on an undecided race")
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("save called %d times for an undecided race", n)
	}
}
