//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks

package task

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/racecoord/internal/logging"
)

// DefaultThresholdRatio is the fraction of the maximum duration above which a
// simulated task fails.
const DefaultThresholdRatio = 0.25

// Worker runs one named unit of work. Run may block for a long time and may
// fail; it is always called on a goroutine reserved for blocking work.
type Worker interface {
	Run(ctx context.Context, name string) (time.Duration, error)
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx context.Context, name string) (time.Duration, error)

// Run calls f.
func (f WorkerFunc) Run(ctx context.Context, name string) (time.Duration, error) {
	return f(ctx, name)
}

// ThresholdError is returned by SimulatedWorker when the drawn duration is
// larger than the failure threshold.
type ThresholdError struct {
	Task      string
	Duration  time.Duration
	Threshold time.Duration
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("task %q: duration too large (%s > %s)", e.Task, e.Duration, e.Threshold)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SimulatedWorker draws a duration in [0, MaxValue), blocks for it, and fails
// with a *ThresholdError when the duration exceeds Threshold.
type SimulatedWorker struct {
	MaxValue  time.Duration
	Threshold time.Duration
	Source    DurationSource
	Sleep     SleepFunc
	Logger    logging.Logger
}

// WorkerOption configures a SimulatedWorker.
type WorkerOption func(*SimulatedWorker)

// WithSleep replaces the blocking primitive, typically to scale time in tests.
func WithSleep(fn SleepFunc) WorkerOption {
	return func(w *SimulatedWorker) { w.Sleep = fn }
}

// WithLogger sets the logger used for wait diagnostics.
func WithLogger(l logging.Logger) WorkerOption {
	return func(w *SimulatedWorker) { w.Logger = l }
}

// NewSimulatedWorker builds a worker whose threshold is ratio*maxValue.
// A nil source falls back to a RandomSource.
func NewSimulatedWorker(maxValue time.Duration, ratio float64, src DurationSource, opts ...WorkerOption) *SimulatedWorker {
	if src == nil {
		src = NewRandomSource()
	}
	w := &SimulatedWorker{
		MaxValue:  maxValue,
		Threshold: time.Duration(float64(maxValue) * ratio),
		Source:    src,
		Sleep:     Sleep,
		Logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run implements Worker.
func (w *SimulatedWorker) Run(ctx context.Context, name string) (time.Duration, error) {
	d := w.Source.Next(name, w.MaxValue)
	w.Logger.Debug("task waiting", logging.String("task", name), logging.Duration("wait", d))
	if err := w.Sleep(ctx, d); err != nil {
		return 0, err
	}
	w.Logger.Debug("task done waiting", logging.String("task", name), logging.Duration("wait", d))
	if d > w.Threshold {
		return 0, &ThresholdError{Task: name, Duration: d, Threshold: w.Threshold}
	}
	return d, nil
}
