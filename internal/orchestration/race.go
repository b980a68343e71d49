package orchestration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/racecoord/internal/logging"
	"github.com/agbru/racecoord/internal/scheduler"
	"github.com/agbru/racecoord/internal/task"
	"github.com/agbru/racecoord/internal/telemetry"
)

// eventsPerTask is the number of events a single task can emit: one start and
// one completion.
const eventsPerTask = 2

// Race runs a fixed set of named tasks against a timeout and resolves to the
// first accepted outcome. A Race is immutable and can be started many times;
// each Start is an independent race.
type Race struct {
	tasks        []string
	worker       task.Worker
	timeout      time.Duration
	variant      Variant
	sched        scheduler.Scheduler
	logger       logging.Logger
	recorder     Recorder
	tracer       trace.Tracer
	cancelLosers bool
}

// Option configures a Race during construction.
type Option func(*Race)

// WithVariant selects the acceptance filter.
func WithVariant(v Variant) Option {
	return func(r *Race) { r.variant = v }
}

// WithScheduler sets the execution resource tasks run on.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(r *Race) { r.sched = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Race) { r.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Race) { r.recorder = rec }
}

// WithTracer sets the tracer used for race and task spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Race) { r.tracer = t }
}

// WithCancelLosers makes the race cancel the context passed to still-running
// tasks, and stop the timeout task, once an outcome is decided. Off by
// default: losing tasks run to completion and their results are discarded.
func WithCancelLosers(enabled bool) Option {
	return func(r *Race) { r.cancelLosers = enabled }
}

// New creates a race over the given task names.
func New(tasks []string, worker task.Worker, timeout time.Duration, opts ...Option) *Race {
	r := &Race{
		tasks:    append([]string(nil), tasks...),
		worker:   worker,
		timeout:  timeout,
		variant:  VariantFiltered,
		sched:    scheduler.Goroutines{},
		logger:   logging.Nop(),
		recorder: NopRecorder{},
		tracer:   telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tasks returns the raced task names.
func (r *Race) Tasks() []string { return append([]string(nil), r.tasks...) }

// Timeout returns the race timeout.
func (r *Race) Timeout() time.Duration { return r.timeout }

// Variant returns the acceptance filter in use.
func (r *Race) Variant() Variant { return r.variant }

// Handle is the caller's view of a running race.
type Handle struct {
	id       string
	start    time.Time
	sink     *Sink
	events   chan Event
	finished chan struct{}
	wg       sync.WaitGroup

	race       *Race
	span       trace.Span
	cancelWork context.CancelFunc
}

// ID returns the race identifier.
func (h *Handle) ID() string { return h.id }

// Done returns a channel closed once the race has resolved.
func (h *Handle) Done() <-chan struct{} { return h.sink.Done() }

// Await blocks until the race resolves or ctx is done. The only error it
// returns is ctx.Err(); task failures never surface here.
func (h *Handle) Await(ctx context.Context) (Outcome, error) {
	return h.sink.Await(ctx)
}

// Outcome returns the resolved outcome without blocking; ok is false while
// the race is still undecided.
func (h *Handle) Outcome() (o Outcome, ok bool) { return h.sink.Peek() }

// Events returns the event stream. The channel is buffered for every event
// the race can emit, so it never needs to be read, and it is closed once all
// tasks and the timeout task have finished.
func (h *Handle) Events() <-chan Event { return h.events }

// Wait blocks until every task and the timeout task have finished, including
// the losers.
func (h *Handle) Wait() { <-h.finished }

// WaitContext is Wait bounded by ctx.
func (h *Handle) WaitContext(ctx context.Context) error {
	select {
	case <-h.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the race and returns immediately.
//
// Every task runs on the scheduler's blocking resource: it is executed,
// normalized into a task.Result, and then, on the quick resource, filtered by
// the variant and offered to the sink. A timeout task runs alongside and
// unconditionally offers TimedOut after the race timeout.
//
// Cancelling ctx does not stop the tasks; it only ends the caller's wait in
// Await. Use WithCancelLosers to stop work after resolution.
func (r *Race) Start(ctx context.Context) *Handle {
	h := &Handle{
		id:       uuid.NewString(),
		start:    time.Now(),
		sink:     NewSink(),
		events:   make(chan Event, eventsPerTask*len(r.tasks)+2),
		finished: make(chan struct{}),
		race:     r,
	}

	ctx, h.span = r.tracer.Start(ctx, "race",
		trace.WithAttributes(telemetry.RaceAttributes(h.id, len(r.tasks), r.timeout, r.variant.String())...))

	workCtx := context.WithoutCancel(ctx)
	h.cancelWork = func() {}
	if r.cancelLosers {
		workCtx, h.cancelWork = context.WithCancel(workCtx)
	}

	r.logger.Info("race started",
		logging.String("race", h.id),
		logging.Int("tasks", len(r.tasks)),
		logging.Duration("timeout", r.timeout),
		logging.String("variant", r.variant.String()))

	h.wg.Add(len(r.tasks) + 1)
	for _, name := range r.tasks {
		r.sched.GoBlocking(func() { h.runTask(workCtx, name) })
	}
	r.sched.GoBlocking(func() { h.runTimeout(workCtx) })

	go func() {
		h.wg.Wait()
		close(h.events)
		h.cancelWork()
		close(h.finished)
	}()

	return h
}

// runTask executes one task on the blocking resource and hands the normalized
// result to a quick callback.
func (h *Handle) runTask(ctx context.Context, name string) {
	r := h.race
	ctx, span := r.tracer.Start(ctx, "race.task", trace.WithAttributes(telemetry.TaskAttributes(h.id, name)...))

	h.emit(Event{Kind: EventTaskStarted, Task: name})
	r.logger.Debug("task started", logging.String("race", h.id), logging.String("task", name))

	res := task.Execute(ctx, r.worker, name, r.logger)
	elapsed := time.Since(h.start)
	telemetry.EndTaskSpan(span, res.OK(), res.Status())

	r.sched.Go(func() {
		defer h.wg.Done()
		h.complete(name, res, elapsed)
	})
}

// complete reports a task completion and offers it to the sink if accepted.
func (h *Handle) complete(name string, res task.Result, elapsed time.Duration) {
	r := h.race
	r.recorder.RecordTask(res, elapsed)

	kind := EventTaskSucceeded
	if !res.OK() {
		kind = EventTaskFailed
		r.logger.Info("task failed", logging.String("race", h.id), logging.String("task", name), logging.Duration("elapsed", elapsed))
	} else {
		r.logger.Debug("task succeeded", logging.String("race", h.id), logging.String("task", name), logging.Duration("value", res.Value))
	}
	h.emit(Event{Kind: kind, Task: name, Result: res, Elapsed: elapsed})

	if r.variant.Accept(res) {
		h.offer(FromResult(res))
	}
}

// runTimeout waits for the race timeout and offers TimedOut.
func (h *Handle) runTimeout(ctx context.Context) {
	defer h.wg.Done()
	r := h.race

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		// Only reachable with loser cancellation, after resolution.
		return
	}

	h.emit(Event{Kind: EventTimeoutFired, Elapsed: time.Since(h.start)})
	h.offer(TimedOut())
}

// offer tries to fill the sink; the winning call finalizes the race.
func (h *Handle) offer(o Outcome) {
	if !h.sink.TryFill(o) {
		return
	}
	r := h.race
	elapsed := time.Since(h.start)

	r.recorder.RecordOutcome(o, elapsed)
	telemetry.EndRaceSpan(h.span, o.Kind.String(), o.Status(), o.Label)
	r.logger.Info("race resolved",
		logging.String("race", h.id),
		logging.String("outcome", o.Kind.String()),
		logging.String("label", o.Label),
		logging.Duration("elapsed", elapsed))

	h.emit(Event{Kind: EventResolved, Outcome: o, Elapsed: elapsed})
	if r.cancelLosers {
		h.cancelWork()
	}
}

func (h *Handle) emit(ev Event) {
	ev.RaceID = h.id
	h.events <- ev
}

// GetFirstSuccess runs the race and blocks until it resolves. It returns an
// error only if ctx ends before the race does.
func GetFirstSuccess(ctx context.Context, r *Race) (Outcome, error) {
	return r.Start(ctx).Await(ctx)
}
