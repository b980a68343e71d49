package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/agbru/racecoord/internal/cli"
	apperrors "github.com/agbru/racecoord/internal/errors"
	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/history"
	"github.com/agbru/racecoord/internal/logging"
	"github.com/agbru/racecoord/internal/metrics"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/scheduler"
	"github.com/agbru/racecoord/internal/server"
	"github.com/agbru/racecoord/internal/sysmon"
	"github.com/agbru/racecoord/internal/task"
)

// runtimeDeps bundles the per-run infrastructure shared by every round.
type runtimeDeps struct {
	pools    *scheduler.Pools
	recorder *metrics.PrometheusRecorder
	history  history.Store
}

// close releases the history connection.
func (d *runtimeDeps) close() {
	_ = d.history.Close()
}

// setup creates the scheduler pools, metrics recorder and history store,
// starts the metrics server if requested, and prints the banner. The caller
// must close the returned deps.
func (a *Application) setup(ctx context.Context, out io.Writer) (*runtimeDeps, int) {
	deps := &runtimeDeps{
		pools:    scheduler.NewPools(0),
		recorder: metrics.NewPrometheusRecorder(),
		history:  history.NopStore{},
	}

	if a.Config.HistoryRedis != "" {
		store, err := history.Dial(ctx, a.Config.HistoryRedis)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error opening race history: %v\n", err)
			return nil, apperrors.ExitErrorGeneric
		}
		deps.history = store
	}

	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, deps.recorder.Handler(), a.Logger)
		if _, err := srv.Start(ctx); err != nil {
			deps.close()
			fmt.Fprintf(a.ErrWriter, "Error starting metrics server: %v\n", err)
			return nil, apperrors.ExitErrorGeneric
		}
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, sysmon.Describe(), out)
		cli.PrintExecutionMode(a.Config, out)
	}
	return deps, apperrors.ExitSuccess
}

// newRace builds the race for one round. Seeded runs shift the seed by the
// round index so rounds differ from one another but stay reproducible.
func (a *Application) newRace(round int, deps *runtimeDeps) (*orchestration.Race, error) {
	variant, err := orchestration.ParseVariant(a.Config.Variant)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}

	worker := a.Worker
	if worker == nil {
		var src task.DurationSource
		if a.Config.Seed != 0 {
			src = task.NewSeededSource(a.Config.Seed + uint64(round-1))
		} else {
			src = task.NewRandomSource()
		}
		worker = task.NewSimulatedWorker(a.Config.MaxValue, a.Config.ThresholdRatio, src, task.WithLogger(a.Logger))
	}

	return orchestration.New(a.Config.Tasks, worker, a.Config.Timeout,
		orchestration.WithVariant(variant),
		orchestration.WithScheduler(deps.pools),
		orchestration.WithLogger(a.Logger),
		orchestration.WithRecorder(deps.recorder),
		orchestration.WithCancelLosers(a.Config.CancelLosers),
	), nil
}

// runRace runs a single race, streaming its events until it resolves.
func (a *Application) runRace(ctx context.Context, out io.Writer) int {
	deps, code := a.setup(ctx, out)
	if code != apperrors.ExitSuccess {
		return code
	}
	defer deps.close()
	race, err := a.newRace(1, deps)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	var reporter orchestration.EventReporter = cli.CLIEventReporter{}
	eventOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullEventReporter{}
		eventOut = io.Discard
	}

	start := time.Now()
	h := race.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayEvents(&wg, orchestration.UntilResolved(h.Events()), len(race.Tasks()), eventOut)

	o, err := h.Await(ctx)
	if err != nil {
		return a.handleCanceled(err, "race")
	}
	elapsed := time.Since(start)
	wg.Wait()
	a.recordHistory(ctx, deps, h.ID(), 1, o, elapsed)

	cli.CLIOutcomePresenter{Quiet: a.Config.Quiet}.PresentOutcome(o, elapsed, out)

	if a.Config.WaitLosers {
		if code := a.waitLosers(ctx, deps, h); code != apperrors.ExitSuccess {
			return code
		}
	}
	if code := a.finish(deps, out); code != apperrors.ExitSuccess {
		return code
	}
	return orchestration.ExitCodeFor(o)
}

// runRounds runs Config.Rounds independent races, at most EffectiveParallel at
// a time, and summarizes them.
func (a *Application) runRounds(ctx context.Context, out io.Writer) int {
	deps, code := a.setup(ctx, out)
	if code != apperrors.ExitSuccess {
		return code
	}
	defer deps.close()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if a.Config.RoundsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(a.Config.RoundsPerMinute)), 1)
	}

	results := make([]orchestration.RoundResult, a.Config.Rounds)
	handles := make([]*orchestration.Handle, a.Config.Rounds)
	var outMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.EffectiveParallel())
	for i := range results {
		round := i + 1
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return apperrors.RoundError{Round: round, Cause: err}
			}
			race, err := a.newRace(round, deps)
			if err != nil {
				return apperrors.RoundError{Round: round, Cause: err}
			}
			start := time.Now()
			h := race.Start(gctx)
			handles[round-1] = h

			o, err := h.Await(gctx)
			if err != nil {
				return apperrors.RoundError{Round: round, Cause: err}
			}
			elapsed := time.Since(start)
			results[round-1] = orchestration.RoundResult{Round: round, Outcome: o, Elapsed: elapsed}
			a.recordHistory(gctx, deps, h.ID(), round, o, elapsed)

			if !a.Config.Quiet {
				outMu.Lock()
				fmt.Fprintf(out, "  round %d: %s in %s\n", round,
					format.FormatPair(o.Status(), o.Label), format.FormatExecutionDuration(elapsed))
				outMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return a.handleCanceled(err, "rounds")
	}

	exitCode := orchestration.AnalyzeRounds(results, cli.CLIOutcomePresenter{Quiet: a.Config.Quiet}, out)

	if a.Config.WaitLosers {
		for _, h := range handles {
			if code := a.waitLosers(ctx, deps, h); code != apperrors.ExitSuccess {
				return code
			}
		}
	}
	if code := a.finish(deps, out); code != apperrors.ExitSuccess {
		return code
	}
	return exitCode
}

// waitLosers blocks until every task of h has finished.
func (a *Application) waitLosers(ctx context.Context, deps *runtimeDeps, h *orchestration.Handle) int {
	if !a.Config.Quiet {
		fmt.Fprintf(a.ErrWriter, "Waiting for losing tasks of race %s...\n", h.ID())
	}
	if err := h.WaitContext(ctx); err != nil {
		return a.handleCanceled(err, "waiting for losers")
	}
	a.Logger.Debug("losers finished", logging.String("race", h.ID()),
		logging.Uint64("completed_callbacks", deps.pools.Stats().QuickCompleted))
	return apperrors.ExitSuccess
}

// finish exports metrics and prints the details view.
func (a *Application) finish(deps *runtimeDeps, out io.Writer) int {
	if a.Config.MetricsFile != "" {
		if err := deps.recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
			a.Logger.Error("writing metrics file", err, logging.String("path", a.Config.MetricsFile))
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
	}
	if a.Config.Details && !a.Config.Quiet {
		stats := deps.pools.Stats()
		fmt.Fprintf(out, "\nScheduler: %d quick workers, %d blocking tasks running, %d callbacks completed\n",
			deps.pools.QuickSize(), stats.BlockingRunning, stats.QuickCompleted)
		cli.DisplayRuntimeStats(metrics.ReadMemory(), out)
		if a.Config.HistoryRedis != "" {
			a.displayHistory(deps, out)
		}
	}
	return apperrors.ExitSuccess
}

// recordHistory saves a resolved race. History is best effort: a failure is
// logged and the race result stands.
func (a *Application) recordHistory(ctx context.Context, deps *runtimeDeps, raceID string, round int, o orchestration.Outcome, elapsed time.Duration) {
	rec := history.NewRecord(raceID, round, a.Config.Variant, o, elapsed)
	if err := deps.history.Save(context.WithoutCancel(ctx), rec); err != nil {
		a.Logger.Error("recording race history", err, logging.String("race", raceID))
	}
}

// displayHistory prints the outcome tally kept in the history store.
func (a *Application) displayHistory(deps *runtimeDeps, out io.Writer) {
	counts, err := deps.history.Counts(context.Background())
	if err != nil {
		a.Logger.Error("reading race history", err)
		return
	}
	cli.DisplayHistory(counts, out)
}

// handleCanceled reports an interrupted wait. Races never fail on their own,
// so the only errors reaching here come from the caller's context.
func (a *Application) handleCanceled(err error, operation string) int {
	if apperrors.IsContextError(err) {
		fmt.Fprintf(a.ErrWriter, "%s canceled: %v\n", operation, err)
		return apperrors.ExitErrorCanceled
	}
	fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	return apperrors.ExitErrorGeneric
}
