package app

import (
	"context"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/racecoord/internal/errors"
	"github.com/agbru/racecoord/internal/logging"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/tui"
)

// runDashboard shows the interactive race board. Every rerun from the board
// is a new round, seeded like the rounds of runRounds.
func (a *Application) runDashboard(ctx context.Context, out io.Writer) int {
	// The board owns the terminal; the banner and log lines would corrupt it.
	a.Logger = logging.Nop()
	deps, code := a.setup(ctx, io.Discard)
	if code != apperrors.ExitSuccess {
		return code
	}
	defer deps.close()

	saver := newRaceSaver()
	start := func(ctx context.Context, round int) (*orchestration.Handle, error) {
		race, err := a.newRace(round, deps)
		if err != nil {
			return nil, err
		}
		h := race.Start(ctx)
		began := time.Now()
		saver.track(h, func(o orchestration.Outcome) {
			a.recordHistory(ctx, deps, h.ID(), round, o, time.Since(began))
		})
		return h, nil
	}

	exitCode := tui.Run(ctx, start, tui.Options{
		Tasks:   a.Config.Tasks,
		Timeout: a.Config.Timeout,
		Variant: a.Config.Variant,
		Version: Version,
	})
	saver.closeAndWait()

	if code := a.finish(deps, out); code != apperrors.ExitSuccess {
		return code
	}
	return exitCode
}

// raceSaver records board races once they resolve. closeAndWait skips races
// still undecided and waits for every pending save, so the history store can
// be closed afterwards.
type raceSaver struct {
	wg     sync.WaitGroup
	closed chan struct{}
}

func newRaceSaver() *raceSaver {
	return &raceSaver{closed: make(chan struct{})}
}

func (s *raceSaver) track(h *orchestration.Handle, save func(orchestration.Outcome)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-h.Done():
		case <-s.closed:
		}
		if o, ok := h.Outcome(); ok {
			save(o)
		}
	}()
}

func (s *raceSaver) closeAndWait() {
	close(s.closed)
	s.wg.Wait()
}
