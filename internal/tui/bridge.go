package tui

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/racecoord/internal/orchestration"
)

// programRef is a shared reference to the tea.Program. Bubbletea copies the
// model on every Update, so bridge goroutines hold this pointer instead.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the program. It is a no-op until SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIEventReporter implements orchestration.EventReporter by forwarding every
// event to the board, losers' late completions included.
type TUIEventReporter struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ orchestration.EventReporter = (*TUIEventReporter)(nil)

// DisplayEvents forwards events until the channel closes, then reports that
// the race has settled.
func (t *TUIEventReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan orchestration.Event, _ int, _ io.Writer) {
	defer wg.Done()
	for ev := range events {
		t.ref.Send(EventMsg{Event: ev, Generation: t.generation})
	}
	t.ref.Send(RaceSettledMsg{Generation: t.generation})
}

// RaceStarter launches round number round and returns its handle.
type RaceStarter func(ctx context.Context, round int) (*orchestration.Handle, error)

// startRaceCmd launches a race and wires its event stream to the board.
func startRaceCmd(ref *programRef, ctx context.Context, start RaceStarter, round int, gen uint64) tea.Cmd {
	return func() tea.Msg {
		h, err := start(ctx, round)
		if err != nil {
			return RaceErrorMsg{Err: err, Generation: gen}
		}
		reporter := &TUIEventReporter{ref: ref, generation: gen}
		var wg sync.WaitGroup
		wg.Add(1)
		go reporter.DisplayEvents(&wg, h.Events(), 0, io.Discard)
		return RaceStartedMsg{ID: h.ID(), Round: round, Generation: gen}
	}
}
