package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/ui"
)

// raceTally counts task completions for the spinner suffix.
type raceTally struct {
	total     int
	started   int
	succeeded int
	failed    int
}

func (t *raceTally) observe(ev orchestration.Event) {
	switch ev.Kind {
	case orchestration.EventTaskStarted:
		t.started++
	case orchestration.EventTaskSucceeded:
		t.succeeded++
	case orchestration.EventTaskFailed:
		t.failed++
	}
}

func (t *raceTally) suffix() string {
	done := t.succeeded + t.failed
	return fmt.Sprintf(" %d/%d tasks finished (%d ok, %d failed), %d waiting",
		done, t.total, t.succeeded, t.failed, t.started-done)
}

// FormatEvent renders one race event as a diagnostic line. It returns "" for
// events that are not displayed.
func FormatEvent(ev orchestration.Event) string {
	switch ev.Kind {
	case orchestration.EventTaskStarted:
		return fmt.Sprintf("%s%s%s waiting", ui.ColorBlue(), ev.Task, ui.ColorReset())
	case orchestration.EventTaskSucceeded:
		return fmt.Sprintf("%s%s%s done waiting after %s%s%s",
			ui.ColorBlue(), ev.Task, ui.ColorReset(),
			ui.ColorGreen(), format.FormatExecutionDuration(ev.Result.Value), ui.ColorReset())
	case orchestration.EventTaskFailed:
		return fmt.Sprintf("%s%s%s %sfailed%s at %s",
			ui.ColorBlue(), ev.Task, ui.ColorReset(),
			ui.ColorRed(), ui.ColorReset(), format.FormatExecutionDuration(ev.Elapsed))
	case orchestration.EventTimeoutFired:
		return fmt.Sprintf("%stimeout fired%s at %s", ui.ColorYellow(), ui.ColorReset(), format.FormatExecutionDuration(ev.Elapsed))
	case orchestration.EventResolved:
		return fmt.Sprintf("resolved %s %s", ui.OutcomeBadge(ev.Outcome.Kind.String()), ev.Outcome)
	default:
		return ""
	}
}

// DisplayEvents prints one line per race event while a spinner summarizes the
// tasks still waiting. It returns once events is closed.
func DisplayEvents(wg *sync.WaitGroup, events <-chan orchestration.Event, numTasks int, out io.Writer) {
	defer wg.Done()
	tally := &raceTally{total: numTasks}
	s := newSpinner(out)
	s.UpdateSuffix(tally.suffix())
	s.Start()
	defer s.Stop()

	for ev := range events {
		tally.observe(ev)
		line := FormatEvent(ev)
		if line == "" {
			continue
		}
		// The spinner owns the current line; stop it so the event lands on
		// its own line.
		s.Stop()
		fmt.Fprintf(out, "  %s\n", line)
		s.UpdateSuffix(tally.suffix())
		if ev.Kind != orchestration.EventResolved {
			s.Start()
		}
	}
}
