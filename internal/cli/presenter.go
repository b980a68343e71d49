package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/ui"
)

// CLIEventReporter implements orchestration.EventReporter for terminal output.
type CLIEventReporter struct{}

var _ orchestration.EventReporter = CLIEventReporter{}

// DisplayEvents delegates to DisplayEvents.
func (CLIEventReporter) DisplayEvents(wg *sync.WaitGroup, events <-chan orchestration.Event, numTasks int, out io.Writer) {
	DisplayEvents(wg, events, numTasks, out)
}

// CLIOutcomePresenter implements orchestration.OutcomePresenter. In quiet
// mode it prints only the (status, label) pair.
type CLIOutcomePresenter struct {
	Quiet bool
}

var _ orchestration.OutcomePresenter = CLIOutcomePresenter{}

// PresentOutcome prints the race result.
func (p CLIOutcomePresenter) PresentOutcome(o orchestration.Outcome, elapsed time.Duration, out io.Writer) {
	pair := format.FormatPair(o.Status(), o.Label)
	if p.Quiet {
		fmt.Fprintln(out, pair)
		return
	}
	styles := ui.CurrentOutcomeStyles()
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "%s %s\n", ui.OutcomeBadge(o.Kind.String()), pair)
	fmt.Fprintf(out, "%s\n", styles.Dim.Render(fmt.Sprintf("%s, resolved after %s",
		format.FormatStatus(o.Status()), format.FormatExecutionDuration(elapsed))))
}

// PresentSummary prints the tally of several rounds.
func (p CLIOutcomePresenter) PresentSummary(s orchestration.RoundSummary, out io.Writer) {
	if p.Quiet {
		fmt.Fprintf(out, "rounds=%d success=%d all_failed=%d timed_out=%d\n",
			s.Rounds, s.Successes, s.AllFailed, s.TimedOut)
		return
	}
	fmt.Fprintf(out, "\n--- Rounds Summary ---\n")
	fmt.Fprintf(out, "Rounds:     %s%d%s\n", ui.ColorBold(), s.Rounds, ui.ColorReset())
	fmt.Fprintf(out, "Successes:  %s%d%s\n", ui.ColorGreen(), s.Successes, ui.ColorReset())
	fmt.Fprintf(out, "All failed: %s%d%s\n", ui.ColorRed(), s.AllFailed, ui.ColorReset())
	fmt.Fprintf(out, "Timed out:  %s%d%s\n", ui.ColorYellow(), s.TimedOut, ui.ColorReset())
	fmt.Fprintf(out, "Mean resolution: %s\n", format.FormatExecutionDuration(s.MeanElapsed))
	if s.Fastest != nil {
		fmt.Fprintf(out, "Fastest win: %s in round %d\n",
			format.FormatPair(s.Fastest.Outcome.Status(), s.Fastest.Outcome.Label), s.Fastest.Round)
	}
	if len(s.Wins) == 0 {
		return
	}

	width := len("Task")
	for _, w := range s.Wins {
		width = max(width, len(w.Task))
	}
	fmt.Fprintf(out, "\n%sTask%s%s   %sWins%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", width-len("Task")),
		ui.ColorUnderline(), ui.ColorReset())
	for _, w := range s.Wins {
		fmt.Fprintf(out, "%s%s%s%s   %d\n", ui.ColorBlue(), w.Task, ui.ColorReset(), padRight("", width-len(w.Task)), w.Wins)
	}
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
