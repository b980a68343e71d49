package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/orchestration"
)

// laneState is the progress of one task as seen by the board.
type laneState int

const (
	lanePending laneState = iota
	laneWaiting
	laneSucceeded
	laneFailed
)

func (s laneState) String() string {
	switch s {
	case laneWaiting:
		return "waiting"
	case laneSucceeded:
		return "done"
	case laneFailed:
		return "failed"
	default:
		return "pending"
	}
}

type lane struct {
	name    string
	state   laneState
	value   time.Duration
	elapsed time.Duration
	winner  bool
	// late marks a completion that arrived after the race resolved.
	late bool
}

// LanesModel tracks one row per task plus the timeout task.
type LanesModel struct {
	lanes        []lane
	index        map[string]int
	timeout      time.Duration
	start        time.Time
	timeoutFired bool
	timeoutWon   bool
	resolved     bool
}

// NewLanesModel creates lanes for the given task names.
func NewLanesModel(tasks []string, timeout time.Duration) LanesModel {
	l := LanesModel{
		lanes:   make([]lane, len(tasks)),
		index:   make(map[string]int, len(tasks)),
		timeout: timeout,
		start:   time.Now(),
	}
	for i, name := range tasks {
		l.lanes[i] = lane{name: name}
		l.index[name] = i
	}
	return l
}

// Reset clears every lane for a new race.
func (l *LanesModel) Reset() {
	for i := range l.lanes {
		l.lanes[i] = lane{name: l.lanes[i].name}
	}
	l.start = time.Now()
	l.timeoutFired = false
	l.timeoutWon = false
	l.resolved = false
}

// Observe applies one race event.
func (l *LanesModel) Observe(ev orchestration.Event) {
	switch ev.Kind {
	case orchestration.EventTaskStarted:
		if i, ok := l.index[ev.Task]; ok {
			l.lanes[i].state = laneWaiting
		}
	case orchestration.EventTaskSucceeded, orchestration.EventTaskFailed:
		i, ok := l.index[ev.Task]
		if !ok {
			return
		}
		ln := &l.lanes[i]
		ln.state = laneFailed
		if ev.Kind == orchestration.EventTaskSucceeded {
			ln.state = laneSucceeded
			ln.value = ev.Result.Value
		}
		ln.elapsed = ev.Elapsed
		ln.late = l.resolved
	case orchestration.EventTimeoutFired:
		l.timeoutFired = true
	case orchestration.EventResolved:
		l.resolved = true
		switch ev.Outcome.Kind {
		case orchestration.OutcomeSuccess:
			if i, ok := l.index[ev.Outcome.Label]; ok {
				l.lanes[i].winner = true
			}
		case orchestration.OutcomeTimedOut:
			l.timeoutWon = true
		}
	}
}

// State returns the state of the named lane.
func (l LanesModel) State(name string) (laneState, bool) {
	i, ok := l.index[name]
	if !ok {
		return lanePending, false
	}
	return l.lanes[i].state, true
}

// Winner returns the name of the winning lane, if a task won.
func (l LanesModel) Winner() string {
	for _, ln := range l.lanes {
		if ln.winner {
			return ln.name
		}
	}
	return ""
}

// Height returns the panel height the lanes need.
func (l LanesModel) Height() int {
	return len(l.lanes) + 4
}

// View renders the lanes into a panel of the given size.
func (l LanesModel) View(width, height int) string {
	nameWidth := len("timeout")
	for _, ln := range l.lanes {
		nameWidth = max(nameWidth, lipgloss.Width(ln.name))
	}
	inner := max(width-4, 10)
	barWidth := max(inner-nameWidth-30, 5)
	now := time.Since(l.start)

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Lanes"))
	for _, ln := range l.lanes {
		b.WriteString("\n")
		b.WriteString(l.renderLane(ln, nameWidth, barWidth, now))
	}
	b.WriteString("\n")
	b.WriteString(l.renderTimeoutLane(nameWidth, barWidth, now))

	return panelStyle.Width(width - 2).Height(max(height-2, 1)).Render(b.String())
}

func (l LanesModel) renderLane(ln lane, nameWidth, barWidth int, now time.Duration) string {
	elapsed := ln.elapsed
	if ln.state == laneWaiting {
		elapsed = now
	}
	state := fmt.Sprintf("%-7s", ln.state)
	switch ln.state {
	case laneSucceeded:
		state = logSuccessStyle.Render(state)
	case laneFailed:
		state = logErrorStyle.Render(state)
	default:
		state = dimStyle.Render(state)
	}

	detail := ""
	switch {
	case ln.winner:
		detail = winnerStyle.Render("winner")
	case ln.late:
		detail = dimStyle.Render("late")
	}
	return fmt.Sprintf("%s %s %s %9s %s",
		logTaskStyle.Render(padRight(ln.name, nameWidth)),
		state,
		renderBar(l.fraction(elapsed), barWidth),
		format.FormatExecutionDuration(elapsed.Truncate(time.Millisecond)),
		detail)
}

func (l LanesModel) renderTimeoutLane(nameWidth, barWidth int, now time.Duration) string {
	state := dimStyle.Render(fmt.Sprintf("%-7s", "armed"))
	elapsed := now
	if l.timeoutFired {
		state = logWarnStyle.Render(fmt.Sprintf("%-7s", "fired"))
		elapsed = l.timeout
	}
	detail := ""
	if l.timeoutWon {
		detail = winnerStyle.Render("winner")
	}
	return fmt.Sprintf("%s %s %s %9s %s",
		dimStyle.Render(padRight("timeout", nameWidth)),
		state,
		renderBar(l.fraction(elapsed), barWidth),
		format.FormatExecutionDuration(l.timeout),
		detail)
}

// fraction is elapsed relative to the race timeout, capped at 1.
func (l LanesModel) fraction(elapsed time.Duration) float64 {
	if l.timeout <= 0 {
		return 0
	}
	return min(float64(elapsed)/float64(l.timeout), 1)
}

// renderBar draws a horizontal bar filled to frac.
func renderBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = min(max(filled, 0), width)
	return barStyle.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
