package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/ui"
)

// maxLogEntries bounds the log history.
const maxLogEntries = 500

// LogsModel is the scrollable event log.
type LogsModel struct {
	entries []string
	// offset is the number of lines scrolled up from the bottom.
	offset   int
	pageSize int
}

// NewLogsModel creates an empty log.
func NewLogsModel() LogsModel {
	return LogsModel{pageSize: 10}
}

// SetPageSize sets how many lines one page scroll moves.
func (l *LogsModel) SetPageSize(n int) { l.pageSize = max(n, 1) }

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.entries = l.entries[:0]
	l.offset = 0
}

// Len returns the number of entries.
func (l LogsModel) Len() int { return len(l.entries) }

// AddLine appends a preformatted line.
func (l *LogsModel) AddLine(line string) {
	l.entries = append(l.entries, line)
	if over := len(l.entries) - maxLogEntries; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
	if l.offset > 0 {
		// Keep the scrolled view anchored on the same lines.
		l.offset = min(l.offset+1, l.maxOffset())
	}
}

// AddEvent appends the log line for ev.
func (l *LogsModel) AddEvent(ev orchestration.Event) {
	l.AddLine(formatLogEntry(ev))
}

// ScrollUp moves the view n lines towards older entries.
func (l *LogsModel) ScrollUp(n int) { l.offset = min(l.offset+n, l.maxOffset()) }

// ScrollDown moves the view n lines towards newer entries.
func (l *LogsModel) ScrollDown(n int) { l.offset = max(l.offset-n, 0) }

// PageUp scrolls one page up.
func (l *LogsModel) PageUp() { l.ScrollUp(l.pageSize) }

// PageDown scrolls one page down.
func (l *LogsModel) PageDown() { l.ScrollDown(l.pageSize) }

func (l LogsModel) maxOffset() int { return max(len(l.entries)-1, 0) }

// View renders the log into a panel of the given size.
func (l LogsModel) View(width, height int) string {
	visible := max(height-3, 1)
	end := len(l.entries) - l.offset
	start := max(end-visible, 0)

	var b strings.Builder
	title := "Events"
	if l.offset > 0 {
		title += fmt.Sprintf(" (+%d below)", l.offset)
	}
	b.WriteString(panelTitleStyle.Render(title))
	lineWidth := max(width-4, 1)
	for _, e := range l.entries[start:end] {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().MaxWidth(lineWidth).Render(e))
	}
	return panelStyle.Width(width - 2).Height(max(height-2, 1)).Render(b.String())
}

// formatLogEntry renders one event as a log line.
func formatLogEntry(ev orchestration.Event) string {
	at := logTimeStyle.Render(fmt.Sprintf("[+%s]", format.FormatExecutionDuration(ev.Elapsed)))
	switch ev.Kind {
	case orchestration.EventTaskStarted:
		return fmt.Sprintf("%s %s waiting", logTimeStyle.Render("[start]"), logTaskStyle.Render(ev.Task))
	case orchestration.EventTaskSucceeded:
		return fmt.Sprintf("%s %s %s %s", at, logTaskStyle.Render(ev.Task),
			logSuccessStyle.Render("succeeded"), format.FormatPair(ev.Result.Status(), ev.Result.Label))
	case orchestration.EventTaskFailed:
		return fmt.Sprintf("%s %s %s", at, logTaskStyle.Render(ev.Task), logErrorStyle.Render("failed"))
	case orchestration.EventTimeoutFired:
		return fmt.Sprintf("%s %s", at, logWarnStyle.Render("timeout fired"))
	case orchestration.EventResolved:
		return fmt.Sprintf("%s resolved %s %s", at, ui.OutcomeBadge(ev.Outcome.Kind.String()),
			format.FormatPair(ev.Outcome.Status(), ev.Outcome.Label))
	default:
		return fmt.Sprintf("%s %s", at, ev.Kind)
	}
}
