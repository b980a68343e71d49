package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/racecoord/internal/format"
)

// HeaderModel renders the top bar: title, race, round and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	variant   string
	raceID    string
	round     int
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, variant string) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, variant: variant}
}

// SetRace records the identity of the race being shown.
func (h *HeaderModel) SetRace(id string, round int) {
	h.raceID = id
	h.round = round
}

// SetResolved freezes the elapsed timer at the resolution time.
func (h *HeaderModel) SetResolved(elapsed time.Duration) {
	h.endTime = h.startTime.Add(elapsed)
}

// Reset restarts the elapsed timer for a new race.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.raceID = ""
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	title := "racecoord race board"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	duration := time.Since(h.startTime)
	if !h.endTime.IsZero() {
		duration = h.endTime.Sub(h.startTime)
	}

	race := "starting"
	if h.raceID != "" {
		race = shortID(h.raceID)
	}
	row := titleStyle.Render(title) +
		pipe + dimStyle.Render(fmt.Sprintf("race %s #%d (%s)", race, h.round, h.variant)) +
		pipe + elapsedStyle.Render("Elapsed: "+format.FormatExecutionDuration(duration.Truncate(time.Millisecond)))

	return headerStyle.Width(max(h.width, lipgloss.Width(row))).Render(row)
}

// shortID keeps the first block of a UUID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
