package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// boardStatus is the state shown at the left of the footer.
type boardStatus int

const (
	statusRacing boardStatus = iota
	statusDecided
	statusSettled
	statusFailed
)

func (s boardStatus) render() string {
	switch s {
	case statusDecided:
		return statusResolved.Render(" RESOLVED ")
	case statusSettled:
		return statusResolved.Render(" SETTLED ")
	case statusFailed:
		return statusError.Render(" ERROR ")
	default:
		return statusRunning.Render(" RACING ")
	}
}

// FooterModel renders the status badge and the key help.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	status boardStatus
	width  int
}

// NewFooterModel creates a footer for the given bindings.
func NewFooterModel(keymap KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = metricValueStyle
	h.Styles.ShortDesc = dimStyle
	h.Styles.FullKey = metricValueStyle
	h.Styles.FullDesc = dimStyle
	return FooterModel{help: h, keymap: keymap}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetStatus changes the status badge.
func (f *FooterModel) SetStatus(s boardStatus) { f.status = s }

// ToggleHelp switches between the short and the full key help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// View renders the footer.
func (f FooterModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, f.status.render(), " ", f.help.View(f.keymap))
}
