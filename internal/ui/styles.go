package ui

import "github.com/charmbracelet/lipgloss"

// OutcomeStyles holds the lipgloss styles used for race results.
type OutcomeStyles struct {
	Success  lipgloss.Style
	Failed   lipgloss.Style
	TimedOut lipgloss.Style
	Label    lipgloss.Style
	Dim      lipgloss.Style
}

var (
	colorOutcomeStyles = OutcomeStyles{
		Success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9ece6a")),
		Failed:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4444")),
		TimedOut: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB347")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4488FF")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
	plainOutcomeStyles = OutcomeStyles{
		Success:  lipgloss.NewStyle(),
		Failed:   lipgloss.NewStyle(),
		TimedOut: lipgloss.NewStyle(),
		Label:    lipgloss.NewStyle(),
		Dim:      lipgloss.NewStyle(),
	}
)

// CurrentOutcomeStyles returns plain styles when the no-color theme is active.
func CurrentOutcomeStyles() OutcomeStyles {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return plainOutcomeStyles
	}
	return colorOutcomeStyles
}

// OutcomeBadge renders a short tag for an outcome kind ("success",
// "all_failed" or "timed_out").
func OutcomeBadge(kind string) string {
	s := CurrentOutcomeStyles()
	switch kind {
	case "success":
		return s.Success.Render("SUCCESS")
	case "all_failed":
		return s.Failed.Render("ALL FAILED")
	case "timed_out":
		return s.TimedOut.Render("TIMED OUT")
	default:
		return s.Dim.Render(kind)
	}
}
