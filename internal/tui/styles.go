package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/racecoord/internal/ui"
)

// palette is the set of colors the board is drawn with.
type palette struct {
	Accent  lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	darkPalette = palette{
		Accent:  lipgloss.Color("#7aa2f7"),
		Dim:     lipgloss.Color("#565f89"),
		Text:    lipgloss.Color("#c0caf5"),
		Border:  lipgloss.Color("#3b4261"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#e0af68"),
		Error:   lipgloss.Color("#f7768e"),
		Info:    lipgloss.Color("#bb9af7"),
	}
	lightPalette = palette{
		Accent:  lipgloss.Color("#2e7de9"),
		Dim:     lipgloss.Color("#8990b3"),
		Text:    lipgloss.Color("#3760bf"),
		Border:  lipgloss.Color("#a8aecb"),
		Success: lipgloss.Color("#587539"),
		Warning: lipgloss.Color("#8c6c3e"),
		Error:   lipgloss.Color("#c64343"),
		Info:    lipgloss.Color("#7847bd"),
	}
	plainPalette = palette{
		Accent:  lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// currentPalette follows the ui theme selected by InitTheme.
func currentPalette() palette {
	switch ui.GetCurrentTheme().Name {
	case ui.LightTheme.Name:
		return lightPalette
	case ui.NoColorTheme.Name:
		return plainPalette
	default:
		return darkPalette
	}
}

// Style variables for the board, rebuilt by initStyles.
var (
	panelStyle        lipgloss.Style
	panelTitleStyle   lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	dimStyle          lipgloss.Style
	elapsedStyle      lipgloss.Style
	logTimeStyle      lipgloss.Style
	logTaskStyle      lipgloss.Style
	logSuccessStyle   lipgloss.Style
	logErrorStyle     lipgloss.Style
	logWarnStyle      lipgloss.Style
	metricLabelStyle  lipgloss.Style
	metricValueStyle  lipgloss.Style
	barStyle          lipgloss.Style
	barEmptyStyle     lipgloss.Style
	winnerStyle       lipgloss.Style
	statusRunning     lipgloss.Style
	statusResolved    lipgloss.Style
	statusError       lipgloss.Style
	cpuSparklineStyle lipgloss.Style
	memSparklineStyle lipgloss.Style
)

func init() {
	initStyles()
}

// initStyles rebuilds every style from the current ui theme. Run calls it
// again after the application has chosen its theme.
func initStyles() {
	p := currentPalette()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Foreground(p.Text)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(p.Accent)

	logTimeStyle = lipgloss.NewStyle().Foreground(p.Dim)
	logTaskStyle = lipgloss.NewStyle().Foreground(p.Info)
	logSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	logErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	logWarnStyle = lipgloss.NewStyle().Foreground(p.Warning)

	metricLabelStyle = lipgloss.NewStyle().Foreground(p.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	barStyle = lipgloss.NewStyle().Foreground(p.Accent)
	barEmptyStyle = lipgloss.NewStyle().Foreground(p.Dim)
	winnerStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)

	statusRunning = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	statusResolved = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	statusError = lipgloss.NewStyle().Foreground(p.Error).Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().Foreground(p.Accent)
	memSparklineStyle = lipgloss.NewStyle().Foreground(p.Warning)
}
