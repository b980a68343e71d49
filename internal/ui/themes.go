package ui

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Theme is an ANSI color scheme for line-oriented output. Every field holds an
// escape sequence, or "" when colors are off.
type Theme struct {
	Name string

	Primary   string // race IDs, headings
	Secondary string // labels, task names
	Success   string
	Warning   string // timeouts
	Error     string // failed tasks, all-failed outcomes
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// palette lists xterm-256 color indexes in Theme field order:
// primary, secondary, success, warning, error, info.
type palette [6]int

func (p palette) theme(name string) Theme {
	fg := func(i int) string { return fmt.Sprintf("\033[38;5;%dm", p[i]) }
	return Theme{
		Name:      name,
		Primary:   fg(0),
		Secondary: fg(1),
		Success:   fg(2),
		Warning:   fg(3),
		Error:     fg(4),
		Info:      fg(5),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

var (
	// DarkTheme uses bright colors for dark terminal backgrounds. It is the
	// default.
	DarkTheme = palette{39, 245, 82, 220, 196, 141}.theme("dark")
	// LightTheme uses darker shades that stay readable on light backgrounds.
	LightTheme = palette{27, 240, 28, 130, 124, 54}.theme("light")
	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeNames returns the selectable theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownTheme reports whether name selects a theme. The empty name is accepted
// and means the default.
func KnownTheme(name string) bool {
	if name == "" {
		return true
	}
	_, ok := themes[name]
	return ok
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme installs t as the active theme. Tests use it to restore
// state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates the named theme; unknown names select the dark theme.
func SetTheme(name string) {
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme activates the named theme unless colors are disabled by the
// --no-color flag or the NO_COLOR environment variable (https://no-color.org/).
func InitTheme(name string, noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(name)
}
