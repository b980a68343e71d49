package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value; empty for boolean flags
	IsFile    bool     // the flag takes a file path
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "tasks", Help: "Comma-separated task names", ValueName: "names"},
	{Long: "max-value", Help: "Upper bound of a task duration", Values: []string{"1s", "10s", "30s"}, ValueName: "duration"},
	{Long: "threshold-ratio", Help: "Failure threshold as a fraction of max-value", Values: []string{"0.25", "0.5", "0.75"}, ValueName: "ratio"},
	{Long: "timeout", Help: "Race timeout", Values: []string{"5s", "32s", "1m"}, ValueName: "duration"},
	{Long: "variant", Help: "Acceptance filter", Values: []string{"filtered", "unfiltered"}, ValueName: "variant"},
	{Long: "seed", Help: "Seed for reproducible durations", ValueName: "number"},
	{Long: "rounds", Help: "Number of races to run", ValueName: "number"},
	{Long: "parallel", Help: "Maximum concurrent rounds", ValueName: "number"},
	{Long: "rounds-per-minute", Help: "Maximum round launches per minute", ValueName: "number"},
	{Long: "cancel-losers", Help: "Cancel losing tasks after resolution"},
	{Long: "wait-losers", Help: "Wait for losing tasks before exiting"},
	{Long: "quiet", Short: "q", Help: "Print only the outcome"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "theme", Help: "Color theme", Values: []string{"dark", "light", "none"}, ValueName: "theme"},
	{Long: "details", Short: "d", Help: "Show host and runtime details"},
	{Long: "tui", Help: "Show the interactive race board"},
	{Long: "log-level", Help: "Diagnostic log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "config", Help: "YAML config file", IsFile: true, ValueName: "file"},
	{Long: "metrics-file", Help: "Prometheus textfile output", IsFile: true, ValueName: "file"},
	{Long: "metrics-addr", Help: "Serve metrics on this address", ValueName: "addr"},
	{Long: "history-redis", Help: "Record races in this Redis server", ValueName: "addr"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh",
// "fish" or "powershell").
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion()
	case "zsh":
		script = zshCompletion()
	case "fish":
		script = fishCompletion()
	case "powershell", "ps":
		script = powerShellCompletion()
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion() string {
	var opts, cases []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		opts = append(opts, "--"+f.Long)
		switch {
		case f.IsFile:
			cases = append(cases, fmt.Sprintf(`        --%s)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;`, f.Long))
		case len(f.Values) > 0:
			cases = append(cases, fmt.Sprintf(`        --%s)
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            return 0
            ;;`, f.Long, strings.Join(f.Values, " ")))
		}
	}
	return fmt.Sprintf(`# Bash completion script for racecoord
# Source this file or add it to ~/.bash_completion

_racecoord() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s
    esac

    COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    return 0
}

complete -F _racecoord racecoord
`, strings.Join(opts, " "), strings.Join(cases, "\n"))
}

func zshCompletion() string {
	var args []string
	for _, f := range flagRegistry {
		valueSuffix := ""
		switch {
		case f.IsFile:
			valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
		case len(f.Values) > 0:
			valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		if f.Short != "" {
			args = append(args, fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
				f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix))
			continue
		}
		args = append(args, fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix))
	}
	return fmt.Sprintf(`#compdef racecoord

# Zsh completion script for racecoord
# Place this file in your $fpath

_racecoord() {
    _arguments -s \
%s
}

_racecoord "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion() string {
	lines := []string{
		"# Fish completion script for racecoord",
		"# Add this to ~/.config/fish/completions/racecoord.fish",
		"",
		"complete -c racecoord -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c racecoord"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func powerShellCompletion() string {
	var options, switches []string
	for _, f := range flagRegistry {
		if f.Short != "" {
			options = append(options, fmt.Sprintf("        @{Name = '-%s'; Description = '%s' }", f.Short, f.Help))
		}
		options = append(options, fmt.Sprintf("        @{Name = '--%s'; Description = '%s' }", f.Long, f.Help))
		if len(f.Values) == 0 {
			continue
		}
		quoted := make([]string, len(f.Values))
		for i, v := range f.Values {
			quoted[i] = "'" + v + "'"
		}
		switches = append(switches, fmt.Sprintf(`        '--%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, strings.Join(quoted, ", ")))
	}
	return fmt.Sprintf(`# PowerShell completion script for racecoord
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'racecoord' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, strings.Join(options, "\n"), strings.Join(switches, "\n"))
}
