// Package config parses racecoord's command-line flags, environment overrides
// and optional YAML file into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/racecoord/internal/errors"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/task"
	"github.com/agbru/racecoord/internal/ui"
)

// EnvPrefix prefixes every environment override, e.g. RACECOORD_TIMEOUT.
const EnvPrefix = "RACECOORD_"

// Defaults reproduce the classic four-task race: tasks wait up to 30 s, fail
// above a quarter of that, and the whole race gives up after 32 s.
const (
	DefaultMaxValue = 30 * time.Second
	DefaultTimeout  = 32 * time.Second
	DefaultRounds   = 1
	DefaultLogLevel = "warn"
)

// DefaultTasks returns the default task names.
func DefaultTasks() []string {
	return []string{"task1", "task2", "task3", "task4"}
}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Tasks lists the raced task names, in launch order.
	Tasks []string
	// MaxValue is the exclusive upper bound of a simulated task duration.
	MaxValue time.Duration
	// ThresholdRatio sets the failure threshold as a fraction of MaxValue.
	ThresholdRatio float64
	// Timeout is the race timeout.
	Timeout time.Duration
	// Variant selects the acceptance filter ("filtered" or "unfiltered").
	Variant string
	// Seed makes task durations reproducible; 0 means random.
	Seed uint64
	// Rounds is the number of independent races to run.
	Rounds int
	// Parallel bounds how many rounds run at once; 0 means one per CPU.
	Parallel int
	// RoundsPerMinute paces round launches; 0 launches them as fast as
	// Parallel allows.
	RoundsPerMinute int
	// CancelLosers stops losing tasks once a race resolves.
	CancelLosers bool
	// WaitLosers keeps the process alive until every task has finished.
	WaitLosers bool

	Quiet    bool
	NoColor  bool
	Details  bool
	LogLevel string
	// Theme is the color scheme: "dark", "light" or "none".
	Theme string
	// TUI shows the interactive race board instead of line output.
	TUI bool

	// ConfigFile is an optional YAML file with defaults for any of the above.
	ConfigFile string
	// MetricsFile receives the Prometheus text export after the run.
	MetricsFile string
	// MetricsAddr, when set, serves /metrics over HTTP during the run.
	MetricsAddr string
	// HistoryRedis is the address of a Redis server recording every
	// resolved race; empty disables the history.
	HistoryRedis string
	// Completion requests a shell completion script instead of a race.
	Completion string
}

// Threshold returns the failure threshold derived from MaxValue.
func (c AppConfig) Threshold() time.Duration {
	return time.Duration(float64(c.MaxValue) * c.ThresholdRatio)
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if len(c.Tasks) == 0 {
		return apperrors.NewConfigError("at least one task is required")
	}
	seen := make(map[string]bool, len(c.Tasks))
	for _, name := range c.Tasks {
		if name == "" {
			return apperrors.NewConfigError("task names must not be empty")
		}
		if seen[name] {
			return apperrors.NewConfigError("duplicate task name %q", name)
		}
		seen[name] = true
	}
	if c.MaxValue < time.Millisecond {
		return apperrors.NewConfigError("max value must be at least 1ms, got %s", c.MaxValue)
	}
	if c.ThresholdRatio < 0 || c.ThresholdRatio > 1 {
		return apperrors.NewConfigError("threshold ratio must be within [0, 1], got %g", c.ThresholdRatio)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := orchestration.ParseVariant(c.Variant); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.Rounds < 1 {
		return apperrors.NewConfigError("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.RoundsPerMinute < 0 {
		return apperrors.NewConfigError("rounds per minute must not be negative, got %d", c.RoundsPerMinute)
	}
	if c.TUI && c.Rounds > 1 {
		return apperrors.NewConfigError("--tui runs one race at a time and cannot be combined with --rounds")
	}
	if c.Parallel < 0 {
		return apperrors.NewConfigError("parallel must not be negative, got %d", c.Parallel)
	}
	if !ui.KnownTheme(c.Theme) {
		return apperrors.NewConfigError("unknown theme %q (want %s)", c.Theme, strings.Join(ui.ThemeNames(), ", "))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	return nil
}

// taskList is a flag.Value holding a comma-separated list of task names.
type taskList struct{ names *[]string }

func (l taskList) String() string {
	if l.names == nil {
		return ""
	}
	return strings.Join(*l.names, ",")
}

func (l taskList) Set(v string) error {
	*l.names = splitTasks(v)
	return nil
}

func splitTasks(v string) []string {
	var names []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// ParseConfig parses command-line arguments into an AppConfig.
//
// Values are resolved with the priority CLI flags > RACECOORD_* environment
// variables > YAML config file > defaults.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)
	fs.Usage = func() {
		fmt.Fprintf(errorOutput, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errorOutput, "Races several simulated tasks and prints the first success as (status, label).")
		fmt.Fprintln(errorOutput, "Status is the winning duration in ms, -1 when every accepted result failed, -2 on timeout.")
		fmt.Fprintln(errorOutput, "\nOptions:")
		fs.PrintDefaults()
	}

	config := AppConfig{Tasks: DefaultTasks()}
	fs.Var(taskList{&config.Tasks}, "tasks", "Comma-separated task names.")
	fs.DurationVar(&config.MaxValue, "max-value", DefaultMaxValue, "Upper bound of a simulated task duration.")
	fs.Float64Var(&config.ThresholdRatio, "threshold-ratio", task.DefaultThresholdRatio, "Tasks fail when their duration exceeds this fraction of --max-value.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Race timeout.")
	fs.StringVar(&config.Variant, "variant", orchestration.VariantFiltered.String(), "Acceptance filter: 'filtered' (successes only) or 'unfiltered' (first completion).")
	fs.Uint64Var(&config.Seed, "seed", 0, "Seed for reproducible durations (0 = random).")
	fs.IntVar(&config.Rounds, "rounds", DefaultRounds, "Number of independent races to run.")
	fs.IntVar(&config.Parallel, "parallel", 0, "Maximum concurrent rounds (0 = number of CPUs).")
	fs.IntVar(&config.RoundsPerMinute, "rounds-per-minute", 0, "Maximum round launches per minute (0 = unlimited).")
	fs.BoolVar(&config.CancelLosers, "cancel-losers", false, "Cancel losing tasks once the race resolves.")
	fs.BoolVar(&config.WaitLosers, "wait-losers", false, "Wait for losing tasks to finish before exiting.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: print only the outcome.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also honors NO_COLOR).")
	fs.StringVar(&config.Theme, "theme", ui.DarkTheme.Name, "Color theme: dark, light or none.")
	fs.BoolVar(&config.Details, "details", false, "Display host and runtime details.")
	fs.BoolVar(&config.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive race board.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Diagnostic log level (debug, info, warn, error).")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML file providing default values.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run.")
	fs.StringVar(&config.HistoryRedis, "history-redis", "", "Record every resolved race in the Redis server at this address.")
	fs.StringVar(&config.Completion, "completion", "", "Generate a completion script (bash, zsh, fish, powershell).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		file, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		file.apply(&config, fs)
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
