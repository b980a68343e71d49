// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Aliased flags may be given in either their short or long form.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the RACECOORD_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
// Unparsable values are ignored and the previous value is kept.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"TASKS", []string{"tasks"}, func(c *AppConfig, v string) {
		if names := splitTasks(v); len(names) > 0 {
			c.Tasks = names
		}
	}},
	{"VARIANT", []string{"variant"}, func(c *AppConfig, v string) {
		c.Variant = v
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) {
		c.LogLevel = v
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) {
		c.Theme = strings.ToLower(v)
	}},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) {
		c.MetricsFile = v
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) {
		c.MetricsAddr = v
	}},
	{"HISTORY_REDIS", []string{"history-redis"}, func(c *AppConfig, v string) {
		c.HistoryRedis = v
	}},

	// Numeric overrides
	{"THRESHOLD_RATIO", []string{"threshold-ratio"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.ThresholdRatio = parsed
		}
	}},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	{"ROUNDS", []string{"rounds"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Rounds = parsed
		}
	}},
	{"PARALLEL", []string{"parallel"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Parallel = parsed
		}
	}},
	{"ROUNDS_PER_MINUTE", []string{"rounds-per-minute"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.RoundsPerMinute = parsed
		}
	}},

	// Duration overrides
	{"MAX_VALUE", []string{"max-value"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.MaxValue = parsed
		}
	}},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// Boolean overrides
	{"CANCEL_LOSERS", []string{"cancel-losers"}, func(c *AppConfig, v string) {
		c.CancelLosers = parseBoolEnv(v, c.CancelLosers)
	}},
	{"WAIT_LOSERS", []string{"wait-losers"}, func(c *AppConfig, v string) {
		c.WaitLosers = parseBoolEnv(v, c.WaitLosers)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"DETAILS", []string{"details", "d"}, func(c *AppConfig, v string) {
		c.Details = parseBoolEnv(v, c.Details)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
//
// Supported environment variables (all prefixed with RACECOORD_):
//   - TASKS, VARIANT, LOG_LEVEL, THEME, METRICS_FILE, METRICS_ADDR,
//     HISTORY_REDIS, THRESHOLD_RATIO, SEED, ROUNDS, PARALLEL, ROUNDS_PER_MINUTE,
//     MAX_VALUE, TIMEOUT, CANCEL_LOSERS, WAIT_LOSERS, QUIET, NO_COLOR, DETAILS,
//     TUI, and CONFIG (read before the file is loaded)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
