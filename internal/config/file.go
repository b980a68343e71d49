package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/racecoord/internal/errors"
)

// FileConfig is the YAML form of AppConfig. Every field is optional; absent
// fields leave the defaults untouched.
//
//	tasks: [task1, task2, task3, task4]
//	max_value: 30s
//	threshold_ratio: 0.25
//	timeout: 32s
//	variant: filtered
type FileConfig struct {
	Tasks          []string       `yaml:"tasks,omitempty"`
	MaxValue       *time.Duration `yaml:"max_value,omitempty"`
	ThresholdRatio *float64       `yaml:"threshold_ratio,omitempty"`
	Timeout        *time.Duration `yaml:"timeout,omitempty"`
	Variant        *string        `yaml:"variant,omitempty"`
	Seed           *uint64        `yaml:"seed,omitempty"`
	Rounds         *int           `yaml:"rounds,omitempty"`
	Parallel       *int           `yaml:"parallel,omitempty"`
	RoundsPerMin   *int           `yaml:"rounds_per_minute,omitempty"`
	CancelLosers   *bool          `yaml:"cancel_losers,omitempty"`
	WaitLosers     *bool          `yaml:"wait_losers,omitempty"`
	Quiet          *bool          `yaml:"quiet,omitempty"`
	NoColor        *bool          `yaml:"no_color,omitempty"`
	Details        *bool          `yaml:"details,omitempty"`
	LogLevel       *string        `yaml:"log_level,omitempty"`
	Theme          *string        `yaml:"theme,omitempty"`
	TUI            *bool          `yaml:"tui,omitempty"`
	MetricsFile    *string        `yaml:"metrics_file,omitempty"`
	MetricsAddr    *string        `yaml:"metrics_addr,omitempty"`
	HistoryRedis   *string        `yaml:"history_redis,omitempty"`
}

// LoadFile reads and decodes a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML config data.
func ParseFile(data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("parsing config file: %v", err)
	}
	return fc, nil
}

// apply copies the file's values into c for every flag not set on the
// command line.
func (fc FileConfig) apply(c *AppConfig, fs *flag.FlagSet) {
	set := func(names ...string) bool { return !isFlagSetAny(fs, names...) }

	if len(fc.Tasks) > 0 && set("tasks") {
		c.Tasks = append([]string(nil), fc.Tasks...)
	}
	assign(&c.MaxValue, fc.MaxValue, set("max-value"))
	assign(&c.ThresholdRatio, fc.ThresholdRatio, set("threshold-ratio"))
	assign(&c.Timeout, fc.Timeout, set("timeout"))
	assign(&c.Variant, fc.Variant, set("variant"))
	assign(&c.Seed, fc.Seed, set("seed"))
	assign(&c.Rounds, fc.Rounds, set("rounds"))
	assign(&c.Parallel, fc.Parallel, set("parallel"))
	assign(&c.RoundsPerMinute, fc.RoundsPerMin, set("rounds-per-minute"))
	assign(&c.CancelLosers, fc.CancelLosers, set("cancel-losers"))
	assign(&c.WaitLosers, fc.WaitLosers, set("wait-losers"))
	assign(&c.Quiet, fc.Quiet, set("quiet", "q"))
	assign(&c.NoColor, fc.NoColor, set("no-color"))
	assign(&c.Details, fc.Details, set("details", "d"))
	assign(&c.LogLevel, fc.LogLevel, set("log-level"))
	assign(&c.Theme, fc.Theme, set("theme"))
	assign(&c.TUI, fc.TUI, set("tui"))
	assign(&c.MetricsFile, fc.MetricsFile, set("metrics-file"))
	assign(&c.MetricsAddr, fc.MetricsAddr, set("metrics-addr"))
	assign(&c.HistoryRedis, fc.HistoryRedis, set("history-redis"))
}

func assign[T any](dst *T, src *T, ok bool) {
	if src != nil && ok {
		*dst = *src
	}
}
