package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/racecoord/internal/config"
	"github.com/agbru/racecoord/internal/metrics"
	"github.com/agbru/racecoord/internal/sysmon"
)

func TestPrintExecutionConfig(t *testing.T) {
	useNoColor(t)
	cfg := config.AppConfig{
		Tasks:          config.DefaultTasks(),
		MaxValue:       config.DefaultMaxValue,
		ThresholdRatio: 0.25,
		Timeout:        config.DefaultTimeout,
		Variant:        "filtered",
	}
	host := sysmon.Host{NumCPU: 8, GOMAXPROCS: 8}

	var buf bytes.Buffer
	PrintExecutionConfig(cfg, host, &buf)
	out := buf.String()
	for _, want := range []string{
		"Racing 4 tasks (task1, task2, task3, task4) with a timeout of 32s",
		"failing above 7.5s",
		"variant filtered",
		"8 logical CPUs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	useNoColor(t)
	tests := []struct {
		cfg  config.AppConfig
		want string
	}{
		{config.AppConfig{Rounds: 1}, "Execution mode: single race."},
		{config.AppConfig{Rounds: 10, Parallel: 2, Seed: 7}, "Execution mode: 10 rounds, up to 2 at once, seed 7."},
		{config.AppConfig{Rounds: 1, CancelLosers: true}, "Execution mode: single race, losers cancelled."},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		PrintExecutionMode(tt.cfg, &buf)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("got %q, want it to contain %q", buf.String(), tt.want)
		}
	}
}

func TestDisplayRuntimeStats(t *testing.T) {
	var buf bytes.Buffer
	DisplayRuntimeStats(metrics.MemorySnapshot{HeapAlloc: 2048, Sys: 3 * 1024 * 1024, NumGC: 4, Goroutines: 9}, &buf)
	out := buf.String()
	for _, want := range []string{"2.0 KiB", "3.0 MiB", "GC cycles:    4", "Goroutines:   9"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}

func TestDisplayHistory(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayHistory(map[string]int64{"success": 4, "timed_out": 1}, &buf)
	out := buf.String()
	for _, want := range []string{"5 races recorded", "success    4", "all_failed 0", "timed_out  1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}
