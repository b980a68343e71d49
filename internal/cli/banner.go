package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/racecoord/internal/config"
	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/metrics"
	"github.com/agbru/racecoord/internal/sysmon"
	"github.com/agbru/racecoord/internal/ui"
)

// PrintExecutionConfig displays the race parameters and the host's available
// parallelism. The parallelism is informational only.
func PrintExecutionConfig(cfg config.AppConfig, host sysmon.Host, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Racing %s%d%s tasks (%s) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), len(cfg.Tasks), ui.ColorReset(), strings.Join(cfg.Tasks, ", "),
		ui.ColorYellow(), format.FormatExecutionDuration(cfg.Timeout), ui.ColorReset())
	fmt.Fprintf(out, "Durations below %s%s%s, failing above %s%s%s, variant %s%s%s.\n",
		ui.ColorCyan(), format.FormatExecutionDuration(cfg.MaxValue), ui.ColorReset(),
		ui.ColorCyan(), format.FormatExecutionDuration(cfg.Threshold()), ui.ColorReset(),
		ui.ColorCyan(), cfg.Variant, ui.ColorReset())
	fmt.Fprintf(out, "Available parallelism: %s%s%s, Go %s.\n",
		ui.ColorCyan(), host, ui.ColorReset(), runtime.Version())
}

// PrintExecutionMode displays whether one race or several rounds will run.
func PrintExecutionMode(cfg config.AppConfig, out io.Writer) {
	var modeDesc string
	if cfg.Rounds > 1 {
		modeDesc = fmt.Sprintf("%s%d%s rounds, up to %d at once", ui.ColorGreen(), cfg.Rounds, ui.ColorReset(), cfg.EffectiveParallel())
	} else {
		modeDesc = "single race"
	}
	if cfg.Seed != 0 {
		modeDesc += fmt.Sprintf(", seed %d", cfg.Seed)
	}
	if cfg.CancelLosers {
		modeDesc += ", losers cancelled"
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// DisplayRuntimeStats shows runtime memory statistics after the run.
func DisplayRuntimeStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nRuntime Stats:\n")
	fmt.Fprintf(out, "  Heap in use:  %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  From OS:      %s\n", format.FormatBytes(snap.Sys))
	fmt.Fprintf(out, "  GC cycles:    %d\n", snap.NumGC)
	fmt.Fprintf(out, "  Goroutines:   %d\n", snap.Goroutines)
}

// DisplayHistory prints the outcome tally of every race recorded so far.
func DisplayHistory(counts map[string]int64, out io.Writer) {
	var total int64
	for _, n := range counts {
		total += n
	}
	fmt.Fprintf(out, "\nRace History: %d races recorded\n", total)
	for _, kind := range []string{"success", "all_failed", "timed_out"} {
		fmt.Fprintf(out, "  %-10s %d\n", kind, counts[kind])
	}
}
