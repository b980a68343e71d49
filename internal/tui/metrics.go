package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/racecoord/internal/format"
	"github.com/agbru/racecoord/internal/metrics"
)

// sparklineSamples is the number of host samples kept for the sparklines.
const sparklineSamples = 60

// MetricsModel shows process memory and host usage.
type MetricsModel struct {
	mem     metrics.MemorySnapshot
	sampled bool
	cpu     *RingBuffer
	sysMem  *RingBuffer
}

// NewMetricsModel creates an empty metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpu:    NewRingBuffer(sparklineSamples),
		sysMem: NewRingBuffer(sparklineSamples),
	}
}

// UpdateMemStats records a process memory snapshot.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = metrics.MemorySnapshot(msg)
	m.sampled = true
}

// UpdateSysStats records a host sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.sysMem.Push(msg.MemPercent)
}

// View renders the panel at the given size.
func (m MetricsModel) View(width, height int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Runtime"))

	if m.sampled {
		fmt.Fprintf(&b, "\n %s %s   %s %s",
			metricLabelStyle.Render("Heap:"), metricValueStyle.Render(format.FormatBytes(m.mem.HeapAlloc)),
			metricLabelStyle.Render("From OS:"), metricValueStyle.Render(format.FormatBytes(m.mem.Sys)))
		fmt.Fprintf(&b, "\n %s %s   %s %s",
			metricLabelStyle.Render("GC:"), metricValueStyle.Render(fmt.Sprintf("%d", m.mem.NumGC)),
			metricLabelStyle.Render("Goroutines:"), metricValueStyle.Render(fmt.Sprintf("%d", m.mem.Goroutines)))
	} else {
		b.WriteString("\n " + dimStyle.Render("sampling..."))
	}

	sparkWidth := max(width-20, 5)
	fmt.Fprintf(&b, "\n %s %s %s",
		metricLabelStyle.Render("CPU"), metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.cpu.Last())),
		cpuSparklineStyle.Render(RenderSparkline(tail(m.cpu.Slice(), sparkWidth))))
	fmt.Fprintf(&b, "\n %s %s %s",
		metricLabelStyle.Render("MEM"), metricValueStyle.Render(fmt.Sprintf("%5.1f%%", m.sysMem.Last())),
		memSparklineStyle.Render(RenderSparkline(tail(m.sysMem.Slice(), sparkWidth))))

	return panelStyle.Width(width - 2).Height(max(height-2, 1)).Render(b.String())
}

func tail(values []float64, n int) []float64 {
	if len(values) > n {
		return values[len(values)-n:]
	}
	return values
}
