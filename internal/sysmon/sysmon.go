// Package sysmon reports host parallelism and samples system-wide CPU and
// memory usage.
package sysmon

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Host describes the parallelism available to the process.
type Host struct {
	NumCPU     int
	GOMAXPROCS int
	// PhysicalCores is 0 when the platform does not report it.
	PhysicalCores int
	Stats         Stats
}

// Describe reads the host's parallelism and a usage sample. It is purely
// informational: pool sizes never depend on it.
func Describe() Host {
	h := Host{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Stats:      Sample(),
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCores = n
	}
	return h
}

// String renders the host as a single line.
func (h Host) String() string {
	s := fmt.Sprintf("%d logical CPUs, GOMAXPROCS=%d", h.NumCPU, h.GOMAXPROCS)
	if h.PhysicalCores > 0 {
		s += fmt.Sprintf(", %d physical cores", h.PhysicalCores)
	}
	return s + fmt.Sprintf(", CPU %.1f%%, memory %.1f%%", h.Stats.CPUPercent, h.Stats.MemPercent)
}
