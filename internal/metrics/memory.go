package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime.
type MemorySnapshot struct {
	HeapAlloc  uint64 // bytes in use by live objects
	Sys        uint64 // total bytes obtained from the OS
	NumGC      uint32
	Goroutines int
}

// ReadMemory samples runtime memory statistics and the goroutine count.
// Losing tasks that are still waiting show up in Goroutines.
func ReadMemory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
