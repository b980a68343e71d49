package metrics

import "testing"

func TestReadMemory(t *testing.T) {
	t.Parallel()

	snap := ReadMemory()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
	if snap.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want at least 1", snap.Goroutines)
	}
}

func TestReadMemory_SysMonotonic(t *testing.T) {
	t.Parallel()

	before := ReadMemory()
	_ = make([]byte, 1024*1024)
	after := ReadMemory()

	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
}
