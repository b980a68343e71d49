package tui

import (
	"time"

	"github.com/agbru/racecoord/internal/metrics"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/sysmon"
)

// Race messages carry the generation of the race they belong to; the model
// drops messages from races it has already replaced.

// RaceStartedMsg reports that a race has been launched.
type RaceStartedMsg struct {
	ID         string
	Round      int
	Generation uint64
}

// EventMsg forwards one race event.
type EventMsg struct {
	Event      orchestration.Event
	Generation uint64
}

// RaceSettledMsg is sent once the event stream closes, when every task and
// the timeout task have finished.
type RaceSettledMsg struct {
	Generation uint64
}

// RaceErrorMsg reports that a race could not be started.
type RaceErrorMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives the periodic refresh.
type TickMsg time.Time

// MemStatsMsg carries a process memory snapshot.
type MemStatsMsg metrics.MemorySnapshot

// SysStatsMsg carries a host CPU and memory sample.
type SysStatsMsg sysmon.Stats

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}
