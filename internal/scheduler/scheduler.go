// Package scheduler provides the execution resources the race orchestrator
// runs on. Blocking work and quick callbacks are kept on separate pools so a
// burst of long waits never occupies the slots reserved for short callbacks.
package scheduler

import (
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
)

// Scheduler runs functions concurrently.
type Scheduler interface {
	// Go runs a short, non-blocking callback.
	Go(fn func())
	// GoBlocking runs fn on a resource provisioned for long blocking calls.
	GoBlocking(fn func())
}

// Stats is a snapshot of pool activity.
type Stats struct {
	QuickRunning      int64
	QuickCompleted    uint64
	BlockingRunning   int64
	BlockingCompleted uint64
}

// Pools is a Scheduler backed by two pond pools: a bounded quick pool and an
// unbounded blocking pool.
type Pools struct {
	quick    pond.Pool
	blocking pond.Pool
	stopOnce sync.Once
}

// NewPools creates the pools. quickSize <= 0 selects runtime.NumCPU().
func NewPools(quickSize int) *Pools {
	if quickSize <= 0 {
		quickSize = runtime.NumCPU()
	}
	return &Pools{
		quick:    pond.NewPool(quickSize),
		blocking: pond.NewPool(0),
	}
}

// Go implements Scheduler.
func (p *Pools) Go(fn func()) {
	p.quick.Submit(fn)
}

// GoBlocking implements Scheduler.
func (p *Pools) GoBlocking(fn func()) {
	p.blocking.Submit(fn)
}

// QuickSize returns the maximum concurrency of the quick pool.
func (p *Pools) QuickSize() int {
	return p.quick.MaxConcurrency()
}

// Stats reports the current activity of both pools.
func (p *Pools) Stats() Stats {
	return Stats{
		QuickRunning:      p.quick.RunningWorkers(),
		QuickCompleted:    p.quick.CompletedTasks(),
		BlockingRunning:   p.blocking.RunningWorkers(),
		BlockingCompleted: p.blocking.CompletedTasks(),
	}
}

// StopAndWait waits for every submitted function on both pools, then stops
// accepting new work. Blocking work is drained first since it may still
// schedule quick callbacks.
func (p *Pools) StopAndWait() {
	p.stopOnce.Do(func() {
		p.blocking.StopAndWait()
		p.quick.StopAndWait()
	})
}

// Goroutines is a Scheduler that starts one goroutine per call. It keeps no
// state and is the default for tests and library callers.
type Goroutines struct{}

// Go implements Scheduler.
func (Goroutines) Go(fn func()) { go fn() }

// GoBlocking implements Scheduler.
func (Goroutines) GoBlocking(fn func()) { go fn() }
