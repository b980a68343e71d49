package task

import (
	"hash/fnv"
	"math/rand/v2"
	"sync"
	"time"
)

// DurationSource yields the simulated duration of a task run. Implementations
// must be safe for concurrent use.
type DurationSource interface {
	// Next returns a duration for the named task in [0, max).
	Next(name string, max time.Duration) time.Duration
}

// RandomSource draws whole milliseconds uniformly from [0, max).
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a RandomSource seeded from the runtime generator.
func NewRandomSource() *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Next implements DurationSource.
func (s *RandomSource) Next(_ string, max time.Duration) time.Duration {
	ms := max.Milliseconds()
	if ms <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.rng.Int64N(ms)) * time.Millisecond
}

// SeededSource derives each task's duration from a seed and the task name, so
// the draw does not depend on the order in which tasks are scheduled.
type SeededSource struct {
	seed uint64
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{seed: seed}
}

// Next implements DurationSource.
func (s *SeededSource) Next(name string, max time.Duration) time.Duration {
	ms := max.Milliseconds()
	if ms <= 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	rng := rand.New(rand.NewPCG(s.seed, h.Sum64()))
	return time.Duration(rng.Int64N(ms)) * time.Millisecond
}

// FixedSource returns preset durations by task name. Names without an entry
// get Default. The max bound is ignored.
type FixedSource struct {
	Durations map[string]time.Duration
	Default   time.Duration
}

// Next implements DurationSource.
func (s FixedSource) Next(name string, _ time.Duration) time.Duration {
	if d, ok := s.Durations[name]; ok {
		return d
	}
	return s.Default
}

// FixedDurations maps names[i] to durations[i]. Extra durations are ignored.
func FixedDurations(names []string, durations ...time.Duration) FixedSource {
	m := make(map[string]time.Duration, len(names))
	for i, name := range names {
		if i < len(durations) {
			m[name] = durations[i]
		}
	}
	return FixedSource{Durations: m}
}
