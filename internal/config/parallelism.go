package config

import "runtime"

// EffectiveParallel returns how many rounds may run at once. An unset
// Parallel falls back to the CPU count; the result never exceeds Rounds.
func (c AppConfig) EffectiveParallel() int {
	n := c.Parallel
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if c.Rounds > 0 && n > c.Rounds {
		n = c.Rounds
	}
	return max(n, 1)
}
