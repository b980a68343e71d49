// Package task implements the unit of work raced by the orchestrator: a
// Worker that may block and may fail, the duration sources that drive the
// simulated worker, and the normalizer that turns every run into exactly one
// Result.
package task
