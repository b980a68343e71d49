// Package history persists resolved races so that outcomes can be inspected
// across runs.
package history

import (
	"context"
	"time"

	"github.com/agbru/racecoord/internal/orchestration"
)

// Record is one resolved race.
type Record struct {
	RaceID  string        `json:"race_id"`
	Round   int           `json:"round"`
	Variant string        `json:"variant"`
	Outcome string        `json:"outcome"`
	Status  int64         `json:"status"`
	Label   string        `json:"label,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
	At      time.Time     `json:"at"`
}

// NewRecord builds the record of a resolved race.
func NewRecord(raceID string, round int, variant string, o orchestration.Outcome, elapsed time.Duration) Record {
	return Record{
		RaceID:  raceID,
		Round:   round,
		Variant: variant,
		Outcome: o.Kind.String(),
		Status:  o.Status(),
		Label:   o.Label,
		Elapsed: elapsed,
		At:      time.Now().UTC(),
	}
}

// Store persists race records.
type Store interface {
	// Save persists a record.
	Save(ctx context.Context, rec Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
	// Counts returns the number of recorded races per outcome kind.
	Counts(ctx context.Context) (map[string]int64, error)
	// Close releases the store's connection.
	Close() error
}

// NopStore discards every record.
type NopStore struct{}

// Save does nothing.
func (NopStore) Save(context.Context, Record) error { return nil }

// Recent returns no records.
func (NopStore) Recent(context.Context, int) ([]Record, error) { return nil, nil }

// Counts returns an empty tally.
func (NopStore) Counts(context.Context) (map[string]int64, error) { return map[string]int64{}, nil }

// Close does nothing.
func (NopStore) Close() error { return nil }
