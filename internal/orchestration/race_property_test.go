package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/racecoord/internal/task"
)

// TestRaceOutcomeProperties checks, over random task durations, that every
// race resolves exactly once to an outcome allowed by its variant.
func TestRaceOutcomeProperties(t *testing.T) {
	const (
		scale        = 1000
		jitterMargin = 5000 * time.Millisecond
	)
	threshold := time.Duration(float64(maxValue) * task.DefaultThresholdRatio)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("outcome is consistent with durations", prop.ForAll(
		func(ms []int64, unfiltered bool) bool {
			durations := make([]time.Duration, len(ms))
			byName := make(map[string]time.Duration, len(ms))
			for i, v := range ms {
				durations[i] = time.Duration(v) * time.Millisecond
				byName[defaultTasks[i]] = durations[i]
			}
			variant := VariantFiltered
			if unfiltered {
				variant = VariantUnfiltered
			}
			src := task.FixedDurations(defaultTasks, durations...)
			r := New(defaultTasks, scaledWorker(src, scale), raceLimit/scale, WithVariant(variant))

			h := r.Start(context.Background())
			o, err := h.Await(context.Background())
			events := collect(h)
			if err != nil {
				return false
			}

			resolved := 0
			for _, ev := range events {
				if ev.Kind == EventResolved {
					resolved++
				}
			}
			if resolved != 1 {
				return false
			}

			switch o.Kind {
			case OutcomeSuccess:
				d, ok := byName[o.Label]
				return ok && d == o.Value && d <= threshold
			case OutcomeAllFailed:
				return variant == VariantUnfiltered
			case OutcomeTimedOut:
				for _, d := range durations {
					if d <= threshold {
						return false
					}
					// Unfiltered races resolve on the first completion, which
					// only loses to the timeout when it lands close to it.
					if variant == VariantUnfiltered && d < raceLimit-jitterMargin {
						return false
					}
				}
				return true
			}
			return false
		},
		gen.SliceOfN(len(defaultTasks), gen.Int64Range(0, maxValue.Milliseconds()-1)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
