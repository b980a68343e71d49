package orchestration

import (
	"fmt"
	"strings"

	"github.com/agbru/racecoord/internal/task"
)

// Variant selects the acceptance filter applied before a task result is
// offered to the sink.
type Variant int

const (
	// VariantFiltered offers only successes. A race can then resolve only to
	// a success or to the timeout.
	VariantFiltered Variant = iota
	// VariantUnfiltered offers every normalized result. If the fastest task
	// fails, the race resolves to AllFailed even when a slower task would
	// have succeeded.
	VariantUnfiltered
)

// Variants lists the accepted names, in flag order.
var Variants = []string{"filtered", "unfiltered"}

// ParseVariant accepts "filtered"/"1" and "unfiltered"/"2".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "filtered", "1", "":
		return VariantFiltered, nil
	case "unfiltered", "2":
		return VariantUnfiltered, nil
	default:
		return VariantFiltered, fmt.Errorf("unknown variant %q (accepted values: %s)", s, strings.Join(Variants, ", "))
	}
}

// String returns the variant name.
func (v Variant) String() string {
	if v == VariantUnfiltered {
		return "unfiltered"
	}
	return "filtered"
}

// Accept is the acceptance filter.
func (v Variant) Accept(res task.Result) bool {
	if v == VariantUnfiltered {
		return true
	}
	return res.OK()
}
