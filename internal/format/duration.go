// Package format renders durations and race statuses for display.
package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display. It shows
// microseconds below a millisecond, whole milliseconds below a second, and
// the default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// Sentinel statuses shared with the orchestration layer.
const (
	statusAllFailed = -1
	statusTimedOut  = -2
)

// FormatStatus describes a race status: a winning duration in milliseconds,
// or one of the two sentinels.
func FormatStatus(status int64) string {
	switch {
	case status == statusAllFailed:
		return "all failed"
	case status == statusTimedOut:
		return "timed out"
	case status < 0:
		return fmt.Sprintf("unknown status %d", status)
	default:
		return fmt.Sprintf("won in %s", FormatExecutionDuration(time.Duration(status)*time.Millisecond))
	}
}

// FormatPair renders the (status, label) pair printed as the race result.
func FormatPair(status int64, label string) string {
	return fmt.Sprintf("(%d, %q)", status, label)
}
