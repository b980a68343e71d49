package task

import (
	"testing"
	"time"
)

func TestResultStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		result Result
		ok     bool
		status int64
		label  string
		str    string
	}{
		{"success", Success(1500*time.Millisecond, "task1"), true, 1500, "task1", `(1500, "task1")`},
		{"zero success", Success(0, "task2"), true, 0, "task2", `(0, "task2")`},
		{"failure", Failure(), false, FailureStatus, "", `(-1, "")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.result.OK() != tt.ok {
				t.Errorf("OK() = %v, want %v", tt.result.OK(), tt.ok)
			}
			if tt.result.Status() != tt.status {
				t.Errorf("Status() = %d, want %d", tt.result.Status(), tt.status)
			}
			if tt.result.Label != tt.label {
				t.Errorf("Label = %q, want %q", tt.result.Label, tt.label)
			}
			if tt.result.String() != tt.str {
				t.Errorf("String() = %s, want %s", tt.result.String(), tt.str)
			}
		})
	}
}
