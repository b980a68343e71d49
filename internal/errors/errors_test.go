package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"literal", ConfigError{Message: "--tasks must not be empty"}, "--tasks must not be empty"},
		{"formatted", NewConfigError("invalid variant %q", "strict"), `invalid variant "strict"`},
		{"no args", NewConfigError("timeout must be positive"), "timeout must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			var cfgErr ConfigError
			if !errors.As(fmt.Errorf("loading config: %w", tt.err), &cfgErr) {
				t.Error("wrapped ConfigError not found by errors.As")
			}
		})
	}
}

func TestRoundError(t *testing.T) {
	t.Parallel()
	cause := context.Canceled
	err := error(RoundError{Round: 3, Cause: cause})

	if got, want := err.Error(), "round 3: context canceled"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("RoundError should unwrap to its cause")
	}
	var re RoundError
	if !errors.As(fmt.Errorf("rounds: %w", err), &re) || re.Round != 3 {
		t.Errorf("errors.As = %+v, want round 3", re)
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("await: %w", context.DeadlineExceeded), true},
		{"in round", RoundError{Round: 1, Cause: context.Canceled}, true},
		{"config", NewConfigError("bad"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesDistinct(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"success":    ExitSuccess,
		"generic":    ExitErrorGeneric,
		"timeout":    ExitErrorTimeout,
		"config":     ExitErrorConfig,
		"all failed": ExitErrorAllFailed,
		"canceled":   ExitErrorCanceled,
	}
	seen := make(map[int]string, len(codes))
	for name, code := range codes {
		if other, dup := seen[code]; dup {
			t.Errorf("exit code %d shared by %q and %q", code, name, other)
		}
		seen[code] = name
	}
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
}
