package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/racecoord/internal/orchestration"
)

func TestCLIOutcomePresenter_PresentOutcome(t *testing.T) {
	useNoColor(t)
	tests := []struct {
		name     string
		quiet    bool
		outcome  orchestration.Outcome
		contains []string
	}{
		{"success", false, orchestration.SuccessOutcome(500*time.Millisecond, "task3"), []string{"SUCCESS", `(500, "task3")`, "won in 500ms"}},
		{"timed out", false, orchestration.TimedOut(), []string{"TIMED OUT", `(-2, "")`, "timed out"}},
		{"all failed", false, orchestration.AllFailed(), []string{"ALL FAILED", `(-1, "")`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			CLIOutcomePresenter{Quiet: tt.quiet}.PresentOutcome(tt.outcome, 32*time.Second, &buf)
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output should contain %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestCLIOutcomePresenter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	CLIOutcomePresenter{Quiet: true}.PresentOutcome(orchestration.SuccessOutcome(500*time.Millisecond, "task3"), time.Second, &buf)
	if got := buf.String(); got != "(500, \"task3\")\n" {
		t.Errorf("quiet output = %q", got)
	}
}

func TestCLIOutcomePresenter_PresentSummary(t *testing.T) {
	useNoColor(t)
	s := orchestration.Summarize([]orchestration.RoundResult{
		{Round: 1, Outcome: orchestration.SuccessOutcome(900*time.Millisecond, "task2"), Elapsed: time.Second},
		{Round: 2, Outcome: orchestration.SuccessOutcome(300*time.Millisecond, "task1"), Elapsed: time.Second},
		{Round: 3, Outcome: orchestration.TimedOut(), Elapsed: 32 * time.Second},
	})

	var buf bytes.Buffer
	CLIOutcomePresenter{}.PresentSummary(s, &buf)
	out := buf.String()
	for _, want := range []string{"Rounds:     3", "Successes:  2", "Timed out:  1", `Fastest win: (300, "task1") in round 2`, "task2   1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary should contain %q:\n%s", want, out)
		}
	}

	buf.Reset()
	CLIOutcomePresenter{Quiet: true}.PresentSummary(s, &buf)
	if got := buf.String(); got != "rounds=3 success=2 all_failed=0 timed_out=1\n" {
		t.Errorf("quiet summary = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	t.Parallel()
	if got := padRight("ab", 3); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("ab", -1); got != "ab" {
		t.Errorf("padRight = %q", got)
	}
}
