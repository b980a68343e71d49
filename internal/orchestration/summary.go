package orchestration

import (
	"io"
	"sort"
	"time"

	apperrors "github.com/agbru/racecoord/internal/errors"
)

// RoundResult is the outcome of one race round.
type RoundResult struct {
	// Round is the 1-based round index.
	Round   int
	Outcome Outcome
	// Elapsed is the wall-clock time until the round resolved.
	Elapsed time.Duration
}

// TaskWins counts how many rounds a task won.
type TaskWins struct {
	Task string
	Wins int
}

// RoundSummary tallies several rounds.
type RoundSummary struct {
	Rounds    int
	Successes int
	AllFailed int
	TimedOut  int
	// Wins is sorted by descending win count, then task name.
	Wins []TaskWins
	// Fastest is the success with the smallest value, if any.
	Fastest *RoundResult
	// MeanElapsed is the average resolution time.
	MeanElapsed time.Duration
}

// Summarize tallies round results.
func Summarize(results []RoundResult) RoundSummary {
	s := RoundSummary{Rounds: len(results)}
	wins := make(map[string]int)
	var total time.Duration

	for i := range results {
		r := &results[i]
		total += r.Elapsed
		switch r.Outcome.Kind {
		case OutcomeSuccess:
			s.Successes++
			wins[r.Outcome.Label]++
			if s.Fastest == nil || r.Outcome.Value < s.Fastest.Outcome.Value {
				s.Fastest = r
			}
		case OutcomeTimedOut:
			s.TimedOut++
		default:
			s.AllFailed++
		}
	}
	if len(results) > 0 {
		s.MeanElapsed = total / time.Duration(len(results))
	}

	for name, n := range wins {
		s.Wins = append(s.Wins, TaskWins{Task: name, Wins: n})
	}
	sort.Slice(s.Wins, func(i, j int) bool {
		if s.Wins[i].Wins != s.Wins[j].Wins {
			return s.Wins[i].Wins > s.Wins[j].Wins
		}
		return s.Wins[i].Task < s.Wins[j].Task
	})
	return s
}

// ExitCodeFor maps a single outcome to a process exit code.
func ExitCodeFor(o Outcome) int {
	switch o.Kind {
	case OutcomeSuccess:
		return apperrors.ExitSuccess
	case OutcomeTimedOut:
		return apperrors.ExitErrorTimeout
	case OutcomeAllFailed:
		return apperrors.ExitErrorAllFailed
	default:
		return apperrors.ExitErrorGeneric
	}
}

// AnalyzeRounds summarizes several rounds, presents the summary, and returns
// an exit code: success if any round produced a success, otherwise the code
// of the most frequent sentinel (timeout wins ties).
func AnalyzeRounds(results []RoundResult, presenter OutcomePresenter, out io.Writer) int {
	s := Summarize(results)
	presenter.PresentSummary(s, out)

	switch {
	case s.Rounds == 0:
		return apperrors.ExitErrorGeneric
	case s.Successes > 0:
		return apperrors.ExitSuccess
	case s.AllFailed > s.TimedOut:
		return apperrors.ExitErrorAllFailed
	default:
		return apperrors.ExitErrorTimeout
	}
}
