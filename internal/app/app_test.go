package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	apperrors "github.com/agbru/racecoord/internal/errors"
	"github.com/agbru/racecoord/internal/logging"
	"github.com/agbru/racecoord/internal/task"
)

// sleepWorker waits for the duration listed for each task and succeeds; tasks
// listed in fail return an error after their wait.
func sleepWorker(durations map[string]time.Duration, fail ...string) task.Worker {
	failing := make(map[string]bool, len(fail))
	for _, name := range fail {
		failing[name] = true
	}
	return task.WorkerFunc(func(ctx context.Context, name string) (time.Duration, error) {
		d := durations[name]
		if err := task.Sleep(ctx, d); err != nil {
			return 0, err
		}
		if failing[name] {
			return 0, errors.New("failed")
		}
		return d, nil
	})
}

func newTestApp(t *testing.T, w task.Worker, args ...string) *Application {
	t.Helper()
	opts := []AppOption{WithLogger(logging.Nop())}
	if w != nil {
		opts = append(opts, WithWorker(w))
	}
	app, err := New(append([]string{"racecoord"}, args...), io.Discard, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app
}

func TestRun_SingleRaceQuiet(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": 40 * time.Millisecond, "b": 5 * time.Millisecond, "c": 10 * time.Millisecond}, "b")
	app := newTestApp(t, w, "--tasks", "a,b,c", "--timeout", "2s", "-q")

	var out bytes.Buffer
	code := app.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if got := out.String(); got != "(10, \"c\")\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		worker task.Worker
		args   []string
		code   int
		output string
	}{
		{
			name:   "timed out",
			worker: sleepWorker(map[string]time.Duration{"a": time.Second}),
			args:   []string{"--tasks", "a", "--timeout", "20ms", "-q"},
			code:   apperrors.ExitErrorTimeout,
			output: "(-2, \"\")\n",
		},
		{
			name:   "filtered failures time out",
			worker: sleepWorker(map[string]time.Duration{"a": time.Millisecond}, "a"),
			args:   []string{"--tasks", "a", "--timeout", "50ms", "-q"},
			code:   apperrors.ExitErrorTimeout,
			output: "(-2, \"\")\n",
		},
		{
			name:   "unfiltered failure",
			worker: sleepWorker(map[string]time.Duration{"a": time.Millisecond, "b": 100 * time.Millisecond}, "a"),
			args:   []string{"--tasks", "a,b", "--timeout", "2s", "--variant", "unfiltered", "-q"},
			code:   apperrors.ExitErrorAllFailed,
			output: "(-1, \"\")\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := newTestApp(t, tt.worker, tt.args...)
			var out bytes.Buffer
			if code := app.Run(context.Background(), &out); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if out.String() != tt.output {
				t.Errorf("output = %q, want %q", out.String(), tt.output)
			}
		})
	}
}

func TestRun_SimulatedWorker(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, nil, "--max-value", "40ms", "--timeout", "60ms", "--seed", "3", "-q")

	var out bytes.Buffer
	code := app.Run(context.Background(), &out)

	pair := regexp.MustCompile(`^\((-2|-1|\d+), "(task\d)?"\)\n$`)
	if !pair.MatchString(out.String()) {
		t.Errorf("output %q is not a (status, label) pair", out.String())
	}
	if code != apperrors.ExitSuccess && code != apperrors.ExitErrorTimeout {
		t.Errorf("unexpected exit code %d", code)
	}
}

// Not parallel: Run switches the global color theme.
func TestRun_VerboseOutput(t *testing.T) {
	w := sleepWorker(map[string]time.Duration{"a": 5 * time.Millisecond, "b": 30 * time.Millisecond})
	app := newTestApp(t, w, "--tasks", "a,b", "--timeout", "1s", "--no-color", "--details", "--wait-losers")

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{
		"--- Execution Configuration ---",
		"Execution mode: single race.",
		"a waiting",
		"a done waiting after 5ms",
		`resolved SUCCESS (5, "a")`,
		"--- Result ---",
		"Runtime Stats:",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should contain %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Rounds(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": 5 * time.Millisecond, "b": 30 * time.Millisecond})
	app := newTestApp(t, w, "--tasks", "a,b", "--timeout", "1s", "--rounds", "6", "--parallel", "3", "-q")

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
	if got := out.String(); got != "rounds=6 success=6 all_failed=0 timed_out=0\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_RoundsAllTimedOut(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": time.Second})
	app := newTestApp(t, w, "--tasks", "a", "--timeout", "10ms", "--rounds", "3", "--cancel-losers", "-q")

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
}

func TestRun_RoundsPerMinute(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": time.Millisecond})
	// 600 rounds per minute is one launch every 100ms.
	app := newTestApp(t, w, "--tasks", "a", "--timeout", "1s", "--rounds", "3", "--rounds-per-minute", "600", "-q")

	start := time.Now()
	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("3 paced rounds took %v, want at least 150ms", elapsed)
	}
}

func TestRun_History(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	w := sleepWorker(map[string]time.Duration{"a": time.Millisecond, "b": 20 * time.Millisecond})
	app := newTestApp(t, w, "--tasks", "a,b", "--timeout", "1s", "--rounds", "3", "--history-redis", mr.Addr(), "-d")

	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	ids, err := mr.List("racecoord:races")
	if err != nil {
		t.Fatalf("history index: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("recorded %d races, want 3", len(ids))
	}
	if got := mr.HGet("racecoord:outcomes", "success"); got != "3" {
		t.Errorf("success tally = %q, want 3", got)
	}
	if !strings.Contains(out.String(), "3 races recorded") {
		t.Errorf("details output should show the history tally:\n%s", out.String())
	}
}

func TestRun_HistoryUnavailable(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	app := newTestApp(t, sleepWorker(nil), "--tasks", "a", "--history-redis", addr, "-q")
	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}

func TestRun_MetricsAddr(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": time.Millisecond})
	app := newTestApp(t, w, "--tasks", "a", "--timeout", "5s", "--metrics-addr", "127.0.0.1:0", "-q")
	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
}

func TestRun_MetricsAddrInUse(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	var errBuf bytes.Buffer
	app := newTestApp(t, sleepWorker(nil), "--tasks", "a", "--metrics-addr", ln.Addr().String(), "-q")
	app.ErrWriter = &errBuf
	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errBuf.String(), "Error starting metrics server") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()
	w := sleepWorker(map[string]time.Duration{"a": time.Second})
	app := newTestApp(t, w, "--tasks", "a", "--timeout", "5s", "-q", "--cancel-losers")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := app.Run(ctx, io.Discard); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRun_MetricsFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "race.prom")
	w := sleepWorker(map[string]time.Duration{"a": time.Millisecond})
	app := newTestApp(t, w, "--tasks", "a", "--timeout", "1s", "-q", "--metrics-file", path)

	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `racecoord_races_total{outcome="success"} 1`) {
		t.Errorf("metrics file missing race counter:\n%s", data)
	}
}

func TestRun_MetricsFileError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing-dir", "race.prom")
	w := sleepWorker(map[string]time.Duration{"a": time.Millisecond})
	app := newTestApp(t, w, "--tasks", "a", "--timeout", "1s", "-q", "--metrics-file", path)

	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}

func TestRun_Completion(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, nil, "--completion", "bash")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "complete -F _racecoord racecoord") {
		t.Error("bash completion script expected")
	}

	app = newTestApp(t, nil, "--completion", "tcsh")
	if code := app.Run(context.Background(), io.Discard); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"help", []string{"racecoord", "--help"}, apperrors.ExitSuccess},
		{"unknown flag", []string{"racecoord", "--nope"}, apperrors.ExitErrorConfig},
		{"invalid variant", []string{"racecoord", "--variant", "3"}, apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := ExitCodeForError(err); got != tt.code {
				t.Errorf("ExitCodeForError = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-q", "-V"}, true},
		{[]string{"--timeout", "1s"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "racecoord "+Version) {
		t.Errorf("version banner = %q", buf.String())
	}
}
