// Package app wires configuration, the race orchestrator and the CLI
// presentation into the racecoord application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/racecoord/internal/cli"
	"github.com/agbru/racecoord/internal/config"
	apperrors "github.com/agbru/racecoord/internal/errors"
	"github.com/agbru/racecoord/internal/logging"
	"github.com/agbru/racecoord/internal/task"
	"github.com/agbru/racecoord/internal/ui"
)

// Application represents the racecoord application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Worker overrides the simulated worker; nil selects one built from Config.
	Worker task.Worker
	Logger logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithWorker replaces the simulated task worker.
func WithWorker(w task.Worker) AppOption {
	return func(a *Application) { a.Worker = w }
}

// WithLogger replaces the diagnostic logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "racecoord"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, "racecoord", logging.ParseLevel(cfg.LogLevel))
	}
	return app, nil
}

// Run executes the application and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.TUI {
		return a.runDashboard(ctx, out)
	}
	if a.Config.Rounds > 1 {
		return a.runRounds(ctx, out)
	}
	return a.runRace(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeForError maps an error returned by New to a process exit code.
// Every parse failure, including unknown flags, is a configuration error.
func ExitCodeForError(err error) int {
	if err == nil || IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	return apperrors.ExitErrorConfig
}
