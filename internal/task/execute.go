package task

import (
	"context"
	"fmt"

	"github.com/agbru/racecoord/internal/logging"
)

// Execute runs w for the named task and normalizes the run into a Result.
// Errors and panics raised by the worker become Failure; nothing escapes.
func Execute(ctx context.Context, w Worker, name string, logger logging.Logger) (res Result) {
	if logger == nil {
		logger = logging.Nop()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", fmt.Errorf("panic: %v", r), logging.String("task", name))
			res = Failure()
		}
	}()

	d, err := w.Run(ctx, name)
	if err != nil {
		logger.Debug("task failed", logging.String("task", name), logging.Err(err))
		return Failure()
	}
	return Success(d, name)
}
