package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/specialistvlad/poolprop/internal/ctxlog"
	"github.com/specialistvlad/poolprop/internal/handlers"
	"github.com/specialistvlad/poolprop/internal/scheduler"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	runID  string
	sched  *scheduler.Scheduler

	handlers *handlers.Handlers
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW; each App gets its own logger tagged with a fresh run id.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	sched, err := scheduler.New(scheduler.Config{}.WithPoolPropagation())
	if err != nil {
		return nil, err
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		runID:  runID,
		sched:  sched,

		handlers: coreHandlers(),
	}, nil
}

// RunID returns the id attached to every log record of this App.
func (a *App) RunID() string {
	return a.runID
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
