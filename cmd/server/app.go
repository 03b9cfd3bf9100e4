package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/api"
	"github.com/phrazzld/lexicon/internal/api/middleware"
	"github.com/phrazzld/lexicon/internal/config"
	"github.com/phrazzld/lexicon/internal/domain/grading"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/events"
	"github.com/phrazzld/lexicon/internal/platform/postgres"
	"github.com/phrazzld/lexicon/internal/platform/scheduler"
	"github.com/phrazzld/lexicon/internal/service/auth"
	"github.com/phrazzld/lexicon/internal/service/learning"
	"github.com/phrazzld/lexicon/internal/session"
	"github.com/phrazzld/lexicon/internal/store"
	"github.com/phrazzld/lexicon/internal/task"
)

// Scheduler job names.
const (
	sweepJobName   = "session_sweep"
	requeueJobName = "attempt_log_requeue"
)

// application holds the shared dependencies of the server so they can be
// shut down in order.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	now    func() time.Time

	termStore    store.TermStore
	attemptStore store.AttemptStore
	taskStore    task.TaskStore

	calendar   srs.Calendar
	jwtService auth.JWTService
	learning   learning.Service
	registry   *session.Registry

	eventEmitter *events.InMemoryEventEmitter
	attemptLog   *task.AttemptLogPipeline
	scheduler    *scheduler.Scheduler

	router http.Handler
}

// newApplication wires every component. Background workers are started
// here; Run starts the scheduler and the HTTP server.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required to serve the API")
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		now:    time.Now,
	}

	loc, err := cfg.Learning.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid learning timezone: %w", err)
	}
	app.calendar, err = srs.NewCalendar(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.termStore = postgres.NewPostgresTermStore(db, logger)
	app.attemptStore = postgres.NewPostgresAttemptStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.attemptLog = task.StartAttemptLogPipeline(app.eventEmitter, app.attemptStore, app.taskStore,
		task.AttemptLogConfig{
			QueueSize:    cfg.Worker.QueueSize,
			WorkerCount:  cfg.Worker.Count,
			StuckTaskAge: cfg.Worker.StuckTaskAge,
		}, logger)

	leveler := srs.NewLevelerWithParams(app.calendar,
		srs.NewParams(srs.ParamsConfig{Intervals: cfg.Learning.Intervals}))
	app.learning = learning.NewService(db, app.termStore, leveler, logger,
		learning.WithEmitter(app.eventEmitter),
		learning.WithClock(app.now))

	grader := grading.NewGrader(cfg.Learning.CorrectThreshold)
	opts := session.Options{ReviewPasses: cfg.Learning.ReviewPasses}
	app.registry = session.NewRegistry(func(ownerID uuid.UUID) *session.Controller {
		return session.NewController(ownerID, session.Deps{
			Terms:    app.learning,
			Updater:  app.learning,
			Grader:   grader,
			Calendar: app.calendar,
			Now:      app.now,
			Logger:   logger,
		}, opts)
	}, cfg.Learning.SessionIdleTTL, logger)

	app.scheduler = scheduler.New(loc, logger)
	if err := app.scheduler.Every(sweepJobName, cfg.Learning.SweepInterval, app.sweepSessions); err != nil {
		app.stopWorkers()
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	if err := app.scheduler.Every(requeueJobName, cfg.Worker.RequeueInterval, app.requeueStaleTasks); err != nil {
		app.stopWorkers()
		return nil, fmt.Errorf("failed to schedule attempt log requeue: %w", err)
	}

	app.router = api.NewRouter(api.RouterDeps{
		Sessions: api.NewSessionHandler(app.registry, logger),
		Terms:    api.NewTermsHandler(app.learning, app.calendar, app.now, logger),
		Auth:     middleware.NewAuthMiddleware(app.jwtService, logger),
		Logger:   logger,
	})

	logger.Info("application initialized",
		slog.Int("workers", cfg.Worker.Count),
		slog.Int("review_passes", cfg.Learning.ReviewPasses),
		slog.Duration("session_idle_ttl", cfg.Learning.SessionIdleTTL))
	return app, nil
}

// Run queues the attempts a previous run left unwritten, then serves HTTP
// until ctx is cancelled and shuts everything down.
func (app *application) Run(ctx context.Context) error {
	recovered, err := app.attemptLog.Recover(ctx)
	if err != nil {
		app.cleanup()
		return fmt.Errorf("failed to recover attempt log: %w", err)
	}
	if recovered > 0 {
		app.logger.Info("attempt log recovered", slog.Int("count", recovered))
	}

	app.scheduler.Start()
	return app.startHTTPServer(ctx, app.router)
}

func (app *application) requeueStaleTasks() {
	if _, err := app.attemptLog.RequeueStale(context.Background()); err != nil {
		app.logger.Error("failed to requeue stale attempt logs", slog.String("error", err.Error()))
	}
}

func (app *application) sweepSessions() {
	if removed := app.registry.Sweep(app.now()); removed > 0 {
		app.logger.Debug("idle sessions removed", slog.Int("count", removed))
	}
}

// stopWorkers drains the attempt log within the shutdown timeout.
func (app *application) stopWorkers() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()
	if err := app.attemptLog.Shutdown(ctx); err != nil {
		app.logger.Error("attempt log did not drain", slog.String("error", err.Error()))
	}
}

// cleanup releases resources after the HTTP server has stopped. Sessions
// are abandoned first so no new attempts are recorded while the workers
// drain.
func (app *application) cleanup() {
	app.scheduler.Stop()
	app.registry.AbandonAll()
	app.stopWorkers()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database connection", slog.String("error", err.Error()))
	}
	app.logger.Info("application shutdown completed")
}
