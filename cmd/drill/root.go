package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/config"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/grading"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/events"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/platform/postgres"
	"github.com/phrazzld/lexicon/internal/service/learning"
	"github.com/phrazzld/lexicon/internal/session"
	"github.com/phrazzld/lexicon/internal/task"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var ownerFlag, modeFlag string

	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Drill today's due vocabulary in the terminal",
		Long: "drill loads the terms due today for a learner and quizzes them one by one.\n" +
			"Type the answer and press enter; :skip moves on without grading and :quit ends the session.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, mode, err := parseSessionFlags(ownerFlag, modeFlag)
			if err != nil {
				return err
			}
			return runDrill(cmd.Context(), cmd, ownerID, mode)
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "learner ID (UUID)")
	cmd.Flags().StringVar(&modeFlag, "mode", "both", "directions to drill: forward, backward or both")
	_ = cmd.MarkFlagRequired("owner")

	cmd.AddCommand(newTokenCmd())
	return cmd
}

func parseSessionFlags(owner, mode string) (uuid.UUID, domain.Mode, error) {
	ownerID, err := parseOwner(owner)
	if err != nil {
		return uuid.Nil, 0, err
	}
	m, err := domain.ParseMode(mode)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("invalid --mode: %w", err)
	}
	return ownerID, m, nil
}

func parseOwner(owner string) (uuid.UUID, error) {
	ownerID, err := uuid.Parse(owner)
	if err != nil || ownerID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid --owner %q: must be a non-nil UUID", owner)
	}
	return ownerID, nil
}

// runDrill wires a controller to the database and runs one session on the
// command's standard streams. Logs go to stderr.
func runDrill(ctx context.Context, cmd *cobra.Command, ownerID uuid.UUID, mode domain.Mode) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.SetupWithWriter(cfg.Server, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	loc, err := cfg.Learning.Location()
	if err != nil {
		return err
	}
	cal, err := srs.NewCalendar(loc)
	if err != nil {
		return err
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	emitter := events.NewInMemoryEventEmitter(log)
	attemptLog := task.StartAttemptLogPipeline(emitter,
		postgres.NewPostgresAttemptStore(db, log), postgres.NewPostgresTaskStore(db, log),
		task.AttemptLogConfig{QueueSize: cfg.Worker.QueueSize, WorkerCount: cfg.Worker.Count}, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := attemptLog.Shutdown(shutdownCtx); err != nil {
			log.Warn("attempt log did not drain")
		}
	}()
	if _, err := attemptLog.Recover(ctx); err != nil {
		log.Warn("attempt log recovery failed", slog.String("error", err.Error()))
	}

	leveler := srs.NewLevelerWithParams(cal, srs.NewParams(srs.ParamsConfig{Intervals: cfg.Learning.Intervals}))
	svc := learning.NewService(db, postgres.NewPostgresTermStore(db, log), leveler, log,
		learning.WithEmitter(emitter))

	c := session.NewController(ownerID, session.Deps{
		Terms:    svc,
		Updater:  svc,
		Grader:   grading.NewGrader(cfg.Learning.CorrectThreshold),
		Calendar: cal,
		Logger:   log,
	}, session.Options{ReviewPasses: cfg.Learning.ReviewPasses})

	_, err = drill(ctx, c, mode, cmd.InOrStdin(), cmd.OutOrStdout())
	return err
}
