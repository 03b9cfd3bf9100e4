package learning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/events"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/store"
)

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db      *sql.DB
	terms   store.TermStore
	leveler srs.Leveler
	emitter events.EventEmitter
	now     func() time.Time
	logger  *slog.Logger
}

// Option customizes a Service.
type Option func(*serviceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// WithEmitter sets where attempt events go. Without it attempts are not logged.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(s *serviceImpl) { s.emitter = emitter }
}

// NewService creates a learning Service. db is used to open the transaction
// around each level update.
func NewService(
	db *sql.DB,
	terms store.TermStore,
	leveler srs.Leveler,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if terms == nil {
		panic("terms cannot be nil")
	}
	if leveler == nil {
		panic("leveler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:      db,
		terms:   terms,
		leveler: leveler,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "learning_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetTermsDue implements Service.
func (s *serviceImpl) GetTermsDue(
	ctx context.Context,
	ownerID uuid.UUID,
	mode domain.Mode,
) ([]domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidMode, int(mode))
	}

	terms, err := s.terms.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list terms",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, NewGetTermsDueError("failed to list terms", err)
	}

	log.Debug("loaded terms for selection",
		slog.String("owner_id", ownerID.String()),
		slog.String("mode", mode.String()),
		slog.Int("count", len(terms)))
	return terms, nil
}

// UpdateLevel implements Service.
func (s *serviceImpl) UpdateLevel(
	ctx context.Context,
	ownerID uuid.UUID,
	termID uuid.UUID,
	dir domain.Direction,
	outcome domain.Outcome,
) (domain.Track, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("owner_id", ownerID.String()),
		slog.String("term_id", termID.String()),
		slog.String("direction", dir.String()))

	if !dir.Valid() {
		return domain.Track{}, NewUpdateLevelError("invalid direction", domain.ErrInvalidDirection)
	}

	now := s.now()
	var next domain.Track

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		terms := s.terms.WithTx(tx)

		term, err := terms.GetForUpdate(ctx, termID)
		if err != nil {
			if errors.Is(err, store.ErrTermNotFound) {
				log.Warn("term not found for level update")
				return ErrTermNotFound
			}
			return fmt.Errorf("failed to lock term: %w", err)
		}

		if term.OwnerID != ownerID {
			log.Warn("user does not own term", slog.String("actual_owner_id", term.OwnerID.String()))
			return ErrTermNotOwned
		}

		next, err = s.leveler.Next(term.Track(dir), outcome.Correct, now)
		if err != nil {
			return fmt.Errorf("failed to compute next track: %w", err)
		}

		if err := terms.UpdateTrack(ctx, termID, dir, next); err != nil {
			return fmt.Errorf("failed to write track: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTermNotFound) || errors.Is(err, ErrTermNotOwned) {
			return domain.Track{}, err
		}
		log.Error("failed to update level", slog.String("error", err.Error()))
		return domain.Track{}, NewUpdateLevelError("failed to update level", err)
	}

	log.Debug("level updated",
		slog.Bool("correct", outcome.Correct),
		slog.Int("level", next.Level),
		slog.Time("due_at", next.DueAt))

	s.recordAttempt(ctx, log, domain.Attempt{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		TermID:      termID,
		Direction:   dir,
		Correct:     outcome.Correct,
		Score:       outcome.Score,
		Level:       next.Level,
		DueAt:       next.DueAt,
		AttemptedAt: now.UTC(),
	})
	return next, nil
}

// recordAttempt publishes the attempt. Failures are logged only: the level
// write has already committed.
func (s *serviceImpl) recordAttempt(ctx context.Context, log *slog.Logger, attempt domain.Attempt) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.TypeAttemptRecorded, attempt)
	if err != nil {
		log.Error("failed to build attempt event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit attempt event",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
	}
}
