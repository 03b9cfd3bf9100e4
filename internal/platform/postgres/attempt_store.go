package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/store"
)

// PostgresAttemptStore implements store.AttemptStore.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates an attempt store on db.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// WithTx implements store.AttemptStore.
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

// Create implements store.AttemptStore.
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return err
	}

	query := `
		INSERT INTO attempts (id, owner_id, term_id, direction, correct, score, level, due_at, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.OwnerID,
		attempt.TermID,
		attempt.Direction.String(),
		attempt.Correct,
		attempt.Score,
		attempt.Level,
		attempt.DueAt,
		attempt.AttemptedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			log.Debug("attempt already logged", slog.String("attempt_id", attempt.ID.String()))
			return store.ErrAttemptExists
		case IsForeignKeyViolation(err):
			log.Warn("attempt references a missing term",
				slog.String("attempt_id", attempt.ID.String()),
				slog.String("term_id", attempt.TermID.String()))
			return store.NewStoreError("attempt", "create", "term does not exist", store.ErrTermNotFound)
		}
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return store.NewStoreError("attempt", "create", "failed to insert attempt", MapError(err))
	}

	return nil
}

// ListByTerm implements store.AttemptStore.
func (s *PostgresAttemptStore) ListByTerm(
	ctx context.Context,
	termID uuid.UUID,
	limit int,
) ([]domain.Attempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, owner_id, term_id, direction, correct, score, level, due_at, attempted_at
		FROM attempts
		WHERE term_id = $1
		ORDER BY attempted_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, termID, limit)
	if err != nil {
		log.Error("failed to query attempts",
			slog.String("error", err.Error()),
			slog.String("term_id", termID.String()))
		return nil, store.NewStoreError("attempt", "list", "failed to query attempts", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	attempts := []domain.Attempt{}
	for rows.Next() {
		var (
			a   domain.Attempt
			dir string
		)
		if err := rows.Scan(
			&a.ID, &a.OwnerID, &a.TermID, &dir, &a.Correct,
			&a.Score, &a.Level, &a.DueAt, &a.AttemptedAt,
		); err != nil {
			log.Error("failed to scan attempt row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("attempt", "list", "failed to scan attempt", err)
		}
		if a.Direction, err = domain.ParseDirection(dir); err != nil {
			return nil, store.NewStoreError("attempt", "list", "unknown direction in row", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("attempt", "list", "failed to iterate attempts", err)
	}

	return attempts, nil
}
