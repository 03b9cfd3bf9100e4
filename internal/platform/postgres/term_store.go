package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/store"
)

const termColumns = `id, owner_id, headword, senses,
		level_forward, due_forward, level_backward, due_backward,
		created_at, updated_at`

// PostgresTermStore implements store.TermStore.
type PostgresTermStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTermStore creates a term store on db, which may be a *sql.DB
// or a *sql.Tx. A nil logger uses slog.Default().
func NewPostgresTermStore(db store.DBTX, logger *slog.Logger) *PostgresTermStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTermStore{
		db:     db,
		logger: logger.With(slog.String("component", "term_store")),
	}
}

var _ store.TermStore = (*PostgresTermStore)(nil)

// WithTx implements store.TermStore.
func (s *PostgresTermStore) WithTx(tx *sql.Tx) store.TermStore {
	return &PostgresTermStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TermStore.
func (s *PostgresTermStore) Create(ctx context.Context, term *domain.Term) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := term.Validate(); err != nil {
		log.Warn("term validation failed during create",
			slog.String("error", err.Error()),
			slog.String("term_id", term.ID.String()))
		return err
	}

	query := `
		INSERT INTO terms (` + termColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		term.ID,
		term.OwnerID,
		term.Headword,
		term.Senses,
		term.Forward.Level,
		nullTime(term.Forward.DueAt),
		term.Backward.Level,
		nullTime(term.Backward.DueAt),
		term.CreatedAt,
		term.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create term",
			slog.String("error", err.Error()),
			slog.String("term_id", term.ID.String()))
		return store.NewStoreError("term", "create", "failed to insert term", MapError(err))
	}

	log.Debug("term created",
		slog.String("term_id", term.ID.String()),
		slog.String("owner_id", term.OwnerID.String()))
	return nil
}

// GetByID implements store.TermStore.
func (s *PostgresTermStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE id = $1`
	return s.getOne(ctx, "get", query, id)
}

// GetForUpdate implements store.TermStore.
func (s *PostgresTermStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms WHERE id = $1 FOR UPDATE`
	return s.getOne(ctx, "get_for_update", query, id)
}

func (s *PostgresTermStore) getOne(ctx context.Context, op, query string, id uuid.UUID) (*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	term, err := scanTerm(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("term not found", slog.String("term_id", id.String()))
			return nil, store.ErrTermNotFound
		}
		log.Error("failed to get term",
			slog.String("error", err.Error()),
			slog.String("operation", op),
			slog.String("term_id", id.String()))
		return nil, store.NewStoreError("term", op, "failed to load term", MapError(err))
	}

	return term, nil
}

// ListByOwner implements store.TermStore.
func (s *PostgresTermStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + termColumns + `
		FROM terms
		WHERE owner_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query terms",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, store.NewStoreError("term", "list", "failed to query terms", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	terms := []domain.Term{}
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			log.Error("failed to scan term row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("term", "list", "failed to scan term", err)
		}
		terms = append(terms, *term)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("term", "list", "failed to iterate terms", err)
	}

	log.Debug("listed terms",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(terms)))
	return terms, nil
}

// UpdateTrack implements store.TermStore.
func (s *PostgresTermStore) UpdateTrack(
	ctx context.Context,
	id uuid.UUID,
	dir domain.Direction,
	track domain.Track,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if track.Level < 0 {
		return domain.ErrTermNegativeLevel
	}

	var query string
	switch dir {
	case domain.DirectionForward:
		query = `UPDATE terms SET level_forward = $1, due_forward = $2, updated_at = $3 WHERE id = $4`
	case domain.DirectionBackward:
		query = `UPDATE terms SET level_backward = $1, due_backward = $2, updated_at = $3 WHERE id = $4`
	default:
		return fmt.Errorf("%w: %d", domain.ErrInvalidDirection, int(dir))
	}

	result, err := s.db.ExecContext(ctx, query, track.Level, nullTime(track.DueAt), time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update track",
			slog.String("error", err.Error()),
			slog.String("term_id", id.String()),
			slog.String("direction", dir.String()))
		return store.NewStoreError("term", "update_track", "failed to update track", MapError(err))
	}

	if err := CheckRowsAffected(result, "term"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("term not found for track update", slog.String("term_id", id.String()))
			return store.ErrTermNotFound
		}
		return err
	}

	log.Debug("track updated",
		slog.String("term_id", id.String()),
		slog.String("direction", dir.String()),
		slog.Int("level", track.Level))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTerm reads one row in termColumns order. pgtype.Map caches scan plans
// and is not safe for concurrent use, so each call gets its own.
func scanTerm(row rowScanner) (*domain.Term, error) {
	types := pgtype.NewMap()
	var (
		term                    domain.Term
		dueForward, dueBackward sql.NullTime
	)

	err := row.Scan(
		&term.ID,
		&term.OwnerID,
		&term.Headword,
		types.SQLScanner(&term.Senses),
		&term.Forward.Level,
		&dueForward,
		&term.Backward.Level,
		&dueBackward,
		&term.CreatedAt,
		&term.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	term.Forward.DueAt = fromNullTime(dueForward)
	term.Backward.DueAt = fromNullTime(dueBackward)
	return &term, nil
}

// nullTime stores the zero instant as NULL ("due now").
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func fromNullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
