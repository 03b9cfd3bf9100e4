package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
)

// AttemptStore persists the audit log of graded attempts.
type AttemptStore interface {
	// Create appends one attempt. Creating the same attempt ID twice
	// returns ErrAttemptExists.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// ListByTerm returns the attempts for a term, newest first, at most limit rows.
	ListByTerm(ctx context.Context, termID uuid.UUID, limit int) ([]domain.Attempt, error)

	// WithTx returns an AttemptStore that runs its queries on tx.
	WithTx(tx *sql.Tx) AttemptStore
}
