package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
)

// TermStore defines the interface for term persistence.
type TermStore interface {
	// Create saves a new term with both tracks.
	// Returns validation errors if the term is invalid.
	Create(ctx context.Context, term *domain.Term) error

	// GetByID retrieves a term by its ID.
	// Returns ErrTermNotFound if the term does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)

	// GetForUpdate retrieves a term and locks its row until the surrounding
	// transaction ends. It must run on a store returned by WithTx.
	// Returns ErrTermNotFound if the term does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Term, error)

	// ListByOwner returns every term owned by ownerID, oldest first.
	// An owner without terms yields an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Term, error)

	// UpdateTrack replaces the level and due instant of one direction.
	// The other direction is not written.
	// Returns ErrTermNotFound if the term does not exist.
	UpdateTrack(ctx context.Context, id uuid.UUID, dir domain.Direction, track domain.Track) error

	// WithTx returns a TermStore that runs its queries on tx.
	WithTx(tx *sql.Tx) TermStore
}
