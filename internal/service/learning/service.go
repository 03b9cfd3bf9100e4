// Package learning is the concrete term source and level updater behind a
// learning session. It reads a learner's terms and applies the leveling
// curve to one direction of one term per graded attempt.
package learning

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
)

// Service provides the term query and level update a session depends on.
type Service interface {
	// GetTermsDue returns every term the owner has, in creation order. All
	// tracks are returned, including ones not yet due, so the selector can
	// compute a lookahead. mode only has to be valid.
	//
	// Returns domain.ErrInvalidMode for an unknown mode.
	GetTermsDue(ctx context.Context, ownerID uuid.UUID, mode domain.Mode) ([]domain.Term, error)

	// UpdateLevel applies the leveling curve to direction dir of term termID
	// and persists the new track. Only that direction is written. After the
	// write commits an attempt.recorded event is emitted.
	//
	// Returns:
	//   - (track, nil): the track now stored for the direction
	//   - ErrTermNotFound: the term does not exist
	//   - ErrTermNotOwned: the term belongs to another learner
	//   - *ServiceError: any other failure
	UpdateLevel(
		ctx context.Context,
		ownerID uuid.UUID,
		termID uuid.UUID,
		dir domain.Direction,
		outcome domain.Outcome,
	) (domain.Track, error)
}

// Common error types for the learning service
var (
	// ErrTermNotFound indicates that the term does not exist.
	ErrTermNotFound = errors.New("term not found")

	// ErrTermNotOwned indicates that the term belongs to another learner.
	ErrTermNotOwned = errors.New("unauthorized access: term not owned by user")
)

// ServiceError wraps errors from the learning service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_terms_due", "update_level")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewGetTermsDueError returns a ServiceError for the get_terms_due operation.
func NewGetTermsDueError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_terms_due", Message: message, Err: err}
}

// NewUpdateLevelError returns a ServiceError for the update_level operation.
func NewUpdateLevelError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "update_level", Message: message, Err: err}
}
