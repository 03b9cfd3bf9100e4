package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Attempt validation errors
var (
	ErrAttemptTermIDEmpty  = errors.New("attempt term ID cannot be empty")
	ErrAttemptOwnerIDEmpty = errors.New("attempt owner ID cannot be empty")
	ErrAttemptScoreRange   = errors.New("attempt score must be between 0 and 100")
)

// Attempt records one graded answer and the schedule it produced.
type Attempt struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TermID      uuid.UUID `json:"term_id"`
	Direction   Direction `json:"direction"`
	Correct     bool      `json:"correct"`
	Score       int       `json:"score"`
	Level       int       `json:"level"`
	DueAt       time.Time `json:"due_at"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// Validate checks if the Attempt has valid data.
func (a *Attempt) Validate() error {
	if a.TermID == uuid.Nil {
		return ErrAttemptTermIDEmpty
	}
	if a.OwnerID == uuid.Nil {
		return ErrAttemptOwnerIDEmpty
	}
	if !a.Direction.Valid() {
		return ErrInvalidDirection
	}
	if a.Score < 0 || a.Score > 100 {
		return ErrAttemptScoreRange
	}
	return nil
}

// Outcome is the graded result of one attempt, as reported to the updater.
type Outcome struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
}
