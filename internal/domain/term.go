package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Term-specific validation errors
var (
	// ErrTermIDEmpty is returned when a term ID is nil.
	ErrTermIDEmpty = fmt.Errorf("%w: term ID cannot be empty", ErrValidation)

	// ErrTermOwnerIDEmpty is returned when a term's owner ID is nil.
	ErrTermOwnerIDEmpty = fmt.Errorf("%w: term owner ID cannot be empty", ErrValidation)

	// ErrTermHeadwordEmpty is returned when a term has a blank headword.
	ErrTermHeadwordEmpty = fmt.Errorf("%w: term headword cannot be empty", ErrValidation)

	// ErrTermSensesEmpty is returned when a term has no senses, or a blank one.
	ErrTermSensesEmpty = fmt.Errorf("%w: term must have at least one non-blank sense", ErrValidation)

	// ErrTermNegativeLevel is returned when a track level is below zero.
	ErrTermNegativeLevel = fmt.Errorf("%w: track level cannot be negative", ErrValidation)
)

// senseSeparator joins senses into the reference answer of a forward drill.
// The grader splits on the same punctuation.
const senseSeparator = ", "

// Track is the scheduling state of one recall direction.
type Track struct {
	// Level is the proficiency counter; 0 means new.
	Level int `json:"level"`
	// DueAt is when the direction becomes eligible again; zero means due now.
	DueAt time.Time `json:"due_at"`
}

// IsNew reports whether the track has never been drilled successfully.
func (t Track) IsNew() bool {
	return t.Level == 0
}

// Term is a vocabulary entry owned by one learner.
type Term struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Headword  string    `json:"headword"`
	Senses    []string  `json:"senses"`
	Forward   Track     `json:"forward"`
	Backward  Track     `json:"backward"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTerm creates a new Term with fresh tracks in both directions.
// Returns an error if validation fails.
func NewTerm(ownerID uuid.UUID, headword string, senses []string) (*Term, error) {
	now := time.Now().UTC()
	term := &Term{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Headword:  strings.TrimSpace(headword),
		Senses:    append([]string(nil), senses...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := term.Validate(); err != nil {
		return nil, err
	}

	return term, nil
}

// Validate checks if the Term has valid data.
func (t *Term) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTermIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTermOwnerIDEmpty
	}

	if strings.TrimSpace(t.Headword) == "" {
		return ErrTermHeadwordEmpty
	}

	if len(t.Senses) == 0 {
		return ErrTermSensesEmpty
	}
	for _, sense := range t.Senses {
		if strings.TrimSpace(sense) == "" {
			return ErrTermSensesEmpty
		}
	}

	if t.Forward.Level < 0 || t.Backward.Level < 0 {
		return ErrTermNegativeLevel
	}

	return nil
}

// Track returns the scheduling state of direction d.
// It panics on an undeclared direction, which is a programming error.
func (t Term) Track(d Direction) Track {
	switch d {
	case DirectionForward:
		return t.Forward
	case DirectionBackward:
		return t.Backward
	default:
		panic(fmt.Sprintf("domain: unknown direction %d", int(d)))
	}
}

// WithTrack returns a copy of t whose direction d is replaced by track.
// The other direction is left untouched.
func (t Term) WithTrack(d Direction, track Track) Term {
	out := t
	out.Senses = append([]string(nil), t.Senses...)
	switch d {
	case DirectionForward:
		out.Forward = track
	case DirectionBackward:
		out.Backward = track
	default:
		panic(fmt.Sprintf("domain: unknown direction %d", int(d)))
	}
	return out
}

// Meaning joins the senses into a single reference string.
func (t Term) Meaning() string {
	return strings.Join(t.Senses, senseSeparator)
}

// Prompt is what the learner sees when drilling direction d.
func (t Term) Prompt(d Direction) string {
	if d == DirectionBackward {
		return t.Meaning()
	}
	return t.Headword
}

// Answer is the reference answer for direction d.
func (t Term) Answer(d Direction) string {
	if d == DirectionBackward {
		return t.Headword
	}
	return t.Meaning()
}

// LearningItem is one (Term, Direction) drill for the current session.
// It is never persisted.
type LearningItem struct {
	Term      Term
	Direction Direction
}

// Key identifies the item within a session.
func (i LearningItem) Key() string {
	return i.Term.ID.String() + "/" + i.Direction.String()
}

// Track returns the scheduling state the item was built from.
func (i LearningItem) Track() Track {
	return i.Term.Track(i.Direction)
}

// IsValidationError reports whether err is a domain validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
