package session

import (
	"errors"
	"fmt"

	"github.com/phrazzld/lexicon/internal/domain"
)

var (
	// ErrBusy is returned when an answer or skip arrives while another is in flight.
	ErrBusy = errors.New("session is busy")

	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrAbandoned is returned for work that completes after Abandon.
	ErrAbandoned = errors.New("session abandoned")

	// ErrNoSession is returned by the Registry when a learner has no live session.
	ErrNoSession = errors.New("no active session")
)

// SelectionError means the due items could not be loaded. The session ends
// in Finished and the caller may retry with a fresh Load.
type SelectionError struct {
	Err error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("failed to load due items: %v", e.Err)
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// GradingInputError marks a blank answer. It is graded as incorrect and
// never ends the session.
type GradingInputError struct {
	Item domain.LearningItem
}

func (e *GradingInputError) Error() string {
	return fmt.Sprintf("empty answer for %q (%s)", e.Item.Term.Headword, e.Item.Direction)
}

// RescheduleWriteError means the graded attempt could not be written. The
// session still advances and the local stats stand.
type RescheduleWriteError struct {
	Item domain.LearningItem
	Err  error
}

func (e *RescheduleWriteError) Error() string {
	return fmt.Sprintf("failed to reschedule %q (%s): %v", e.Item.Term.Headword, e.Item.Direction, e.Err)
}

func (e *RescheduleWriteError) Unwrap() error {
	return e.Err
}
