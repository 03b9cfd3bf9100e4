package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/lexicon/internal/domain"
)

// ErrNegativeLevel is returned when a track carries a level below zero.
var ErrNegativeLevel = errors.New("track level cannot be negative")

// Leveler computes the next scheduling state of a track after one attempt.
type Leveler interface {
	// Next returns the track that follows an attempt graded correct or not at now.
	Next(track domain.Track, correct bool, now time.Time) (domain.Track, error)
}

type defaultLeveler struct {
	cal    Calendar
	params *Params
}

// NewDefaultLeveler creates a Leveler with the default interval table.
func NewDefaultLeveler(cal Calendar) Leveler {
	return &defaultLeveler{cal: cal, params: NewDefaultParams()}
}

// NewLevelerWithParams creates a Leveler with custom parameters.
func NewLevelerWithParams(cal Calendar, params *Params) Leveler {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultLeveler{cal: cal, params: params}
}

// Next implements Leveler.
//
// A correct attempt raises the level by one and schedules the start of the
// day that lies the level's interval after today. An incorrect attempt
// resets the level to zero, which makes the track due again immediately.
func (l *defaultLeveler) Next(track domain.Track, correct bool, now time.Time) (domain.Track, error) {
	if track.Level < 0 {
		return domain.Track{}, ErrNegativeLevel
	}

	if !correct {
		return domain.Track{Level: 0, DueAt: now}, nil
	}

	level := track.Level + 1
	days := l.params.IntervalFor(level)
	due := l.cal.StartOf(l.cal.Today(now).AddDays(days))
	return domain.Track{Level: level, DueAt: due}, nil
}
