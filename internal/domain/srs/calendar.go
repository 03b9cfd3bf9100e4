package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/lexicon/internal/domain"
)

// ErrNilLocation is returned when a Calendar is built without a location.
var ErrNilLocation = errors.New("calendar location cannot be nil")

// Calendar converts instants to calendar dates in one reference timezone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a Calendar for loc.
func NewCalendar(loc *time.Location) (Calendar, error) {
	if loc == nil {
		return Calendar{}, ErrNilLocation
	}
	return Calendar{loc: loc}, nil
}

// LoadCalendar creates a Calendar from an IANA zone name such as
// "Asia/Ho_Chi_Minh".
func LoadCalendar(name string) (Calendar, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return NewCalendar(loc)
}

// Location returns the reference timezone. A zero Calendar reports UTC.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DateOf returns the calendar date of t in the reference timezone.
func (c Calendar) DateOf(t time.Time) domain.CivilDate {
	return domain.CivilDateOf(t.In(c.Location()))
}

// Today is DateOf(now); it exists to make call sites read naturally.
func (c Calendar) Today(now time.Time) domain.CivilDate {
	return c.DateOf(now)
}

// StartOf returns midnight of d in the reference timezone.
func (c Calendar) StartOf(d domain.CivilDate) time.Time {
	return d.In(c.Location())
}

// IsDue reports whether track is eligible on today. New tracks and tracks
// without a due instant are always due; otherwise the due date must not be
// after today.
func (c Calendar) IsDue(track domain.Track, today domain.CivilDate) bool {
	if track.IsNew() || track.DueAt.IsZero() {
		return true
	}
	return !c.DateOf(track.DueAt).After(today)
}
