package srs

import (
	"fmt"

	"github.com/phrazzld/lexicon/internal/domain"
)

// LookaheadKind says which branch of the lookahead produced the report.
type LookaheadKind int

const (
	// LookaheadScheduled reports the nearest future due date.
	LookaheadScheduled LookaheadKind = iota + 1
	// LookaheadNewAvailable reports new tracks that can be drilled now.
	LookaheadNewAvailable
	// LookaheadNothingLeft means there is nothing to learn at all.
	LookaheadNothingLeft
)

// String returns the wire name of the kind.
func (k LookaheadKind) String() string {
	switch k {
	case LookaheadScheduled:
		return "scheduled"
	case LookaheadNewAvailable:
		return "new_available"
	case LookaheadNothingLeft:
		return "nothing_left"
	default:
		return fmt.Sprintf("lookahead(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k LookaheadKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Lookahead is reported when nothing is due today.
type Lookahead struct {
	Kind LookaheadKind `json:"kind"`
	// Date is set only for LookaheadScheduled.
	Date  domain.CivilDate `json:"date"`
	Count int              `json:"count"`
}

// Selection is the output of SelectDueItems.
type Selection struct {
	Items []domain.LearningItem
	// Lookahead is nil whenever Items is non-empty.
	Lookahead *Lookahead
}

// Empty reports whether nothing was selected.
func (s Selection) Empty() bool {
	return len(s.Items) == 0
}

// SelectDueItems returns the learning items due on today for mode.
//
// Items follow the order of terms, forward before backward within a term.
// When no item is due a lookahead is computed: the nearest future due date
// over every scheduled track, else the number of new tracks, else
// LookaheadNothingLeft.
func SelectDueItems(terms []domain.Term, mode domain.Mode, today domain.CivilDate, cal Calendar) Selection {
	directions := mode.Directions()

	var items []domain.LearningItem
	for _, term := range terms {
		for _, dir := range directions {
			if cal.IsDue(term.Track(dir), today) {
				items = append(items, domain.LearningItem{Term: term, Direction: dir})
			}
		}
	}

	if len(items) > 0 {
		return Selection{Items: items}
	}
	la := lookahead(terms, today, cal)
	return Selection{Lookahead: &la}
}

func lookahead(terms []domain.Term, today domain.CivilDate, cal Calendar) Lookahead {
	var (
		nearest   domain.CivilDate
		scheduled int
		fresh     int
	)

	for _, term := range terms {
		for _, dir := range domain.Directions {
			track := term.Track(dir)
			if track.IsNew() {
				fresh++
				continue
			}
			if track.DueAt.IsZero() {
				continue
			}

			date := cal.DateOf(track.DueAt)
			if !date.After(today) {
				continue
			}
			switch {
			case scheduled == 0 || date.Before(nearest):
				nearest, scheduled = date, 1
			case date.Equal(nearest):
				scheduled++
			}
		}
	}

	switch {
	case scheduled > 0:
		return Lookahead{Kind: LookaheadScheduled, Date: nearest, Count: scheduled}
	case fresh > 0:
		return Lookahead{Kind: LookaheadNewAvailable, Count: fresh}
	default:
		return Lookahead{Kind: LookaheadNothingLeft}
	}
}
