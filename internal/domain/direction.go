package domain

import (
	"fmt"
	"strings"
)

// Direction is the recall direction of a drill.
type Direction int

const (
	// DirectionForward asks for the native meaning of a foreign headword.
	DirectionForward Direction = iota + 1
	// DirectionBackward asks for the foreign headword of a native meaning.
	DirectionBackward
)

// Directions lists every direction in canonical order.
var Directions = []Direction{DirectionForward, DirectionBackward}

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the declared directions.
func (d Direction) Valid() bool {
	return d == DirectionForward || d == DirectionBackward
}

// ParseDirection converts a wire name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return DirectionForward, nil
	case "backward":
		return DirectionBackward, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// MarshalText encodes the direction by its wire name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a wire name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Mode selects which directions a learner practices.
type Mode int

const (
	// ModeForward drills only the forward direction.
	ModeForward Mode = iota + 1
	// ModeBackward drills only the backward direction.
	ModeBackward
	// ModeBoth drills both directions.
	ModeBoth
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeBackward:
		return "backward"
	case ModeBoth:
		return "both"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m == ModeForward || m == ModeBackward || m == ModeBoth
}

// Directions expands the mode into the directions it covers, in canonical order.
func (m Mode) Directions() []Direction {
	switch m {
	case ModeForward:
		return []Direction{DirectionForward}
	case ModeBackward:
		return []Direction{DirectionBackward}
	case ModeBoth:
		return []Direction{DirectionForward, DirectionBackward}
	default:
		return nil
	}
}

// Includes reports whether the mode covers direction d.
func (m Mode) Includes(d Direction) bool {
	for _, candidate := range m.Directions() {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseMode converts a wire name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward":
		return ModeForward, nil
	case "backward":
		return ModeBackward, nil
	case "both":
		return ModeBoth, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
