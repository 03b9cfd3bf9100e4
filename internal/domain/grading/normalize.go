package grading

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// segmentSeparators split a reference answer into its candidate senses.
const segmentSeparators = ",;."

// Normalize trims s, applies Unicode case folding and collapses runs of
// whitespace into single spaces. Diacritics are preserved.
func Normalize(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// Fold applies Unicode case folding.
func Fold(s string) string {
	// Casers carry state, so each call builds its own.
	return cases.Fold().String(s)
}

// StripDiacritics removes combining marks after canonical decomposition and
// maps letters that have no decomposition (đ, Đ) to their base letter.
func StripDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(baseLetter),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Canonical is the comparison form used by exact matching.
func Canonical(s string) string {
	return StripDiacritics(Normalize(s))
}

// Segments splits s on the sense separators, strips enclosing parentheses
// and drops empty pieces. A string without separators yields one segment.
func Segments(s string) []string {
	pieces := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(segmentSeparators, r)
	})

	segments := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = stripParens(strings.TrimSpace(piece))
		if piece != "" {
			segments = append(segments, piece)
		}
	}
	return segments
}

// stripParens removes parentheses that enclose all of s, repeatedly.
func stripParens(s string) string {
	for encloses(s) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// encloses reports whether s opens with "(" matched by its final ")".
func encloses(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

func baseLetter(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	default:
		return r
	}
}
