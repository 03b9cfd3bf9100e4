package grading

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Scores awarded by the meaning strategy before falling back to raw similarity.
const (
	ScoreIdentical        = 100
	ScoreDiacriticsOnly   = 95
	ScoreContainsSense    = 85
	ScoreSimilarSegment   = 80
	segmentSimilarityGate = 80.0
)

// Similarity is the normalized Levenshtein similarity of a and b in percent:
// (max(m,n) - d) / max(m,n) * 100 over rune lengths m and n.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein.Distance(a, b, nil)
	return float64(longest-d) / float64(longest) * 100
}

// ExactMatch reports whether input equals reference after trimming, case
// folding and diacritic stripping. Blank input never matches.
func ExactMatch(input, reference string) bool {
	in := Canonical(input)
	return in != "" && in == Canonical(reference)
}

// ScoreMeaning scores a free-text answer against a possibly multi-sense
// reference and returns a value in [0, 100].
func ScoreMeaning(input, reference string) int {
	in := Normalize(input)
	if in == "" {
		return 0
	}
	ref := Normalize(reference)
	if in == ref {
		return ScoreIdentical
	}

	inBare, refBare := StripDiacritics(in), StripDiacritics(ref)
	if inBare == refBare {
		return ScoreDiacriticsOnly
	}

	refSegments := Segments(refBare)
	if len(refSegments) == 0 {
		refSegments = []string{refBare}
	}
	inSegments := Segments(inBare)
	if len(inSegments) == 0 {
		inSegments = []string{inBare}
	}

	if len(inSegments) == 1 {
		phrase := inSegments[0]
		for _, sense := range refSegments {
			if strings.Contains(sense, phrase) || strings.Contains(phrase, sense) {
				return ScoreContainsSense
			}
		}
	}

	for _, given := range inSegments {
		for _, sense := range refSegments {
			if Similarity(given, sense) >= segmentSimilarityGate {
				return ScoreSimilarSegment
			}
		}
	}

	best := Similarity(in, ref)
	if bare := Similarity(inBare, refBare); bare > best {
		best = bare
	}
	return int(best)
}
