package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 100.0, Similarity("abc", "abc"), 0.001)
	assert.InDelta(t, 0.0, Similarity("abc", ""), 0.001)
	// kitten -> sitting needs 3 edits over 7 runes.
	assert.InDelta(t, 400.0/7.0, Similarity("kitten", "sitting"), 0.001)
	// Lengths are counted in runes, not bytes.
	assert.InDelta(t, 87.5, Similarity("gia đình", "gia dình"), 0.001)
}

func TestExactMatch(t *testing.T) {
	t.Parallel()

	assert.True(t, ExactMatch("Gia Đình", "gia đình"))
	assert.True(t, ExactMatch("gia dinh", "gia đình"), "diacritics are ignored")
	assert.True(t, ExactMatch("  gia   đình ", "gia đình"))
	assert.False(t, ExactMatch("gia", "gia đình"))
	assert.False(t, ExactMatch("", ""), "blank input never matches")
	assert.False(t, ExactMatch("   ", "x"))
}

func TestScoreMeaning(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		input     string
		reference string
		want      int
	}{
		{"identical", "family", "family", ScoreIdentical},
		{"identical after folding", " FAMILY ", "family", ScoreIdentical},
		{"diacritics only", "gia dinh", "gia đình", ScoreDiacriticsOnly},
		{"first of several senses", "vật thể", "vật thể, đồ vật", ScoreContainsSense},
		{"second of several senses", "đồ vật", "vật thể, đồ vật", ScoreContainsSense},
		{"sense without diacritics", "do vat", "vật thể; đồ vật", ScoreContainsSense},
		{"phrase containing a sense", "a small object", "object, thing", ScoreContainsSense},
		{"typo in one of several answers", "famly, hom", "family; home", ScoreSimilarSegment},
		{"parenthetical inside a sense", "to run", "(to) run", 75},
		{"empty", "", "family", 0},
		{"whitespace", "   ", "family", 0},
		{"unrelated", "xyz", "family", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScoreMeaning(tc.input, tc.reference))
		})
	}
}

func TestScoreMeaningFallsBackToWholeStringSimilarity(t *testing.T) {
	t.Parallel()

	// Single segments, no containment either way, and similarity 5/9 stays
	// below the segment gate.
	score := ScoreMeaning("housex", "household")
	assert.Equal(t, int(Similarity("housex", "household")), score)
	assert.Less(t, score, DefaultThreshold)
}

func TestScoreMeaningIdempotentOnExactInput(t *testing.T) {
	t.Parallel()

	inputs := []string{"a", "vật thể", "to be, to exist", "(informal) dude", "Đ", "."}
	for _, x := range inputs {
		assert.Equal(t, ScoreIdentical, ScoreMeaning(x, x), x)
		assert.True(t, ExactMatch(x, x), x)
	}
}

func TestScoreMeaningSingleSenseMatchesMultiSensePath(t *testing.T) {
	t.Parallel()

	// One-sense references segment to themselves.
	assert.Equal(t, []string{"object"}, Segments("object"))
	assert.Equal(t, ScoreMeaning("objec", "object"), ScoreMeaning("objec", "object; "))
}
