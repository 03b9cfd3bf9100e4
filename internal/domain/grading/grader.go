package grading

import (
	"fmt"
	"strings"

	"github.com/phrazzld/lexicon/internal/domain"
)

// DefaultThreshold is the lowest meaning score treated as correct.
const DefaultThreshold = 70

// Strategy names the comparison used for a direction.
type Strategy int

const (
	// StrategyExact compares canonical forms for equality.
	StrategyExact Strategy = iota + 1
	// StrategyMeaning scores free text against multiple senses.
	StrategyMeaning
)

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyMeaning:
		return "meaning"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// StrategyFor returns the strategy used to grade direction d.
func StrategyFor(d domain.Direction) Strategy {
	switch d {
	case domain.DirectionForward:
		return StrategyMeaning
	case domain.DirectionBackward:
		return StrategyExact
	default:
		panic(fmt.Sprintf("grading: unknown direction %d", int(d)))
	}
}

// Result is the outcome of grading one answer.
type Result struct {
	Score    int      `json:"score"`
	Correct  bool     `json:"correct"`
	Strategy Strategy `json:"-"`
	Expected string   `json:"expected"`
	// Blank is set when the answer was empty after trimming.
	Blank bool `json:"blank"`
}

// Grader applies the per-direction strategy and the correctness threshold.
type Grader struct {
	threshold int
}

// NewGrader creates a Grader. A non-positive threshold selects DefaultThreshold.
func NewGrader(threshold int) *Grader {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Grader{threshold: threshold}
}

// Threshold returns the configured correctness threshold.
func (g *Grader) Threshold() int {
	return g.threshold
}

// IsCorrect reports whether score reaches the threshold.
func (g *Grader) IsCorrect(score int) bool {
	return score >= g.threshold
}

// Grade scores answer against the reference answer of item.
func (g *Grader) Grade(item domain.LearningItem, answer string) Result {
	expected := item.Term.Answer(item.Direction)
	result := Result{
		Strategy: StrategyFor(item.Direction),
		Expected: expected,
		Blank:    strings.TrimSpace(answer) == "",
	}
	if result.Blank {
		return result
	}

	switch result.Strategy {
	case StrategyExact:
		if ExactMatch(answer, expected) {
			result.Score = ScoreIdentical
		}
		result.Correct = result.Score == ScoreIdentical
	case StrategyMeaning:
		result.Score = ScoreMeaning(answer, expected)
		result.Correct = g.IsCorrect(result.Score)
	}
	return result
}
