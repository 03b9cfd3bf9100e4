// Package grading canonicalizes learner answers and scores them against
// reference answers.
//
// Two strategies exist. Exact matching is used when the learner must produce
// a foreign headword: both sides are trimmed, case-folded and stripped of
// diacritics, then compared for equality. Meaning scoring is used for
// free-text native-language answers that may match any of several senses; it
// returns a score from 0 to 100 and the caller treats scores at or above a
// threshold (70 by default) as correct.
//
// Every function in this package is pure and safe for concurrent use.
package grading
