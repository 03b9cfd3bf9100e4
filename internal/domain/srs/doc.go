// Package srs holds the pure scheduling rules of the learning engine: the
// reference-timezone calendar, due-item selection with its lookahead, and the
// leveling curve applied after each graded attempt.
//
// Nothing in this package reads the host clock or the host timezone. Callers
// pass "now" and a Calendar built from configuration, which keeps stored
// instants and the "today" boundary on the same offset.
package srs
