// Package session walks one learner through the items due today.
//
// A Controller is a small state machine:
//
//	Loading -> Ready -> Learning -> Reviewing -> Finished
//	Loading -> Finished (nothing due, or the selection failed)
//	Learning -> Finished (no failures)
//
// Each answer is graded, reported to the Updater, and folded back into the
// controller's copy of the term. Items failed during the primary pass seed
// the reviewing pass. While an answer is in flight State reports Transition
// and further input is rejected with ErrBusy.
//
// A Registry keeps one live controller per learner for the HTTP layer.
package session
