package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/grading"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/session"
)

// Commands recognized at the answer prompt.
const (
	cmdSkip = ":skip"
	cmdQuit = ":quit"
)

// errQuit ends the loop when the learner quits or input runs out.
var errQuit = errors.New("quit")

// drill runs one session on c: load, start, then prompt until the session
// finishes or the learner quits. It returns the final stats.
func drill(ctx context.Context, c *session.Controller, mode domain.Mode, in io.Reader, out io.Writer) (session.Stats, error) {
	if err := c.Load(ctx, mode); err != nil {
		var selErr *session.SelectionError
		if errors.As(err, &selErr) {
			fmt.Fprintln(out, "Could not load today's items. Try again in a moment.")
		}
		return session.Stats{}, err
	}

	if c.State() == session.StateFinished {
		la, _ := c.Lookahead()
		fmt.Fprintln(out, describeLookahead(la))
		return session.Stats{}, nil
	}

	if err := c.Start(); err != nil {
		return session.Stats{}, err
	}
	fmt.Fprintf(out, "Type the answer and press enter (%s, %s).\n", cmdSkip, cmdQuit)

	lines := bufio.NewScanner(in)
	reviewing := false
	for c.State().Answering() {
		if c.State() == session.StateReviewing && !reviewing {
			reviewing = true
			fmt.Fprintln(out, "\nReview: the ones you missed.")
		}
		if err := step(ctx, c, lines, out); err != nil {
			if errors.Is(err, errQuit) {
				c.Abandon()
				stats := c.Stats()
				fmt.Fprintf(out, "\nStopped. %d of %d correct.\n", stats.Correct, stats.Total)
				return stats, lines.Err()
			}
			return c.Stats(), err
		}
	}

	stats := c.Stats()
	fmt.Fprintf(out, "\nDone. %d of %d correct.\n", stats.Correct, stats.Total)
	return stats, nil
}

// step prompts for the current item and applies one line of input.
func step(ctx context.Context, c *session.Controller, lines *bufio.Scanner, out io.Writer) error {
	item, ok := c.CurrentItem()
	if !ok {
		return nil
	}
	fmt.Fprintf(out, "%s [%s] > ", item.Term.Prompt(item.Direction), item.Direction)

	if !lines.Scan() {
		return errQuit
	}
	input := lines.Text()

	switch strings.TrimSpace(input) {
	case cmdQuit:
		return errQuit
	case cmdSkip:
		fmt.Fprintf(out, "  skipped: %s\n", item.Term.Answer(item.Direction))
		return c.Skip()
	}

	result, err := c.SubmitAnswer(ctx, input)
	if err != nil {
		return err
	}
	switch {
	case result.Correct && result.Score == grading.ScoreIdentical:
		fmt.Fprintln(out, "  correct")
	case result.Correct:
		fmt.Fprintf(out, "  correct (%d%%): %s\n", result.Score, result.Expected)
	default:
		fmt.Fprintf(out, "  wrong (%d%%): %s\n", result.Score, result.Expected)
	}
	if result.Warning != nil {
		fmt.Fprintln(out, "  warning: progress for this item was not saved")
	}
	return nil
}

func describeLookahead(la srs.Lookahead) string {
	switch la.Kind {
	case srs.LookaheadScheduled:
		return fmt.Sprintf("Nothing due today. Next review on %s (%d item%s).", la.Date, la.Count, plural(la.Count))
	case srs.LookaheadNewAvailable:
		return fmt.Sprintf("Nothing due in this mode. %d new item%s waiting in the other direction.", la.Count, plural(la.Count))
	default:
		return "Nothing left to learn. Add some terms first."
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
