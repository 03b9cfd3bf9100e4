package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/grading"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

type fakeTerms struct {
	terms []domain.Term
	err   error
	block chan struct{}
}

func (f *fakeTerms) GetTermsDue(ctx context.Context, _ uuid.UUID, _ domain.Mode) ([]domain.Term, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.terms, f.err
}

type updateCall struct {
	termID  uuid.UUID
	dir     domain.Direction
	outcome domain.Outcome
}

// fakeUpdater levels up on success and resets on failure. When block is
// set each call waits for a value on it or for cancellation.
type fakeUpdater struct {
	mu      sync.Mutex
	calls   []updateCall
	err     error
	block   chan struct{}
	entered chan struct{}
	ctxErr  error
}

func (f *fakeUpdater) UpdateLevel(
	ctx context.Context,
	_ uuid.UUID,
	termID uuid.UUID,
	dir domain.Direction,
	outcome domain.Outcome,
) (domain.Track, error) {
	f.mu.Lock()
	f.calls = append(f.calls, updateCall{termID: termID, dir: dir, outcome: outcome})
	block, entered, err := f.block, f.entered, f.err
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			f.mu.Lock()
			f.ctxErr = ctx.Err()
			f.mu.Unlock()
			return domain.Track{}, ctx.Err()
		}
	}
	if err != nil {
		return domain.Track{}, err
	}
	if !outcome.Correct {
		return domain.Track{Level: 0, DueAt: testNow}, nil
	}
	return domain.Track{Level: 1, DueAt: testNow.Add(24 * time.Hour)}, nil
}

func (f *fakeUpdater) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTerm(t *testing.T, owner uuid.UUID, headword string, senses ...string) domain.Term {
	t.Helper()
	term, err := domain.NewTerm(owner, headword, senses)
	require.NoError(t, err)
	return *term
}

func newTestController(t *testing.T, terms TermSource, updater Updater, opts Options) *Controller {
	t.Helper()
	return NewController(uuid.New(), Deps{
		Terms:    terms,
		Updater:  updater,
		Grader:   grading.NewGrader(grading.DefaultThreshold),
		Calendar: srs.Calendar{},
		Now:      func() time.Time { return testNow },
	}, opts)
}

// loadedController returns a controller in the Learning state over terms.
func loadedController(
	t *testing.T,
	terms []domain.Term,
	mode domain.Mode,
	updater Updater,
	opts Options,
) *Controller {
	t.Helper()
	c := newTestController(t, &fakeTerms{terms: terms}, updater, opts)
	require.NoError(t, c.Load(context.Background(), mode))
	require.Equal(t, StateReady, c.State())
	require.NoError(t, c.Start())
	return c
}

// answerCurrent submits the right or a wrong answer for the current item.
func answerCurrent(t *testing.T, c *Controller, correct bool) *AnswerResult {
	t.Helper()
	item, ok := c.CurrentItem()
	require.True(t, ok, "expected a current item in state %s", c.State())

	answer := "zzzz qqqq"
	if correct {
		answer = item.Term.Answer(item.Direction)
	}
	result, err := c.SubmitAnswer(context.Background(), answer)
	require.NoError(t, err)
	return result
}

var errWrite = errors.New("write failed")
