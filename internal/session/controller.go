package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/grading"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/platform/logger"
)

// TermSource loads the terms a selection is made from.
type TermSource interface {
	GetTermsDue(ctx context.Context, ownerID uuid.UUID, mode domain.Mode) ([]domain.Term, error)
}

// Updater persists the schedule that follows one graded attempt and returns it.
type Updater interface {
	UpdateLevel(
		ctx context.Context,
		ownerID uuid.UUID,
		termID uuid.UUID,
		dir domain.Direction,
		outcome domain.Outcome,
	) (domain.Track, error)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Terms    TermSource
	Updater  Updater
	Grader   *grading.Grader
	Calendar srs.Calendar
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Options tune session behavior.
type Options struct {
	// ReviewPasses is how many times the failed items are offered again.
	// Zero finishes the session after the primary pass.
	ReviewPasses int
}

// DefaultOptions returns a single review pass.
func DefaultOptions() Options {
	return Options{ReviewPasses: 1}
}

// AnswerResult describes one graded answer.
type AnswerResult struct {
	Item     domain.LearningItem
	Score    int
	Correct  bool
	Strategy grading.Strategy
	Expected string
	// Track is the schedule written for the item; nil when the write failed.
	Track *domain.Track
	// InputErr is a *GradingInputError for a blank answer.
	InputErr error
	// Warning is a *RescheduleWriteError when the write failed.
	Warning error
	// State is the controller state after the answer was applied.
	State State
}

// Snapshot is a consistent view of a Controller.
type Snapshot struct {
	OwnerID   uuid.UUID
	State     State
	Mode      domain.Mode
	Stats     Stats
	Current   *domain.LearningItem
	Remaining int
	Pass      int
	Lookahead *srs.Lookahead
	Err       error
}

// Controller runs one learner's session. It is safe for concurrent use;
// overlapping answers are rejected rather than interleaved.
type Controller struct {
	ownerID uuid.UUID
	terms   TermSource
	updater Updater
	grader  *grading.Grader
	cal     srs.Calendar
	now     func() time.Time
	logger  *slog.Logger
	passes  int
	ctx     context.Context
	cancel  context.CancelFunc

	mu         sync.Mutex
	state      State
	inFlight   bool
	abandoned  bool
	mode       domain.Mode
	selected   []domain.LearningItem
	lookahead  *srs.Lookahead
	queue      []domain.LearningItem
	review     []domain.LearningItem
	failures   []domain.LearningItem
	cursor     int
	pass       int
	stats      Stats
	err        error
	lastResult *AnswerResult
	lastActive time.Time
}

// NewController creates a controller in the Loading state.
func NewController(ownerID uuid.UUID, deps Deps, opts Options) *Controller {
	if deps.Terms == nil {
		panic("terms cannot be nil")
	}
	if deps.Updater == nil {
		panic("updater cannot be nil")
	}
	if deps.Grader == nil {
		deps.Grader = grading.NewGrader(grading.DefaultThreshold)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.ReviewPasses < 0 {
		opts.ReviewPasses = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ownerID: ownerID,
		terms:   deps.Terms,
		updater: deps.Updater,
		grader:  deps.Grader,
		cal:     deps.Calendar,
		now:     deps.Now,
		logger: deps.Logger.With(
			slog.String("component", "session"),
			slog.String("owner_id", ownerID.String())),
		passes:     opts.ReviewPasses,
		ctx:        ctx,
		cancel:     cancel,
		state:      StateLoading,
		lastActive: deps.Now(),
	}
}

// OwnerID returns the learner the session belongs to.
func (c *Controller) OwnerID() uuid.UUID {
	return c.ownerID
}

// Load fetches the owner's terms and selects today's items for mode.
// It ends in Ready, or in Finished when nothing is due. A fetch failure ends
// in Finished and returns a *SelectionError. Load is rejected while a
// session is being learned.
func (c *Controller) Load(ctx context.Context, mode domain.Mode) error {
	c.mu.Lock()
	if err := c.checkIdle(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.state == StateLearning || c.state == StateReviewing {
		c.mu.Unlock()
		return fmt.Errorf("%w: load during %s", ErrInvalidState, c.state)
	}
	if !mode.Valid() {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", domain.ErrInvalidMode, int(mode))
	}
	c.resetLocked()
	c.mode = mode
	c.inFlight = true
	c.touchLocked()
	c.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, c.logger)

	opCtx, done := c.opContext(ctx)
	terms, err := c.terms.GetTermsDue(opCtx, c.ownerID, mode)
	done()
	if err == nil {
		err = validateTerms(terms)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if c.abandoned {
		return ErrAbandoned
	}

	if err != nil {
		selErr := &SelectionError{Err: err}
		c.state = StateFinished
		c.err = selErr
		log.Error("failed to load due items",
			slog.String("error", err.Error()),
			slog.String("mode", mode.String()))
		return selErr
	}

	selection := srs.SelectDueItems(terms, mode, c.cal.Today(c.now()), c.cal)
	c.lookahead = selection.Lookahead
	if selection.Empty() {
		c.state = StateFinished
		log.Info("nothing due", slog.String("mode", mode.String()))
		return nil
	}

	c.selected = selection.Items
	c.state = StateReady
	log.Info("session loaded",
		slog.String("mode", mode.String()),
		slog.Int("items", len(selection.Items)))
	return nil
}

func validateTerms(terms []domain.Term) error {
	for i := range terms {
		if err := terms[i].Validate(); err != nil {
			return fmt.Errorf("term %s: %w", terms[i].ID, err)
		}
	}
	return nil
}

// Start snapshots the selected items as the primary queue and begins learning.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIdle(); err != nil {
		return err
	}
	if c.state != StateReady {
		return fmt.Errorf("%w: start during %s", ErrInvalidState, c.state)
	}

	c.queue = append([]domain.LearningItem(nil), c.selected...)
	c.cursor = 0
	c.failures = nil
	c.review = nil
	c.pass = 0
	c.stats = Stats{}
	c.lastResult = nil
	c.state = StateLearning
	c.touchLocked()

	c.logger.Debug("session started", slog.Int("items", len(c.queue)))
	return nil
}

// SubmitAnswer grades text against the current item, reports the outcome to
// the Updater and advances. A failed write is returned as result.Warning,
// not as an error.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) (*AnswerResult, error) {
	c.mu.Lock()
	if err := c.checkIdle(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if !c.state.Answering() {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: answer during %s", ErrInvalidState, state)
	}
	item := c.currentLocked()
	grade := c.grader.Grade(item, text)
	c.inFlight = true
	c.touchLocked()
	c.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, c.logger)

	opCtx, done := c.opContext(ctx)
	track, writeErr := c.updater.UpdateLevel(opCtx, c.ownerID, item.Term.ID, item.Direction,
		domain.Outcome{Correct: grade.Correct, Score: grade.Score})
	done()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if c.abandoned {
		return nil, ErrAbandoned
	}

	result := &AnswerResult{
		Item:     item,
		Score:    grade.Score,
		Correct:  grade.Correct,
		Strategy: grade.Strategy,
		Expected: grade.Expected,
	}
	if grade.Blank {
		result.InputErr = &GradingInputError{Item: item}
	}
	if writeErr != nil {
		result.Warning = &RescheduleWriteError{Item: item, Err: writeErr}
		log.Warn("failed to reschedule item",
			slog.String("error", writeErr.Error()),
			slog.String("term_id", item.Term.ID.String()),
			slog.String("direction", item.Direction.String()))
	} else {
		result.Track = &track
		result.Item.Term = item.Term.WithTrack(item.Direction, track)
		c.applyTrackLocked(item.Term.ID, item.Direction, track)
	}

	c.stats.Total++
	if grade.Correct {
		c.stats.Correct++
	}
	c.advanceLocked(true, grade.Correct)

	result.State = c.state
	c.lastResult = result
	return result, nil
}

// Skip moves past the current item without grading it. A skipped item is
// not counted and is not offered for review.
func (c *Controller) Skip() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIdle(); err != nil {
		return err
	}
	if !c.state.Answering() {
		return fmt.Errorf("%w: skip during %s", ErrInvalidState, c.state)
	}

	c.touchLocked()
	c.advanceLocked(false, false)
	return nil
}

// Abandon ends the session for good. In-flight collaborator calls are
// cancelled and their results discarded.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.abandoned {
		return
	}
	c.abandoned = true
	c.cancel()
	c.state = StateFinished
	c.queue, c.review, c.failures, c.selected = nil, nil, nil, nil
	c.logger.Debug("session abandoned")
}

// State returns the current state, or Transition while an answer is in flight.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleStateLocked()
}

// CurrentItem returns the item awaiting an answer.
func (c *Controller) CurrentItem() (domain.LearningItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight || !c.state.Answering() {
		return domain.LearningItem{}, false
	}
	return c.currentLocked(), true
}

// Stats returns the running counts of the current session.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Err returns the *SelectionError that finished the session, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Lookahead returns when more work becomes available. It is only set when
// Load found nothing due.
func (c *Controller) Lookahead() (srs.Lookahead, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookahead == nil {
		return srs.Lookahead{}, false
	}
	return *c.lookahead, true
}

// LastResult returns the most recent answer result.
func (c *Controller) LastResult() (*AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult, c.lastResult != nil
}

// LastActive returns when the session last received a command.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Snapshot returns the state, stats and current item under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		OwnerID: c.ownerID,
		State:   c.visibleStateLocked(),
		Mode:    c.mode,
		Stats:   c.stats,
		Pass:    c.pass,
		Err:     c.err,
	}
	if c.lookahead != nil {
		la := *c.lookahead
		snap.Lookahead = &la
	}
	switch c.state {
	case StateReady:
		snap.Remaining = len(c.selected)
	case StateLearning:
		snap.Remaining = len(c.queue) - c.cursor
	case StateReviewing:
		snap.Remaining = len(c.review) - c.cursor
	}
	if !c.inFlight && c.state.Answering() {
		item := c.currentLocked()
		snap.Current = &item
	}
	return snap
}

func (c *Controller) checkIdle() error {
	if c.abandoned {
		return ErrAbandoned
	}
	if c.inFlight {
		return ErrBusy
	}
	return nil
}

func (c *Controller) visibleStateLocked() State {
	if c.inFlight && c.state.Answering() {
		return StateTransition
	}
	return c.state
}

func (c *Controller) currentLocked() domain.LearningItem {
	if c.state == StateReviewing {
		return c.review[c.cursor]
	}
	return c.queue[c.cursor]
}

func (c *Controller) touchLocked() {
	c.lastActive = c.now()
}

func (c *Controller) resetLocked() {
	c.state = StateLoading
	c.selected = nil
	c.lookahead = nil
	c.queue = nil
	c.review = nil
	c.failures = nil
	c.cursor = 0
	c.pass = 0
	c.stats = Stats{}
	c.err = nil
	c.lastResult = nil
}

// advanceLocked moves the cursor after the current item was answered
// (graded) or skipped.
func (c *Controller) advanceLocked(graded, correct bool) {
	switch c.state {
	case StateLearning:
		if graded && !correct {
			c.failures = append(c.failures, c.queue[c.cursor])
		}
		c.cursor++
		if c.cursor >= len(c.queue) {
			c.endPrimaryLocked()
		}
	case StateReviewing:
		if graded && correct {
			c.review = append(c.review[:c.cursor], c.review[c.cursor+1:]...)
		} else {
			c.cursor++
		}
		if c.cursor >= len(c.review) {
			c.endReviewPassLocked()
		}
	}
}

func (c *Controller) endPrimaryLocked() {
	if len(c.failures) == 0 || c.passes == 0 {
		c.finishLocked()
		return
	}
	c.review = c.failures
	c.failures = nil
	c.cursor = 0
	c.pass = 1
	c.state = StateReviewing
	c.logger.Debug("reviewing failed items", slog.Int("items", len(c.review)))
}

func (c *Controller) endReviewPassLocked() {
	if len(c.review) == 0 || c.pass >= c.passes {
		c.finishLocked()
		return
	}
	c.pass++
	c.cursor = 0
	c.logger.Debug("starting another review pass",
		slog.Int("pass", c.pass),
		slog.Int("items", len(c.review)))
}

func (c *Controller) finishLocked() {
	c.state = StateFinished
	c.logger.Info("session finished",
		slog.Int("correct", c.stats.Correct),
		slog.Int("total", c.stats.Total))
}

// applyTrackLocked folds a written track into every copy of the term the
// session holds.
func (c *Controller) applyTrackLocked(termID uuid.UUID, dir domain.Direction, track domain.Track) {
	for _, items := range [][]domain.LearningItem{c.selected, c.queue, c.review, c.failures} {
		for i := range items {
			if items[i].Term.ID == termID {
				items[i].Term = items[i].Term.WithTrack(dir, track)
			}
		}
	}
}

// opContext derives the context for a collaborator call from the caller's
// context. It is also cancelled by Abandon.
func (c *Controller) opContext(ctx context.Context) (context.Context, func()) {
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}
