package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock shared by a registry's controllers.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry(clock *testClock, ttl time.Duration) *Registry {
	factory := func(ownerID uuid.UUID) *Controller {
		return NewController(ownerID, Deps{
			Terms:    &fakeTerms{},
			Updater:  &fakeUpdater{},
			Calendar: srs.Calendar{},
			Now:      clock.Now,
		}, DefaultOptions())
	}
	return NewRegistry(factory, ttl, nil)
}

func TestRegistry_CreateReplaces(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(&testClock{now: testNow}, time.Minute)
	owner := uuid.New()

	first := r.Create(owner)
	second := r.Create(owner)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(owner)
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, owner, got.OwnerID())

	assert.ErrorIs(t, first.Start(), ErrAbandoned)
	assert.Equal(t, StateFinished, first.State())
	assert.Equal(t, StateLoading, second.State())
}

func TestRegistry_GetAndRemove(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(&testClock{now: testNow}, time.Minute)
	owner := uuid.New()

	_, err := r.Get(owner)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, r.Remove(owner))

	c := r.Create(owner)
	assert.True(t, r.Remove(owner))
	assert.Equal(t, StateFinished, c.State())
	_, err = r.Get(owner)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRegistry_Sweep(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: testNow}
	r := newTestRegistry(clock, 30*time.Minute)

	idle := r.Create(uuid.New())
	clock.Advance(20 * time.Minute)
	active := r.Create(uuid.New())
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep(clock.Now()))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, StateFinished, idle.State())
	assert.ErrorIs(t, idle.Start(), ErrAbandoned)

	got, err := r.Get(active.OwnerID())
	require.NoError(t, err)
	assert.Same(t, active, got)

	assert.Zero(t, r.Sweep(clock.Now()))
}

func TestRegistry_SweepDisabled(t *testing.T) {
	t.Parallel()

	clock := &testClock{now: testNow}
	r := newTestRegistry(clock, 0)
	r.Create(uuid.New())

	assert.Zero(t, r.Sweep(clock.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_AbandonAll(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(&testClock{now: testNow}, time.Minute)
	a := r.Create(uuid.New())
	b := r.Create(uuid.New())

	r.AbandonAll()
	assert.Zero(t, r.Len())
	assert.Equal(t, StateFinished, a.State())
	assert.Equal(t, StateFinished, b.State())
}
