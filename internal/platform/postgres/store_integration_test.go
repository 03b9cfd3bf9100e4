//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/platform/postgres"
	"github.com/phrazzld/lexicon/internal/store"
	"github.com/phrazzld/lexicon/internal/task"
	"github.com/phrazzld/lexicon/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermStoreRoundTrip(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		terms := postgres.NewPostgresTermStore(tx, nil)
		owner := uuid.New()

		first, err := domain.NewTerm(owner, "gia đình", []string{"family", "household"})
		require.NoError(t, err)
		second, err := domain.NewTerm(owner, "nhà", []string{"house"})
		require.NoError(t, err)
		second.CreatedAt = first.CreatedAt.Add(time.Second)

		require.NoError(t, terms.Create(ctx, first))
		require.NoError(t, terms.Create(ctx, second))

		got, err := terms.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"family", "household"}, got.Senses)
		assert.True(t, got.Forward.DueAt.IsZero())

		due := time.Date(2024, 1, 12, 17, 0, 0, 0, time.UTC)
		require.NoError(t, terms.UpdateTrack(ctx, first.ID, domain.DirectionForward, domain.Track{Level: 2, DueAt: due}))

		got, err = terms.GetForUpdate(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Forward.Level)
		assert.True(t, due.Equal(got.Forward.DueAt))
		assert.Equal(t, 0, got.Backward.Level)
		assert.True(t, got.Backward.DueAt.IsZero())

		list, err := terms.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)

		_, err = terms.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrTermNotFound)
	})
}

func TestAttemptStoreRoundTrip(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		terms := postgres.NewPostgresTermStore(tx, nil)
		attempts := postgres.NewPostgresAttemptStore(tx, nil)

		term, err := domain.NewTerm(uuid.New(), "nước", []string{"water"})
		require.NoError(t, err)
		require.NoError(t, terms.Create(ctx, term))

		attempt := &domain.Attempt{
			ID:          uuid.New(),
			OwnerID:     term.OwnerID,
			TermID:      term.ID,
			Direction:   domain.DirectionBackward,
			Correct:     true,
			Score:       100,
			Level:       1,
			DueAt:       time.Date(2024, 1, 11, 17, 0, 0, 0, time.UTC),
			AttemptedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		}
		require.NoError(t, attempts.Create(ctx, attempt))

		got, err := attempts.ListByTerm(ctx, term.ID, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, attempt.ID, got[0].ID)
		assert.Equal(t, domain.DirectionBackward, got[0].Direction)
	})
}

func TestTaskStoreRoundTrip(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)

		rec := task.TaskRecord{
			ID:      uuid.New(),
			Type:    task.TaskTypeAttemptLog,
			Payload: []byte(`{"score": 90}`),
			Status:  task.TaskStatusPending,
		}
		require.NoError(t, tasks.SaveTask(ctx, rec))

		pending, err := tasks.GetPendingTasks(ctx, 0)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, rec.ID, pending[0].ID)
		assert.JSONEq(t, `{"score": 90}`, string(pending[0].Payload))

		stale, err := tasks.GetPendingTasks(ctx, time.Hour)
		require.NoError(t, err)
		assert.Empty(t, stale)

		require.NoError(t, tasks.UpdateTaskStatus(ctx, rec.ID, task.TaskStatusProcessing, ""))
		processing, err := tasks.GetProcessingTasks(ctx, 0)
		require.NoError(t, err)
		require.Len(t, processing, 1)
		assert.Empty(t, processing[0].ErrorMessage)
	})
}
