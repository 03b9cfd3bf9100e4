package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/store"
	"github.com/phrazzld/lexicon/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{"id", "type", "payload", "status", "error_message", "created_at", "updated_at"}

func TestPostgresTaskStore_SaveTask(t *testing.T) {
	t.Parallel()

	rec := task.TaskRecord{
		ID:      uuid.New(),
		Type:    task.TaskTypeAttemptLog,
		Payload: []byte(`{"score":90}`),
		Status:  task.TaskStatusPending,
	}

	t.Run("inserts pending record", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
			WithArgs(rec.ID, rec.Type, rec.Payload, "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.SaveTask(context.Background(), rec))
	})

	t.Run("maps duplicate key", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
			WillReturnError(newPgError(uniqueViolationCode, "tasks_pkey", ""))

		err := s.SaveTask(context.Background(), rec)
		assert.ErrorIs(t, err, store.ErrDuplicate)

		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "task", storeErr.Entity)
		assert.Equal(t, "save", storeErr.Operation)
	})
}

func TestPostgresTaskStore_UpdateTaskStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name     string
		status   task.TaskStatus
		msg      string
		wantMsg  any
		affected int64
		wantLog  string
	}{
		{name: "completed clears message", status: task.TaskStatusCompleted, wantMsg: nil, affected: 1},
		{name: "failed keeps message", status: task.TaskStatusFailed, msg: "boom", wantMsg: "boom", affected: 1},
		{name: "unknown id", status: task.TaskStatusProcessing, wantMsg: nil, affected: 0, wantLog: "no task to update"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			log, buf := logger.NewTestLogger()
			s := NewPostgresTaskStore(db, log)

			mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
				WithArgs(string(tc.status), tc.wantMsg, sqlmock.AnyArg(), id).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			require.NoError(t, s.UpdateTaskStatus(context.Background(), id, tc.status, tc.msg))
			if tc.wantLog != "" {
				assert.Contains(t, buf.String(), tc.wantLog)
			}
		})
	}

	t.Run("driver error", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).WillReturnError(errors.New("conn reset"))

		err := s.UpdateTaskStatus(context.Background(), id, task.TaskStatusFailed, "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conn reset")
	})
}

func TestPostgresTaskStore_List(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("all pending", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		first, second := uuid.New(), uuid.New()
		rows := sqlmock.NewRows(taskRowColumns).
			AddRow(first.String(), "attempt_log", []byte(`{}`), "pending", nil, created, created).
			AddRow(second.String(), "attempt_log", []byte(`{}`), "pending", "reset after restart", created, created)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 ORDER BY created_at, id")).
			WithArgs("pending").
			WillReturnRows(rows)

		recs, err := s.GetPendingTasks(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, first, recs[0].ID)
		assert.Equal(t, task.TaskStatusPending, recs[0].Status)
		assert.Empty(t, recs[0].ErrorMessage)
		assert.Equal(t, "reset after restart", recs[1].ErrorMessage)
	})

	t.Run("stale processing", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("AND updated_at < $2 ORDER BY created_at, id")).
			WithArgs("processing", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(taskRowColumns))

		recs, err := s.GetProcessingTasks(context.Background(), 10*time.Minute)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).WillReturnError(errors.New("timeout"))

		_, err := s.GetPendingTasks(context.Background(), 0)
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "list", storeErr.Operation)
	})
}
