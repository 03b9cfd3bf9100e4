package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/store"
	"github.com/stretchr/testify/require"
)

// funcTask runs fn when executed.
type funcTask struct {
	id uuid.UUID
	fn func(ctx context.Context) error
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), fn: fn}
}

func (t *funcTask) ID() uuid.UUID                     { return t.id }
func (t *funcTask) Type() string                      { return "test" }
func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }

// memoryAttemptStore is a store.AttemptStore backed by a map.
type memoryAttemptStore struct {
	mu       sync.Mutex
	attempts map[uuid.UUID]domain.Attempt
	failWith error
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{attempts: make(map[uuid.UUID]domain.Attempt)}
}

func (s *memoryAttemptStore) Create(_ context.Context, a *domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.attempts[a.ID]; ok {
		return store.ErrAttemptExists
	}
	s.attempts[a.ID] = *a
	return nil
}

func (s *memoryAttemptStore) ListByTerm(_ context.Context, termID uuid.UUID, _ int) ([]domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Attempt
	for _, a := range s.attempts {
		if a.TermID == termID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memoryAttemptStore) WithTx(*sql.Tx) store.AttemptStore { return s }

func (s *memoryAttemptStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

// memoryTaskStore is a TaskStore backed by a map. Records keep insertion
// order.
type memoryTaskStore struct {
	mu         sync.Mutex
	records    map[uuid.UUID]*TaskRecord
	order      []uuid.UUID
	failSave   error
	failUpdate error
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{records: make(map[uuid.UUID]*TaskRecord)}
}

func (s *memoryTaskStore) SaveTask(_ context.Context, rec TaskRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	s.records[rec.ID] = &rec
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *memoryTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status TaskStatus, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if rec, ok := s.records[id]; ok {
		rec.Status, rec.ErrorMessage, rec.UpdatedAt = status, msg, time.Now()
	}
	return nil
}

func (s *memoryTaskStore) GetPendingTasks(_ context.Context, olderThan time.Duration) ([]TaskRecord, error) {
	return s.byStatus(TaskStatusPending, olderThan), nil
}

func (s *memoryTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]TaskRecord, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *memoryTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []TaskRecord
	for _, id := range s.order {
		rec := s.records[id]
		if rec.Status == status && (olderThan == 0 || time.Since(rec.UpdatedAt) > olderThan) {
			out = append(out, *rec)
		}
	}
	return out
}

func (s *memoryTaskStore) get(id uuid.UUID) TaskRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.records[id]
}

// put stores rec as is, last updated age ago.
func (s *memoryTaskStore) put(rec TaskRecord, age time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.UpdatedAt = time.Now().Add(-age)
	s.records[rec.ID] = &rec
	s.order = append(s.order, rec.ID)
}

// attemptRecord builds the stored form of an attempt log task.
func attemptRecord(t *testing.T, a domain.Attempt, status TaskStatus) TaskRecord {
	t.Helper()
	payload, err := json.Marshal(a)
	require.NoError(t, err)
	return TaskRecord{ID: a.ID, Type: TaskTypeAttemptLog, Payload: payload, Status: status}
}

func testAttempt() domain.Attempt {
	return domain.Attempt{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		TermID:      uuid.New(),
		Direction:   domain.DirectionForward,
		Correct:     true,
		Score:       90,
		Level:       1,
		DueAt:       time.Date(2024, 1, 11, 17, 0, 0, 0, time.UTC),
		AttemptedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}
