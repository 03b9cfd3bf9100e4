package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/store"
)

// AttemptLogTask writes one attempt to the attempt store.
type AttemptLogTask struct {
	attempt domain.Attempt
	store   store.AttemptStore
	logger  *slog.Logger
}

var _ PayloadTask = (*AttemptLogTask)(nil)

// NewAttemptLogTask creates a task for attempt. The task ID is the attempt ID,
// so re-running it is idempotent.
func NewAttemptLogTask(attempt domain.Attempt, attempts store.AttemptStore, logger *slog.Logger) *AttemptLogTask {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttemptLogTask{
		attempt: attempt,
		store:   attempts,
		logger:  logger,
	}
}

// ID implements Task.
func (t *AttemptLogTask) ID() uuid.UUID {
	return t.attempt.ID
}

// Type implements Task.
func (t *AttemptLogTask) Type() string {
	return TaskTypeAttemptLog
}

// Payload implements PayloadTask.
func (t *AttemptLogTask) Payload() ([]byte, error) {
	return json.Marshal(t.attempt)
}

// Attempt returns the attempt the task will write.
func (t *AttemptLogTask) Attempt() domain.Attempt {
	return t.attempt
}

// Execute implements Task. An attempt that was already written counts as success.
func (t *AttemptLogTask) Execute(ctx context.Context) error {
	err := t.store.Create(ctx, &t.attempt)
	if errors.Is(err, store.ErrAttemptExists) {
		t.logger.Debug("attempt already logged", slog.String("attempt_id", t.attempt.ID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to log attempt %s: %w", t.attempt.ID, err)
	}
	return nil
}

// AttemptLogDecoder rebuilds AttemptLogTasks from their records.
func AttemptLogDecoder(attempts store.AttemptStore, logger *slog.Logger) Decoder {
	return func(rec TaskRecord) (Task, error) {
		var attempt domain.Attempt
		if err := json.Unmarshal(rec.Payload, &attempt); err != nil {
			return nil, fmt.Errorf("failed to decode attempt payload: %w", err)
		}
		if err := attempt.Validate(); err != nil {
			return nil, err
		}
		if attempt.ID != rec.ID {
			return nil, fmt.Errorf("attempt %s stored under task %s", attempt.ID, rec.ID)
		}
		return NewAttemptLogTask(attempt, attempts, logger), nil
	}
}
