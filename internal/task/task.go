package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskTypeAttemptLog persists one graded attempt.
const TaskTypeAttemptLog = "attempt_log"

// TaskStatus is the lifecycle stage of a persisted task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is one unit of background work.
type Task interface {
	ID() uuid.UUID
	Type() string
	Execute(ctx context.Context) error
}

// PayloadTask is a Task that can be persisted and rebuilt by a Decoder.
type PayloadTask interface {
	Task
	Payload() ([]byte, error)
}

// TaskRecord is the persisted form of a PayloadTask.
type TaskRecord struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       TaskStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Decoder rebuilds an executable task from its record.
type Decoder func(rec TaskRecord) (Task, error)

// TaskStore persists tasks so that queued work survives a full queue or a
// restart.
type TaskStore interface {
	SaveTask(ctx context.Context, rec TaskRecord) error
	// UpdateTaskStatus records a status change. An unknown ID is not an error.
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus, errorMsg string) error
	// GetPendingTasks returns pending tasks last updated more than olderThan
	// ago, oldest first. Zero returns every pending task.
	GetPendingTasks(ctx context.Context, olderThan time.Duration) ([]TaskRecord, error)
	// GetProcessingTasks is GetPendingTasks for tasks in processing.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]TaskRecord, error)
}

// TaskQueueReader is the consuming side of a queue. The channel is closed
// once the queue is closed and drained.
type TaskQueueReader interface {
	GetChannel() <-chan Task
}

// TaskQueueWriter is the producing side of a queue. Enqueue fails instead
// of blocking when the queue is full or closed.
type TaskQueueWriter interface {
	Enqueue(task Task) error
	Close()
}
