package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status messages written when a task is put back in the queue.
const (
	resetAfterRestart = "reset after restart"
	resetAfterStuck   = "reset after being stuck in processing"
)

// ErrNoDecoder is returned for a persisted task whose type has no Decoder.
var ErrNoDecoder = errors.New("no decoder registered for task type")

// TaskRunner persists tasks before queueing them. A task that does not fit
// in the queue stays pending in the store and is queued again by Recover or
// RequeueStale.
type TaskRunner struct {
	store  TaskStore
	queue  TaskQueueWriter
	logger *slog.Logger

	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewTaskRunner creates a runner that feeds queue.
func NewTaskRunner(store TaskStore, queue TaskQueueWriter, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskRunner{
		store:    store,
		queue:    queue,
		logger:   logger.With(slog.String("component", "task_runner")),
		decoders: make(map[string]Decoder),
	}
}

// RegisterDecoder sets how persisted tasks of taskType are rebuilt.
func (r *TaskRunner) RegisterDecoder(taskType string, decoder Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[taskType] = decoder
}

// Submit saves t as pending and queues it. Only a failed save is an error:
// a full or closed queue leaves the task for recovery.
func (r *TaskRunner) Submit(ctx context.Context, t PayloadTask) error {
	payload, err := t.Payload()
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", t.ID(), err)
	}
	rec := TaskRecord{ID: t.ID(), Type: t.Type(), Payload: payload, Status: TaskStatusPending}
	if err := r.store.SaveTask(ctx, rec); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(r.track(t)); err != nil {
		r.logger.Warn("task left pending for recovery",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("reason", err.Error()))
	}
	return nil
}

// Recover queues every unfinished task. It is meant for startup, when no
// task can be running: processing tasks were interrupted and are reset.
// It returns how many tasks were queued.
func (r *TaskRunner) Recover(ctx context.Context) (int, error) {
	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get processing tasks: %w", err)
	}
	pending, err := r.store.GetPendingTasks(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending_count", len(pending)),
		slog.Int("processing_count", len(processing)))

	n := r.requeue(ctx, processing, resetAfterRestart)
	return n + r.requeue(ctx, pending, ""), nil
}

// RequeueStale queues tasks that have been pending or processing for longer
// than age. Pending ones overflowed the queue; processing ones are stuck.
func (r *TaskRunner) RequeueStale(ctx context.Context, age time.Duration) (int, error) {
	processing, err := r.store.GetProcessingTasks(ctx, age)
	if err != nil {
		return 0, fmt.Errorf("failed to get stuck tasks: %w", err)
	}
	pending, err := r.store.GetPendingTasks(ctx, age)
	if err != nil {
		return 0, fmt.Errorf("failed to get stale pending tasks: %w", err)
	}

	n := r.requeue(ctx, processing, resetAfterStuck)
	n += r.requeue(ctx, pending, "")
	if n > 0 {
		r.logger.Info("requeued stale tasks", slog.Int("count", n))
	}
	return n, nil
}

// requeue queues recs until the queue is full. A non-empty reset message
// first moves a record back to pending.
func (r *TaskRunner) requeue(ctx context.Context, recs []TaskRecord, reset string) int {
	queued := 0
	for _, rec := range recs {
		log := r.logger.With(
			slog.String("task_id", rec.ID.String()),
			slog.String("task_type", rec.Type))

		t, err := r.decode(rec)
		if err != nil {
			log.Error("failed to rebuild task", slog.String("error", err.Error()))
			r.setStatus(ctx, rec.ID, TaskStatusFailed, err.Error())
			continue
		}

		if reset != "" {
			if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, reset); err != nil {
				log.Error("failed to reset task status", slog.String("error", err.Error()))
				continue
			}
		}

		if err := r.queue.Enqueue(r.track(t)); err != nil {
			log.Warn("requeue stopped", slog.String("reason", err.Error()))
			return queued
		}
		queued++
	}
	return queued
}

func (r *TaskRunner) decode(rec TaskRecord) (Task, error) {
	r.mu.RLock()
	decoder, ok := r.decoders[rec.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDecoder, rec.Type)
	}
	return decoder(rec)
}

func (r *TaskRunner) setStatus(ctx context.Context, id uuid.UUID, status TaskStatus, msg string) {
	if err := r.store.UpdateTaskStatus(ctx, id, status, msg); err != nil {
		r.logger.Error("failed to update task status",
			slog.String("task_id", id.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
	}
}

func (r *TaskRunner) track(t Task) Task {
	return &trackedTask{Task: t, runner: r}
}

// trackedTask records the status of the task it wraps in the store.
type trackedTask struct {
	Task
	runner *TaskRunner
}

// Execute marks the task processing, runs it and records the outcome. If the
// task cannot be marked it is not run and stays in its stored status.
func (t *trackedTask) Execute(ctx context.Context) error {
	r := t.runner
	if err := r.store.UpdateTaskStatus(ctx, t.ID(), TaskStatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to mark task processing: %w", err)
	}

	if err := t.Task.Execute(ctx); err != nil {
		r.setStatus(ctx, t.ID(), TaskStatusFailed, err.Error())
		return err
	}
	r.setStatus(ctx, t.ID(), TaskStatusCompleted, "")
	return nil
}
