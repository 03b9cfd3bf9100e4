package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/lexicon/internal/events"
	"github.com/phrazzld/lexicon/internal/store"
)

// HandlerRegistrar accepts event handlers; events.InMemoryEventEmitter is one.
type HandlerRegistrar interface {
	RegisterHandler(handler events.EventHandler)
}

// AttemptLogConfig sizes the attempt log pipeline.
type AttemptLogConfig struct {
	QueueSize   int
	WorkerCount int
	// StuckTaskAge is the age after which RequeueStale picks up a task.
	StuckTaskAge time.Duration
}

// AttemptLogPipeline persists recorded attempts in the background: events
// become AttemptLogTasks that are saved to the task store, then queued for
// a worker pool.
type AttemptLogPipeline struct {
	queue    *TaskQueue
	pool     *WorkerPool
	runner   *TaskRunner
	stuckAge time.Duration
}

// StartAttemptLogPipeline registers an AttemptEventHandler with emitter and
// starts the workers. Call Recover to pick up tasks left by a previous run.
func StartAttemptLogPipeline(
	emitter HandlerRegistrar,
	attempts store.AttemptStore,
	tasks TaskStore,
	cfg AttemptLogConfig,
	logger *slog.Logger,
) *AttemptLogPipeline {
	if logger == nil {
		logger = slog.Default()
	}

	queue := NewTaskQueue(cfg.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: cfg.WorkerCount}, logger)
	runner := NewTaskRunner(tasks, queue, logger)
	runner.RegisterDecoder(TaskTypeAttemptLog, AttemptLogDecoder(attempts, logger))
	emitter.RegisterHandler(NewAttemptEventHandler(runner, attempts, logger))
	pool.Start()

	return &AttemptLogPipeline{queue: queue, pool: pool, runner: runner, stuckAge: cfg.StuckTaskAge}
}

// Recover queues the attempts a previous run left unwritten.
func (p *AttemptLogPipeline) Recover(ctx context.Context) (int, error) {
	return p.runner.Recover(ctx)
}

// RequeueStale queues attempts that overflowed the queue or got stuck.
// It does nothing when no stuck task age is configured.
func (p *AttemptLogPipeline) RequeueStale(ctx context.Context) (int, error) {
	if p.stuckAge <= 0 {
		return 0, nil
	}
	return p.runner.RequeueStale(ctx, p.stuckAge)
}

// Pending returns the number of attempts waiting for a worker.
func (p *AttemptLogPipeline) Pending() int {
	return p.queue.Len()
}

// Shutdown stops accepting attempts and waits for the queued ones to be
// written, or for ctx to end. Attempts submitted afterwards stay pending
// in the task store.
func (p *AttemptLogPipeline) Shutdown(ctx context.Context) error {
	p.queue.Close()
	return p.pool.Stop(ctx)
}
