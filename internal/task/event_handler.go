package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/events"
	"github.com/phrazzld/lexicon/internal/store"
)

// TaskSubmitter accepts persistable tasks; TaskRunner is one.
type TaskSubmitter interface {
	Submit(ctx context.Context, t PayloadTask) error
}

// AttemptEventHandler implements events.EventHandler by submitting an
// AttemptLogTask for every attempt.recorded event.
type AttemptEventHandler struct {
	tasks    TaskSubmitter
	attempts store.AttemptStore
	logger   *slog.Logger
}

var _ events.EventHandler = (*AttemptEventHandler)(nil)

// NewAttemptEventHandler creates a handler that feeds tasks.
func NewAttemptEventHandler(
	tasks TaskSubmitter,
	attempts store.AttemptStore,
	logger *slog.Logger,
) *AttemptEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttemptEventHandler{
		tasks:    tasks,
		attempts: attempts,
		logger:   logger.With(slog.String("component", "attempt_event_handler")),
	}
}

// HandleEvent implements events.EventHandler. Other event types are ignored.
func (h *AttemptEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeAttemptRecorded {
		h.logger.Debug("ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var attempt domain.Attempt
	if err := event.UnmarshalPayload(&attempt); err != nil {
		h.logger.Error("failed to unmarshal payload",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}
	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("invalid attempt in event %s: %w", event.ID, err)
	}

	if err := h.tasks.Submit(ctx, NewAttemptLogTask(attempt, h.attempts, h.logger)); err != nil {
		return fmt.Errorf("failed to submit attempt log: %w", err)
	}
	return nil
}
