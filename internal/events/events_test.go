package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	calls []*Event
	err   error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.calls = append(h.calls, event)
	return h.err
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	type payload struct {
		TermID uuid.UUID `json:"term_id"`
		Score  int       `json:"score"`
	}
	in := payload{TermID: uuid.New(), Score: 85}

	event, err := NewEvent(TypeAttemptRecorded, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeAttemptRecorded, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var out payload
	require.NoError(t, event.UnmarshalPayload(&out))
	assert.Equal(t, in, out)
}

func TestNewEventRejectsUnencodablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewEvent("broken", make(chan int))
	assert.Error(t, err)
}

func TestUnmarshalPayloadError(t *testing.T) {
	t.Parallel()

	event := &Event{Type: TypeAttemptRecorded, Payload: []byte(`{"score":"high"}`)}
	var out struct {
		Score int `json:"score"`
	}
	err := event.UnmarshalPayload(&out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), TypeAttemptRecorded)
}

func TestEventHandlerFunc(t *testing.T) {
	t.Parallel()

	var seen string
	h := EventHandlerFunc(func(ctx context.Context, event *Event) error {
		seen = event.Type
		return nil
	})

	require.NoError(t, h.HandleEvent(context.Background(), &Event{Type: "x"}))
	assert.Equal(t, "x", seen)
}
