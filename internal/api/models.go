package api

import (
	"time"

	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/session"
)

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	Mode string `json:"mode" validate:"required,oneof=forward backward both"`
}

// SubmitAnswerRequest is the body of POST /api/sessions/current/answers.
// A blank answer is accepted and graded as incorrect.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"max=1000"`
}

// ItemResponse is one learning item as shown to the learner. The reference
// answer is never included.
type ItemResponse struct {
	TermID    string           `json:"term_id"`
	Direction domain.Direction `json:"direction"`
	Prompt    string           `json:"prompt"`
	Level     int              `json:"level"`
	IsNew     bool             `json:"is_new"`
}

// TrackResponse is the schedule of one direction.
type TrackResponse struct {
	Level int       `json:"level"`
	DueAt time.Time `json:"due_at"`
}

// SessionResponse describes the learner's current session.
type SessionResponse struct {
	State     session.State  `json:"state"`
	Mode      string         `json:"mode,omitempty"`
	Stats     session.Stats  `json:"stats"`
	Current   *ItemResponse  `json:"current_item,omitempty"`
	Remaining int            `json:"remaining"`
	Pass      int            `json:"pass"`
	Lookahead *srs.Lookahead `json:"lookahead,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// AnswerResponse reports how an answer was graded.
type AnswerResponse struct {
	Correct  bool           `json:"correct"`
	Score    int            `json:"score"`
	Strategy string         `json:"strategy"`
	Expected string         `json:"expected"`
	Blank    bool           `json:"blank,omitempty"`
	Track    *TrackResponse `json:"track,omitempty"`
	// Warning is set when the new schedule could not be saved.
	Warning string           `json:"warning,omitempty"`
	Session *SessionResponse `json:"session"`
}

// DueItemsResponse previews what a session started now would contain.
type DueItemsResponse struct {
	Mode      string         `json:"mode"`
	Items     []ItemResponse `json:"items"`
	Lookahead *srs.Lookahead `json:"lookahead,omitempty"`
}

func itemToResponse(item domain.LearningItem) ItemResponse {
	track := item.Track()
	return ItemResponse{
		TermID:    item.Term.ID.String(),
		Direction: item.Direction,
		Prompt:    item.Term.Prompt(item.Direction),
		Level:     track.Level,
		IsNew:     track.IsNew(),
	}
}

func itemsToResponse(items []domain.LearningItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return out
}

func snapshotToResponse(snap session.Snapshot) *SessionResponse {
	resp := &SessionResponse{
		State:     snap.State,
		Stats:     snap.Stats,
		Remaining: snap.Remaining,
		Pass:      snap.Pass,
		Lookahead: snap.Lookahead,
	}
	if snap.Mode.Valid() {
		resp.Mode = snap.Mode.String()
	}
	if snap.Current != nil {
		item := itemToResponse(*snap.Current)
		resp.Current = &item
	}
	if snap.Err != nil {
		resp.Error = GetSafeErrorMessage(snap.Err)
	}
	return resp
}

func answerToResponse(result *session.AnswerResult, snap session.Snapshot) *AnswerResponse {
	resp := &AnswerResponse{
		Correct:  result.Correct,
		Score:    result.Score,
		Strategy: result.Strategy.String(),
		Expected: result.Expected,
		Blank:    result.InputErr != nil,
		Session:  snapshotToResponse(snap),
	}
	if result.Track != nil {
		resp.Track = &TrackResponse{Level: result.Track.Level, DueAt: result.Track.DueAt}
	}
	if result.Warning != nil {
		resp.Warning = "Your answer was graded but the schedule could not be saved"
	}
	return resp
}
