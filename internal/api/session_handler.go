package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/lexicon/internal/api/shared"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/session"
)

// SessionHandler exposes the learner's session over HTTP. Each learner has
// at most one session, addressed as "current".
type SessionHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(registry *session.Registry, logger *slog.Logger) *SessionHandler {
	if registry == nil {
		panic("registry cannot be nil for SessionHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// Create handles POST /api/sessions. It replaces any current session with
// a new one and loads today's items for the requested mode.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	c := h.registry.Create(ownerID)
	if err := c.Load(r.Context(), mode); err != nil {
		var selErr *session.SelectionError
		if errors.As(err, &selErr) {
			log.Warn("session load failed", slog.String("mode", mode.String()))
		}
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	snap := c.Snapshot()
	log.Debug("session created",
		slog.String("mode", mode.String()),
		slog.String("state", snap.State.String()),
		slog.Int("items", snap.Remaining))
	shared.RespondWithJSON(w, r, http.StatusCreated, snapshotToResponse(snap))
}

// Get handles GET /api/sessions/current.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.current(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(c.Snapshot()))
}

// Start handles POST /api/sessions/current/start.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	c, ok := h.current(w, r)
	if !ok {
		return
	}
	if err := c.Start(); err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(c.Snapshot()))
}

// SubmitAnswer handles POST /api/sessions/current/answers. A second answer
// arriving while one is being recorded gets 409.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	c, ok := h.current(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer graded",
		slog.String("term_id", result.Item.Term.ID.String()),
		slog.String("direction", result.Item.Direction.String()),
		slog.Int("score", result.Score),
		slog.Bool("correct", result.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, answerToResponse(result, c.Snapshot()))
}

// Skip handles POST /api/sessions/current/skip.
func (h *SessionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	c, ok := h.current(w, r)
	if !ok {
		return
	}
	if err := c.Skip(); err != nil {
		HandleAPIError(w, r, err, "Failed to skip item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(c.Snapshot()))
}

// Delete handles DELETE /api/sessions/current by abandoning the session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	if !h.registry.Remove(ownerID) {
		HandleAPIError(w, r, session.ErrNoSession, "")
		return
	}
	log.Debug("session abandoned by learner")
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) current(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireUserID(w, r, log)
	if !ok {
		return nil, false
	}
	c, err := h.registry.Get(ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return c, true
}
