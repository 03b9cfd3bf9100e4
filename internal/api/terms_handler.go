package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/lexicon/internal/api/shared"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/session"
)

// TermsHandler serves read-only views of a learner's terms.
type TermsHandler struct {
	terms  session.TermSource
	cal    srs.Calendar
	now    func() time.Time
	logger *slog.Logger
}

// NewTermsHandler creates a TermsHandler. A nil now uses time.Now.
func NewTermsHandler(
	terms session.TermSource,
	cal srs.Calendar,
	now func() time.Time,
	logger *slog.Logger,
) *TermsHandler {
	if terms == nil {
		panic("terms cannot be nil for TermsHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for TermsHandler")
	}
	if now == nil {
		now = time.Now
	}
	return &TermsHandler{
		terms:  terms,
		cal:    cal,
		now:    now,
		logger: logger.With(slog.String("component", "terms_handler")),
	}
}

// GetDue handles GET /api/terms/due?mode=. It runs the same selection a new
// session would, without creating one.
func (h *TermsHandler) GetDue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	mode, err := modeFromQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	terms, err := h.terms.GetTermsDue(r.Context(), ownerID, mode)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load due terms")
		return
	}

	selection := srs.SelectDueItems(terms, mode, h.cal.Today(h.now()), h.cal)
	log.Debug("due items selected",
		slog.String("mode", mode.String()),
		slog.Int("items", len(selection.Items)))

	shared.RespondWithJSON(w, r, http.StatusOK, DueItemsResponse{
		Mode:      mode.String(),
		Items:     itemsToResponse(selection.Items),
		Lookahead: selection.Lookahead,
	})
}
