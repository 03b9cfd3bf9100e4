package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lexicon/internal/api/middleware"
)

// RouterDeps are the handlers and middleware mounted by NewRouter.
type RouterDeps struct {
	Sessions *SessionHandler
	Terms    *TermsHandler
	Auth     *middleware.AuthMiddleware
	Logger   *slog.Logger
}

// NewRouter builds the HTTP routes. Everything under /api requires a bearer
// token; /health does not.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(deps.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)

		r.Get("/terms/due", deps.Terms.GetDue)

		r.Post("/sessions", deps.Sessions.Create)
		r.Route("/sessions/current", func(r chi.Router) {
			r.Get("/", deps.Sessions.Get)
			r.Delete("/", deps.Sessions.Delete)
			r.Post("/start", deps.Sessions.Start)
			r.Post("/answers", deps.Sessions.SubmitAnswer)
			r.Post("/skip", deps.Sessions.Skip)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.Logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
