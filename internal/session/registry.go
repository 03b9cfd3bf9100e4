package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds a fresh controller for a learner.
type Factory func(ownerID uuid.UUID) *Controller

// Registry keeps at most one live controller per learner.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
	factory  Factory
	idleTTL  time.Duration
	logger   *slog.Logger
}

// NewRegistry creates a registry. Sessions idle for longer than idleTTL are
// removed by Sweep; a non-positive idleTTL disables sweeping.
func NewRegistry(factory Factory, idleTTL time.Duration, logger *slog.Logger) *Registry {
	if factory == nil {
		panic("factory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Controller),
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   logger.With(slog.String("component", "session_registry")),
	}
}

// Create replaces the learner's session with a new one in the Loading
// state. The previous session, if any, is abandoned.
func (r *Registry) Create(ownerID uuid.UUID) *Controller {
	c := r.factory(ownerID)

	r.mu.Lock()
	prev := r.sessions[ownerID]
	r.sessions[ownerID] = c
	r.mu.Unlock()

	if prev != nil {
		prev.Abandon()
		r.logger.Debug("replaced session", slog.String("owner_id", ownerID.String()))
	}
	return c
}

// Get returns the learner's live session or ErrNoSession.
func (r *Registry) Get(ownerID uuid.UUID) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sessions[ownerID]
	if !ok {
		return nil, ErrNoSession
	}
	return c, nil
}

// Remove abandons and forgets the learner's session. It reports whether
// there was one.
func (r *Registry) Remove(ownerID uuid.UUID) bool {
	r.mu.Lock()
	c, ok := r.sessions[ownerID]
	delete(r.sessions, ownerID)
	r.mu.Unlock()

	if ok {
		c.Abandon()
	}
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep abandons and removes sessions whose last command is older than the
// idle TTL at now. It returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	var stale []*Controller
	for ownerID, c := range r.sessions {
		if now.Sub(c.LastActive()) > r.idleTTL {
			stale = append(stale, c)
			delete(r.sessions, ownerID)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Abandon()
	}
	if len(stale) > 0 {
		r.logger.Info("swept idle sessions", slog.Int("count", len(stale)))
	}
	return len(stale)
}

// AbandonAll ends every live session. It is used on shutdown.
func (r *Registry) AbandonAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Controller)
	r.mu.Unlock()

	for _, c := range sessions {
		c.Abandon()
	}
}
