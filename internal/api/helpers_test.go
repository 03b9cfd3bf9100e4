package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/api/middleware"
	"github.com/phrazzld/lexicon/internal/config"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/domain/grading"
	"github.com/phrazzld/lexicon/internal/domain/srs"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/service/auth"
	"github.com/phrazzld/lexicon/internal/session"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

type fakeTerms struct {
	terms []domain.Term
	err   error
}

func (f *fakeTerms) GetTermsDue(context.Context, uuid.UUID, domain.Mode) ([]domain.Term, error) {
	return f.terms, f.err
}

// fakeUpdater levels up by one and schedules the next day. When block is
// set each call signals entered and waits on block.
type fakeUpdater struct {
	mu      sync.Mutex
	calls   int
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeUpdater) UpdateLevel(
	ctx context.Context,
	_ uuid.UUID,
	_ uuid.UUID,
	_ domain.Direction,
	outcome domain.Outcome,
) (domain.Track, error) {
	f.mu.Lock()
	f.calls++
	block, entered, err := f.block, f.entered, f.err
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.Track{}, ctx.Err()
		}
	}
	if err != nil {
		return domain.Track{}, err
	}
	if !outcome.Correct {
		return domain.Track{}, nil
	}
	return domain.Track{Level: 1, DueAt: testNow.AddDate(0, 0, 1)}, nil
}

func (f *fakeUpdater) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testServer struct {
	handler  http.Handler
	registry *session.Registry
	ownerID  uuid.UUID
	token    string
	jwt      auth.JWTService
}

func newTestServer(t *testing.T, terms *fakeTerms, updater *fakeUpdater) *testServer {
	t.Helper()

	log, _ := logger.NewTestLogger()
	cal, err := srs.NewCalendar(time.UTC)
	require.NoError(t, err)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	now := func() time.Time { return testNow }
	registry := session.NewRegistry(func(ownerID uuid.UUID) *session.Controller {
		return session.NewController(ownerID, session.Deps{
			Terms:    terms,
			Updater:  updater,
			Grader:   grading.NewGrader(grading.DefaultThreshold),
			Calendar: cal,
			Now:      now,
			Logger:   log,
		}, session.DefaultOptions())
	}, time.Hour, log)

	ownerID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), ownerID)
	require.NoError(t, err)

	handler := NewRouter(RouterDeps{
		Sessions: NewSessionHandler(registry, log),
		Terms:    NewTermsHandler(terms, cal, now, log),
		Auth:     middleware.NewAuthMiddleware(jwtService, log),
		Logger:   log,
	})

	return &testServer{
		handler:  handler,
		registry: registry,
		ownerID:  ownerID,
		token:    token,
		jwt:      jwtService,
	}
}

// do sends an authenticated request. A nil body sends no body.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newTestTerm(t *testing.T, ownerID uuid.UUID, headword string, senses ...string) domain.Term {
	t.Helper()
	term, err := domain.NewTerm(ownerID, headword, senses)
	require.NoError(t, err)
	return *term
}
