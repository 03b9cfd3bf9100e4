package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexicon/internal/api/shared"
	"github.com/phrazzld/lexicon/internal/config"
	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/phrazzld/lexicon/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJWTService struct {
	claims *auth.Claims
	err    error
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "token", nil
}

func (s *stubJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token != "good" {
		if s.err != nil {
			return nil, s.err
		}
		return nil, auth.ErrInvalidToken
	}
	return s.claims, nil
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name     string
		header   string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "valid token", header: "Bearer good", wantCode: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantCode: http.StatusOK},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized,
			wantMsg: "Authorization header required"},
		{name: "wrong scheme", header: "Basic good", wantCode: http.StatusUnauthorized,
			wantMsg: "Invalid authorization format"},
		{name: "no token", header: "Bearer ", wantCode: http.StatusUnauthorized,
			wantMsg: "Invalid authorization format"},
		{name: "expired", header: "Bearer old", err: auth.ErrExpiredToken,
			wantCode: http.StatusUnauthorized, wantMsg: "Token expired"},
		{name: "wrong type", header: "Bearer refresh", err: auth.ErrWrongTokenType,
			wantCode: http.StatusUnauthorized, wantMsg: "Invalid token"},
		{name: "invalid", header: "Bearer junk", wantCode: http.StatusUnauthorized,
			wantMsg: "Invalid token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			log, _ := logger.NewTestLogger()
			mw := NewAuthMiddleware(&stubJWTService{
				claims: &auth.Claims{UserID: userID, TokenType: auth.TokenTypeAccess},
				err:    tc.err,
			}, log)

			var seen uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/terms/due", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusOK {
				assert.Equal(t, userID, seen)
				return
			}
			assert.Equal(t, uuid.Nil, seen)
			assert.Contains(t, rec.Body.String(), tc.wantMsg)
		})
	}
}

func TestAuthMiddleware_RealTokens(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger()
	jwtService, err := auth.NewJWTService(authConfig())
	require.NoError(t, err)
	mw := NewAuthMiddleware(jwtService, log)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	var seen uuid.UUID
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = shared.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen)
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()

	var traceID string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, traceID, shared.TraceIDLength*2)
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, traceID, entry["trace_id"])
	}
}

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "middleware-test-secret-with-32-plus-chars",
		TokenLifetimeMinutes: int(time.Hour / time.Minute),
	}
}
