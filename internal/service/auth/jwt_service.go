// Package auth verifies the bearer tokens that identify a learner. Tokens
// are issued by the surrounding application; this service only needs the
// shared HMAC secret.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// TokenTypeAccess marks tokens that may call the API.
const TokenTypeAccess = "access"

// JWTService defines operations for JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID. The server
	// never calls it; it exists for development tooling and tests.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or
	// ErrInvalidToken when validation fails.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the verified contents of an access token.
type Claims struct {
	// UserID is the learner the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token.
	TokenType string `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
