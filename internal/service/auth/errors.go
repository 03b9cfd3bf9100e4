package auth

import "errors"

// Token validation and configuration errors.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")
	// ErrWrongTokenType is returned for a token whose type claim is not an access token.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrWeakSecret is returned for a signing secret shorter than MinSecretLength.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
