package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific errors wrap it so callers can test for either.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDirection is returned when a direction value is not recognized.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrInvalidMode is returned when a mode value is not recognized.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidDate is returned when a civil date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)
