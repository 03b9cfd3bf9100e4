package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lexicon/internal/api/shared"
	"github.com/phrazzld/lexicon/internal/domain"
	"github.com/phrazzld/lexicon/internal/service/auth"
	"github.com/phrazzld/lexicon/internal/service/learning"
	"github.com/phrazzld/lexicon/internal/session"
	"github.com/phrazzld/lexicon/internal/store"
)

// SelectionRetryAfterSeconds is the Retry-After hint sent when due items
// could not be loaded.
const SelectionRetryAfterSeconds = 5

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	var selErr *session.SelectionError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case errors.Is(err, learning.ErrTermNotOwned):
		return http.StatusForbidden

	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, learning.ErrTermNotFound),
		errors.Is(err, store.ErrTermNotFound):
		return http.StatusNotFound

	case errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrInvalidState),
		errors.Is(err, session.ErrAbandoned):
		return http.StatusConflict

	case errors.As(err, &selErr):
		return http.StatusServiceUnavailable

	case errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var selErr *session.SelectionError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, learning.ErrTermNotOwned):
		return "You do not own this term"
	case errors.Is(err, learning.ErrTermNotFound),
		errors.Is(err, store.ErrTermNotFound):
		return "Term not found"

	case errors.Is(err, session.ErrNoSession):
		return "No active session"
	case errors.Is(err, session.ErrBusy):
		return "An answer is already being recorded"
	case errors.Is(err, session.ErrAbandoned):
		return "Session was abandoned"
	case errors.Is(err, session.ErrInvalidState):
		return "Operation not allowed in the current session state"

	case errors.As(err, &selErr):
		return "Due items could not be loaded, try again shortly"

	case errors.Is(err, domain.ErrInvalidMode):
		return "Invalid mode: must be forward, backward or both"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError describes the first failed field of a validator
// error. Other errors get a generic message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}
	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error reply for err. fallback replaces the
// generic message of unmapped errors when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	switch status {
	case http.StatusServiceUnavailable:
		opts = append(opts, shared.WithRetryAfter(SelectionRetryAfterSeconds))
	case http.StatusForbidden:
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
