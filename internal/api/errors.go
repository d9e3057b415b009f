package api

import (
	"errors"
	"net/http"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. This is
// the single place where the closed set of application errors meets
// transport concerns.
//
// Refresh-token failures map to 403 while access-token failures map to 401:
// a failed refresh means "re-authenticate", whereas a failed access token
// means the individual request was unauthenticated.
func MapErrorToStatusCode(err error) int {
	switch {
	// Access-token failures at request gates
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Login failures
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Refresh-token failures
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return http.StatusForbidden

	// Authorization failures
	case errors.Is(err, service.ErrTaskAccessDenied):
		return http.StatusForbidden

	// Not found
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Duplicate registration
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusBadRequest

	// Malformed entities
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrNoFieldsToUpdate):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// SafeErrorMessage returns a sanitized, user-facing message for the error.
// Internal details never leak to clients; unknown errors collapse to a
// generic message.
func SafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrTaskAccessDenied):
		return "Access denied"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
