package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired access token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid access token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusForbidden},
		{"expired refresh token", auth.ErrExpiredRefreshToken, http.StatusForbidden},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusForbidden},
		{"revoked refresh token", service.ErrRefreshTokenRevoked, http.StatusForbidden},
		{"task access denied", service.ErrTaskAccessDenied, http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"duplicate email", store.ErrEmailExists, http.StatusBadRequest},
		{"empty update", domain.ErrNoFieldsToUpdate, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestSafeErrorMessage(t *testing.T) {
	t.Parallel()

	// Internal details never reach the client.
	internal := errors.New("pq: connection refused on 10.0.0.3")
	msg := SafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.3")

	assert.Equal(t, "Invalid credentials", SafeErrorMessage(service.ErrInvalidCredentials))
	assert.Equal(t, "Invalid refresh token", SafeErrorMessage(service.ErrRefreshTokenRevoked))
	assert.Equal(t, "Task not found", SafeErrorMessage(store.ErrTaskNotFound))
}
