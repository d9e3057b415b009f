package api

import (
	"log/slog"
	"net/http"

	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/platform/logger"
	"github.com/taskvault/taskvault-api/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. If log is nil, a default
// logger is used.
func NewAuthHandler(authService *service.AuthService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default().With(slog.String("component", "auth_handler"))
	}
	return &AuthHandler{
		authService: authService,
		logger:      log,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("failed to decode register request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	user, err := h.authService.Register(ctx, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		h.respondError(w, r, err, "registration failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	tokens, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err, "login failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Login successful", loginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	tokens, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.respondError(w, r, err, "token refresh failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Token refreshed", tokens)
}

// Logout handles POST /auth/logout. Requires authentication; the session
// being cleared is always the caller's own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := shared.UserIDFromContext(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.authService.Logout(ctx, userID); err != nil {
		h.respondError(w, r, err, "logout failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, "Logged out successfully", nil)
}

// respondError logs server-side failures and writes the sanitized error
// envelope.
func (h *AuthHandler) respondError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error(op, slog.String("error", err.Error()))
	}
	shared.RespondWithError(w, r, status, SafeErrorMessage(err))
}

// loginResponse is the data payload of a successful login.
type loginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *service.UserSummary `json:"user"`
}
