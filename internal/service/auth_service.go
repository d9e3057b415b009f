package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/platform/logger"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// UserSummary is the caller-visible projection of a user. It never carries
// the password hash or the stored refresh token.
type UserSummary struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// TokenPair is an access/refresh token pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService orchestrates registration, login, token refresh and logout.
//
// Session state is a single nullable refresh-token value on the user record:
// nil means logged out, anything else is the one token that can currently be
// exchanged for a new pair. Storing only the latest token means at most one
// outstanding session per user; every login or refresh invalidates all other
// copies of the prior token. Concurrent multi-device sessions are not
// supported.
type AuthService struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService with the given dependencies.
// If logger is nil, a default logger will be used.
func NewAuthService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger.With(slog.String("component", "auth_service")),
	}
}

// Register creates a new user account. An empty role defaults to USER.
// Returns store.ErrEmailExists if the email is already registered.
// The plaintext password is hashed before the user is persisted and never
// stored or returned.
func (s *AuthService) Register(
	ctx context.Context,
	email, password string,
	role domain.Role,
) (*UserSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if role == "" {
		role = domain.RoleUser
	}

	// Checked before insert so the common case fails fast; the unique
	// constraint still catches a concurrent registration.
	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	user, err := domain.NewUser(email, password, role)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))

	return summarize(user), nil
}

// Login authenticates the user and issues a fresh token pair. The new
// refresh token overwrites the stored one unconditionally, invalidating any
// prior session.
//
// An unknown email and a wrong password both return ErrInvalidCredentials:
// the caller must not be able to distinguish them.
func (s *AuthService) Login(
	ctx context.Context,
	email, password string,
) (*TokenPair, *UserSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userStore.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	return pair, summarize(user), nil
}

// Refresh exchanges a valid refresh token for a new token pair, rotating
// the stored refresh token so the presented one becomes permanently
// unusable.
//
// Returns the auth package's token errors if the token fails
// cryptographically, and ErrRefreshTokenRevoked if it verifies but is not
// the token currently stored for the user (logout-then-replay, or a stale
// token that was already rotated away).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrRefreshTokenRevoked
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// The stored token is the single source of truth; an exact-match failure
	// means the presented token was rotated away or invalidated by logout.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		log.Warn("refresh attempted with revoked token",
			slog.String("user_id", user.ID.String()))
		return nil, ErrRefreshTokenRevoked
	}

	pair, err := s.issueTokenPair(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.UpdateRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	log.Debug("refresh token rotated", slog.String("user_id", user.ID.String()))

	return pair, nil
}

// Logout clears the user's stored refresh token, ending the session
// server-side. Idempotent: logging out an already logged-out user succeeds.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.userStore.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	log.Info("user logged out", slog.String("user_id", userID.String()))
	return nil
}

// issueTokenPair generates a fresh access/refresh token pair.
func (s *AuthService) issueTokenPair(
	ctx context.Context,
	userID uuid.UUID,
	role domain.Role,
) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// summarize projects a user onto its caller-visible summary.
func summarize(user *domain.User) *UserSummary {
	return &UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
