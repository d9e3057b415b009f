package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskvault/taskvault-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
//
// Access tokens are short-lived, stateless credentials carrying the user's
// ID and role; their validity is purely cryptographic plus an expiry check.
// Refresh tokens are longer-lived, carry only the user ID, and are
// additionally checked against the copy stored on the user record by the
// session manager.
type JWTService interface {
	// GenerateAccessToken creates a signed JWT access token encoding the
	// user's ID and role. Returns the token string or an error if signing
	// fails.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID, role domain.Role) (string, error)

	// ValidateAccessToken validates the provided access token string and
	// extracts the claims. Returns an error if validation fails (expired,
	// invalid signature, wrong token type, etc.).
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token encoding only
	// the user's ID. Refresh tokens have a longer lifetime and are used
	// solely to obtain new token pairs.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and
	// extracts the claims. Returns an error if validation fails (expired,
	// invalid signature, wrong token type, etc.).
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Role is the user's authorization tier. Only set on access tokens.
	Role domain.Role `json:"role,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
