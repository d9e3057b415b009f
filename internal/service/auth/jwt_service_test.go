package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/domain"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

// newTestService builds a service with a fixed clock and no leeway so
// expiry boundaries are exact.
func newTestService(secret string, timeFunc func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		accessTokenLifetime:  15 * time.Minute,
		refreshTokenLifetime: 24 * time.Hour,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   "too-short",
			AccessTokenLifetimeMinutes:  15,
			RefreshTokenLifetimeMinutes: 1440,
		})
		require.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   testSecret,
			AccessTokenLifetimeMinutes:  15,
			RefreshTokenLifetimeMinutes: 1440,
		})
		require.NoError(t, err)
		require.NotNil(t, svc)
	})
}

func TestGenerateAccessToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	svc := newTestService(testSecret, func() time.Time { return fixedTime })

	token, err := svc.GenerateAccessToken(context.Background(), userID, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wrongSecret := "wrong-secret-that-is-also-32-chars-xx"
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newTestService(testSecret, func() time.Time { return fixedTime })
				token, _ := svc.GenerateAccessToken(context.Background(), userID, domain.RoleUser)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestService(testSecret, func() time.Time { return fixedTime })
				token, _ := genSvc.GenerateAccessToken(context.Background(), userID, domain.RoleUser)

				valSvc := newTestService(testSecret, func() time.Time {
					return fixedTime.Add(16 * time.Minute)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestService(testSecret, func() time.Time { return fixedTime })
				token, _ := genSvc.GenerateAccessToken(context.Background(), userID, domain.RoleUser)

				valSvc := newTestService(wrongSecret, func() time.Time { return fixedTime })
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				svc := newTestService(testSecret, func() time.Time { return fixedTime })
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token rejected at access gate",
			setupFunc: func() (JWTService, string) {
				svc := newTestService(testSecret, func() time.Time { return fixedTime })
				token, _ := svc.GenerateRefreshToken(context.Background(), userID)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateAccessToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(testSecret, func() time.Time { return fixedTime })

		token, err := svc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Empty(t, claims.Role)
		assert.Equal(t, fixedTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("access token rejected at refresh gate", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(testSecret, func() time.Time { return fixedTime })

		token, err := svc.GenerateAccessToken(context.Background(), userID, domain.RoleUser)
		require.NoError(t, err)

		_, err = svc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()
		genSvc := newTestService(testSecret, func() time.Time { return fixedTime })
		token, err := genSvc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		valSvc := newTestService(testSecret, func() time.Time {
			return fixedTime.Add(25 * time.Hour)
		})
		_, err = valSvc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(testSecret, func() time.Time { return fixedTime })
		_, err := svc.ValidateRefreshToken(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}
