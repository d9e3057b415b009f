package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/mocks"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// newTestAuthService wires an AuthService against in-memory stores with a
// fast bcrypt cost.
func newTestAuthService(t *testing.T) (*AuthService, *mocks.MockUserStore) {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		AccessTokenLifetimeMinutes:  15,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)

	userStore := mocks.NewMockUserStore()
	svc := NewAuthService(userStore, jwtService, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	return svc, userStore
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults role to USER", func(t *testing.T) {
		t.Parallel()
		svc, userStore := newTestAuthService(t)

		summary, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", summary.Email)
		assert.Equal(t, domain.RoleUser, summary.Role)
		assert.NotEqual(t, uuid.Nil, summary.ID)

		stored := userStore.Users["alice@example.com"]
		require.NotNil(t, stored)
		assert.Empty(t, stored.Password)
		assert.NotEmpty(t, stored.HashedPassword)
		assert.NotEqual(t, "pw123456", stored.HashedPassword)
	})

	t.Run("explicit admin role", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		summary, err := svc.Register(ctx, "root@example.com", "pw123456", domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, summary.Role)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		_, err := svc.Register(ctx, "bob@example.com", "pw123456", "")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "bob@example.com", "different8", "")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("short password rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		_, err := svc.Register(ctx, "carol@example.com", "pw1", "")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("issues tokens and stores refresh token", func(t *testing.T) {
		t.Parallel()
		svc, userStore := newTestAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		pair, summary, err := svc.Login(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "alice@example.com", summary.Email)

		stored := userStore.Users["alice@example.com"]
		require.NotNil(t, stored.RefreshToken)
		assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "pw123456")
		_, _, wrongErr := svc.Login(ctx, "alice@example.com", "wrong-password")

		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})

	t.Run("second login invalidates prior session", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		first, _, err := svc.Login(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotates the stored token", func(t *testing.T) {
		t.Parallel()
		svc, userStore := newTestAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		login, _, err := svc.Login(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)

		second, err := svc.Refresh(ctx, login.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, login.RefreshToken, second.RefreshToken)

		stored := userStore.Users["alice@example.com"]
		require.NotNil(t, stored.RefreshToken)
		assert.Equal(t, second.RefreshToken, *stored.RefreshToken)

		// The rotated-away token is permanently unusable.
		_, err = svc.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

		// The fresh token still works.
		third, err := svc.Refresh(ctx, second.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, second.RefreshToken, third.RefreshToken)
	})

	t.Run("garbage token fails cryptographically", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		_, err := svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})

	t.Run("valid token for deleted user is revoked", func(t *testing.T) {
		t.Parallel()
		svc, userStore := newTestAuthService(t)

		_, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		login, _, err := svc.Login(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)

		delete(userStore.Users, "alice@example.com")

		_, err = svc.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("clears session and blocks replay", func(t *testing.T) {
		t.Parallel()
		svc, userStore := newTestAuthService(t)

		summary, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		login, _, err := svc.Login(ctx, "alice@example.com", "pw123456")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, summary.ID))

		stored := userStore.Users["alice@example.com"]
		assert.Nil(t, stored.RefreshToken)

		// A cryptographically valid but cleared token cannot refresh.
		_, err = svc.Refresh(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestAuthService(t)

		summary, err := svc.Register(ctx, "alice@example.com", "pw123456", "")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, summary.ID))
		require.NoError(t, svc.Logout(ctx, summary.ID))
	})
}
