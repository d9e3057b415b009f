package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/store"
)

var userColumns = []string{
	"id", "email", "hashed_password", "role", "refresh_token", "created_at", "updated_at",
}

func newUserStoreMock(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresUserStore(db, nil), mock, db
}

func testUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("alice@example.com", "pw123456", domain.RoleUser)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$fake-hash"
	user.Password = ""
	return user
}

func TestUserStoreCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)

		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := userStore.Create(context.Background(), testUser(t))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrEmailExists", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := userStore.Create(context.Background(), testUser(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user never reaches the database", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)

		invalid := testUser(t)
		invalid.Email = ""

		err := userStore.Create(context.Background(), invalid)
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(id.String(), "alice@example.com", "hash", "USER", "stored-token", now, now))

		user, err := userStore.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)

		assert.Equal(t, id, user.ID)
		assert.Equal(t, domain.RoleUser, user.Role)
		require.NotNil(t, user.RefreshToken)
		assert.Equal(t, "stored-token", *user.RefreshToken)
	})

	t.Run("null refresh token", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(uuid.New().String(), "alice@example.com", "hash", "USER", nil, now, now))

		user, err := userStore.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Nil(t, user.RefreshToken)
	})

	t.Run("not found", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnError(sql.ErrNoRows)

		_, err := userStore.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreUpdateRefreshToken(t *testing.T) {
	t.Run("updates existing user", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)
		token := "new-token"

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := userStore.UpdateRefreshToken(context.Background(), uuid.New(), &token)
		assert.NoError(t, err)
	})

	t.Run("nil token clears the session", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := userStore.UpdateRefreshToken(context.Background(), uuid.New(), nil)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		userStore, mock, _ := newUserStoreMock(t)

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := userStore.UpdateRefreshToken(context.Background(), uuid.New(), nil)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreWithTx(t *testing.T) {
	userStore, mock, db := newUserStoreMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTransaction(
		context.Background(),
		db,
		func(ctx context.Context, tx *sql.Tx) error {
			return userStore.WithTx(tx).Create(ctx, testUser(t))
		},
	)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
