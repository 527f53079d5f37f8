package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenriqueSagawa/auth-service/internal/auth/domain"
	repo "github.com/HenriqueSagawa/auth-service/internal/auth/repository/postgres"
	autherror "github.com/HenriqueSagawa/auth-service/internal/errors"
)

var userColumns = []string{"id", "email", "name", "password_hash", "login_attempts", "locked_until", "created_at", "updated_at"}

// TestGetByEmail covers the GetByEmail repository method.
func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	userEmail := "ann@x.com"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", userEmail, "Ann", "hash", 0, nil, time.Now(), time.Now()))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		assert.Equal(t, "user-123", user.ID)
		assert.Nil(t, user.LockedUntil)
	})

	t.Run("locked user", func(t *testing.T) {
		lockedUntil := time.Now().Add(10 * time.Minute)
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", userEmail, "Ann", "hash", 0, &lockedUntil, time.Now(), time.Now()))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		require.NotNil(t, user.LockedUntil)
		assert.WithinDuration(t, lockedUntil, *user.LockedUntil, time.Second)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err) // Should return nil user, nil error
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, userEmail)
		assert.Error(t, err)
	})
}

// TestGetByID covers the GetByID repository method.
func TestGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-123", "ann@x.com", "Ann", "hash", 0, nil, time.Now(), time.Now()))

		user, err := r.GetByID(ctx, "user-123")
		require.NoError(t, err)
		assert.Equal(t, "ann@x.com", user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs("user-123").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByID(ctx, "user-123")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

// TestCreate covers the Create repository method.
func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	user := &domain.User{
		ID:           "user-123",
		Email:        "ann@x.com",
		Name:         "Ann",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.LoginAttempts, user.LockedUntil, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.Create(ctx, user)
		assert.NoError(t, err)
	})

	t.Run("unique violation maps to duplicate account", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.LoginAttempts, user.LockedUntil, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.LoginAttempts, user.LockedUntil, user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("db error"))

		err := r.Create(ctx, user)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})
}

// TestIncrementLoginAttempts covers the atomic counter update.
func TestIncrementLoginAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows([]string{"login_attempts"}).AddRow(5))

		attempts, err := r.IncrementLoginAttempts(ctx, "user-123")
		require.NoError(t, err)
		assert.Equal(t, 5, attempts)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users").
			WithArgs("user-123").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.IncrementLoginAttempts(ctx, "user-123")
		assert.Error(t, err)
	})
}

// TestLockUser covers the lock transition.
func TestLockUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	until := time.Now().Add(15 * time.Minute)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", until).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := r.LockUser(ctx, "user-123", until)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123", until).
			WillReturnError(fmt.Errorf("db error"))

		err := r.LockUser(ctx, "user-123", until)
		assert.Error(t, err)
	})
}

// TestResetLoginState covers the success-path reset.
func TestResetLoginState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = r.ResetLoginState(ctx, "user-123")
	assert.NoError(t, err)
}

// TestStoreRefreshToken covers the StoreRefreshToken method.
func TestStoreRefreshToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	rt := &domain.RefreshToken{ID: "rt-123", UserID: "user-123", Token: "token", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(rt.ID, rt.UserID, rt.Token, rt.ExpiresAt, rt.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := r.StoreRefreshToken(ctx, rt)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs(rt.ID, rt.UserID, rt.Token, rt.ExpiresAt, rt.CreatedAt).
			WillReturnError(fmt.Errorf("db error"))

		err := r.StoreRefreshToken(ctx, rt)
		assert.Error(t, err)
	})
}

// TestGetRefreshToken covers the GetRefreshToken method.
func TestGetRefreshToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	columns := []string{"id", "user_id", "token", "expires_at", "created_at"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id").
			WithArgs("token").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("rt-123", "user-123", "token", time.Now().Add(time.Hour), time.Now()))

		rt, err := r.GetRefreshToken(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "rt-123", rt.ID)
		assert.Equal(t, "user-123", rt.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id").
			WithArgs("token").
			WillReturnError(pgx.ErrNoRows)

		rt, err := r.GetRefreshToken(ctx, "token")
		require.NoError(t, err)
		assert.Nil(t, rt)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id").
			WithArgs("token").
			WillReturnError(fmt.Errorf("db error"))

		rt, err := r.GetRefreshToken(ctx, "token")
		require.Error(t, err)
		assert.Nil(t, rt)
	})
}

// TestDeleteRefreshToken covers the DeleteRefreshToken method.
func TestDeleteRefreshToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs("token").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := r.DeleteRefreshToken(ctx, "token")
		assert.NoError(t, err)
	})

	t.Run("absent token still succeeds", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs("token").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := r.DeleteRefreshToken(ctx, "token")
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs("token").
			WillReturnError(fmt.Errorf("db error"))

		err := r.DeleteRefreshToken(ctx, "token")
		assert.Error(t, err)
	})
}
