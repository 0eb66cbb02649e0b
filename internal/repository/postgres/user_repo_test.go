package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthesized/web/internal/repository"
)

func TestUserRepositoryUpsertByEmail(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	existingID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users \(id, email\) VALUES \(\$1, \$2\) ON CONFLICT \(email\) DO UPDATE SET email = EXCLUDED\.email RETURNING id, email, created_at, last_sign_in_at`).
		WithArgs(sqlmock.AnyArg(), "lifter@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at", "last_sign_in_at"}).
			AddRow(existingID.String(), "lifter@example.com", now, now))

	user, err := repo.UpsertByEmail(ctx, "lifter@example.com")

	require.NoError(t, err)
	// On conflict the row keeps its original id, not the freshly generated one.
	assert.Equal(t, existingID, user.ID)
	assert.Equal(t, "lifter@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByID(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, email, created_at, last_sign_in_at FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at", "last_sign_in_at"}))

	_, err := repo.GetByID(ctx, id)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Deletes The Account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Account Reported", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, id), repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoginTokenRepositoryConsume(t *testing.T) {
	ctx := context.Background()
	consumePattern := `UPDATE login_tokens SET consumed_at = now\(\) WHERE id = \$1 AND consumed_at IS NULL`

	t.Run("First Consume Wins", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoginTokenRepository(db)

		mock.ExpectExec(consumePattern).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Consume(ctx, 9))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Consumed Reported", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoginTokenRepository(db)

		mock.ExpectExec(consumePattern).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Consume(ctx, 9), repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
