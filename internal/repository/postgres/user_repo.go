package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/repository"
)

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a user repository backed by Postgres.
func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

// UpsertByEmail inserts the user if the email is new and returns the row
// either way. The no-op update makes RETURNING yield the existing row on
// conflict.
func (r *userRepository) UpsertByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, created_at, last_sign_in_at`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), email).
		Scan(&user.ID, &user.Email, &user.CreatedAt, &user.LastSignInAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, created_at, last_sign_in_at FROM users
		WHERE id = $1`

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.CreatedAt, &user.LastSignInAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *userRepository) TouchLastSignIn(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_sign_in_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the account. All owned rows go with it through the
// schema's cascading foreign keys.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
