package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/repository"
)

type loginTokenRepository struct {
	db DBTX
}

// NewLoginTokenRepository creates a magic-link token repository backed by
// Postgres.
func NewLoginTokenRepository(db DBTX) repository.LoginTokenRepository {
	return &loginTokenRepository{db: db}
}

func (r *loginTokenRepository) Create(ctx context.Context, token *domain.LoginToken) (int64, error) {
	query := `
		INSERT INTO login_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, token.UserID, token.TokenHash, token.ExpiresAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	token.ID = id
	return id, nil
}

func (r *loginTokenRepository) GetByID(ctx context.Context, id int64) (*domain.LoginToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, consumed_at, created_at
		FROM login_tokens
		WHERE id = $1`

	token := &domain.LoginToken{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.ConsumedAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Consume marks the token used. The consumed_at predicate makes the
// operation single-use even under concurrent verification attempts.
func (r *loginTokenRepository) Consume(ctx context.Context, id int64) error {
	query := `
		UPDATE login_tokens SET consumed_at = now()
		WHERE id = $1 AND consumed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
