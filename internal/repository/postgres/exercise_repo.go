package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/repository"
)

type exerciseRepository struct {
	db DBTX
}

// NewExerciseRepository creates an exercise catalog repository backed by
// Postgres.
func NewExerciseRepository(db DBTX) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

// UpsertMany resolves each name to a stable exercise id for the user. The
// ON CONFLICT clause performs a no-op update so RETURNING yields the
// existing row's id instead of failing on the (name, user_id) constraint.
func (r *exerciseRepository) UpsertMany(ctx context.Context, userID uuid.UUID, names []string) (map[string]int64, error) {
	query := `
		INSERT INTO exercises (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (name, user_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	ids := make(map[string]int64, len(names))
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		var id int64
		if err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids[name] = id
	}
	return ids, nil
}

func (r *exerciseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error) {
	query := `
		SELECT id, user_id, name, created_at FROM exercises
		WHERE user_id = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return exercises, nil
}

func (r *exerciseRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM exercises WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
