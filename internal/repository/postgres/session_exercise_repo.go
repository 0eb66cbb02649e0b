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

type sessionExerciseRepository struct {
	db DBTX
}

// NewSessionExerciseRepository creates a session-exercise repository backed
// by Postgres.
func NewSessionExerciseRepository(db DBTX) repository.SessionExerciseRepository {
	return &sessionExerciseRepository{db: db}
}

func (r *sessionExerciseRepository) InsertMany(ctx context.Context, rows []domain.SessionExercise) error {
	query := `
		INSERT INTO training_session_exercises
			(user_id, training_session_id, exercise_id, sets, reps, break_time)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, row := range rows {
		_, err := r.db.ExecContext(ctx, query,
			row.UserID, row.TrainingSessionID, row.ExerciseID, row.Sets, row.Reps, row.BreakTime)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *sessionExerciseRepository) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.SessionExercise, error) {
	query := `
		SELECT id, user_id, training_session_id, exercise_id, sets, reps, break_time, created_at
		FROM training_session_exercises
		WHERE id = $1 AND user_id = $2`

	row := &domain.SessionExercise{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&row.ID, &row.UserID, &row.TrainingSessionID, &row.ExerciseID,
			&row.Sets, &row.Reps, &row.BreakTime, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

func (r *sessionExerciseRepository) Update(ctx context.Context, id int64, userID uuid.UUID, exerciseID int64, sets, reps, breakTime *int) error {
	query := `
		UPDATE training_session_exercises
		SET exercise_id = $3, sets = $4, reps = $5, break_time = $6
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID, exerciseID, sets, reps, breakTime)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes one row. The user predicate means a guessed id belonging
// to someone else looks exactly like a missing row.
func (r *sessionExerciseRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	query := `DELETE FROM training_session_exercises WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionExerciseRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM training_session_exercises WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
