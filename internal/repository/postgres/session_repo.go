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

type sessionRepository struct {
	db DBTX
}

// NewTrainingSessionRepository creates a training session repository backed
// by Postgres.
func NewTrainingSessionRepository(db DBTX) repository.TrainingSessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.TrainingSession) (int64, error) {
	query := `
		INSERT INTO training_sessions (user_id, date)
		VALUES ($1, $2)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, session.UserID, session.Date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	session.ID = id
	return id, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.TrainingSession, error) {
	query := `
		SELECT id, user_id, date, created_at FROM training_sessions
		WHERE id = $1 AND user_id = $2`

	session := &domain.TrainingSession{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&session.ID, &session.UserID, &session.Date, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return session, nil
}

// ListWithExercises loads the user's sessions newest first together with
// their exercise rows. Two queries, grouped in memory; fine at logbook
// scale.
func (r *sessionRepository) ListWithExercises(ctx context.Context, userID uuid.UUID) ([]domain.SessionWithExercises, error) {
	sessionQuery := `
		SELECT id, user_id, date, created_at FROM training_sessions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, sessionQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var sessions []domain.SessionWithExercises
	index := make(map[int64]int)
	for rows.Next() {
		var s domain.SessionWithExercises
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	exerciseQuery := `
		SELECT se.id, se.user_id, se.training_session_id, se.exercise_id,
		       se.sets, se.reps, se.break_time, se.created_at, e.name
		FROM training_session_exercises se
		JOIN exercises e ON e.id = se.exercise_id
		WHERE se.user_id = $1
		ORDER BY se.id`

	exRows, err := r.db.QueryContext(ctx, exerciseQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var d domain.SessionExerciseDetail
		err := exRows.Scan(&d.ID, &d.UserID, &d.TrainingSessionID, &d.ExerciseID,
			&d.Sets, &d.Reps, &d.BreakTime, &d.CreatedAt, &d.ExerciseName)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if i, ok := index[d.TrainingSessionID]; ok {
			sessions[i].Exercises = append(sessions[i].Exercises, d)
		}
	}
	if err := exRows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return sessions, nil
}

// Delete removes the session if it belongs to the user. The join rows go
// with it via the schema's ON DELETE CASCADE.
func (r *sessionRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	query := `DELETE FROM training_sessions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM training_sessions WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
