package repository

import (
	"context"

	"github.com/google/uuid"

	"synthesized/web/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	// UpsertByEmail returns the user for the given email, creating the row
	// if it does not exist yet. Sign-in registers on first use.
	UpsertByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	TouchLastSignIn(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoginTokenRepository stores hashed magic-link tokens.
type LoginTokenRepository interface {
	Create(ctx context.Context, token *domain.LoginToken) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.LoginToken, error)
	// Consume marks a token used; consuming twice returns ErrNotFound.
	Consume(ctx context.Context, id int64) error
}

// TrainingSessionRepository defines the interface for workout sessions.
// Every operation that targets a single row carries the owning user's id so
// cross-user access cannot happen at this layer.
type TrainingSessionRepository interface {
	Create(ctx context.Context, session *domain.TrainingSession) (int64, error)
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.TrainingSession, error)
	// ListWithExercises returns all of the user's sessions, newest date
	// first, each joined with its exercise rows.
	ListWithExercises(ctx context.Context, userID uuid.UUID) ([]domain.SessionWithExercises, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// ExerciseRepository defines the interface for the per-user exercise catalog.
type ExerciseRepository interface {
	// UpsertMany inserts the named exercises for the user, resolving
	// conflicts on (name, user_id) to the existing rows, and returns the
	// id for every name.
	UpsertMany(ctx context.Context, userID uuid.UUID, names []string) (map[string]int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// SessionExerciseRepository defines the interface for the join records.
type SessionExerciseRepository interface {
	InsertMany(ctx context.Context, rows []domain.SessionExercise) error
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.SessionExercise, error)
	// Update rewrites the exercise reference and the numeric fields of one
	// row, scoped by owner.
	Update(ctx context.Context, id int64, userID uuid.UUID, exerciseID int64, sets, reps, breakTime *int) error
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
