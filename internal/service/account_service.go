package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"synthesized/web/internal/repository"
)

// ClearDataError reports which step of the bulk clear failed. Earlier
// steps' deletes stay committed; there is no compensating rollback.
type ClearDataError struct {
	Step string
	Err  error
}

func (e *ClearDataError) Error() string {
	return fmt.Sprintf("clearing %s failed: %v", e.Step, e.Err)
}

func (e *ClearDataError) Unwrap() error { return e.Err }

// AccountService implements the account page operations: bulk data clear
// and account deletion.
type AccountService interface {
	// ClearData deletes all of the user's logbook rows: sessions first,
	// then session-exercises, then the exercise catalog.
	ClearData(ctx context.Context, userID uuid.UUID) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type accountService struct {
	auth                AuthService
	sessionRepo         repository.TrainingSessionRepository
	exerciseRepo        repository.ExerciseRepository
	sessionExerciseRepo repository.SessionExerciseRepository
}

// NewAccountService creates a new instance of accountService.
func NewAccountService(
	auth AuthService,
	sessionRepo repository.TrainingSessionRepository,
	exerciseRepo repository.ExerciseRepository,
	sessionExerciseRepo repository.SessionExerciseRepository,
) AccountService {
	return &accountService{
		auth:                auth,
		sessionRepo:         sessionRepo,
		exerciseRepo:        exerciseRepo,
		sessionExerciseRepo: sessionExerciseRepo,
	}
}

// ClearData runs three sequential user-scoped deletes. The first failure
// aborts the remainder and names the failing step.
func (s *accountService) ClearData(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteAllForUser(ctx, userID); err != nil {
		return &ClearDataError{Step: "training sessions", Err: err}
	}
	if err := s.sessionExerciseRepo.DeleteAllForUser(ctx, userID); err != nil {
		return &ClearDataError{Step: "session exercises", Err: err}
	}
	if err := s.exerciseRepo.DeleteAllForUser(ctx, userID); err != nil {
		return &ClearDataError{Step: "exercises", Err: err}
	}
	return nil
}

// DeleteAccount removes the identity-provider user; owned rows cascade.
func (s *accountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.auth.DeleteUser(ctx, userID)
}
