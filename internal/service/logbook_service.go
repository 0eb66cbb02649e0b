package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidDate             = errors.New("not a valid date")
	ErrValidationFailed        = errors.New("exercise validation failed")
	ErrSessionNotFound         = errors.New("training session not found")
	ErrSessionExerciseNotFound = errors.New("training session exercise not found")
)

// maxBatchSize caps how many exercise rows one submission may carry,
// regardless of what the client claims.
const maxBatchSize = 100

const (
	numericMin = 1
	numericMax = 10000
	nameMaxLen = 255
)

// ExerciseInput is one submitted exercise row. Numeric fields are nil when
// the user left them blank.
type ExerciseInput struct {
	Name      string
	Sets      *int
	Reps      *int
	BreakTime *int
}

// valid reports whether a named row satisfies the field rules: name length
// within [1,255] and each numeric field, when present, within [1,10000].
func (in ExerciseInput) valid() bool {
	if len(in.Name) == 0 || len(in.Name) > nameMaxLen {
		return false
	}
	for _, v := range []*int{in.Sets, in.Reps, in.BreakTime} {
		if v != nil && (*v < numericMin || *v > numericMax) {
			return false
		}
	}
	return true
}

// SessionDetail is the read model for the session detail page: the session,
// its rows and the user's whole catalog for the name autocomplete.
type SessionDetail struct {
	Session domain.SessionWithExercises
	Catalog []domain.Exercise
}

// LogbookService implements the training logbook operations. All operations
// are scoped to the calling user's id.
type LogbookService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, date string) (*domain.TrainingSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.SessionWithExercises, error)
	GetSessionDetail(ctx context.Context, userID uuid.UUID, sessionID int64) (*SessionDetail, error)
	AddExercises(ctx context.Context, userID uuid.UUID, sessionID int64, rows []ExerciseInput) error
	EditSessionExercise(ctx context.Context, userID uuid.UUID, sessionExerciseID int64, row ExerciseInput) error
	DeleteSessionExercise(ctx context.Context, userID uuid.UUID, sessionExerciseID int64) error
	DeleteSession(ctx context.Context, userID uuid.UUID, sessionID int64) error
	// ExerciseSeries groups the user's logged rows per exercise name,
	// date-ascending, for the insights view.
	ExerciseSeries(sessions []domain.SessionWithExercises) []domain.ExerciseSeries
}

type logbookService struct {
	sessionRepo         repository.TrainingSessionRepository
	exerciseRepo        repository.ExerciseRepository
	sessionExerciseRepo repository.SessionExerciseRepository
}

// NewLogbookService creates a new instance of logbookService.
func NewLogbookService(
	sessionRepo repository.TrainingSessionRepository,
	exerciseRepo repository.ExerciseRepository,
	sessionExerciseRepo repository.SessionExerciseRepository,
) LogbookService {
	return &logbookService{
		sessionRepo:         sessionRepo,
		exerciseRepo:        exerciseRepo,
		sessionExerciseRepo: sessionExerciseRepo,
	}
}

// CreateSession validates the ISO date and inserts a session for the user.
func (s *logbookService) CreateSession(ctx context.Context, userID uuid.UUID, date string) (*domain.TrainingSession, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	session := &domain.TrainingSession{
		UserID: userID,
		Date:   parsed,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *logbookService) ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.SessionWithExercises, error) {
	return s.sessionRepo.ListWithExercises(ctx, userID)
}

func (s *logbookService) GetSessionDetail(ctx context.Context, userID uuid.UUID, sessionID int64) (*SessionDetail, error) {
	sessions, err := s.sessionRepo.ListWithExercises(ctx, userID)
	if err != nil {
		return nil, err
	}

	var found *domain.SessionWithExercises
	for i := range sessions {
		if sessions[i].ID == sessionID {
			found = &sessions[i]
			break
		}
	}
	if found == nil {
		return nil, ErrSessionNotFound
	}

	catalog, err := s.exerciseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: *found, Catalog: catalog}, nil
}

// AddExercises validates and stores a bounded batch of rows against one
// session. Rows without a name are skipped; any invalid named row aborts
// the whole batch before anything is written. With zero named rows the call
// is a no-op.
func (s *logbookService) AddExercises(ctx context.Context, userID uuid.UUID, sessionID int64, rows []ExerciseInput) error {
	if len(rows) > maxBatchSize {
		rows = rows[:maxBatchSize]
	}

	batch := make([]ExerciseInput, 0, len(rows))
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		if !row.valid() {
			return ErrValidationFailed
		}
		batch = append(batch, row)
	}
	if len(batch) == 0 {
		return nil
	}

	// The session must exist and belong to the user before anything is
	// written against it.
	if _, err := s.sessionRepo.GetByID(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	names := make([]string, 0, len(batch))
	for _, row := range batch {
		names = append(names, row.Name)
	}
	ids, err := s.exerciseRepo.UpsertMany(ctx, userID, names)
	if err != nil {
		return err
	}

	inserts := make([]domain.SessionExercise, 0, len(batch))
	for _, row := range batch {
		inserts = append(inserts, domain.SessionExercise{
			UserID:            userID,
			TrainingSessionID: sessionID,
			ExerciseID:        ids[row.Name],
			Sets:              row.Sets,
			Reps:              row.Reps,
			BreakTime:         row.BreakTime,
		})
	}
	return s.sessionExerciseRepo.InsertMany(ctx, inserts)
}

// EditSessionExercise renames and renumbers one logged row. The row must
// already exist for this user; the exercise name is upserted against the
// catalog and the row repointed at it. Concurrent edits are
// last-write-wins.
func (s *logbookService) EditSessionExercise(ctx context.Context, userID uuid.UUID, sessionExerciseID int64, row ExerciseInput) error {
	if !row.valid() {
		return ErrValidationFailed
	}

	if _, err := s.sessionExerciseRepo.GetByID(ctx, sessionExerciseID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionExerciseNotFound
		}
		return err
	}

	ids, err := s.exerciseRepo.UpsertMany(ctx, userID, []string{row.Name})
	if err != nil {
		return err
	}

	err = s.sessionExerciseRepo.Update(ctx, sessionExerciseID, userID, ids[row.Name], row.Sets, row.Reps, row.BreakTime)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionExerciseNotFound
		}
		return err
	}
	return nil
}

func (s *logbookService) DeleteSessionExercise(ctx context.Context, userID uuid.UUID, sessionExerciseID int64) error {
	err := s.sessionExerciseRepo.Delete(ctx, sessionExerciseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionExerciseNotFound
		}
		return err
	}
	return nil
}

// DeleteSession removes one session; its rows cascade at the storage layer.
func (s *logbookService) DeleteSession(ctx context.Context, userID uuid.UUID, sessionID int64) error {
	err := s.sessionRepo.Delete(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (s *logbookService) ExerciseSeries(sessions []domain.SessionWithExercises) []domain.ExerciseSeries {
	grouped := make(map[string][]domain.ExercisePoint)
	for _, session := range sessions {
		for _, ex := range session.Exercises {
			grouped[ex.ExerciseName] = append(grouped[ex.ExerciseName], domain.ExercisePoint{
				Date:      session.Date,
				Sets:      ex.Sets,
				Reps:      ex.Reps,
				BreakTime: ex.BreakTime,
			})
		}
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]domain.ExerciseSeries, 0, len(names))
	for _, name := range names {
		points := grouped[name]
		sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
		series = append(series, domain.ExerciseSeries{Name: name, Points: points})
	}
	return series
}
