package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- auth service stub ---

type stubAuthService struct {
	user         *domain.User
	sessionToken string

	signInErr error
	verifyErr error
	deleteErr error

	requestedEmails []string
	deletedUsers    []uuid.UUID
}

func (s *stubAuthService) SignInWithOtp(_ context.Context, email string) error {
	s.requestedEmails = append(s.requestedEmails, email)
	return s.signInErr
}

func (s *stubAuthService) VerifyOtp(_ context.Context, _ string) (string, *domain.User, error) {
	if s.verifyErr != nil {
		return "", nil, s.verifyErr
	}
	return s.sessionToken, s.user, nil
}

func (s *stubAuthService) GetUserBySession(_ context.Context, token string) (*domain.User, error) {
	if s.user != nil && token == s.sessionToken {
		return s.user, nil
	}
	return nil, service.ErrInvalidToken
}

func (s *stubAuthService) DeleteUser(_ context.Context, userID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedUsers = append(s.deletedUsers, userID)
	return nil
}

// --- logbook service stub ---

type stubLogbookService struct {
	createdSession *domain.TrainingSession
	createErr      error
	createdDates   []string

	addErr         error
	addedSessionID int64
	addedRows      []service.ExerciseInput

	editErr   error
	editedID  int64
	editedRow service.ExerciseInput

	deleteRowErr error
	deletedRowID int64

	deleteSessionErr error
	deletedSessionID int64
}

func (s *stubLogbookService) CreateSession(_ context.Context, _ uuid.UUID, date string) (*domain.TrainingSession, error) {
	s.createdDates = append(s.createdDates, date)
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createdSession, nil
}

func (s *stubLogbookService) ListSessions(_ context.Context, _ uuid.UUID) ([]domain.SessionWithExercises, error) {
	return nil, nil
}

func (s *stubLogbookService) GetSessionDetail(_ context.Context, _ uuid.UUID, _ int64) (*service.SessionDetail, error) {
	return nil, service.ErrSessionNotFound
}

func (s *stubLogbookService) AddExercises(_ context.Context, _ uuid.UUID, sessionID int64, rows []service.ExerciseInput) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.addedSessionID = sessionID
	s.addedRows = rows
	return nil
}

func (s *stubLogbookService) EditSessionExercise(_ context.Context, _ uuid.UUID, id int64, row service.ExerciseInput) error {
	if s.editErr != nil {
		return s.editErr
	}
	s.editedID = id
	s.editedRow = row
	return nil
}

func (s *stubLogbookService) DeleteSessionExercise(_ context.Context, _ uuid.UUID, id int64) error {
	if s.deleteRowErr != nil {
		return s.deleteRowErr
	}
	s.deletedRowID = id
	return nil
}

func (s *stubLogbookService) DeleteSession(_ context.Context, _ uuid.UUID, sessionID int64) error {
	if s.deleteSessionErr != nil {
		return s.deleteSessionErr
	}
	s.deletedSessionID = sessionID
	return nil
}

func (s *stubLogbookService) ExerciseSeries(_ []domain.SessionWithExercises) []domain.ExerciseSeries {
	return nil
}

// --- account service stub ---

type stubAccountService struct {
	clearErr  error
	deleteErr error

	clearedUsers []uuid.UUID
	deletedUsers []uuid.UUID
}

func (s *stubAccountService) ClearData(_ context.Context, userID uuid.UUID) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.clearedUsers = append(s.clearedUsers, userID)
	return nil
}

func (s *stubAccountService) DeleteAccount(_ context.Context, userID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedUsers = append(s.deletedUsers, userID)
	return nil
}

// --- request helpers ---

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "lifter@example.com"}
}

// withUser injects a signed-in user the way RequireUser would.
func withUser(user *domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func postForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, router *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
