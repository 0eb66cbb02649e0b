package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"synthesized/web/internal/domain"
	"synthesized/web/internal/repository"
)

// memStore is a coherent in-memory stand-in for the Postgres store, shared
// by the per-table fakes below. It mirrors the schema's behavior where the
// services depend on it: the (name, user_id) upsert and the session-delete
// cascade.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	users            map[uuid.UUID]*domain.User
	tokens           map[int64]*domain.LoginToken
	sessions         map[int64]*domain.TrainingSession
	exercises        map[int64]*domain.Exercise
	sessionExercises map[int64]*domain.SessionExercise

	// Error injection for the bulk-clear steps.
	failDeleteSessions         error
	failDeleteSessionExercises error
	failDeleteExercises        error
}

func newMemStore() *memStore {
	return &memStore{
		users:            make(map[uuid.UUID]*domain.User),
		tokens:           make(map[int64]*domain.LoginToken),
		sessions:         make(map[int64]*domain.TrainingSession),
		exercises:        make(map[int64]*domain.Exercise),
		sessionExercises: make(map[int64]*domain.SessionExercise),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// --- user repository ---

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) UpsertByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	u := &domain.User{ID: uuid.New(), Email: email, CreatedAt: time.Now(), LastSignInAt: time.Now()}
	r.s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) TouchLastSignIn(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastSignInAt = time.Now()
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- login token repository ---

type fakeTokenRepo struct{ s *memStore }

func (r *fakeTokenRepo) Create(_ context.Context, token *domain.LoginToken) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = r.s.id()
	token.CreatedAt = time.Now()
	copied := *token
	r.s.tokens[token.ID] = &copied
	return token.ID, nil
}

func (r *fakeTokenRepo) GetByID(_ context.Context, id int64) (*domain.LoginToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTokenRepo) Consume(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[id]
	if !ok || t.ConsumedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	t.ConsumedAt = &now
	return nil
}

// --- training session repository ---

type fakeSessionRepo struct{ s *memStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.TrainingSession) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.ID = r.s.id()
	session.CreatedAt = time.Now()
	copied := *session
	r.s.sessions[session.ID] = &copied
	return session.ID, nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id int64, userID uuid.UUID) (*domain.TrainingSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (r *fakeSessionRepo) ListWithExercises(_ context.Context, userID uuid.UUID) ([]domain.SessionWithExercises, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.SessionWithExercises
	for _, sess := range r.s.sessions {
		if sess.UserID != userID {
			continue
		}
		entry := domain.SessionWithExercises{TrainingSession: *sess}
		for _, se := range r.s.sessionExercises {
			if se.TrainingSessionID != sess.ID {
				continue
			}
			detail := domain.SessionExerciseDetail{SessionExercise: *se}
			if ex, ok := r.s.exercises[se.ExerciseID]; ok {
				detail.ExerciseName = ex.Name
			}
			entry.Exercises = append(entry.Exercises, detail)
		}
		sort.Slice(entry.Exercises, func(i, j int) bool { return entry.Exercises[i].ID < entry.Exercises[j].ID })
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id int64, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.sessions, id)
	// Schema-level cascade.
	for seID, se := range r.s.sessionExercises {
		if se.TrainingSessionID == id {
			delete(r.s.sessionExercises, seID)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDeleteSessions != nil {
		return r.s.failDeleteSessions
	}
	for id, sess := range r.s.sessions {
		if sess.UserID == userID {
			delete(r.s.sessions, id)
			for seID, se := range r.s.sessionExercises {
				if se.TrainingSessionID == id {
					delete(r.s.sessionExercises, seID)
				}
			}
		}
	}
	return nil
}

// --- exercise repository ---

type fakeExerciseRepo struct{ s *memStore }

func (r *fakeExerciseRepo) UpsertMany(_ context.Context, userID uuid.UUID, names []string) (map[string]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		var existing *domain.Exercise
		for _, ex := range r.s.exercises {
			if ex.UserID == userID && ex.Name == name {
				existing = ex
				break
			}
		}
		if existing == nil {
			existing = &domain.Exercise{ID: r.s.id(), UserID: userID, Name: name, CreatedAt: time.Now()}
			r.s.exercises[existing.ID] = existing
		}
		ids[name] = existing.ID
	}
	return ids, nil
}

func (r *fakeExerciseRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Exercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Exercise
	for _, ex := range r.s.exercises {
		if ex.UserID == userID {
			out = append(out, *ex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDeleteExercises != nil {
		return r.s.failDeleteExercises
	}
	for id, ex := range r.s.exercises {
		if ex.UserID == userID {
			delete(r.s.exercises, id)
		}
	}
	return nil
}

// --- session exercise repository ---

type fakeSessionExerciseRepo struct{ s *memStore }

func (r *fakeSessionExerciseRepo) InsertMany(_ context.Context, rows []domain.SessionExercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range rows {
		row.ID = r.s.id()
		row.CreatedAt = time.Now()
		copied := row
		r.s.sessionExercises[row.ID] = &copied
	}
	return nil
}

func (r *fakeSessionExerciseRepo) GetByID(_ context.Context, id int64, userID uuid.UUID) (*domain.SessionExercise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, ok := r.s.sessionExercises[id]
	if !ok || se.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *se
	return &copied, nil
}

func (r *fakeSessionExerciseRepo) Update(_ context.Context, id int64, userID uuid.UUID, exerciseID int64, sets, reps, breakTime *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, ok := r.s.sessionExercises[id]
	if !ok || se.UserID != userID {
		return repository.ErrNotFound
	}
	se.ExerciseID = exerciseID
	se.Sets = sets
	se.Reps = reps
	se.BreakTime = breakTime
	return nil
}

func (r *fakeSessionExerciseRepo) Delete(_ context.Context, id int64, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, ok := r.s.sessionExercises[id]
	if !ok || se.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.sessionExercises, id)
	return nil
}

func (r *fakeSessionExerciseRepo) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDeleteSessionExercises != nil {
		return r.s.failDeleteSessionExercises
	}
	for id, se := range r.s.sessionExercises {
		if se.UserID == userID {
			delete(r.s.sessionExercises, id)
		}
	}
	return nil
}
