package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrainingSession is one logged workout day. Every session belongs to
// exactly one user; deleting a session cascades its session-exercises at
// the storage layer.
type TrainingSession struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionWithExercises is the read model for the logbook list and the
// session detail page: a session joined with its exercise rows.
type SessionWithExercises struct {
	TrainingSession
	Exercises []SessionExerciseDetail `json:"exercises"`
}
