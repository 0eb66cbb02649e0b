package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is a user-scoped catalog entry ("Push ups", "Squat", ...).
// Entries are created lazily the first time a user logs a name; the
// (name, user_id) pair is unique and inserts resolve to the existing row.
type Exercise struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
