package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account. Users are created implicitly the
// first time an email requests a magic link; there is no password.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"` // Unique
	CreatedAt    time.Time `json:"createdAt"`
	LastSignInAt time.Time `json:"lastSignInAt"`
}
