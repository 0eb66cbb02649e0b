package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoginToken backs the magic-link sign-in flow. Only a bcrypt hash of the
// emailed token is stored; tokens are single-use and expire quickly.
type LoginToken struct {
	ID         int64
	UserID     uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Usable reports whether the token can still establish a session.
func (t *LoginToken) Usable(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}
