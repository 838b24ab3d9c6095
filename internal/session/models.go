package session

import (
	"time"

	"github.com/google/uuid"
)

// Expiration is how long a session stays valid after issuance or
// renewal. Renewal always restarts the full window from the moment of
// use (sliding window), it never merely increments the old deadline.
const Expiration = 30 * 24 * time.Hour

// Session represents one authenticated session row.
//
// A session is valid iff it exists and ExpiresAt is in the future.
// Revocation is modeled by forcing ExpiresAt into the past; there is no
// separate revoked flag, so natural expiry and logout share one
// mechanism and the Expired state is terminal either way.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
