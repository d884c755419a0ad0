package sessions

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTTL applies when a caller creates a session without an explicit
// expiry.
const DefaultTTL = 24 * time.Hour

// Session is one browser/device login. Sessions are hard-deleted on
// logout or by the expiry sweep, unlike users which are soft-deleted.
type Session struct {
	ID         uuid.UUID `json:"id"`
	UserID     int64     `json:"user_id"`
	Token      string    `json:"session_token"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
