package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultTTL applies when a caller creates a refresh token row without an
// explicit expiry.
const DefaultTTL = 30 * 24 * time.Hour

// RefreshToken is the persisted side of a refresh credential. Only the
// SHA-256 hash of the bearer string is stored; the plaintext exists only
// in the client's cookie.
type RefreshToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Hash derives the stored lookup key from a plaintext token.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
