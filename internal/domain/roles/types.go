package roles

import (
	"sentinel/internal/domain/users"
)

// Role is a reference row describing one role value. Static data, one
// row per enum member, managed by admins.
type Role struct {
	ID      int64      `json:"id"`
	Role    users.Role `json:"role"`
	Comment string     `json:"comment,omitempty"`
}
