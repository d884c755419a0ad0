package accessrules

import (
	"time"

	"sentinel/internal/domain/users"
)

// Rule is the permission bit-matrix binding one role to one business
// element. The plain flags grant access to records the requester owns;
// the *All flags grant access to any record of the element. At most one
// rule exists per (role, element) pair.
type Rule struct {
	ID        int64      `json:"id"`
	Role      users.Role `json:"role"`
	ElementID int64      `json:"element_id"`

	Read      bool `json:"read_permission"`
	ReadAll   bool `json:"read_all_permission"`
	Create    bool `json:"create_permission"`
	Update    bool `json:"update_permission"`
	UpdateAll bool `json:"update_all_permission"`
	Delete    bool `json:"delete_permission"`
	DeleteAll bool `json:"delete_all_permission"`

	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Flags carries the seven permission bits for create and full update.
type Flags struct {
	Read      bool
	ReadAll   bool
	Create    bool
	Update    bool
	UpdateAll bool
	Delete    bool
	DeleteAll bool
}

// PartialFlags updates only the bits the caller set.
type PartialFlags struct {
	Read      *bool
	ReadAll   *bool
	Create    *bool
	Update    *bool
	UpdateAll *bool
	Delete    *bool
	DeleteAll *bool
	Comment   *string
}
