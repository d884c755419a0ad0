package policy

import "sentinel/internal/domain/users"

// Action is a management capability checked against the static hierarchy
// before the rule matrix is ever consulted. These cannot live in the
// matrix because rules are keyed by business element, and "manager may
// not touch admin accounts" is a role-vs-role constraint.
type Action string

const (
	ActionUsersList   Action = "users.list"
	ActionUsersCreate Action = "users.create"
	ActionUsersUpdate Action = "users.update"
	ActionUsersDelete Action = "users.delete"

	ActionElementsRead   Action = "elements.read"
	ActionElementsManage Action = "elements.manage"

	ActionRulesRead   Action = "rules.read"
	ActionRulesManage Action = "rules.manage"

	ActionRolesRead   Action = "roles.read"
	ActionRolesManage Action = "roles.manage"
)

// grants is the full static table. Absent entries deny.
var grants = map[users.Role]map[Action]bool{
	users.RoleAdmin: {
		ActionUsersList:      true,
		ActionUsersCreate:    true,
		ActionUsersUpdate:    true,
		ActionUsersDelete:    true,
		ActionElementsRead:   true,
		ActionElementsManage: true,
		ActionRulesRead:      true,
		ActionRulesManage:    true,
		ActionRolesRead:      true,
		ActionRolesManage:    true,
	},
	users.RoleManager: {
		ActionUsersList:    true,
		ActionUsersUpdate:  true,
		ActionUsersDelete:  true,
		ActionElementsRead: true,
		ActionRulesRead:    true,
		ActionRolesRead:    true,
	},
	users.RoleUser: {
		ActionElementsRead: true,
	},
}

// Hierarchy is the static role layer. It has no storage dependency and
// is safe for concurrent use.
type Hierarchy struct{}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{}
}

// Allows reports whether the role holds the capability at all,
// irrespective of any target.
func (h *Hierarchy) Allows(role users.Role, action Action) bool {
	return grants[role][action]
}

// AllowsOnUser checks a user-management action against a target user's
// role. Admin accounts are immutable through the API: nobody, the admin
// included, may create, update or delete one.
func (h *Hierarchy) AllowsOnUser(actor users.Role, action Action, target users.Role) bool {
	if !h.Allows(actor, action) {
		return false
	}
	switch action {
	case ActionUsersCreate, ActionUsersUpdate, ActionUsersDelete:
		if target == users.RoleAdmin {
			return false
		}
	}
	return true
}

// Sees reports whether listings shown to viewer may include a user of
// the target role. Managers list users but never see admins.
func (h *Hierarchy) Sees(viewer, target users.Role) bool {
	if viewer == users.RoleAdmin {
		return true
	}
	return target != users.RoleAdmin
}

// OwnerOrAdmin is the access check for per-user resources such as
// sessions and refresh tokens.
func OwnerOrAdmin(actor *users.User, ownerID int64) bool {
	return actor.Role == users.RoleAdmin || actor.ID == ownerID
}
