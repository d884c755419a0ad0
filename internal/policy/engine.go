package policy

import (
	"context"
	"errors"

	"sentinel/internal/domain/accessrules"
	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
)

// Engine combines the static hierarchy with the stored rule matrix.
type Engine struct {
	rules     accessrules.Store
	hierarchy *Hierarchy
}

func NewEngine(rules accessrules.Store) *Engine {
	return &Engine{rules: rules, hierarchy: NewHierarchy()}
}

func (e *Engine) Hierarchy() *Hierarchy {
	return e.hierarchy
}

// Authorize decides an element-scoped operation for an actor. Admins
// bypass the matrix. For everyone else the stored rule for
// (actor.Role, elementID) decides; a missing rule denies.
func (e *Engine) Authorize(ctx context.Context, actor *users.User, elementID int64, op Operation, isOwner bool) (Decision, error) {
	if actor.Role == users.RoleAdmin {
		return Allow, nil
	}

	rule, err := e.rules.GetByRoleAndElement(ctx, actor.Role, elementID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Deny, nil
		}
		return Deny, err
	}
	return Evaluate(rule, op, isOwner), nil
}
