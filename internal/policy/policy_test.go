package policy

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain/accessrules"
	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
)

func TestEvaluateMissingRuleDeniesEverything(t *testing.T) {
	for _, op := range []Operation{OpRead, OpCreate, OpUpdate, OpDelete} {
		assert.False(t, Evaluate(nil, op, true).Allow, "op %s owner", op)
		assert.False(t, Evaluate(nil, op, false).Allow, "op %s non-owner", op)
	}
}

func TestEvaluateOwnReadOnly(t *testing.T) {
	rule := &accessrules.Rule{Read: true, ReadAll: false}

	assert.True(t, Evaluate(rule, OpRead, true).Allow)
	assert.False(t, Evaluate(rule, OpRead, false).Allow)
}

func TestEvaluateDeleteAllIgnoresOwnership(t *testing.T) {
	rule := &accessrules.Rule{Delete: false, DeleteAll: true}

	assert.True(t, Evaluate(rule, OpDelete, false).Allow)
	assert.True(t, Evaluate(rule, OpDelete, true).Allow)
}

func TestEvaluateCreateIgnoresOwnership(t *testing.T) {
	rule := &accessrules.Rule{Create: true}

	assert.True(t, Evaluate(rule, OpCreate, false).Allow)
	assert.False(t, Evaluate(&accessrules.Rule{}, OpCreate, true).Allow)
}

func TestEvaluateUnknownOperationDenies(t *testing.T) {
	rule := &accessrules.Rule{
		Read: true, ReadAll: true, Create: true,
		Update: true, UpdateAll: true, Delete: true, DeleteAll: true,
	}

	assert.False(t, Evaluate(rule, Operation("drop"), true).Allow)
}

type ruleStoreStub struct {
	accessrules.Store
	rules map[string]*accessrules.Rule
}

func key(role users.Role, elementID int64) string {
	return fmt.Sprintf("%s/%d", role, elementID)
}

func (s *ruleStoreStub) GetByRoleAndElement(_ context.Context, role users.Role, elementID int64) (*accessrules.Rule, error) {
	rule, ok := s.rules[key(role, elementID)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return rule, nil
}

func TestAuthorizeManagerOwnOrdersOnly(t *testing.T) {
	store := &ruleStoreStub{rules: map[string]*accessrules.Rule{
		key(users.RoleManager, 1): {Role: users.RoleManager, ElementID: 1, Read: true},
	}}
	engine := NewEngine(store)

	manager := &users.User{ID: 2, Role: users.RoleManager}
	admin := &users.User{ID: 1, Role: users.RoleAdmin}

	ctx := context.Background()

	own, err := engine.Authorize(ctx, manager, 1, OpRead, true)
	require.NoError(t, err)
	assert.True(t, own.Allow)

	other, err := engine.Authorize(ctx, manager, 1, OpRead, false)
	require.NoError(t, err)
	assert.False(t, other.Allow)

	any, err := engine.Authorize(ctx, admin, 1, OpRead, false)
	require.NoError(t, err)
	assert.True(t, any.Allow)
}

func TestAuthorizeNoRuleFailsClosed(t *testing.T) {
	engine := NewEngine(&ruleStoreStub{rules: map[string]*accessrules.Rule{}})

	user := &users.User{ID: 3, Role: users.RoleUser}

	for _, op := range []Operation{OpRead, OpCreate, OpUpdate, OpDelete} {
		decision, err := engine.Authorize(context.Background(), user, 7, op, true)
		require.NoError(t, err)
		assert.False(t, decision.Allow, "op %s", op)
	}
}

func TestHierarchyAdminAccountsAreImmutable(t *testing.T) {
	h := NewHierarchy()

	for _, actor := range []users.Role{users.RoleAdmin, users.RoleManager, users.RoleUser} {
		assert.False(t, h.AllowsOnUser(actor, ActionUsersCreate, users.RoleAdmin), "actor %s", actor)
		assert.False(t, h.AllowsOnUser(actor, ActionUsersUpdate, users.RoleAdmin), "actor %s", actor)
		assert.False(t, h.AllowsOnUser(actor, ActionUsersDelete, users.RoleAdmin), "actor %s", actor)
	}
}

func TestHierarchyOnlyAdminCreatesUsers(t *testing.T) {
	h := NewHierarchy()

	assert.True(t, h.AllowsOnUser(users.RoleAdmin, ActionUsersCreate, users.RoleUser))
	assert.False(t, h.AllowsOnUser(users.RoleManager, ActionUsersCreate, users.RoleUser))
	assert.False(t, h.AllowsOnUser(users.RoleUser, ActionUsersCreate, users.RoleUser))
}

func TestHierarchyManagerNeverSeesAdmins(t *testing.T) {
	h := NewHierarchy()

	assert.False(t, h.Sees(users.RoleManager, users.RoleAdmin))
	assert.True(t, h.Sees(users.RoleManager, users.RoleUser))
	assert.True(t, h.Sees(users.RoleAdmin, users.RoleAdmin))
}

func TestHierarchyRuleMutationIsAdminOnly(t *testing.T) {
	h := NewHierarchy()

	assert.True(t, h.Allows(users.RoleAdmin, ActionRulesManage))
	assert.False(t, h.Allows(users.RoleManager, ActionRulesManage))
	assert.True(t, h.Allows(users.RoleManager, ActionRulesRead))
	assert.False(t, h.Allows(users.RoleUser, ActionRulesRead))
}

func TestOwnerOrAdmin(t *testing.T) {
	admin := &users.User{ID: 1, Role: users.RoleAdmin}
	user := &users.User{ID: 5, Role: users.RoleUser}

	assert.True(t, OwnerOrAdmin(admin, 99))
	assert.True(t, OwnerOrAdmin(user, 5))
	assert.False(t, OwnerOrAdmin(user, 6))
}
