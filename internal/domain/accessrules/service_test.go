package accessrules

import (
	"context"
	"errors"
	"testing"

	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
)

type fakeStore struct {
	nextID int64
	byID   map[int64]*Rule
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, byID: map[int64]*Rule{}}
}

func (f *fakeStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, rule *Rule) error {
	for _, r := range f.byID {
		if r.Role == rule.Role && r.ElementID == rule.ElementID {
			return errs.AlreadyExists("access rule", "role/element", "")
		}
	}
	rule.ID = f.nextID
	f.nextID++
	clone := *rule
	f.byID[rule.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Rule, error) {
	rule, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *rule
	return &clone, nil
}

func (f *fakeStore) GetByRoleAndElement(_ context.Context, role users.Role, elementID int64) (*Rule, error) {
	for _, r := range f.byID {
		if r.Role == role && r.ElementID == elementID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeStore) Update(_ context.Context, rule *Rule) error {
	if _, ok := f.byID[rule.ID]; !ok {
		return errs.ErrNotFound
	}
	clone := *rule
	f.byID[rule.ID] = &clone
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStore) GetAll(_ context.Context) ([]*Rule, error) {
	out := []*Rule{}
	for _, r := range f.byID {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func TestCreateRuleRejectsDuplicatePair(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, users.RoleManager, 1, Flags{Read: true}, ""); err != nil {
		t.Fatalf("first CreateRule: %v", err)
	}

	_, err := svc.CreateRule(ctx, users.RoleManager, 1, Flags{ReadAll: true}, "")

	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("want AlreadyExistsError, got %v", err)
	}
	if exists.Field != "role/element" || exists.Value != "manager/1" {
		t.Errorf("unexpected conflict detail: %+v", exists)
	}

	// Same role with a different element is fine.
	if _, err := svc.CreateRule(ctx, users.RoleManager, 2, Flags{Read: true}, ""); err != nil {
		t.Errorf("CreateRule for another element: %v", err)
	}
}

func TestCreateRuleRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.CreateRule(context.Background(), users.Role("root"), 1, Flags{}, "")
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestUpdateRuleTouchesOnlyGivenFlags(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, users.RoleUser, 1, Flags{Read: true, Create: true}, "")
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	readAll := true
	updated, err := svc.UpdateRule(ctx, rule.ID, PartialFlags{ReadAll: &readAll})
	if err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}

	if !updated.ReadAll {
		t.Error("read_all not set")
	}
	if !updated.Read || !updated.Create {
		t.Error("untouched flags changed")
	}
	if updated.Delete || updated.DeleteAll || updated.Update || updated.UpdateAll {
		t.Error("unrelated flags set")
	}
}

func TestGetRuleByRoleAndElementNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.GetRuleByRoleAndElement(context.Background(), users.RoleUser, 9)

	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestDeleteRuleReturnsTheRule(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, users.RoleUser, 1, Flags{Read: true}, "temp")
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	deleted, err := svc.DeleteRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if deleted.ID != rule.ID || deleted.Comment != "temp" {
		t.Errorf("deleted rule mismatch: %+v", deleted)
	}

	if _, err := svc.GetRuleByID(ctx, rule.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("rule still present after delete: %v", err)
	}
}
