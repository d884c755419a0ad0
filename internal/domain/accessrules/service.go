package accessrules

import (
	"context"
	"errors"
	"fmt"

	"sentinel/internal/domain/errs"
	"sentinel/internal/domain/users"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, id)
}

// CreateRule rejects a second rule for the same (role, element) pair.
// The unique index on the table backs this check under concurrency.
func (s *Service) CreateRule(ctx context.Context, role users.Role, elementID int64, flags Flags, comment string) (*Rule, error) {
	if !role.Valid() {
		return nil, errs.Validation("role", "unknown role value")
	}

	_, err := s.store.GetByRoleAndElement(ctx, role, elementID)
	if err == nil {
		return nil, errs.AlreadyExists("access rule", "role/element",
			fmt.Sprintf("%s/%d", role, elementID))
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	rule := &Rule{
		Role:      role,
		ElementID: elementID,
		Read:      flags.Read,
		ReadAll:   flags.ReadAll,
		Create:    flags.Create,
		Update:    flags.Update,
		UpdateAll: flags.UpdateAll,
		Delete:    flags.Delete,
		DeleteAll: flags.DeleteAll,
		Comment:   comment,
	}
	if err := s.store.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) GetRuleByID(ctx context.Context, id int64) (*Rule, error) {
	rule, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("access rule", "id", id)
		}
		return nil, err
	}
	return rule, nil
}

func (s *Service) GetRuleByRoleAndElement(ctx context.Context, role users.Role, elementID int64) (*Rule, error) {
	rule, err := s.store.GetByRoleAndElement(ctx, role, elementID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("access rule", "role/element",
				fmt.Sprintf("%s/%d", role, elementID))
		}
		return nil, err
	}
	return rule, nil
}

func (s *Service) UpdateRule(ctx context.Context, id int64, p PartialFlags) (*Rule, error) {
	rule, err := s.GetRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Read != nil {
		rule.Read = *p.Read
	}
	if p.ReadAll != nil {
		rule.ReadAll = *p.ReadAll
	}
	if p.Create != nil {
		rule.Create = *p.Create
	}
	if p.Update != nil {
		rule.Update = *p.Update
	}
	if p.UpdateAll != nil {
		rule.UpdateAll = *p.UpdateAll
	}
	if p.Delete != nil {
		rule.Delete = *p.Delete
	}
	if p.DeleteAll != nil {
		rule.DeleteAll = *p.DeleteAll
	}
	if p.Comment != nil {
		rule.Comment = *p.Comment
	}

	if err := s.store.Update(ctx, rule); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("access rule", "id", id)
		}
		return nil, err
	}
	return rule, nil
}

func (s *Service) DeleteRule(ctx context.Context, id int64) (*Rule, error) {
	rule, err := s.GetRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("access rule", "id", id)
		}
		return nil, err
	}
	return rule, nil
}

func (s *Service) ListRules(ctx context.Context) ([]*Rule, error) {
	return s.store.GetAll(ctx)
}
