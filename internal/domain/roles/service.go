package roles

import (
	"context"
	"errors"

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

func (s *Service) CreateRole(ctx context.Context, value users.Role, comment string) (*Role, error) {
	if !value.Valid() {
		return nil, errs.Validation("role", "unknown role value")
	}

	_, err := s.store.GetByRole(ctx, value)
	if err == nil {
		return nil, errs.AlreadyExists("role", "role", value)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	role := &Role{Role: value, Comment: comment}
	if err := s.store.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *Service) GetRoleByID(ctx context.Context, id int64) (*Role, error) {
	role, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("role", "id", id)
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) UpdateRole(ctx context.Context, id int64, comment *string) (*Role, error) {
	role, err := s.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return role, nil
	}
	role.Comment = *comment
	if err := s.store.Update(ctx, role); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("role", "id", id)
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) DeleteRole(ctx context.Context, id int64) (*Role, error) {
	role, err := s.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("role", "id", id)
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.store.GetAll(ctx)
}
