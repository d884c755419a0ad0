package elements

import (
	"context"
	"errors"

	"sentinel/internal/domain/errs"
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

func (s *Service) CreateElement(ctx context.Context, kind Kind, name, comment string) (*Element, error) {
	if !kind.Valid() {
		return nil, errs.Validation("kind", "unknown business element kind")
	}
	if name == "" {
		return nil, errs.Validation("name", "must not be empty")
	}

	_, err := s.store.GetByName(ctx, name)
	if err == nil {
		return nil, errs.AlreadyExists("business element", "name", name)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	element := &Element{Kind: kind, Name: name, Comment: comment}
	if err := s.store.Create(ctx, element); err != nil {
		return nil, err
	}
	return element, nil
}

func (s *Service) GetElementByID(ctx context.Context, id int64) (*Element, error) {
	element, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("business element", "id", id)
		}
		return nil, err
	}
	return element, nil
}

func (s *Service) GetElementByName(ctx context.Context, name string) (*Element, error) {
	element, err := s.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("business element", "name", name)
		}
		return nil, err
	}
	return element, nil
}

type UpdateParams struct {
	Kind    *Kind
	Name    *string
	Comment *string
}

func (s *Service) UpdateElement(ctx context.Context, id int64, p UpdateParams) (*Element, error) {
	element, err := s.GetElementByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Kind != nil {
		if !p.Kind.Valid() {
			return nil, errs.Validation("kind", "unknown business element kind")
		}
		element.Kind = *p.Kind
	}
	if p.Name != nil && *p.Name != element.Name {
		_, err := s.store.GetByName(ctx, *p.Name)
		if err == nil {
			return nil, errs.AlreadyExists("business element", "name", *p.Name)
		}
		if !errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		element.Name = *p.Name
	}
	if p.Comment != nil {
		element.Comment = *p.Comment
	}

	if err := s.store.Update(ctx, element); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("business element", "id", id)
		}
		return nil, err
	}
	return element, nil
}

func (s *Service) DeleteElement(ctx context.Context, id int64) (*Element, error) {
	element, err := s.GetElementByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("business element", "id", id)
		}
		return nil, err
	}
	return element, nil
}

func (s *Service) ListElements(ctx context.Context) ([]*Element, error) {
	return s.store.GetAll(ctx)
}
