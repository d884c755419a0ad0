package users

import (
	"context"
	"errors"

	"sentinel/internal/domain/errs"
)

// Service enforces uniqueness and validation ahead of the repository and
// translates lookup misses into typed errors. Passwords are hashed here;
// plaintext never reaches the store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateParams struct {
	Name     string
	Username string
	Password string
	Role     Role

	// CheckValidFields applies the length bounds. Internal callers such
	// as the startup seed skip them on purpose.
	CheckValidFields bool
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, p CreateParams) (*User, error) {
	if p.CheckValidFields {
		if err := ValidatePassword(p.Password); err != nil {
			return nil, err
		}
		if err := ValidateName(p.Name); err != nil {
			return nil, err
		}
		if err := ValidateUsername(p.Username); err != nil {
			return nil, err
		}
	}

	if err := s.ensureUsernameFree(ctx, p.Username); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, p.Name); err != nil {
		return nil, err
	}

	user := &User{
		Name:     p.Name,
		Username: p.Username,
		Role:     p.Role,
		IsActive: true,
	}
	if err := user.Password.Set(p.Password); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("user", "id", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("user", "username", username)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUserByName(ctx context.Context, name string) (*User, error) {
	user, err := s.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("user", "name", name)
		}
		return nil, err
	}
	return user, nil
}

type UpdateParams struct {
	Name     *string
	Username *string
	Password *string
	Role     *Role
}

func (s *Service) UpdateUser(ctx context.Context, id int64, p UpdateParams) (*User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name == nil && p.Username == nil && p.Password == nil && p.Role == nil {
		return user, nil
	}

	if p.Name != nil && *p.Name != user.Name {
		if err := ValidateName(*p.Name); err != nil {
			return nil, err
		}
		if err := s.ensureNameFree(ctx, *p.Name); err != nil {
			return nil, err
		}
		user.Name = *p.Name
	}

	if p.Username != nil && *p.Username != user.Username {
		if err := ValidateUsername(*p.Username); err != nil {
			return nil, err
		}
		if err := s.ensureUsernameFree(ctx, *p.Username); err != nil {
			return nil, err
		}
		user.Username = *p.Username
	}

	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return nil, err
		}
		if err := user.Password.Set(*p.Password); err != nil {
			return nil, err
		}
	}

	if p.Role != nil {
		user.Role = *p.Role
	}

	if err := s.store.Update(ctx, user); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("user", "id", id)
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes: the row is retained with is_active=false.
func (s *Service) DeleteUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	user.IsActive = false
	return user, nil
}

func (s *Service) RestoreUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Restore(ctx, id); err != nil {
		return nil, err
	}
	user.IsActive = true
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, byRole *Role) ([]*User, error) {
	return s.store.GetAll(ctx, byRole)
}

func (s *Service) CountUsers(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *Service) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.store.GetByUsername(ctx, username)
	if err == nil {
		return errs.AlreadyExists("user", "username", username)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.store.GetByName(ctx, name)
	if err == nil {
		return errs.AlreadyExists("user", "name", name)
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	return nil
}
