package tokens

import (
	"context"
	"errors"
	"time"

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

type CreateParams struct {
	UserID    int64
	TokenHash string
	ExpiresAt *time.Time // nil means DefaultTTL from now
}

func (s *Service) CreateToken(ctx context.Context, p CreateParams) (*RefreshToken, error) {
	if p.TokenHash == "" {
		return nil, errs.Validation("token_hash", "must not be empty")
	}

	expiresAt := time.Now().Add(DefaultTTL)
	if p.ExpiresAt != nil {
		expiresAt = *p.ExpiresAt
	}

	token := &RefreshToken{
		UserID:    p.UserID,
		TokenHash: p.TokenHash,
		ExpiresAt: expiresAt,
	}
	if err := s.store.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *Service) GetTokenByID(ctx context.Context, id int64) (*RefreshToken, error) {
	token, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("refresh token", "id", id)
		}
		return nil, err
	}
	return token, nil
}

func (s *Service) GetUserTokens(ctx context.Context, userID int64) ([]*RefreshToken, error) {
	return s.store.GetByUser(ctx, userID)
}

func (s *Service) ListTokens(ctx context.Context) ([]*RefreshToken, error) {
	return s.store.GetAll(ctx)
}

// RevokeToken marks one token revoked. Calling it on an already-revoked
// token succeeds; only a missing id is an error.
func (s *Service) RevokeToken(ctx context.Context, id int64) error {
	err := s.store.Revoke(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound("refresh token", "id", id)
	}
	return err
}

// RevokeUserTokens revokes every active token of one user and reports how
// many were revoked by this call.
func (s *Service) RevokeUserTokens(ctx context.Context, userID int64) (int64, error) {
	return s.store.RevokeUserTokens(ctx, userID)
}

// DeleteExpiredTokens is the garbage-collection sweep.
func (s *Service) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx)
}
