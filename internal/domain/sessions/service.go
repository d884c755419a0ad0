package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sentinel/internal/domain/errs"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(ctx, id)
}

type CreateParams struct {
	UserID    int64
	Token     string
	ExpiresAt *time.Time // nil means DefaultTTL from now
	IP        string
	UserAgent string
}

func (s *Service) CreateSession(ctx context.Context, p CreateParams) (*Session, error) {
	if p.Token == "" {
		return nil, errs.Validation("session_token", "must not be empty")
	}

	expiresAt := time.Now().Add(DefaultTTL)
	if p.ExpiresAt != nil {
		expiresAt = *p.ExpiresAt
	}

	session := &Session{
		ID:        uuid.New(),
		UserID:    p.UserID,
		Token:     p.Token,
		ExpiresAt: expiresAt,
		IP:        p.IP,
		UserAgent: p.UserAgent,
		IsActive:  true,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) GetSessionByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("session", "id", id)
		}
		return nil, err
	}
	return session, nil
}

func (s *Service) GetSessionByToken(ctx context.Context, token string) (*Session, error) {
	session, err := s.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("session", "token", token)
		}
		return nil, err
	}
	return session, nil
}

func (s *Service) GetUserSessions(ctx context.Context, userID int64) ([]*Session, error) {
	return s.store.GetByUser(ctx, userID)
}

func (s *Service) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	err := s.store.UpdateLastSeen(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound("session", "id", id)
	}
	return err
}

func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound("session", "id", id)
	}
	return err
}

// DeleteUserSessions removes every session of one user and reports how
// many were removed. Zero matches is not an error.
func (s *Service) DeleteUserSessions(ctx context.Context, userID int64) (int64, error) {
	return s.store.DeleteUserSessions(ctx, userID)
}

// DeleteExpiredSessions is the garbage-collection sweep.
func (s *Service) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx)
}
