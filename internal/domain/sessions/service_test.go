package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"sentinel/internal/domain/errs"
)

type fakeStore struct {
	byID map[uuid.UUID]*Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[uuid.UUID]*Session{}}
}

func (f *fakeStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, session *Session) error {
	for _, s := range f.byID {
		if s.Token == session.Token {
			return errs.AlreadyExists("session", "session_token", session.Token)
		}
	}
	clone := *session
	f.byID[session.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	session, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeStore) GetByToken(_ context.Context, token string) (*Session, error) {
	for _, s := range f.byID {
		if s.Token == token {
			clone := *s
			return &clone, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeStore) GetByUser(_ context.Context, userID int64) ([]*Session, error) {
	out := []*Session{}
	for _, s := range f.byID {
		if s.UserID == userID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateLastSeen(_ context.Context, id uuid.UUID) error {
	session, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	session.LastSeenAt = time.Now()
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStore) DeleteUserSessions(_ context.Context, userID int64) (int64, error) {
	var n int64
	for id, s := range f.byID {
		if s.UserID == userID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for id, s := range f.byID {
		if s.ExpiresAt.Before(now) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func TestCreateSessionDefaults(t *testing.T) {
	svc := NewService(newFakeStore())

	before := time.Now().Add(DefaultTTL - time.Minute)
	session, err := svc.CreateSession(context.Background(), CreateParams{
		UserID: 1,
		Token:  "tok-a",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if session.ID == uuid.Nil {
		t.Error("session ID not assigned")
	}
	if !session.IsActive {
		t.Error("new session not active")
	}
	if session.ExpiresAt.Before(before) {
		t.Errorf("expiry %v earlier than expected default", session.ExpiresAt)
	}
}

func TestCreateSessionRequiresToken(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.CreateSession(context.Background(), CreateParams{UserID: 1})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestGetSessionByTokenNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.GetSessionByToken(context.Background(), "missing")

	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if notFound.Entity != "session" {
		t.Errorf("unexpected entity: %q", notFound.Entity)
	}
}

func TestDeleteUserSessionsCountsAndIsIdempotent(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	for _, tok := range []string{"a", "b", "c"} {
		if _, err := svc.CreateSession(ctx, CreateParams{UserID: 1, Token: tok}); err != nil {
			t.Fatalf("CreateSession %q: %v", tok, err)
		}
	}
	if _, err := svc.CreateSession(ctx, CreateParams{UserID: 2, Token: "other"}); err != nil {
		t.Fatalf("CreateSession other user: %v", err)
	}

	first, err := svc.DeleteUserSessions(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteUserSessions: %v", err)
	}
	if first != 3 {
		t.Errorf("deleted %d sessions, want 3", first)
	}

	second, err := svc.DeleteUserSessions(ctx, 1)
	if err != nil {
		t.Fatalf("second DeleteUserSessions: %v", err)
	}
	if second != 0 {
		t.Errorf("second call deleted %d, want 0", second)
	}

	remaining, err := svc.GetUserSessions(ctx, 2)
	if err != nil {
		t.Fatalf("GetUserSessions: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("other user has %d sessions, want 1", len(remaining))
	}
}

func TestDeleteExpiredSessionsSweepsOnlyPast(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	if _, err := svc.CreateSession(ctx, CreateParams{UserID: 1, Token: "old", ExpiresAt: &past}); err != nil {
		t.Fatalf("CreateSession old: %v", err)
	}
	fresh, err := svc.CreateSession(ctx, CreateParams{UserID: 1, Token: "fresh"})
	if err != nil {
		t.Fatalf("CreateSession fresh: %v", err)
	}

	count, err := svc.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if count != 1 {
		t.Errorf("swept %d sessions, want 1", count)
	}

	if _, err := svc.GetSessionByID(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session gone after sweep: %v", err)
	}
}
