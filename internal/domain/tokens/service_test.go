package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"sentinel/internal/domain/errs"
)

type fakeStore struct {
	nextID int64
	byID   map[int64]*RefreshToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, byID: map[int64]*RefreshToken{}}
}

func (f *fakeStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, token *RefreshToken) error {
	for _, t := range f.byID {
		if t.TokenHash == token.TokenHash {
			return errs.AlreadyExists("refresh token", "token_hash", token.TokenHash)
		}
	}
	token.ID = f.nextID
	f.nextID++
	clone := *token
	f.byID[token.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*RefreshToken, error) {
	token, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *token
	return &clone, nil
}

func (f *fakeStore) GetByUser(_ context.Context, userID int64) ([]*RefreshToken, error) {
	out := []*RefreshToken{}
	for _, t := range f.byID {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAll(_ context.Context) ([]*RefreshToken, error) {
	out := []*RefreshToken{}
	for _, t := range f.byID {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeStore) Revoke(_ context.Context, id int64) error {
	token, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	token.Revoked = true
	return nil
}

func (f *fakeStore) RevokeUserTokens(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, t := range f.byID {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for id, t := range f.byID {
		if t.ExpiresAt.Before(now) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func createAt(t *testing.T, svc *Service, userID int64, hash string, expiresAt time.Time) *RefreshToken {
	t.Helper()
	token, err := svc.CreateToken(context.Background(), CreateParams{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	return token
}

func TestCreateTokenDefaultExpiry(t *testing.T) {
	svc := NewService(newFakeStore())

	before := time.Now().Add(DefaultTTL - time.Minute)
	token, err := svc.CreateToken(context.Background(), CreateParams{UserID: 1, TokenHash: Hash("a")})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if token.ExpiresAt.Before(before) {
		t.Errorf("expiry %v earlier than expected default", token.ExpiresAt)
	}
}

func TestRevokeUserTokensIsIdempotent(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	createAt(t, svc, 1, Hash("a"), future)
	createAt(t, svc, 1, Hash("b"), future)
	createAt(t, svc, 2, Hash("c"), future)

	first, err := svc.RevokeUserTokens(ctx, 1)
	if err != nil {
		t.Fatalf("first RevokeUserTokens: %v", err)
	}
	if first != 2 {
		t.Errorf("first call revoked %d, want 2", first)
	}

	second, err := svc.RevokeUserTokens(ctx, 1)
	if err != nil {
		t.Fatalf("second RevokeUserTokens: %v", err)
	}
	if second != 0 {
		t.Errorf("second call revoked %d, want 0", second)
	}
}

func TestRevokeTokenTwiceSucceeds(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	token := createAt(t, svc, 1, Hash("a"), time.Now().Add(time.Hour))

	if err := svc.RevokeToken(ctx, token.ID); err != nil {
		t.Fatalf("first RevokeToken: %v", err)
	}
	if err := svc.RevokeToken(ctx, token.ID); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}

	got, err := svc.GetTokenByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("GetTokenByID: %v", err)
	}
	if !got.Revoked {
		t.Error("token not revoked")
	}
}

func TestRevokeUnknownTokenNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	err := svc.RevokeToken(context.Background(), 99)

	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestDeleteExpiredTokensSweepsOnlyPast(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	createAt(t, svc, 1, Hash("a"), past)
	createAt(t, svc, 1, Hash("b"), past)
	createAt(t, svc, 1, Hash("c"), past)
	keepOne := createAt(t, svc, 1, Hash("d"), future)
	keepTwo := createAt(t, svc, 2, Hash("e"), future)

	count, err := svc.DeleteExpiredTokens(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredTokens: %v", err)
	}
	if count != 3 {
		t.Errorf("swept %d tokens, want 3", count)
	}

	for _, id := range []int64{keepOne.ID, keepTwo.ID} {
		if _, err := svc.GetTokenByID(ctx, id); err != nil {
			t.Errorf("future token %d gone after sweep: %v", id, err)
		}
	}
}

func TestHashIsDeterministicAndOpaque(t *testing.T) {
	if Hash("token") != Hash("token") {
		t.Error("hash not deterministic")
	}
	if Hash("token") == "token" {
		t.Error("hash returned the plaintext")
	}
	if Hash("token") == Hash("other") {
		t.Error("distinct inputs collided")
	}
}
