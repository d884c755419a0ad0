package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sentinel/internal/domain/errs"
)

type fakeStore struct {
	nextID int64
	byID   map[int64]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, byID: map[int64]*User{}}
}

func (f *fakeStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, user *User) error {
	for _, u := range f.byID {
		if u.Username == user.Username {
			return errs.AlreadyExists("user", "username", user.Username)
		}
		if u.Name == user.Name {
			return errs.AlreadyExists("user", "name", user.Name)
		}
	}
	user.ID = f.nextID
	f.nextID++
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeStore) GetByName(_ context.Context, name string) (*User, error) {
	for _, u := range f.byID {
		if u.Name == name {
			clone := *u
			return &clone, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeStore) Update(_ context.Context, user *User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return errs.ErrNotFound
	}
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, id int64) error {
	user, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	user.IsActive = false
	return nil
}

func (f *fakeStore) Restore(_ context.Context, id int64) error {
	user, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	user.IsActive = true
	return nil
}

func (f *fakeStore) GetAll(_ context.Context, byRole *Role) ([]*User, error) {
	out := []*User{}
	for _, u := range f.byID {
		if byRole != nil && u.Role != *byRole {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	return len(f.byID), nil
}

func validCreate() CreateParams {
	return CreateParams{
		Name:             "Jamie Doe",
		Username:         "jamie",
		Password:         "swordfish",
		Role:             RoleUser,
		CheckValidFields: true,
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewService(newFakeStore())

	user, err := svc.CreateUser(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := user.Password.Compare("swordfish"); err != nil {
		t.Errorf("stored digest does not verify the original password: %v", err)
	}
	if err := user.Password.Compare("wrong"); err == nil {
		t.Error("stored digest verified a wrong password")
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, validCreate()); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}

	second := validCreate()
	second.Name = "Other Name"
	_, err := svc.CreateUser(ctx, second)

	var exists *errs.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("want AlreadyExistsError, got %v", err)
	}
	if exists.Field != "username" || exists.Value != "jamie" {
		t.Errorf("unexpected conflict detail: %+v", exists)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("store has %d users, want 1", count)
	}
}

func TestCreateUserValidatesBounds(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"short username", func(p *CreateParams) { p.Username = "abc" }},
		{"long username", func(p *CreateParams) { p.Username = strings.Repeat("x", 17) }},
		{"short name", func(p *CreateParams) { p.Name = "abc" }},
		{"long name", func(p *CreateParams) { p.Name = strings.Repeat("x", 51) }},
		{"short password", func(p *CreateParams) { p.Password = "abc" }},
		{"long password", func(p *CreateParams) { p.Password = strings.Repeat("x", 51) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validCreate()
			tc.mutate(&p)
			_, err := svc.CreateUser(ctx, p)
			if !errors.Is(err, errs.ErrValidation) {
				t.Errorf("want validation error, got %v", err)
			}
		})
	}
}

func TestCreateUserSkipsValidationWhenUnchecked(t *testing.T) {
	svc := NewService(newFakeStore())

	p := validCreate()
	p.Username = "x" // far below the public minimum
	p.CheckValidFields = false

	user, err := svc.CreateUser(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateUser without validation: %v", err)
	}
	if user.Username != "x" {
		t.Errorf("username = %q, want %q", user.Username, "x")
	}
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.GetUserByID(context.Background(), 99)

	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if notFound.Entity != "user" || notFound.Key != "id" {
		t.Errorf("unexpected detail: %+v", notFound)
	}
}

func TestUpdateUserRejectsTakenUsername(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	first, err := svc.CreateUser(ctx, validCreate())
	if err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}

	second := validCreate()
	second.Name = "Casey Doe"
	second.Username = "casey"
	if _, err := svc.CreateUser(ctx, second); err != nil {
		t.Fatalf("second CreateUser: %v", err)
	}

	taken := "casey"
	_, err = svc.UpdateUser(ctx, first.ID, UpdateParams{Username: &taken})
	if !errors.Is(err, errs.ErrAlreadyExists) {
		t.Errorf("want AlreadyExists, got %v", err)
	}
}

func TestDeleteAndRestoreUser(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, validCreate())
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	deleted, err := svc.DeleteUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if deleted.IsActive {
		t.Error("deleted user still active")
	}

	// Soft delete keeps the row; the user remains fetchable.
	fetched, err := svc.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID after delete: %v", err)
	}
	if fetched.IsActive {
		t.Error("fetched user active after soft delete")
	}

	restored, err := svc.RestoreUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("RestoreUser: %v", err)
	}
	if !restored.IsActive {
		t.Error("restored user not active")
	}
}
