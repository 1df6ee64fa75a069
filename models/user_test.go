package models

import (
	"context"
	"errors"
	"testing"

	"github.com/simpleym/yard_backend/identity"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

// failingSetStore fails every document write; reads delegate to the
// in-memory store.
type failingSetStore struct {
	store.Client
	setErr error
}

func (f *failingSetStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	return f.setErr
}

func newAuthUserFixture() NewAuthUser {
	return NewAuthUser{
		Email:    "driver@example.com",
		Password: "long-enough",
		Name:     "Yard Driver",
		Role:     "yard",
	}
}

func TestUserService_CreateAuthUserWritesProfile(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryClient()
	provider := &fakeIdentity{nextUID: "uid-42"}
	svc := &UserService{Store: mem, Identity: provider}

	uid, err := svc.CreateAuthUser(ctx, newAuthUserFixture())
	if err != nil {
		t.Fatalf("CreateAuthUser: %v", err)
	}
	if uid != "uid-42" {
		t.Errorf("uid = %q, want the provider-issued uid-42", uid)
	}

	profile, err := mem.Get(ctx, CollectionUsers, "uid-42")
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if profile["email"] != "driver@example.com" || profile["role"] != "yard" {
		t.Errorf("profile = %v, want email and role persisted", profile)
	}
}

func TestUserService_DuplicateEmailIsConflict(t *testing.T) {
	mem := store.NewMemoryClient()
	provider := &fakeIdentity{createErr: identity.ErrEmailExists}
	svc := &UserService{Store: mem, Identity: provider}

	_, err := svc.CreateAuthUser(context.Background(), newAuthUserFixture())
	var conflictErr *utils.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("err = %v, want a conflict error", err)
	}

	// The profile write must not be attempted.
	if docs, _ := mem.Fetch(context.Background(), CollectionUsers, store.Query{}); len(docs) != 0 {
		t.Fatalf("profile written despite conflict: %v", docs)
	}
}

func TestUserService_WeakPasswordIsValidationError(t *testing.T) {
	svc := &UserService{
		Store:    store.NewMemoryClient(),
		Identity: &fakeIdentity{createErr: identity.ErrWeakPassword},
	}

	_, err := svc.CreateAuthUser(context.Background(), newAuthUserFixture())
	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want a validation error", err)
	}
}

func TestUserService_ProfileWriteFailureRollsBackIdentity(t *testing.T) {
	provider := &fakeIdentity{nextUID: "uid-42"}
	svc := &UserService{
		Store:    &failingSetStore{Client: store.NewMemoryClient(), setErr: errors.New("store down")},
		Identity: provider,
	}

	_, err := svc.CreateAuthUser(context.Background(), newAuthUserFixture())
	if err == nil {
		t.Fatal("expected error when the profile write fails")
	}
	if len(provider.deletedUIDs) != 1 || provider.deletedUIDs[0] != "uid-42" {
		t.Fatalf("identity deletions = %v, want compensating delete of uid-42", provider.deletedUIDs)
	}
}
