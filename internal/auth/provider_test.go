package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/invtrail/invtrail/internal/db"
	"github.com/invtrail/invtrail/internal/store"
)

func TestStoreProviderAuthenticate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if _, err := store.CreateUser(ctx, database, "alice", hash); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	provider := &StoreProvider{DB: database}

	user, err := provider.Authenticate(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username 'alice', got %q", user.Username)
	}

	if _, err := provider.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	if _, err := provider.Authenticate(ctx, "nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
