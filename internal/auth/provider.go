package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/invtrail/invtrail/internal/model"
	"github.com/invtrail/invtrail/internal/store"
)

// ErrInvalidCredentials is returned for an unknown username or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider verifies credentials and resolves them to an account. Both HTTP
// surfaces authenticate through this interface, so the credential store can
// be swapped without touching the inventory pipeline.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// StoreProvider authenticates against the users table with bcrypt hashes.
type StoreProvider struct {
	DB *sql.DB
}

// Authenticate verifies the username and password, returning the account or
// ErrInvalidCredentials. Other errors indicate a store failure.
func (p *StoreProvider) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, p.DB, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// HashPassword produces a bcrypt hash for storage in the users table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
