package store

import (
	"context"
	"testing"
	"time"

	"github.com/invtrail/invtrail/internal/db"
)

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not revoked initially")
	}

	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "jti-1")
	if !revoked {
		t.Error("expected token revoked after RevokeToken")
	}

	// Revoking again is a no-op, not an error.
	if err := RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("RevokeToken (repeat): %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// An already-expired revocation gets swept by the next revoke call.
	RevokeToken(ctx, database, "old-jti", time.Now().Add(-time.Hour))
	RevokeToken(ctx, database, "new-jti", time.Now().Add(time.Hour))

	revoked, _ := IsTokenRevoked(ctx, database, "old-jti")
	if revoked {
		t.Error("expected expired revocation to be cleaned up")
	}
	revoked, _ = IsTokenRevoked(ctx, database, "new-jti")
	if !revoked {
		t.Error("expected fresh revocation to remain")
	}
}
