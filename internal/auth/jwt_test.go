package auth

import (
	"labsite/internal/entity"
	"strings"
	"testing"
	"time"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer")
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	identity := &entity.Identity{ID: 42, Email: "user@example.com", Name: "Ada", Role: entity.UserRoleAdmin}
	token, expiresAt, err := mgr.GenerateToken(identity)
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if d := time.Until(expiresAt); d < SessionLifetime-time.Minute || d > SessionLifetime {
		t.Fatalf("expected expiry about 24h out, got %s", d)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	got := claims.Identity()
	if got.ID != identity.ID {
		t.Fatalf("expected user id %d, got %d", identity.ID, got.ID)
	}
	if !strings.EqualFold(got.Email, identity.Email) {
		t.Fatalf("expected email %s, got %s", identity.Email, got.Email)
	}
	if got.Role != identity.Role || got.Name != identity.Name {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestEmptySecretIsRandomPerManager(t *testing.T) {
	first, err := NewManager("   ", "")
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}
	second, err := NewManager("", "")
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	token, _, err := first.GenerateToken(&entity.Identity{ID: 1, Role: entity.UserRoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if _, err := first.ParseToken(token); err != nil {
		t.Fatalf("issuing manager should accept its token: %v", err)
	}
	if _, err := second.ParseToken(token); err == nil {
		t.Fatal("expected a different process secret to reject the token")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mgr, err := NewManager("secret", "labsite")
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}
	mgr.WithClock(func() time.Time { return issuedAt })

	token, _, err := mgr.GenerateToken(&entity.Identity{ID: 7, Role: entity.UserRoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}

	mgr.WithClock(func() time.Time { return issuedAt.Add(SessionLifetime - time.Second) })
	if _, err := mgr.ParseToken(token); err != nil {
		t.Fatalf("token should still be valid just before expiry: %v", err)
	}

	mgr.WithClock(func() time.Time { return issuedAt.Add(SessionLifetime + time.Second) })
	if _, err := mgr.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestGenerateTokenRequiresIdentity(t *testing.T) {
	mgr, _ := NewManager("secret", "")
	if _, _, err := mgr.GenerateToken(nil); err == nil {
		t.Fatal("expected error for nil identity")
	}
	if _, _, err := mgr.GenerateToken(&entity.Identity{}); err == nil {
		t.Fatal("expected error for zero id")
	}
}
