package service

import (
	"context"
	"errors"
	"labsite/internal/auth"
	"labsite/internal/entity"
	"testing"
)

func TestAuthenticateSuccessTouchesLastLogin(t *testing.T) {
	f := newFixture(t)
	identity := f.addUser(t, "admin@lab.org", "correct-horse", entity.UserRoleAdmin, true)

	svc := NewAuthService(f.repo, nil, f.clock)
	got, err := svc.Authenticate(context.Background(), "admin@lab.org", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != identity.ID || got.Role != entity.UserRoleAdmin {
		t.Fatalf("unexpected identity %+v", got)
	}
	if got.Name != "admin@lab.org" {
		t.Fatalf("expected email as name fallback, got %q", got.Name)
	}

	user, _ := f.repo.GetUserByID(context.Background(), identity.ID)
	if user.LastLoginAt == nil || !user.LastLoginAt.Equal(fixedNow) {
		t.Fatalf("expected last login %s, got %v", fixedNow, user.LastLoginAt)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "admin@lab.org", "correct-horse", entity.UserRoleAdmin, true)
	f.addUser(t, "gone@lab.org", "correct-horse", entity.UserRoleAdmin, false)
	svc := NewAuthService(f.repo, nil, f.clock)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "admin@lab.org", password: "nope"},
		{name: "unknown email", email: "nobody@lab.org", password: "correct-horse"},
		{name: "inactive account", email: "gone@lab.org", password: "correct-horse"},
		{name: "email differs in case", email: "ADMIN@lab.org", password: "correct-horse"},
		{name: "empty password", email: "admin@lab.org", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if identity != nil {
				t.Fatalf("expected no identity, got %+v", identity)
			}
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if PublicMessage(err) != "invalid email or password" {
				t.Fatalf("unexpected message %q", PublicMessage(err))
			}
		})
	}
}

func TestLoginIssuesParsableSession(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	tokens, err := auth.NewManager("secret", "labsite")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	svc := NewAuthService(f.repo, tokens, f.clock)

	resp, err := svc.Login(context.Background(), "root@lab.org", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" || resp.User.Role != entity.UserRoleSuperAdmin {
		t.Fatalf("unexpected response %+v", resp)
	}

	identity, err := svc.ParseSession(resp.Token)
	if err != nil {
		t.Fatalf("unexpected error parsing session: %v", err)
	}
	if identity.ID != resp.User.ID {
		t.Fatalf("expected id %d, got %d", resp.User.ID, identity.ID)
	}

	_, err = svc.ParseSession("garbage")
	assertKind(t, err, KindAuthentication)
	_, err = svc.ParseSession("")
	assertKind(t, err, KindAuthentication)
}

func TestAuthorizerReadsLiveState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.addUser(t, "root@lab.org", "correct-horse", entity.UserRoleSuperAdmin, true)
	admin := f.addUser(t, "admin@lab.org", "correct-horse", entity.UserRoleAdmin, true)
	pending := f.addUser(t, "new@lab.org", "correct-horse", entity.UserRolePending, true)

	check := func(identity *entity.Identity, wantAdmin, wantSuper bool) {
		t.Helper()
		isAdmin, err := f.authz.IsAdmin(ctx, identity)
		if err != nil {
			t.Fatalf("IsAdmin: %v", err)
		}
		isSuper, err := f.authz.IsSuperAdmin(ctx, identity)
		if err != nil {
			t.Fatalf("IsSuperAdmin: %v", err)
		}
		canManage, err := f.authz.CanManageUsers(ctx, identity)
		if err != nil {
			t.Fatalf("CanManageUsers: %v", err)
		}
		if isAdmin != wantAdmin || isSuper != wantSuper || canManage != wantSuper {
			t.Fatalf("identity %d: got admin=%v super=%v manage=%v", identity.ID, isAdmin, isSuper, canManage)
		}
	}

	check(root, true, true)
	check(admin, true, false)
	check(pending, false, false)
	check(nil, false, false)
	check(&entity.Identity{ID: 999, Role: entity.UserRoleSuperAdmin}, false, false)

	// the token still claims admin, the store says otherwise
	inactive := false
	if err := f.repo.UpdateUser(ctx, admin.ID, entity.UserUpdates{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	check(admin, false, false)

	demoted := entity.UserRoleAdmin
	if err := f.repo.UpdateUser(ctx, root.ID, entity.UserUpdates{Role: &demoted}); err != nil {
		t.Fatalf("demote: %v", err)
	}
	check(root, true, false)
}
