package api

import (
	"context"
	"labsite/internal/entity"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoginFailuresLookIdentical(t *testing.T) {
	srv := newTestServer(t)
	srv.addUser(t, "active@lab.org", "right-password", entity.UserRoleAdmin, true)
	srv.addUser(t, "disabled@lab.org", "right-password", entity.UserRoleAdmin, false)

	attempts := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "ghost@lab.org", password: "right-password"},
		{name: "wrong password", email: "active@lab.org", password: "wrong-password"},
		{name: "inactive account", email: "disabled@lab.org", password: "right-password"},
	}

	var firstBody string
	for _, tt := range attempts {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": tt.email, "password": tt.password}, "")
			expectStatus(t, w, http.StatusUnauthorized)
			if firstBody == "" {
				firstBody = w.Body.String()
			}
			if w.Body.String() != firstBody {
				t.Fatalf("failure bodies differ: %q vs %q", w.Body.String(), firstBody)
			}
		})
	}
}

func TestLoginAndSession(t *testing.T) {
	srv := newTestServer(t)
	user := srv.addUser(t, "editor@lab.org", "editor-password", entity.UserRoleAdmin, true)

	expectStatus(t, srv.do(t, http.MethodPost, "/api/auth/login", "{", ""), http.StatusBadRequest)
	expectStatus(t, srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "editor@lab.org"}, ""), http.StatusBadRequest)

	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "editor@lab.org", "password": "editor-password"}, "")
	expectStatus(t, w, http.StatusOK)
	var resp entity.AuthResponse
	decode(t, w, &resp)
	if resp.User.ID != user.ID || resp.User.Role != entity.UserRoleAdmin || resp.User.Name != "editor@lab.org" {
		t.Fatalf("unexpected identity %+v", resp.User)
	}
	if resp.ExpiresAt.IsZero() {
		t.Fatal("expected expiry")
	}

	stored, err := srv.stores.Repo.GetUserByID(context.Background(), user.ID)
	if err != nil || stored.LastLoginAt == nil {
		t.Fatalf("login should record last login, got %+v err=%v", stored, err)
	}

	expectStatus(t, srv.do(t, http.MethodGet, "/api/auth/session", nil, ""), http.StatusUnauthorized)
	expectStatus(t, srv.do(t, http.MethodGet, "/api/auth/session", nil, resp.Token+"x"), http.StatusUnauthorized)

	w = srv.do(t, http.MethodGet, "/api/auth/session", nil, resp.Token)
	expectStatus(t, w, http.StatusOK)
	var session struct {
		User entity.Identity `json:"user"`
	}
	decode(t, w, &session)
	if session.User.ID != user.ID || session.User.Email != "editor@lab.org" {
		t.Fatalf("unexpected session %+v", session.User)
	}
}

func TestDeactivatedAdminLosesContentAccess(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.superAdmin(t)
	editor := srv.admin(t)
	payload := gin.H{"name": "Set", "slug": "set-one", "summary": "s", "license": "MIT"}

	expectStatus(t, srv.do(t, http.MethodPost, "/api/datasets", payload, editor), http.StatusCreated)

	editorAccount, err := srv.stores.Repo.GetUserByEmail(context.Background(), "editor@lab.org")
	if err != nil {
		t.Fatalf("load editor: %v", err)
	}
	w := srv.do(t, http.MethodPatch, "/api/admin/users/"+itoa(editorAccount.ID), gin.H{"is_active": false}, owner)
	expectStatus(t, w, http.StatusOK)

	// 令牌仍在有效期内，但账户状态以存储为准
	payload["slug"] = "set-two"
	expectStatus(t, srv.do(t, http.MethodPost, "/api/datasets", payload, editor), http.StatusUnauthorized)
}
