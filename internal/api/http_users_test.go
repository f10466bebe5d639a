package api

import (
	"context"
	"labsite/internal/entity"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestUserManagement(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.superAdmin(t)
	pending := srv.addUser(t, "new@lab.org", "new-password", entity.UserRolePending, true)
	self, err := srv.stores.Repo.GetUserByEmail(context.Background(), "owner@lab.org")
	if err != nil {
		t.Fatalf("load owner: %v", err)
	}

	w := srv.do(t, http.MethodGet, "/api/admin/users?page=1&page_size=10", nil, owner)
	expectStatus(t, w, http.StatusOK)
	var list entity.UserListResponse
	decode(t, w, &list)
	if len(list.Users) != 2 || list.Meta == nil || list.Meta.Total != 2 {
		t.Fatalf("unexpected user list %+v", list)
	}

	w = srv.do(t, http.MethodGet, "/api/admin/users?role=pending", nil, owner)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &list)
	if len(list.Users) != 1 || list.Users[0].ID != pending.ID {
		t.Fatalf("role filter failed: %+v", list.Users)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "unknown role filter", method: http.MethodGet, path: "/api/admin/users?role=wizard", want: http.StatusBadRequest},
		{name: "promote pending account", method: http.MethodPatch, path: "/api/admin/users/" + itoa(pending.ID), body: gin.H{"role": "admin"}, want: http.StatusOK},
		{name: "invalid role", method: http.MethodPatch, path: "/api/admin/users/" + itoa(pending.ID), body: gin.H{"role": "root"}, want: http.StatusBadRequest},
		{name: "empty update", method: http.MethodPatch, path: "/api/admin/users/" + itoa(pending.ID), body: gin.H{}, want: http.StatusBadRequest},
		{name: "non-numeric id", method: http.MethodPatch, path: "/api/admin/users/abc", body: gin.H{"role": "admin"}, want: http.StatusBadRequest},
		{name: "unknown user", method: http.MethodPatch, path: "/api/admin/users/999", body: gin.H{"role": "admin"}, want: http.StatusNotFound},
		{name: "self demotion", method: http.MethodPatch, path: "/api/admin/users/" + itoa(self.ID), body: gin.H{"role": "admin"}, want: http.StatusBadRequest},
		{name: "self deactivation", method: http.MethodPatch, path: "/api/admin/users/" + itoa(self.ID), body: gin.H{"is_active": false}, want: http.StatusBadRequest},
		{name: "self delete", method: http.MethodDelete, path: "/api/admin/users/" + itoa(self.ID), want: http.StatusBadRequest},
		{name: "delete unknown", method: http.MethodDelete, path: "/api/admin/users/999", want: http.StatusNotFound},
		{name: "delete account", method: http.MethodDelete, path: "/api/admin/users/" + itoa(pending.ID), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, srv.do(t, tt.method, tt.path, tt.body, owner), tt.want)
		})
	}

	if _, err := srv.stores.Repo.GetUserByID(context.Background(), pending.ID); err == nil {
		t.Fatal("deleted account still present")
	}
}
