package api

import (
	"bytes"
	"context"
	"encoding/json"
	"labsite/internal/auth"
	"labsite/internal/config"
	"labsite/internal/entity"
	"labsite/internal/model"
	"labsite/internal/notify"
	"labsite/internal/storage"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingNotifier) last(kind string) (notify.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Kind == kind {
			return r.sent[i], true
		}
	}
	return notify.Message{}, false
}

type testServer struct {
	router     *gin.Engine
	stores     *model.Stores
	notifier   *recordingNotifier
	storageDir string
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "labsite",
		StoragePublicBaseURL: "/files",
		NotifyInbox:          "lab@example.org",
		SiteURL:              "https://lab.example.org",
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	stores := model.NewMemoryStores()
	notifier := &recordingNotifier{}

	h, err := NewHTTPHandler(cfg, Dependencies{Stores: stores, Storage: local, Notifier: notifier})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return &testServer{router: NewRouter(h), stores: stores, notifier: notifier, storageDir: dir}
}

func (s *testServer) addUser(t *testing.T, email, password, role string, active bool) *entity.DbUser {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.DbUser{Email: email, PasswordHash: hash, Role: role, IsActive: active}
	if err := s.stores.Repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, w.Code, w.Body.String())
	}
	var resp entity.AuthResponse
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return resp.Token
}

// superAdmin and admin create the two privileged accounts and return their tokens.
func (s *testServer) superAdmin(t *testing.T) string {
	t.Helper()
	s.addUser(t, "owner@lab.org", "owner-password", entity.UserRoleSuperAdmin, true)
	return s.login(t, "owner@lab.org", "owner-password")
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	s.addUser(t, "editor@lab.org", "editor-password", entity.UserRoleAdmin, true)
	return s.login(t, "editor@lab.org", "editor-password")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
