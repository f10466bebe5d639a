package api

import (
	"labsite/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimitOnPublicEndpoints(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.RateLimitPerMinute = 2 })

	for i := 0; i < 2; i++ {
		expectStatus(t, srv.do(t, http.MethodPost, "/api/auth/login", gin.H{}, ""), http.StatusBadRequest)
	}
	w := srv.do(t, http.MethodPost, "/api/auth/login", gin.H{}, "")
	expectStatus(t, w, http.StatusTooManyRequests)
	var apiErr APIError
	decode(t, w, &apiErr)
	if apiErr.Code != ErrCodeRateLimited {
		t.Fatalf("expected %s, got %s", ErrCodeRateLimited, apiErr.Code)
	}

	// 各接口独立计数，读接口不限流
	expectStatus(t, srv.do(t, http.MethodPost, "/api/contact", gin.H{}, ""), http.StatusBadRequest)
	for i := 0; i < 5; i++ {
		expectStatus(t, srv.do(t, http.MethodGet, "/api/datasets", nil, ""), http.StatusOK)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimitMiddleware(0), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, w.Code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/health", nil, "")
	expectStatus(t, w, http.StatusOK)
	if len(w.Header().Get(requestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", w.Header().Get(requestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "trace-123" {
		t.Fatalf("expected client id to be kept, got %q", got)
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name            string
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{name: "wildcard", origin: "", wantOrigin: "*", wantCredentials: ""},
		{name: "fixed origin", origin: "https://lab.example.org", wantOrigin: "https://lab.example.org", wantCredentials: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(cfg *config.Config) { cfg.CORSAllowOrigin = tt.origin })
			req := httptest.NewRequest(http.MethodOptions, "/api/datasets", nil)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			if w.Code != http.StatusNoContent {
				t.Fatalf("expected 204 preflight, got %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("expected origin %q, got %q", tt.wantOrigin, got)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Fatalf("expected credentials %q, got %q", tt.wantCredentials, got)
			}
		})
	}
}
