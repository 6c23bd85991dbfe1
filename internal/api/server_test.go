package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Jehuge/personalWeb/internal/config"
	"github.com/Jehuge/personalWeb/internal/ingest"
	"github.com/Jehuge/personalWeb/internal/oss"
)

func testServer() *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	pipeline := ingest.New(cfg, &oss.Gateway{}, log)
	return New(cfg, nil, pipeline, log)
}

func TestRouterRegistersRoutes(t *testing.T) {
	router := testServer().Router()

	want := map[string]string{
		"/api/home/overview":      http.MethodGet,
		"/api/home/random-photos": http.MethodGet,
		"/api/users":              http.MethodGet,
		"/api/users/:id":          http.MethodGet,
		"/api/blogs/slug/:slug":   http.MethodGet,
		"/api/upload/image":       http.MethodPost,
		"/metrics":                http.MethodGet,
	}
	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for path, method := range want {
		if !registered[method+" "+path] {
			t.Errorf("route %s %s not registered", method, path)
		}
	}
}

func TestUserRoutesRequireAuth(t *testing.T) {
	router := testServer().Router()

	for _, path := range []string{"/api/users", "/api/users/1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testServer().Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight from allowed origin = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code == http.StatusNoContent {
		t.Error("preflight from disallowed origin was answered with 204")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Access-Control-Allow-Origin %q", got)
	}
}

func TestClampQuery(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 6},             // default
		{"blog_limit=3", 3},
		{"blog_limit=0", 1},  // below floor
		{"blog_limit=99", 20}, // above ceiling
		{"blog_limit=abc", 6},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = &http.Request{URL: &url.URL{RawQuery: tc.query}}
		if got := clampQuery(c, "blog_limit", 6, 1, 20); got != tc.want {
			t.Errorf("clampQuery(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}
