package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/catalog/component"
	"github.com/kbukum/catalog/database/query"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/logger"
)

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return New(cfg, logger.Nop())
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.MaxBodySize != "1MB" || cfg.ShutdownTimeout != 5 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Port = 70000 }, "server.port"},
		{"body size", func(c *Config) { c.MaxBodySize = "lots" }, "server.max_body_size"},
		{"shutdown", func(c *Config) { c.ShutdownTimeout = -1 }, "server.shutdown_timeout"},
		{"origins", func(c *Config) { c.CORS.AllowedOrigins = nil }, "server.cors.allowed_origins"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestServer_DefaultEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	healthy := true
	s.ApplyDefaults("catalog", "test", func(context.Context) []component.Health {
		status := component.StatusHealthy
		if !healthy {
			status = component.StatusUnhealthy
		}
		return []component.Health{{Name: "database", Status: status}}
	})

	for _, path := range []string{"/health", "/ready", "/alive", "/info"} {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
		if rr.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: expected a request ID header", path)
		}
	}

	healthy = false
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when a component is unhealthy, got %d", rr.Code)
	}
}

func TestServer_UnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, nil)
	s.ApplyMiddleware()
	s.GinEngine().GET("/things", func(c *gin.Context) { RespondOK(c, "ok") })

	tests := []struct {
		method, path string
		status       int
		code         apperrors.ErrorCode
	}{
		{http.MethodGet, "/nope", http.StatusNotFound, apperrors.ErrCodeNotFound},
		{http.MethodDelete, "/things", http.StatusMethodNotAllowed, apperrors.ErrCodeMethodNotAllowed},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, rr.Code)
		}
		var body apperrors.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body.Error.Code != tc.code {
			t.Errorf("%s %s: expected %s, got %s", tc.method, tc.path, tc.code, body.Error.Code)
		}
	}
}

func TestServer_BodySizeLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxBodySize = "16B" })
	s.ApplyMiddleware()
	s.GinEngine().POST("/echo", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			RespondWithError(c, apperrors.Validation("request body too large"))
			return
		}
		RespondOK(c, string(data))
	})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected oversized body to be rejected, got %d", rr.Code)
	}
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t, nil)
	s.ApplyDefaults("catalog", "test", nil)
	sc := NewComponent(s)

	if h := sc.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := sc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = sc.Stop(context.Background()) })

	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/alive", s.Addr()))
	if err != nil {
		t.Fatalf("GET /alive: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServerComponent_Routes(t *testing.T) {
	s := newTestServer(t, nil)
	s.ApplyDefaults("catalog", "test", nil)
	s.GinEngine().POST("/auth/login", func(c *gin.Context) {})

	routes := NewComponent(s).Routes()
	if len(routes) != 5 {
		t.Fatalf("expected 5 routes, got %d", len(routes))
	}
	if routes[0].Path != "/auth/login" {
		t.Errorf("expected API routes first, got %s", routes[0].Path)
	}
	if !strings.HasSuffix(routes[len(routes)-1].Handler, "(system)") {
		t.Errorf("expected system routes labeled, got %q", routes[len(routes)-1].Handler)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/catalog/account.(*Handler).Login-fm":        "Handler.Login",
		"github.com/kbukum/catalog/server/endpoint.Health.func1":       "health",
		"github.com/kbukum/catalog/catalog.(*Handler).ListProducts-fm": "Handler.ListProducts",
	}
	for in, want := range tests {
		if got := formatHandlerName(in); got != want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMetaFrom(t *testing.T) {
	m := MetaFrom(query.Pagination{Page: 2, PageSize: 10, Total: 25, TotalPages: 3})
	if m.Page != 2 || m.PageSize != 10 || m.Total != 25 || m.TotalPages != 3 {
		t.Errorf("unexpected meta %+v", m)
	}
}
