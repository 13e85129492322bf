package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicelens/component"
	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/logger"
)

func newTestServer() *Server {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.Nop())
	s.ApplyMiddleware()
	return s
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 3001 || cfg.MaxBodySize != "11MB" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	cfg.Port = 70000
	if cfg.Validate() == nil {
		t.Error("expected port validation error")
	}
}

func TestHandler_AppliesMiddleware(t *testing.T) {
	s := newTestServer()
	s.GinEngine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	s.GinEngine().GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("Origin", "http://localhost:8080")
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request ID")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8080" {
		t.Error("expected CORS headers")
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected recovered 500, got %d", rec.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"app error", apperrors.MissingField("audio", "No audio file provided"), http.StatusBadRequest, "No audio file provided"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondWithError(c, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			var body apperrors.ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body.Error != tc.wantError {
				t.Errorf("expected error %q, got %q", tc.wantError, body.Error)
			}
		})
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	s := newTestServer()
	s.RegisterDefaultEndpoints("voicelens", nil)
	s.GinEngine().POST("/api/transcribe", func(c *gin.Context) {})
	c := NewComponent(s)

	ctx := context.Background()
	if c.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before start")
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Stop(ctx)

	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}

	resp, err := http.Get("http://" + s.Addr() + "/alive")
	if err != nil {
		t.Fatalf("GET /alive: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /alive, got %d", resp.StatusCode)
	}

	routes := c.Routes()
	if len(routes) != 4 || routes[0] != "POST /api/transcribe" {
		t.Errorf("expected API routes before probes, got %v", routes)
	}
}
