package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/leaddesk-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/leaddesk-backend/pkg/errors"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func TestAPIHealth(t *testing.T) {
	resp := httptest.NewRecorder()
	APIHealth().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "{\"status\":\"ok\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestHealthLiveSetsEnvHeader(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get(envHeader) != "dev" {
		t.Fatalf("expected env header got %q", resp.Header().Get(envHeader))
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	t.Run("all dependencies up", func(t *testing.T) {
		resp := httptest.NewRecorder()
		deps := map[string]Pinger{"db": stubPinger{}, "redis": nil}
		HealthReady(cfg, nil, deps).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	})

	t.Run("database down", func(t *testing.T) {
		resp := httptest.NewRecorder()
		deps := map[string]Pinger{"db": stubPinger{err: errors.New("connection refused")}}
		HealthReady(cfg, nil, deps).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 got %d", resp.Code)
		}
		if body := decodeError(t, resp); body.Code != string(pkgerrors.CodeDependency) {
			t.Fatalf("unexpected code %q", body.Code)
		}
	})
}
