package db

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func stubStats() *PoolStats {
	return &PoolStats{TotalConns: 2, IdleConns: 1, AcquiredConns: 1, MaxConns: 10, AcquireDuration: "1ms", Healthy: true}
}

func TestHealthHandler_Healthy(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := healthHandler(fakePinger{}, stubStats, zerolog.Nop())
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status string    `json:"status"`
		Pool   PoolStats `json:"pool"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("expected status healthy, got %q", body.Status)
	}
	if body.Pool.MaxConns != 10 {
		t.Errorf("expected max_conns 10, got %d", body.Pool.MaxConns)
	}
}

func TestHealthHandler_UnhealthyHidesDriverError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := healthHandler(fakePinger{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, stubStats, zerolog.Nop())
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("driver error leaked into response body")
	}
	if !strings.Contains(rec.Body.String(), `"healthy":false`) {
		t.Errorf("expected pool marked unhealthy, got %s", rec.Body.String())
	}
}
