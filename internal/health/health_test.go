package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthAllChecksPassing(t *testing.T) {
	s := NewServer(0, "test")
	s.RegisterCheck("rpc-base", func(context.Context) (bool, string) { return true, "" })
	s.RegisterCheck("rpc-arbitrum", func(context.Context) (bool, string) { return true, "" })

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("checks = %d, want 2", len(status.Checks))
	}
}

func TestHealthDegradedOnFailingCheck(t *testing.T) {
	s := NewServer(0, "test")
	s.RegisterCheck("rpc-base", func(context.Context) (bool, string) { return true, "" })
	s.RegisterCheck("rpc-arbitrum", func(context.Context) (bool, string) { return false, "dial refused" })

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if check := status.Checks["rpc-arbitrum"]; check.Healthy || check.Message != "dial refused" {
		t.Errorf("failing check = %+v", check)
	}
}

func TestReadyReflectsChecks(t *testing.T) {
	s := NewServer(0, "test")

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("no checks: status = %d, want 200", rec.Code)
	}

	s.RegisterCheck("rpc-base", func(context.Context) (bool, string) { return false, "down" })
	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("failing check: status = %d, want 503", rec.Code)
	}
}
