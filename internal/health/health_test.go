package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandler_AllHealthy(t *testing.T) {
	handler := NewHandler("1.0.0")
	handler.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", resp.Status)
	}
	if resp.Version != "1.0.0" {
		t.Fatalf("expected version 1.0.0, got %s", resp.Version)
	}
	if len(resp.Checks) != 1 {
		t.Fatalf("expected one check, got %d", len(resp.Checks))
	}
}

func TestHandler_UnhealthyComponent(t *testing.T) {
	handler := NewHandler("1.0.0")
	handler.RegisterChecker("storage", NewSimpleChecker("storage", func() error { return nil }))
	handler.RegisterChecker("kafka", NewSimpleChecker("kafka", func() error { return errors.New("broker unreachable") }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", resp.Status)
	}
	if resp.Checks["kafka"].Message == "" {
		t.Fatal("expected failure message for unhealthy check")
	}
}

func TestHandler_NoCheckers(t *testing.T) {
	handler := NewHandler("")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without checkers, got %d", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("expected ok body, got %q", rec.Body.String())
	}
}

func TestSimpleChecker(t *testing.T) {
	ok := NewSimpleChecker("ok", func() error { return nil }).Check()
	if ok.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", ok.Status)
	}

	failed := NewSimpleChecker("failed", func() error { return errors.New("boom") }).Check()
	if failed.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", failed.Status)
	}
	if failed.Message != "boom" {
		t.Fatalf("expected message boom, got %q", failed.Message)
	}
}
