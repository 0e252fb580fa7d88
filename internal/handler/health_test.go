// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/testutil"
)

func newTestHealthHandler(t *testing.T, c cache.Cache) *HealthHandler {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return NewHealthHandler(db, c, t.TempDir(), "v1.2.3")
}

// brokenCache fails every call.
type brokenCache struct{ cache.Cache }

func (brokenCache) Has(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestHealthHandler_Health_Public(t *testing.T) {
	h := newTestHealthHandler(t, nil)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	resp := decodeBody(t, w)
	if resp["status"] != statusHealthy {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, field := range []string{"checks", "system", "version", "uptime"} {
		if _, ok := resp[field]; ok {
			t.Errorf("public response should not contain %q", field)
		}
	}
}

func TestHealthHandler_Health_Authenticated(t *testing.T) {
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })
	h := newTestHealthHandler(t, mc)

	req := withSession(httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil), testutil.ValidSession())
	w := httptest.NewRecorder()
	h.Health(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != statusHealthy {
		t.Errorf("status = %q; want healthy", resp.Status)
	}
	if resp.Version != "v1.2.3" {
		t.Errorf("version = %q", resp.Version)
	}
	for _, name := range []string{"database", "disk", "cache"} {
		if c, ok := resp.Checks[name]; !ok || c.Status != statusHealthy {
			t.Errorf("check %q = %+v; want healthy", name, c)
		}
	}
	if resp.System == nil || resp.System.GoVersion == "" {
		t.Error("verbose response should include system info")
	}
}

func TestHealthHandler_Health_Degraded(t *testing.T) {
	h := newTestHealthHandler(t, brokenCache{})

	req := withSession(httptest.NewRequest(http.MethodGet, "/health", nil), testutil.ValidSession())
	w := httptest.NewRecorder()
	h.Health(w, req)

	// A broken cache degrades but does not fail the service.
	assertStatus(t, w.Code, http.StatusOK)
	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != statusDegraded {
		t.Errorf("status = %q; want degraded", resp.Status)
	}
	if resp.Checks["cache"].Message != "connection refused" {
		t.Errorf("cache check = %+v", resp.Checks["cache"])
	}
}

func TestHealthHandler_UnhealthyDatabase(t *testing.T) {
	h := newTestHealthHandler(t, nil)
	_ = h.db.Close()

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assertStatus(t, w.Code, http.StatusServiceUnavailable)
		if resp := decodeBody(t, w); resp["status"] != statusUnhealthy {
			t.Errorf("status = %v; want unhealthy", resp["status"])
		}
	})

	t.Run("ready public", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assertStatus(t, w.Code, http.StatusServiceUnavailable)
		resp := decodeBody(t, w)
		if resp["status"] != "not_ready" {
			t.Errorf("status = %v; want not_ready", resp["status"])
		}
		if _, ok := resp["message"]; ok {
			t.Error("anonymous readiness response should not include the error")
		}
	})

	t.Run("ready authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Readiness(w, withSession(httptest.NewRequest(http.MethodGet, "/health/ready", nil), testutil.ValidSession()))
		assertStatus(t, w.Code, http.StatusServiceUnavailable)
		if resp := decodeBody(t, w); resp["message"] == nil {
			t.Error("authenticated readiness response should include the error")
		}
	})
}

func TestHealthHandler_Probes(t *testing.T) {
	h := newTestHealthHandler(t, nil)

	tests := []struct {
		name   string
		fn     http.HandlerFunc
		status string
	}{
		{"live", h.Liveness, "alive"},
		{"ready", h.Readiness, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.fn(w, httptest.NewRequest(http.MethodGet, "/health/"+tt.name, nil))
			assertStatus(t, w.Code, http.StatusOK)
			if resp := decodeBody(t, w); resp["status"] != tt.status {
				t.Errorf("status = %v; want %q", resp["status"], tt.status)
			}
			if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control = %q; want no-store", cc)
			}
		})
	}
}

func TestHealthHandler_MissingTempDir(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	h := NewHealthHandler(db, nil, filepath.Join(t.TempDir(), "missing"), "")

	if c := h.checkDiskSpace(); c.Status != statusDegraded {
		t.Errorf("checkDiskSpace() = %+v; want degraded", c)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
		}
	}
}
