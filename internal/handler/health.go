// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/middleware"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	cache     cache.Cache
	tempDir   string
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. c may be nil; tempDir is
// the avatar spool directory, os.TempDir when empty.
func NewHealthHandler(db *sql.DB, c cache.Cache, tempDir, version string) *HealthHandler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &HealthHandler{
		db:        db,
		cache:     c,
		tempDir:   tempDir,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response for signed-in callers.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. Anonymous callers get the status only.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"disk":     h.checkDiskSpace(),
		"cache":    h.checkCache(r.Context()),
	}

	overallStatus := statusHealthy
	if checks["database"].Status != statusHealthy {
		overallStatus = statusUnhealthy
	} else {
		for _, c := range checks {
			if c.Status != statusHealthy {
				overallStatus = statusDegraded
			}
		}
	}

	code := http.StatusOK
	if overallStatus == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	if !h.isAuthenticated(r) {
		writeHealthJSON(w, code, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	writeHealthJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. Only the database gates readiness.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	if dbCheck.Status == statusHealthy {
		writeHealthJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	resp := map[string]string{"status": "not_ready"}
	// Only include error details for authenticated callers
	if h.isAuthenticated(r) {
		resp["message"] = dbCheck.Message
	}
	writeHealthJSON(w, http.StatusServiceUnavailable, resp)
}

func writeHealthJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *HealthHandler) isAuthenticated(r *http.Request) bool {
	return middleware.SessionFromContext(r.Context()).Valid(time.Now())
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkCache probes the cache with a lookup of the hero key.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: statusHealthy, Message: "Disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err := h.cache.Has(ctx, cache.KeyHero)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusDegraded, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Reachable", Latency: latency.String()}
}

// checkDiskSpace checks available space where avatar uploads are spooled.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.tempDir); os.IsNotExist(err) {
		return Check{Status: statusDegraded, Message: "Temp directory does not exist"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.tempDir, &stat); err != nil {
		return Check{Status: statusDegraded, Message: "Failed to check disk space: " + err.Error()}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	available := formatBytes(availableBytes)

	// An avatar needs up to 10MB of spool space; warn well before that.
	const minSpace = 100 * 1024 * 1024
	if availableBytes < minSpace {
		return Check{Status: statusDegraded, Message: "Low disk space: " + available + " available"}
	}
	return Check{Status: statusHealthy, Message: available + " available"}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
