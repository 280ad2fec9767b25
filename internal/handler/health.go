// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	data      *appdata.Store
	startTime time.Time
}

// NewHealthHandler creates a new health handler. db may be nil when no
// local database is used.
func NewHealthHandler(db *sql.DB, data *appdata.Store) *HealthHandler {
	return &HealthHandler{db: db, data: data, startTime: time.Now()}
}

// HealthStatus represents the overall health status.
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
}

// Health handles GET /health. Collections that failed to load make the
// service degraded; a collection still loading does not.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{"content": h.checkContent()}
	if h.db != nil {
		checks["database"] = h.checkDatabase(r.Context())
	}

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Current().Version,
		Checks:    checks,
	}
	for _, c := range checks {
		if c.Status != "healthy" {
			status.Status = "degraded"
		}
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
		}
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, status)
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)
	if err != nil {
		return Check{Status: "unhealthy", Message: "database unreachable", Latency: latency.String()}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}

// checkContent reports the result of the last content load.
func (h *HealthHandler) checkContent() Check {
	report, ok := h.data.LastReport()
	switch {
	case !ok:
		return Check{Status: "healthy", Message: "loading"}
	case !report.OK():
		return Check{Status: "unhealthy", Message: "failed to load: " + strings.Join(report.Failed(), ", ")}
	default:
		return Check{Status: "healthy", Latency: report.Duration.String()}
	}
}
