// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegiv/nebula/internal/content"
	"github.com/olegiv/nebula/internal/logging"
	"github.com/olegiv/nebula/internal/version"
	"github.com/olegiv/nebula/internal/views"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store     *content.Store
	views     *views.Service // nil when view counting is disabled
	recent    *logging.RecentHandler
	startTime time.Time
}

// NewHealth creates the health handler. viewsSvc and recent may be nil.
func NewHealth(store *content.Store, viewsSvc *views.Service, recent *logging.RecentHandler) *HealthHandler {
	return &HealthHandler{
		store:     store,
		views:     viewsSvc,
		recent:    recent,
		startTime: time.Now(),
	}
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Content   ContentInfo      `json:"content"`
	Recent    []RecentIssue    `json:"recent_issues,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// ContentInfo reports what the content store is serving.
type ContentInfo struct {
	Posts    int `json:"posts"`
	Projects int `json:"projects"`
}

// RecentIssue is a retained warn-or-worse log record.
type RecentIssue struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get().Version,
		Checks:    make(map[string]Check),
	}

	snap := h.store.Snapshot()
	status.Content = ContentInfo{
		Posts:    len(snap.Posts),
		Projects: len(snap.Projects),
	}
	status.Checks["content"] = Check{Status: "ok"}

	if h.views != nil {
		start := time.Now()
		if err := h.views.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Checks["redis"] = Check{Status: "error", Message: err.Error()}
		} else {
			status.Checks["redis"] = Check{
				Status:  "ok",
				Latency: time.Since(start).Round(time.Millisecond).String(),
			}
		}
	} else {
		status.Checks["redis"] = Check{Status: "disabled"}
	}

	if h.recent != nil {
		for _, e := range h.recent.Recent() {
			status.Recent = append(status.Recent, RecentIssue{
				Time:    e.Time,
				Level:   e.Level,
				Message: e.Message,
			})
		}
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
