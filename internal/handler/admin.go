// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/olegiv/nebula/internal/content"
)

// AdminHandler handles the content reload endpoint.
type AdminHandler struct {
	store  *content.Store
	secret string
	logger *slog.Logger
}

// NewAdmin creates the admin handler. An empty secret disables reload.
func NewAdmin(store *content.Store, secret string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		secret: secret,
		logger: logger,
	}
}

// Reload handles POST /admin/reload?secret=... Authorization failures are
// rejected before any load work and are distinguishable from load
// failures, which keep the previous content serving.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	supplied := r.URL.Query().Get("secret")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.secret)) != 1 {
		h.logger.Warn("reload rejected: bad secret")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.store.Reload(); err != nil {
		h.logger.Error("content reload failed", "error", err)
		http.Error(w, "Reload failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("reloaded\n"))
}
