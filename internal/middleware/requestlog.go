// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs completed requests through slog. Client errors and
// server errors are raised to warn and error so they land in the recent
// issues buffer.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond).String(),
			}

			switch {
			case ww.Status() >= 500:
				logger.Error("request failed", attrs...)
			case ww.Status() == http.StatusTooManyRequests:
				logger.Warn("request throttled", attrs...)
			default:
				logger.Debug("request", attrs...)
			}
		})
	}
}
