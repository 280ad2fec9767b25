// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/digitalislam/dicms/internal/auth"
	"github.com/digitalislam/dicms/internal/session"
)

// AdminAuthConfig configures RequireAdmin.
type AdminAuthConfig struct {
	Verifier  auth.Verifier
	Allowlist *auth.Allowlist
	// Sessions is optional. When set, a signed-in session is accepted in
	// place of a bearer token.
	Sessions *scs.SessionManager
	Logger   *slog.Logger
}

// RequireAdmin creates middleware that requires a verified admin, either
// from an "Authorization: Bearer" ID token or from the session.
func RequireAdmin(cfg AdminAuthConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id *auth.Identity
			if token := auth.BearerToken(r.Header.Get("Authorization")); token != "" {
				verified, err := cfg.Verifier.Verify(r.Context(), token)
				if err != nil {
					logger.WarnContext(r.Context(), "admin token rejected", "error", err, "ip", getClientIP(r))
					WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token", nil)
					return
				}
				id = verified
			} else if cfg.Sessions != nil {
				id = session.Identity(r.Context(), cfg.Sessions)
			}

			if id == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}
			if !cfg.Allowlist.Allowed(id) {
				logger.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"email", id.Email,
					"ip", getClientIP(r),
				)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Not an administrator", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdmin, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the admin stored by RequireAdmin, or nil.
func AdminFromContext(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(ContextKeyAdmin).(*auth.Identity)
	return id
}
