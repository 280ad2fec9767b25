// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/digitalislam/dicms/internal/session"
)

type sessionRequest struct {
	IDToken string `json:"idToken"`
}

// CreateSession handles POST /api/admin/session. It exchanges an identity
// token for a session cookie.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "Sessions are not configured", nil)
		return
	}
	var req sessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		h.logger.WarnContext(r.Context(), "admin sign-in rejected", "error", err)
		WriteUnauthorized(w, "Invalid or expired token")
		return
	}
	if !h.allowlist.Allowed(id) {
		h.logger.WarnContext(r.Context(), "admin sign-in denied", "email", id.Email)
		WriteForbidden(w, "Not an administrator")
		return
	}

	if err := session.Login(r.Context(), h.sessions, id); err != nil {
		h.logger.ErrorContext(r.Context(), "creating admin session", "error", err)
		WriteInternalError(w, "Could not create session")
		return
	}
	h.logger.InfoContext(r.Context(), "admin signed in", "email", id.Email)
	WriteSuccess(w, id, nil)
}

// DeleteSession handles DELETE /api/admin/session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := session.Logout(r.Context(), h.sessions); err != nil {
		h.logger.ErrorContext(r.Context(), "destroying admin session", "error", err)
		WriteInternalError(w, "Could not sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
