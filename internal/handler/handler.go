// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the JSON API of the public site and the admin
// panel.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/auth"
	"github.com/digitalislam/dicms/internal/content"
	"github.com/digitalislam/dicms/internal/middleware"
	"github.com/digitalislam/dicms/internal/model"
	"github.com/digitalislam/dicms/internal/service"
)

// Deps are the collaborators of the API handlers.
type Deps struct {
	Data        *appdata.Store
	Donations   *service.Donations
	Volunteers  *service.Volunteers
	Reflections *service.Reflections
	Verifier    auth.Verifier
	Allowlist   *auth.Allowlist
	// Sessions is optional. Without it only bearer tokens authenticate
	// admin requests.
	Sessions *scs.SessionManager
	Site     model.SiteInfo
	// MaxUploadSize is the per-file upload limit.
	MaxUploadSize int64
	Logger        *slog.Logger
}

// Handler serves the JSON API.
type Handler struct {
	data        *appdata.Store
	donations   *service.Donations
	volunteers  *service.Volunteers
	reflections *service.Reflections
	verifier    auth.Verifier
	allowlist   *auth.Allowlist
	sessions    *scs.SessionManager
	site        model.SiteInfo
	maxUpload   int64
	logger      *slog.Logger
}

// New creates the API handler.
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.MaxUploadSize <= 0 {
		d.MaxUploadSize = content.DefaultMaxUploadSize
	}
	return &Handler{
		data:        d.Data,
		donations:   d.Donations,
		volunteers:  d.Volunteers,
		reflections: d.Reflections,
		verifier:    d.Verifier,
		allowlist:   d.Allowlist,
		sessions:    d.Sessions,
		site:        d.Site,
		maxUpload:   d.MaxUploadSize,
		logger:      d.Logger,
	}
}

// adminEmail returns the signed-in admin for audit log lines.
func adminEmail(r *http.Request) string {
	if id := middleware.AdminFromContext(r.Context()); id != nil {
		return id.Email
	}
	return ""
}
