// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/digitalislam/dicms/internal/model"
)

// Content handles GET /api/content.
func (h *Handler) Content(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.data.Snapshot(), nil)
}

// Site handles GET /api/site.
func (h *Handler) Site(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.site, nil)
}

// CreateVolunteer handles POST /api/volunteers.
func (h *Handler) CreateVolunteer(w http.ResponseWriter, r *http.Request) {
	var form model.Volunteer
	if !decodeJSON(w, r, &form) {
		return
	}
	v, err := h.volunteers.SignUp(r.Context(), form)
	if err != nil {
		writeStoreError(w, r, h.logger, "save volunteer", err)
		return
	}
	WriteCreated(w, v)
}

// CreateDonation handles POST /api/donations. The response carries the
// checkout page to redirect the donor to.
func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var form model.Donor
	if !decodeJSON(w, r, &form) {
		return
	}
	res, err := h.donations.Pledge(r.Context(), form)
	if err != nil {
		writeStoreError(w, r, h.logger, "start donation", err)
		return
	}
	WriteCreated(w, res)
}

type reflectionResponse struct {
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

// Inspiration handles GET /api/reflections?topic=.
func (h *Handler) Inspiration(w http.ResponseWriter, r *http.Request) {
	text := h.reflections.Inspiration(r.Context(), r.URL.Query().Get("topic"))
	WriteSuccess(w, reflectionResponse{Text: text, Enabled: h.reflections.Enabled()}, nil)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/reflections/ask.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		WriteValidationError(w, map[string]string{"question": "Question is required"})
		return
	}
	text := h.reflections.Ask(r.Context(), question)
	WriteSuccess(w, reflectionResponse{Text: text, Enabled: h.reflections.Enabled()}, nil)
}
