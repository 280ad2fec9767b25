// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/blobstore"
	"github.com/digitalislam/dicms/internal/content"
	"github.com/digitalislam/dicms/internal/docstore"
	"github.com/digitalislam/dicms/internal/payment"
)

// maxJSONBody bounds decoded JSON request bodies.
const maxJSONBody = 1 << 20

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total   int  `json:"total"`
	Loading bool `json:"loading,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// decodeJSON decodes the request body into dst. It writes a 400 response
// and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// writeStoreError maps a data store or provider error to a JSON error
// response and logs failures of remote collaborators.
func writeStoreError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, appdata.ErrNotCached):
		WriteNotFound(w, "Not found")
	case errors.Is(err, appdata.ErrUnknownCollection):
		WriteNotFound(w, "Unknown collection")
	case errors.Is(err, payment.ErrInvalidAmount):
		WriteValidationError(w, map[string]string{"pledge": "Please enter a valid amount"})
	case errors.Is(err, appdata.ErrNoFiles):
		WriteBadRequest(w, "No files uploaded", nil)
	case errors.Is(err, content.ErrUnsupportedType):
		WriteError(w, http.StatusUnsupportedMediaType, "bad_request", err.Error(), nil)
	case errors.Is(err, content.ErrFileTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "bad_request", err.Error(), nil)
	case errors.Is(err, content.ErrUnknownNamespace), errors.Is(err, blobstore.ErrInvalidKey):
		WriteBadRequest(w, err.Error(), nil)
	case errors.Is(err, blobstore.ErrNotConfigured), errors.Is(err, payment.ErrNotConfigured):
		logger.ErrorContext(r.Context(), op+" failed", "error", err)
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "This feature is not configured", nil)
	case errors.Is(err, payment.ErrProvider):
		logger.ErrorContext(r.Context(), op+" failed", "error", err)
		WriteError(w, http.StatusBadGateway, "bad_gateway", "Payment provider error", nil)
	default:
		logger.ErrorContext(r.Context(), op+" failed", "error", err)
		WriteError(w, http.StatusBadGateway, "bad_gateway", fmt.Sprintf("Could not %s", op), nil)
	}
}
