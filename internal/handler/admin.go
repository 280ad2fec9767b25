// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/model"
)

// maxBatchFiles bounds the number of files in one gallery upload.
const maxBatchFiles = 20

// listItems writes a cached collection.
func (h *Handler) listItems(w http.ResponseWriter, items any, n int) {
	WriteSuccess(w, items, &Meta{Total: n, Loading: h.data.Loading()})
}

// createHandler returns a handler creating one entity in c from a JSON body.
func createHandler[E, P any](h *Handler, c *appdata.Collection[E, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item E
		if !decodeJSON(w, r, &item) {
			return
		}
		created, err := c.Create(r.Context(), item)
		if err != nil {
			writeStoreError(w, r, h.logger, "create "+c.Name(), err)
			return
		}
		h.logger.InfoContext(r.Context(), "entity created", "collection", c.Name(), "admin", adminEmail(r))
		WriteCreated(w, created)
	}
}

// updateHandler returns a handler applying a JSON patch to /{id} in c.
func updateHandler[E, P any](h *Handler, c *appdata.Collection[E, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch P
		if !decodeJSON(w, r, &patch) {
			return
		}
		updated, err := c.Update(r.Context(), id, patch)
		if err != nil {
			writeStoreError(w, r, h.logger, "update "+c.Name(), err)
			return
		}
		h.logger.InfoContext(r.Context(), "entity updated", "collection", c.Name(), "id", id, "admin", adminEmail(r))
		WriteSuccess(w, updated, nil)
	}
}

// deleteHandler returns a handler deleting /{id} from c.
func deleteHandler[E, P any](h *Handler, c *appdata.Collection[E, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := c.Delete(r.Context(), id); err != nil {
			writeStoreError(w, r, h.logger, "delete from "+c.Name(), err)
			return
		}
		h.logger.InfoContext(r.Context(), "entity deleted", "collection", c.Name(), "id", id, "admin", adminEmail(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

// listHandler returns a handler writing the cached items of c.
func listHandler[E, P any](h *Handler, c *appdata.Collection[E, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.listItems(w, c.Items(), c.Len())
	}
}

// Hero handles GET /api/admin/hero.
func (h *Handler) Hero(w http.ResponseWriter, _ *http.Request) {
	hero, _ := h.data.Hero.Get()
	WriteSuccess(w, hero, nil)
}

// UpdateHero handles PATCH /api/admin/hero.
func (h *Handler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	var patch model.HeroPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	hero, err := h.data.Hero.Update(r.Context(), patch)
	if err != nil {
		writeStoreError(w, r, h.logger, "update hero content", err)
		return
	}
	h.logger.InfoContext(r.Context(), "hero content updated", "admin", adminEmail(r))
	WriteSuccess(w, hero, nil)
}

// UpdateHeroMedia handles POST /api/admin/hero/media (multipart "file").
func (h *Handler) UpdateHeroMedia(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r, 1) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		WriteBadRequest(w, "No file uploaded", map[string]string{"file": "required"})
		return
	}
	f, closeFile, err := openPart(headers[0])
	if err != nil {
		WriteBadRequest(w, "Unreadable file", nil)
		return
	}
	defer closeFile()

	hero, err := h.data.UpdateHeroMedia(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, h.logger, "update hero media", err)
		return
	}
	h.logger.InfoContext(r.Context(), "hero media updated", "url", hero.MediaURL, "admin", adminEmail(r))
	WriteSuccess(w, hero, nil)
}

type batchResponse struct {
	Items []model.GalleryItem `json:"items"`
	Error string              `json:"error,omitempty"`
}

// UploadGallery handles POST /api/admin/gallery/batch (multipart "files"
// plus "title" and "category"). Files are stored one at a time; on failure
// the items stored before it are reported with the error.
func (h *Handler) UploadGallery(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r, maxBatchFiles) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) > maxBatchFiles {
		WriteBadRequest(w, "Too many files", map[string]string{"files": "at most 20 files per upload"})
		return
	}

	files := make([]appdata.File, 0, len(headers))
	for _, fh := range headers {
		f, closeFile, err := openPart(fh)
		if err != nil {
			WriteBadRequest(w, "Unreadable file", map[string]string{"files": fh.Filename})
			return
		}
		defer closeFile()
		files = append(files, f)
	}

	batch := appdata.GalleryBatch{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
	}
	created, err := h.data.UploadGallery(r.Context(), batch, files)
	if err != nil {
		if len(created) == 0 {
			writeStoreError(w, r, h.logger, "upload gallery media", err)
			return
		}
		h.logger.ErrorContext(r.Context(), "gallery upload stopped", "stored", len(created), "total", len(files), "error", err)
		WriteJSON(w, http.StatusBadGateway, Response{
			Data: batchResponse{Items: created, Error: err.Error()},
			Meta: &Meta{Total: len(created)},
		})
		return
	}
	h.logger.InfoContext(r.Context(), "gallery media uploaded", "count", len(created), "admin", adminEmail(r))
	WriteJSON(w, http.StatusCreated, Response{
		Data: batchResponse{Items: created},
		Meta: &Meta{Total: len(created)},
	})
}

// SeedProjects handles POST /api/admin/projects/seed. Seeding is refused
// while projects exist.
func (h *Handler) SeedProjects(w http.ResponseWriter, r *http.Request) {
	if h.data.Projects.Len() > 0 {
		WriteConflict(w, "Projects already exist")
		return
	}
	err := h.data.SeedDefaults(r.Context())
	if err != nil {
		writeStoreError(w, r, h.logger, "seed projects", err)
		return
	}
	h.logger.InfoContext(r.Context(), "default projects seeded", "admin", adminEmail(r))
	WriteJSON(w, http.StatusCreated, Response{
		Data: h.data.Projects.Items(),
		Meta: &Meta{Total: h.data.Projects.Len()},
	})
}

// Volunteers handles GET /api/admin/volunteers.
func (h *Handler) Volunteers(w http.ResponseWriter, _ *http.Request) {
	h.listItems(w, h.data.Volunteers.Items(), h.data.Volunteers.Len())
}

// Donors handles GET /api/admin/donors.
func (h *Handler) Donors(w http.ResponseWriter, _ *http.Request) {
	h.listItems(w, h.data.Donors.Items(), h.data.Donors.Len())
}

type statusResponse struct {
	Loading     bool                       `json:"loading"`
	Collections []appdata.CollectionStatus `json:"collections"`
	LastInit    *appdata.InitReport        `json:"lastInit,omitempty"`
}

// Status handles GET /api/admin/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{Loading: h.data.Loading(), Collections: h.data.Status()}
	if report, ok := h.data.LastReport(); ok {
		resp.LastInit = &report
	}
	WriteSuccess(w, resp, nil)
}

// Collection handles GET /api/admin/collections/{name}.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	items, err := h.data.List(chi.URLParam(r, "name"))
	if err != nil {
		writeStoreError(w, r, h.logger, "list collection", err)
		return
	}
	WriteSuccess(w, items, nil)
}

// ReloadCollection handles POST /api/admin/collections/{name}/reload.
func (h *Handler) ReloadCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.data.Reload(r.Context(), name); err != nil {
		writeStoreError(w, r, h.logger, "reload "+name, err)
		return
	}
	items, err := h.data.List(name)
	if err != nil {
		writeStoreError(w, r, h.logger, "list collection", err)
		return
	}
	WriteSuccess(w, items, nil)
}

// parseMultipart limits and parses a multipart body of up to n files.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request, n int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, n*h.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "bad_request", "Upload too large", nil)
			return false
		}
		WriteBadRequest(w, "Invalid multipart form", nil)
		return false
	}
	return true
}

// openPart opens one uploaded file.
func openPart(fh *multipart.FileHeader) (appdata.File, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return appdata.File{}, nil, err
	}
	return appdata.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
