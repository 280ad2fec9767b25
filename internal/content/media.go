// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"

	"github.com/digitalislam/dicms/internal/blobstore"
)

// Upload namespaces. They prefix the blob key of every upload.
const (
	NamespaceLandingPage = "landing_page"
	NamespaceGallery     = "gallery"
)

// DefaultMaxUploadSize is the upload size limit when none is configured.
const DefaultMaxUploadSize = 100 << 20

// Upload validation errors.
var (
	ErrUnknownNamespace = errors.New("unknown upload namespace")
	ErrUnsupportedType  = errors.New("only image and video files are accepted")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
)

// MediaUploader stores media files in the blob store.
type MediaUploader struct {
	blobs   blobstore.Store
	maxSize int64
	now     func() time.Time
}

// MediaOption configures a MediaUploader.
type MediaOption func(*MediaUploader)

// WithMaxSize sets the largest accepted upload in bytes.
func WithMaxSize(n int64) MediaOption {
	return func(u *MediaUploader) {
		if n > 0 {
			u.maxSize = n
		}
	}
}

// WithClock sets the time source used for upload key timestamps.
func WithClock(now func() time.Time) MediaOption {
	return func(u *MediaUploader) { u.now = now }
}

// NewMediaUploader creates an uploader on blobs.
func NewMediaUploader(blobs blobstore.Store, opts ...MediaOption) *MediaUploader {
	u := &MediaUploader{
		blobs:   blobs,
		maxSize: DefaultMaxUploadSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload stores body under "<namespace>/<unix millis>_<filename>" and returns
// its public URL.
func (u *MediaUploader) Upload(ctx context.Context, namespace, filename, contentType string, body io.Reader) (string, error) {
	if namespace != NamespaceLandingPage && namespace != NamespaceGallery {
		return "", fmt.Errorf("%w: %q", ErrUnknownNamespace, namespace)
	}
	if !isMediaType(contentType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	// Buffer so that size is checked before anything reaches the store and
	// backends that need a seekable body get one.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, u.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if n > u.maxSize {
		return "", ErrFileTooLarge
	}

	key := u.Key(namespace, filename)
	url, err := u.blobs.Put(ctx, key, contentType, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", err
	}
	return url, nil
}

// Key returns the blob key an upload of filename would be stored under now.
func (u *MediaUploader) Key(namespace, filename string) string {
	return namespace + "/" + strconv.FormatInt(u.now().UnixMilli(), 10) + "_" + sanitizeFilename(filename)
}

func isMediaType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/")
}

func sanitizeFilename(filename string) string {
	// Remove path separators
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		filename = ""
	}

	filename = unidecode.Unidecode(filename)

	replacer := strings.NewReplacer(
		" ", "-",
		"/", "",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)
	filename = strings.TrimLeft(filename, ".")

	if filename == "" {
		filename = "upload"
	}
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	return filename
}
