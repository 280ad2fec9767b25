// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Local writes blobs below a directory that the HTTP server exposes at BaseURL.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates a local blob store. baseURL is the public prefix under
// which dir is served (e.g., "http://localhost:8080/uploads").
func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the directory blobs are written to.
func (l *Local) Dir() string {
	return l.dir
}

// Put implements Store.
func (l *Local) Put(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filePath := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(filePath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return l.baseURL + "/" + escapeSegments(key), nil
}

func escapeSegments(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
