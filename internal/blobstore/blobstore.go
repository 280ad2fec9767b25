// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blobstore uploads media files and returns their public URLs.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotConfigured is returned by Put when no blob backend is configured.
var ErrNotConfigured = errors.New("blob store not configured")

// ErrInvalidKey is returned for keys that are empty or escape their namespace.
var ErrInvalidKey = errors.New("invalid blob key")

// Store uploads a blob under key and returns a URL that retrieves it.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Disabled rejects every upload with ErrNotConfigured.
type Disabled struct{}

// Put implements Store.
func (Disabled) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
