// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// downloadTokenKey is the object metadata key Firebase Storage reads
// download tokens from.
const downloadTokenKey = "firebaseStorageDownloadTokens"

const firebaseDownloadBase = "https://firebasestorage.googleapis.com/v0/b/"

// Firebase uploads to a Firebase Storage bucket and returns token download
// URLs in the same shape the Firebase client SDKs produce.
type Firebase struct {
	bucket     *storage.BucketHandle
	bucketName string
	newToken   func() string
}

// NewFirebase wraps a bucket handle. bucketName is the bucket the handle
// refers to (e.g., "my-project.appspot.com").
func NewFirebase(bucket *storage.BucketHandle, bucketName string) *Firebase {
	return &Firebase{bucket: bucket, bucketName: bucketName, newToken: uuid.NewString}
}

// Put implements Store.
func (f *Firebase) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	token := f.newToken()
	w := f.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokenKey: token}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing %s: %w", key, err)
	}

	return firebaseDownloadURL(f.bucketName, key, token), nil
}

func firebaseDownloadURL(bucket, key, token string) string {
	return firebaseDownloadBase + url.PathEscape(bucket) + "/o/" + url.PathEscape(key) +
		"?alt=media&token=" + url.QueryEscape(token)
}
