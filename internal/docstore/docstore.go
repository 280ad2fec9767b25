// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package docstore provides access to the remote document database.
//
// A Store holds flat, named collections of schemaless documents. Every
// document has a store-assigned identifier. Implementations perform exactly
// one remote call per method and never retry.
package docstore

import (
	"context"
	"errors"
	"maps"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Fields holds the stored fields of a document, excluding its identifier.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Document is a stored document together with its identifier.
type Document struct {
	ID     string
	Fields Fields
}

// Store defines the operations of the remote document database.
// All implementations must be safe for concurrent use.
type Store interface {
	// FetchAll returns every document in the collection, in backend order.
	FetchAll(ctx context.Context, collection string) ([]Document, error)

	// Get returns one document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Create stores a new document and returns its assigned identifier.
	Create(ctx context.Context, collection string, fields Fields) (string, error)

	// Update merges fields into an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Set writes a document under a fixed identifier. With merge, fields are
	// merged into any existing document; otherwise the document is replaced.
	Set(ctx context.Context, collection, id string, fields Fields, merge bool) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Close releases resources held by the store.
	Close() error
}
