// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrInjected is the default error returned by Memory after FailNext.
var ErrInjected = errors.New("injected upload failure")

// MemoryBaseURL prefixes URLs returned by Memory.
const MemoryBaseURL = "https://blobs.test/"

// Blob is an object held by Memory.
type Blob struct {
	ContentType string
	Data        []byte
}

// Memory keeps uploads in process. Used by tests and the memory deployment.
type Memory struct {
	mu       sync.Mutex
	blobs    map[string]Blob
	order    []string
	failures []error
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]Blob)}
}

// FailNext makes the next Put fail with err (ErrInjected if nil).
func (m *Memory) FailNext(err error) {
	if err == nil {
		err = ErrInjected
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, err)
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	m.mu.Lock()
	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		m.mu.Unlock()
		return "", err
	}
	m.mu.Unlock()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.blobs[key]; !exists {
		m.order = append(m.order, key)
	}
	m.blobs[key] = Blob{ContentType: contentType, Data: data}
	return MemoryBaseURL + escapeSegments(key), nil
}

// Get returns a stored blob.
func (m *Memory) Get(key string) (Blob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	return b, ok
}

// Keys returns the keys of all stored blobs in upload order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
