// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrInjected is the default error returned by Memory after FailNext.
var ErrInjected = errors.New("injected failure")

// Operation names used for fault injection and call counting.
const (
	OpFetchAll = "fetch_all"
	OpGet      = "get"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpSet      = "set"
	OpDelete   = "delete"
)

// Memory is an in-process Store. It keeps insertion order per collection and
// supports fault injection, which makes it the backend of choice for tests
// and for running the service without any external database.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
	failures    map[string][]error
	calls       map[string]int
}

type memCollection struct {
	order []string
	docs  map[string]Fields
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]*memCollection),
		failures:    make(map[string][]error),
		calls:       make(map[string]int),
	}
}

// FailNext makes the next call of op fail with err (ErrInjected if nil).
// Repeated calls queue further failures.
func (m *Memory) FailNext(op string, err error) {
	if err == nil {
		err = ErrInjected
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], err)
}

// Calls returns how many times op has been invoked, failed calls included.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Len returns the number of documents in a collection.
func (m *Memory) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.collections[collection]; ok {
		return len(c.order)
	}
	return 0
}

// enter must be called with m.mu held.
func (m *Memory) enter(op string) error {
	m.calls[op]++
	if queued := m.failures[op]; len(queued) > 0 {
		m.failures[op] = queued[1:]
		return queued[0]
	}
	return nil
}

func (m *Memory) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]Fields)}
		m.collections[name] = c
	}
	return c
}

// FetchAll implements Store.
func (m *Memory) FetchAll(_ context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpFetchAll); err != nil {
		return nil, err
	}

	c := m.collection(collection)
	docs := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, Document{ID: id, Fields: c.docs[id].Clone()})
	}
	return docs, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpGet); err != nil {
		return Document{}, err
	}

	fields, ok := m.collection(collection).docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: fields.Clone()}, nil
}

// Create implements Store.
func (m *Memory) Create(_ context.Context, collection string, fields Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpCreate); err != nil {
		return "", err
	}

	id := uuid.NewString()
	c := m.collection(collection)
	c.order = append(c.order, id)
	c.docs[id] = fields.Clone()
	return id, nil
}

// Update implements Store.
func (m *Memory) Update(_ context.Context, collection, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpUpdate); err != nil {
		return err
	}

	existing, ok := m.collection(collection).docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, collection, id string, fields Fields, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpSet); err != nil {
		return err
	}

	c := m.collection(collection)
	existing, ok := c.docs[id]
	if !ok {
		c.order = append(c.order, id)
		c.docs[id] = fields.Clone()
		return nil
	}
	if !merge {
		c.docs[id] = fields.Clone()
		return nil
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpDelete); err != nil {
		return err
	}

	c := m.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
