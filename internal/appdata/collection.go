// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package appdata

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/digitalislam/dicms/internal/content"
)

// Source is the remote side of a cached collection.
type Source[E, P any] interface {
	FetchAll(ctx context.Context) ([]E, error)
	Create(ctx context.Context, item E) (E, error)
	Update(ctx context.Context, id string, patch P) error
	Delete(ctx context.Context, id string) error
}

// Kind describes a cached collection.
type Kind[E any] struct {
	Name   string
	ID     func(E) string
	Policy UpdatePolicy
}

// Collection is an in-process materialized view of one remote collection.
// Mutations go to the source first (or concurrently, for optimistic
// policies) and apply the same delta to the cache.
type Collection[E, P any] struct {
	kind   Kind[E]
	src    Source[E, P]
	logger *slog.Logger

	mu      sync.RWMutex
	state   State
	items   []E
	version uint64
}

// NewCollection creates an uninitialized collection.
func NewCollection[E, P any](kind Kind[E], src Source[E, P], logger *slog.Logger) *Collection[E, P] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[E, P]{
		kind:   kind,
		src:    src,
		logger: logger.With("collection", kind.Name),
	}
}

// Name returns the collection name.
func (c *Collection[E, P]) Name() string {
	return c.kind.Name
}

// Policy returns the update policy.
func (c *Collection[E, P]) Policy() UpdatePolicy {
	return c.kind.Policy
}

// State returns the lifecycle state.
func (c *Collection[E, P]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Items returns a copy of the cached entities.
func (c *Collection[E, P]) Items() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len returns the number of cached entities.
func (c *Collection[E, P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the cached entity with id.
func (c *Collection[E, P]) Find(id string) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero E
	return zero, false
}

// Load replaces the cache with a fresh fetch. On failure the previous
// contents are kept and the collection still becomes Ready. If the cache was
// mutated while the fetch was in flight the fetched items are discarded, so a
// mutation is never lost to an older snapshot; the next load picks them up.
func (c *Collection[E, P]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = Loading
	started := c.version
	c.mu.Unlock()

	items, err := c.src.FetchAll(ctx)

	c.mu.Lock()
	stale := c.version != started
	if err == nil && !stale {
		c.items = items
		c.version++
	}
	c.state = Ready
	c.mu.Unlock()

	switch {
	case err != nil:
		c.logger.Error("failed to load collection", "error", err)
		return fmt.Errorf("loading %s: %w", c.kind.Name, err)
	case stale:
		c.logger.Warn("collection changed during load, keeping cached items")
	default:
		c.logger.Debug("collection loaded", "items", len(items))
	}
	return nil
}

// Create stores item and appends the stored entity, identifier included.
// On failure the cache is untouched.
func (c *Collection[E, P]) Create(ctx context.Context, item E) (E, error) {
	created, err := c.src.Create(ctx, item)
	if err != nil {
		var zero E
		return zero, err
	}

	c.mu.Lock()
	c.items = append(c.items, created)
	c.version++
	c.mu.Unlock()

	return created, nil
}

// Update applies patch to the entity with id according to the collection's
// update policy and returns the merged entity. Entities missing from the
// cache yield ErrNotCached without a store call.
func (c *Collection[E, P]) Update(ctx context.Context, id string, patch P) (E, error) {
	var zero E

	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return zero, fmt.Errorf("%s/%s: %w", c.kind.Name, id, ErrNotCached)
	}
	before := c.items[i]
	merged, err := content.Merge(before, patch)
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}
	var applied uint64
	if c.kind.Policy != WriteThrough {
		c.items[i] = merged
		c.version++
		applied = c.version
	}
	c.mu.Unlock()

	if err := c.src.Update(ctx, id, patch); err != nil {
		c.onUpdateFailure(id, before, applied, err)
		return zero, err
	}

	if c.kind.Policy == WriteThrough {
		c.mu.Lock()
		if i := c.index(id); i >= 0 {
			if m, err := content.Merge(c.items[i], patch); err == nil {
				c.items[i] = m
				merged = m
				c.version++
			}
		}
		c.mu.Unlock()
	}
	return merged, nil
}

func (c *Collection[E, P]) onUpdateFailure(id string, before E, applied uint64, err error) {
	switch c.kind.Policy {
	case Optimistic:
		c.logger.Warn("optimistic update not persisted, cache diverges until reload", "id", id, "error", err)
	case OptimisticRevert:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.version != applied {
			c.logger.Warn("optimistic update not persisted, newer change kept", "id", id, "error", err)
			return
		}
		if i := c.index(id); i >= 0 {
			c.items[i] = before
			c.version++
		}
	}
}

// Delete removes the entity with id from the store and then from the cache.
func (c *Collection[E, P]) Delete(ctx context.Context, id string) error {
	if err := c.src.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if i := c.index(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
		c.version++
	}
	c.mu.Unlock()
	return nil
}

// index must be called with c.mu held.
func (c *Collection[E, P]) index(id string) int {
	return slices.IndexFunc(c.items, func(e E) bool { return c.kind.ID(e) == id })
}

// AppendOnly is a cached collection that only supports reads and creates.
type AppendOnly[E any] struct {
	c *Collection[E, struct{}]
}

// NewAppendOnly creates an uninitialized append-only collection.
func NewAppendOnly[E any](kind Kind[E], src Source[E, struct{}], logger *slog.Logger) *AppendOnly[E] {
	return &AppendOnly[E]{c: NewCollection(kind, src, logger)}
}

// Name returns the collection name.
func (a *AppendOnly[E]) Name() string { return a.c.Name() }

// State returns the lifecycle state.
func (a *AppendOnly[E]) State() State { return a.c.State() }

// Items returns a copy of the cached entities.
func (a *AppendOnly[E]) Items() []E { return a.c.Items() }

// Len returns the number of cached entities.
func (a *AppendOnly[E]) Len() int { return a.c.Len() }

// Load replaces the cache with a fresh fetch.
func (a *AppendOnly[E]) Load(ctx context.Context) error { return a.c.Load(ctx) }

// Create stores item and appends it to the cache.
func (a *AppendOnly[E]) Create(ctx context.Context, item E) (E, error) {
	return a.c.Create(ctx, item)
}
