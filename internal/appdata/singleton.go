// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package appdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/digitalislam/dicms/internal/content"
)

// SingletonSource is the remote side of a cached singleton document.
type SingletonSource[E, P any] interface {
	Get(ctx context.Context) (E, bool, error)
	Update(ctx context.Context, patch P) error
}

// Singleton caches one document stored under a fixed identifier.
type Singleton[E, P any] struct {
	name   string
	policy UpdatePolicy
	src    SingletonSource[E, P]
	logger *slog.Logger

	mu      sync.RWMutex
	state   State
	value   E
	exists  bool
	version uint64
}

// NewSingleton creates an uninitialized singleton.
func NewSingleton[E, P any](name string, policy UpdatePolicy, src SingletonSource[E, P], logger *slog.Logger) *Singleton[E, P] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Singleton[E, P]{
		name:   name,
		policy: policy,
		src:    src,
		logger: logger.With("collection", name),
	}
}

// Name returns the collection name.
func (s *Singleton[E, P]) Name() string {
	return s.name
}

// Policy returns the update policy.
func (s *Singleton[E, P]) Policy() UpdatePolicy {
	return s.policy
}

// State returns the lifecycle state.
func (s *Singleton[E, P]) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Get returns the cached value and whether the document exists.
func (s *Singleton[E, P]) Get() (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.exists
}

// Load replaces the cached value with a fresh read. On failure the previous
// value is kept and the singleton still becomes Ready.
func (s *Singleton[E, P]) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state = Loading
	s.mu.Unlock()

	value, exists, err := s.src.Get(ctx)

	s.mu.Lock()
	if err == nil {
		s.value, s.exists = value, exists
		s.version++
	}
	s.state = Ready
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to load document", "error", err)
		return fmt.Errorf("loading %s: %w", s.name, err)
	}
	return nil
}

// Update merges patch into the document according to the update policy and
// returns the merged value.
func (s *Singleton[E, P]) Update(ctx context.Context, patch P) (E, error) {
	var zero E

	s.mu.Lock()
	before, existed := s.value, s.exists
	merged, err := content.Merge(before, patch)
	if err != nil {
		s.mu.Unlock()
		return zero, err
	}
	var applied uint64
	if s.policy != WriteThrough {
		s.value, s.exists = merged, true
		s.version++
		applied = s.version
	}
	s.mu.Unlock()

	if err := s.src.Update(ctx, patch); err != nil {
		switch s.policy {
		case Optimistic:
			s.logger.Warn("optimistic update not persisted, cache diverges until reload", "error", err)
		case OptimisticRevert:
			s.mu.Lock()
			if s.version == applied {
				s.value, s.exists = before, existed
				s.version++
			} else {
				s.logger.Warn("optimistic update not persisted, newer change kept", "error", err)
			}
			s.mu.Unlock()
		}
		return zero, err
	}

	if s.policy == WriteThrough {
		s.mu.Lock()
		if m, err := content.Merge(s.value, patch); err == nil {
			merged = m
		}
		s.value, s.exists = merged, true
		s.version++
		s.mu.Unlock()
	}
	return merged, nil
}
