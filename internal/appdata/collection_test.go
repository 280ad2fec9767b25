// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package appdata

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalislam/dicms/internal/model"
)

// gatedSource holds the first FetchAll until release is closed, returning
// the items as they were when the fetch started.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu    sync.Mutex
	items []model.Project
	next  int
}

func newGatedSource(items ...model.Project) *gatedSource {
	return &gatedSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		items:   items,
	}
}

func (s *gatedSource) FetchAll(context.Context) ([]model.Project, error) {
	s.mu.Lock()
	snapshot := append([]model.Project(nil), s.items...)
	s.mu.Unlock()

	s.once.Do(func() { close(s.started) })
	<-s.release
	return snapshot, nil
}

func (s *gatedSource) Create(_ context.Context, p model.Project) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	p.ID = fmt.Sprintf("p%d", s.next)
	s.items = append(s.items, p)
	return p, nil
}

func (s *gatedSource) Update(context.Context, string, model.ProjectPatch) error { return nil }

func (s *gatedSource) Delete(context.Context, string) error { return nil }

func projectKind() Kind[model.Project] {
	return Kind[model.Project]{
		Name:   model.CollectionProjects,
		ID:     func(p model.Project) string { return p.ID },
		Policy: WriteThrough,
	}
}

func TestLoad_KeepsCreateDuringFetch(t *testing.T) {
	ctx := context.Background()
	src := newGatedSource(model.Project{ID: "remote", Title: "Existing"})
	c := NewCollection[model.Project, model.ProjectPatch](projectKind(), src, testLogger())

	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()
	<-src.started

	created, err := c.Create(ctx, model.Project{Title: "Added during reload"})
	require.NoError(t, err)

	close(src.release)
	require.NoError(t, <-done)

	assert.Equal(t, Ready, c.State())
	_, ok := c.Find(created.ID)
	assert.True(t, ok, "create landing during a fetch must survive it")

	// The next load has nothing racing it and takes the remote contents.
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 2, c.Len())
	_, ok = c.Find("remote")
	assert.True(t, ok)
	_, ok = c.Find(created.ID)
	assert.True(t, ok)
}

func TestLoad_ReplacesWhenUnchanged(t *testing.T) {
	src := newGatedSource(model.Project{ID: "remote", Title: "Existing"})
	close(src.release)
	c := NewCollection[model.Project, model.ProjectPatch](projectKind(), src, testLogger())

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, []model.Project{{ID: "remote", Title: "Existing"}}, c.Items())
}
