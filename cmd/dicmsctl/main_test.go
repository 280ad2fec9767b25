// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/content"
	"github.com/digitalislam/dicms/internal/docstore"
	"github.com/digitalislam/dicms/internal/model"
)

func memoryOpener(docs *docstore.Memory) openFunc {
	return func(context.Context) (*appdata.Store, func(), error) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		return appdata.New(content.NewLayer(docs, nil), logger), func() {}, nil
	}
}

func execute(t *testing.T, docs *docstore.Memory, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd(memoryOpener(docs), &out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedProjects(t *testing.T) {
	docs := docstore.NewMemory()

	out, err := execute(t, docs, "seed-projects")
	require.NoError(t, err)
	assert.Contains(t, out, "3 total")
	assert.Equal(t, 3, docs.Len(model.CollectionProjects))

	_, err = execute(t, docs, "seed-projects")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exist")

	_, err = execute(t, docs, "seed-projects", "--force")
	require.NoError(t, err)
	assert.Equal(t, 6, docs.Len(model.CollectionProjects))
}

func TestList(t *testing.T) {
	docs := docstore.NewMemory()
	_, err := docs.Create(context.Background(), model.CollectionVolunteers, docstore.Fields{"name": "Fatmata"})
	require.NoError(t, err)

	out, err := execute(t, docs, "list", model.CollectionVolunteers)
	require.NoError(t, err)

	var got []model.Volunteer
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Fatmata", got[0].Name)

	_, err = execute(t, docs, "list", "pages")
	assert.ErrorIs(t, err, appdata.ErrUnknownCollection)
}

func TestList_LoadFailure(t *testing.T) {
	docs := docstore.NewMemory()
	docs.FailNext(docstore.OpFetchAll, nil)

	_, err := execute(t, docs, "list", model.CollectionProjects)
	assert.ErrorIs(t, err, docstore.ErrInjected)
}

func TestStatus(t *testing.T) {
	docs := docstore.NewMemory()
	out, err := execute(t, docs, "status")
	require.NoError(t, err)
	assert.Contains(t, out, model.CollectionHero)
	assert.Contains(t, out, "ready")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, docstore.NewMemory(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dicmsctl dev")
}
