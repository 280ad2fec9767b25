// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// testStoreContract exercises the behavior every backend must share.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	col := fmt.Sprintf("contract_%s", t.Name())

	t.Run("empty collection", func(t *testing.T) {
		docs, err := s.FetchAll(ctx, col+"_empty")
		if err != nil {
			t.Fatalf("FetchAll: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("len = %d, want 0", len(docs))
		}
	})

	var ids []string
	t.Run("create keeps order", func(t *testing.T) {
		for _, title := range []string{"first", "second", "third"} {
			id, err := s.Create(ctx, col, Fields{"title": title})
			if err != nil {
				t.Fatalf("Create(%s): %v", title, err)
			}
			if id == "" {
				t.Fatal("Create returned empty id")
			}
			ids = append(ids, id)
		}

		docs, err := s.FetchAll(ctx, col)
		if err != nil {
			t.Fatalf("FetchAll: %v", err)
		}
		if len(docs) != 3 {
			t.Fatalf("len = %d, want 3", len(docs))
		}
		for i, want := range []string{"first", "second", "third"} {
			if docs[i].ID != ids[i] || docs[i].Fields["title"] != want {
				t.Errorf("docs[%d] = %s %v, want %s %s", i, docs[i].ID, docs[i].Fields["title"], ids[i], want)
			}
		}
	})

	t.Run("update merges", func(t *testing.T) {
		if err := s.Update(ctx, col, ids[0], Fields{"extra": "x"}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		doc, err := s.Get(ctx, col, ids[0])
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if doc.Fields["title"] != "first" || doc.Fields["extra"] != "x" {
			t.Errorf("fields = %v", doc.Fields)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		err := s.Update(ctx, col, "missing-id", Fields{"a": "b"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update error = %v, want ErrNotFound", err)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, col, "missing-id")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set merge and replace", func(t *testing.T) {
		if err := s.Set(ctx, col+"_set", "main", Fields{"a": "1", "b": "2"}, true); err != nil {
			t.Fatalf("Set create: %v", err)
		}
		if err := s.Set(ctx, col+"_set", "main", Fields{"b": "3"}, true); err != nil {
			t.Fatalf("Set merge: %v", err)
		}
		doc, err := s.Get(ctx, col+"_set", "main")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if doc.Fields["a"] != "1" || doc.Fields["b"] != "3" {
			t.Errorf("after merge = %v", doc.Fields)
		}

		if err := s.Set(ctx, col+"_set", "main", Fields{"c": "4"}, false); err != nil {
			t.Fatalf("Set replace: %v", err)
		}
		doc, err = s.Get(ctx, col+"_set", "main")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if _, ok := doc.Fields["a"]; ok || doc.Fields["c"] != "4" {
			t.Errorf("after replace = %v", doc.Fields)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if err := s.Delete(ctx, col, ids[1]); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := s.Delete(ctx, col, ids[1]); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		docs, err := s.FetchAll(ctx, col)
		if err != nil {
			t.Fatalf("FetchAll: %v", err)
		}
		if len(docs) != 2 || docs[0].ID != ids[0] || docs[1].ID != ids[2] {
			t.Errorf("remaining = %v", docs)
		}
	})
}
