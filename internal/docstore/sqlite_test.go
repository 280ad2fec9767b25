// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/digitalislam/dicms/internal/store"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLite(db)
}

func TestSQLite_StoreContract(t *testing.T) {
	testStoreContract(t, newTestSQLite(t))
}

func TestSQLite_NumbersRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	id, err := s.Create(ctx, "projects", Fields{"goal": 50000, "raised": 12.5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	doc, err := s.Get(ctx, "projects", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Fields["goal"] != float64(50000) || doc.Fields["raised"] != 12.5 {
		t.Errorf("fields = %v", doc.Fields)
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	if _, err := Open(ctx, Config{Backend: BackendSQLite}); err == nil {
		t.Error("Open(sqlite) without database should fail")
	}
	if _, err := Open(ctx, Config{Backend: BackendFirestore}); err == nil {
		t.Error("Open(firestore) without firebase app should fail")
	}
	if _, err := Open(ctx, Config{Backend: BackendDynamoDB}); err == nil {
		t.Error("Open(dynamodb) without table should fail")
	}
	if _, err := Open(ctx, Config{Backend: "mongo"}); err == nil {
		t.Error("Open(unknown) should fail")
	}
}
