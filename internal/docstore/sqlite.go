// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SQLite stores documents as JSON rows in the documents table created by
// the store migrations. Rows of a collection are returned in insertion order.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened and migrated database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// FetchAll implements Store.
func (s *SQLite) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]Document, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", collection, err)
		}
		fields, err := decodeFields(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", collection, err)
	}
	return docs, nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	fields, err := decodeFields(data)
	if err != nil {
		return Document{}, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Fields: fields}, nil
}

// Create implements Store.
func (s *SQLite) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	data, err := encodeFields(fields)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.insert(ctx, s.db, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Update implements Store.
func (s *SQLite) Update(ctx context.Context, collection, id string, fields Fields) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, found, err := s.lookup(ctx, tx, collection, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		for k, v := range fields {
			current[k] = v
		}
		return s.replace(ctx, tx, collection, id, current)
	})
}

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, found, err := s.lookup(ctx, tx, collection, id)
		if err != nil {
			return err
		}
		if !found {
			data, err := encodeFields(fields)
			if err != nil {
				return err
			}
			return s.insert(ctx, tx, collection, id, data)
		}
		if !merge {
			current = Fields{}
		}
		for k, v := range fields {
			current[k] = v
		}
		return s.replace(ctx, tx, collection, id, current)
	})
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (s *SQLite) Close() error {
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLite) insert(ctx context.Context, db execer, collection, id, data string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents WHERE collection = ?))`,
		collection, id, data, collection)
	if err != nil {
		return fmt.Errorf("inserting %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLite) replace(ctx context.Context, tx *sql.Tx, collection, id string, fields Fields) error {
	data, err := encodeFields(fields)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP
		WHERE collection = ? AND id = ?`, data, collection, id)
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLite) lookup(ctx context.Context, tx *sql.Tx, collection, id string) (Fields, bool, error) {
	var data string
	err := tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	fields, err := decodeFields(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return fields, true, nil
}

func (s *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func encodeFields(fields Fields) (string, error) {
	if fields == nil {
		fields = Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding fields: %w", err)
	}
	return string(data), nil
}

func decodeFields(data string) (Fields, error) {
	fields := Fields{}
	if data == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
