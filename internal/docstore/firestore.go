// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is the hosted document database backend.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps a Firestore client. The store takes ownership of the
// client and closes it in Close.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

// FetchAll implements Store.
func (f *Firestore) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := f.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}

	// Firestore orders by document id; auto ids are random, so restore
	// creation order.
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CreateTime.Before(snaps[j].CreateTime)
	})

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: Fields(snap.Data())})
	}
	return docs, nil
}

// Get implements Store.
func (f *Firestore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, mapFirestoreError(err, "reading", collection, id)
	}
	return Document{ID: snap.Ref.ID, Fields: Fields(snap.Data())}, nil
}

// Create implements Store.
func (f *Firestore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	ref, _, err := f.client.Collection(collection).Add(ctx, map[string]any(fields.Clone()))
	if err != nil {
		return "", fmt.Errorf("adding to %s: %w", collection, err)
	}
	return ref.ID, nil
}

// Update implements Store.
func (f *Firestore) Update(ctx context.Context, collection, id string, fields Fields) error {
	if len(fields) == 0 {
		// Firestore rejects empty updates; an existence check keeps the
		// not-found contract.
		_, err := f.Get(ctx, collection, id)
		return err
	}

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if _, err := f.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return mapFirestoreError(err, "updating", collection, id)
	}
	return nil
}

// Set implements Store.
func (f *Firestore) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	ref := f.client.Collection(collection).Doc(id)
	data := map[string]any(fields.Clone())

	var err error
	if merge {
		_, err = ref.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete implements Store.
func (f *Firestore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close implements Store.
func (f *Firestore) Close() error {
	return f.client.Close()
}

// mapFirestoreError wraps err with the document path. A NotFound status also
// matches ErrNotFound; the gRPC status stays reachable with status.Code.
func mapFirestoreError(err error, action, collection, id string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s %s/%s: %w: %w", action, collection, id, ErrNotFound, err)
	}
	return fmt.Errorf("%s %s/%s: %w", action, collection, id, err)
}
