// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis stores each collection as one hash keyed by document id with JSON
// encoded values. Identifiers are time-ordered UUIDs so that sorting by id
// yields creation order.
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures the Redis document store.
type RedisOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to every collection key (e.g., "dicms:")
	Prefix string

	// DialTimeout is the timeout for establishing a connection
	DialTimeout time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.DialTimeout > 0 {
		redisOpts.DialTimeout = opts.DialTimeout
	}

	client := redis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Redis{client: client, prefix: opts.Prefix}, nil
}

func (r *Redis) key(collection string) string {
	return r.prefix + collection
}

// FetchAll implements Store.
func (r *Redis) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	values, err := r.client.HGetAll(ctx, r.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}

	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		fields, err := decodeFields(values[id])
		if err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := r.client.HGet(ctx, r.key(collection), id).Result()
	if errors.Is(err, redis.Nil) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return Document{}, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Fields: fields}, nil
}

// Create implements Store.
func (r *Redis) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	data, err := encodeFields(fields)
	if err != nil {
		return "", err
	}
	if err := r.client.HSet(ctx, r.key(collection), id.String(), data).Err(); err != nil {
		return "", fmt.Errorf("adding to %s: %w", collection, err)
	}
	return id.String(), nil
}

// Update implements Store.
func (r *Redis) Update(ctx context.Context, collection, id string, fields Fields) error {
	return r.mutate(ctx, collection, id, func(current Fields, found bool) (Fields, error) {
		if !found {
			return nil, ErrNotFound
		}
		for k, v := range fields {
			current[k] = v
		}
		return current, nil
	})
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	return r.mutate(ctx, collection, id, func(current Fields, found bool) (Fields, error) {
		if !found || !merge {
			return fields.Clone(), nil
		}
		for k, v := range fields {
			current[k] = v
		}
		return current, nil
	})
}

// mutate applies fn to the stored document inside an optimistic WATCH
// transaction on the collection hash.
func (r *Redis) mutate(ctx context.Context, collection, id string, fn func(Fields, bool) (Fields, error)) error {
	key := r.key(collection)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current := Fields{}
		found := true
		raw, err := tx.HGet(ctx, key, id).Result()
		switch {
		case errors.Is(err, redis.Nil):
			found = false
		case err != nil:
			return err
		default:
			if current, err = decodeFields(raw); err != nil {
				return err
			}
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}
		data, err := encodeFields(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, data)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	if err := r.client.HDel(ctx, r.key(collection), id).Err(); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close()
}
