// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blobstore

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Backend names accepted by Open.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendLocal    = "local"
	BackendFirebase = "firebase"
	BackendS3       = "s3"
)

// Config selects and configures a blob store backend.
type Config struct {
	Backend string

	// local
	Dir     string
	BaseURL string

	// firebase
	Firebase *firebase.App
	Bucket   string

	// s3
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string
}

// Open creates the blob store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return Disabled{}, nil

	case BackendMemory:
		return NewMemory(), nil

	case BackendLocal:
		if cfg.Dir == "" {
			return nil, errors.New("local blob store requires a directory")
		}
		return NewLocal(cfg.Dir, cfg.BaseURL), nil

	case BackendFirebase:
		if cfg.Firebase == nil || cfg.Bucket == "" {
			return nil, errors.New("firebase blob store requires a firebase app and bucket")
		}
		client, err := cfg.Firebase.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
		bucket, err := client.Bucket(cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("opening bucket: %w", err)
		}
		return NewFirebase(bucket, cfg.Bucket), nil

	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 blob store requires a bucket")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		return NewS3(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown blob store backend %q", cfg.Backend)
	}
}
