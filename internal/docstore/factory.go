// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
	BackendDynamoDB  = "dynamodb"
)

// DynamoDBOptions configures the DynamoDB backend.
type DynamoDBOptions struct {
	Table    string
	Region   string
	Endpoint string // optional, e.g. DynamoDB Local
}

// Config selects and configures a document store backend.
type Config struct {
	Backend  string
	DB       *sql.DB       // sqlite
	Firebase *firebase.App // firestore
	Redis    RedisOptions
	DynamoDB DynamoDBOptions
}

// Open creates the document store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil

	case BackendSQLite, "":
		if cfg.DB == nil {
			return nil, errors.New("sqlite document store requires a database")
		}
		return NewSQLite(cfg.DB), nil

	case BackendFirestore:
		if cfg.Firebase == nil {
			return nil, errors.New("firestore document store requires a firebase app")
		}
		client, err := cfg.Firebase.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating firestore client: %w", err)
		}
		return NewFirestore(client), nil

	case BackendRedis:
		return NewRedis(ctx, cfg.Redis)

	case BackendDynamoDB:
		if cfg.DynamoDB.Table == "" {
			return nil, errors.New("dynamodb document store requires a table name")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDB.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
			}
		})
		return NewDynamoDB(client, cfg.DynamoDB.Table), nil

	default:
		return nil, fmt.Errorf("unknown document store backend %q", cfg.Backend)
	}
}
