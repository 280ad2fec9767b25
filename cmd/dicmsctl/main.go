// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command dicmsctl inspects and seeds site content from the command line.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/config"
	"github.com/digitalislam/dicms/internal/content"
	"github.com/digitalislam/dicms/internal/docstore"
	"github.com/digitalislam/dicms/internal/logging"
	"github.com/digitalislam/dicms/internal/store"
	"github.com/digitalislam/dicms/internal/version"
)

// openFunc opens the content store. The returned func releases it.
type openFunc func(ctx context.Context) (*appdata.Store, func(), error)

func main() {
	_ = godotenv.Load()

	if err := rootCmd(openFromConfig, os.Stdout).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(open openFunc, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "dicmsctl",
		Short:         "dicmsctl - manage Digital Islam site content",
		Version:       version.Current().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(listCmd(open))
	root.AddCommand(statusCmd(open))
	root.AddCommand(seedCmd(open))
	root.AddCommand(versionCmd())
	return root
}

// openFromConfig opens the document store configured by DICMS_* variables.
// Media uploads are not available from the CLI.
func openFromConfig(ctx context.Context) (*appdata.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(level, cfg.LogFormat, os.Stderr)

	var db *sql.DB
	if cfg.DocStore == docstore.BackendSQLite {
		if db, err = store.Open(cfg.DBPath); err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
	}

	var app *firebase.App
	if cfg.DocStore == docstore.BackendFirestore {
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
		}
		app, err = firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing firebase: %w", err)
		}
	}

	docs, err := docstore.Open(ctx, docstore.Config{
		Backend:  cfg.DocStore,
		DB:       db,
		Firebase: app,
		Redis:    docstore.RedisOptions{URL: cfg.RedisURL, Prefix: cfg.RedisPrefix, DialTimeout: 5 * time.Second},
		DynamoDB: docstore.DynamoDBOptions{Table: cfg.DynamoDBTable, Region: cfg.DynamoDBRegion, Endpoint: cfg.DynamoDBEndpoint},
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("opening document store: %w", err)
	}

	closeFn := func() {
		if err := docs.Close(); err != nil {
			logger.Error("closing document store", "error", err)
		}
		if db != nil {
			_ = db.Close()
		}
	}
	return appdata.New(content.NewLayer(docs, nil), logger), closeFn, nil
}

// load opens the store and loads every collection, failing on the first
// collection that cannot be fetched.
func load(ctx context.Context, open openFunc) (*appdata.Store, func(), error) {
	data, closeFn, err := open(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := data.Initialize(ctx).Err(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("loading content: %w", err)
	}
	return data, closeFn, nil
}

