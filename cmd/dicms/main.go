// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/digitalislam/dicms/internal/appdata"
	"github.com/digitalislam/dicms/internal/auth"
	"github.com/digitalislam/dicms/internal/blobstore"
	"github.com/digitalislam/dicms/internal/config"
	"github.com/digitalislam/dicms/internal/content"
	"github.com/digitalislam/dicms/internal/docstore"
	"github.com/digitalislam/dicms/internal/handler"
	"github.com/digitalislam/dicms/internal/logging"
	"github.com/digitalislam/dicms/internal/middleware"
	"github.com/digitalislam/dicms/internal/model"
	"github.com/digitalislam/dicms/internal/payment"
	"github.com/digitalislam/dicms/internal/scheduler"
	"github.com/digitalislam/dicms/internal/service"
	"github.com/digitalislam/dicms/internal/session"
	"github.com/digitalislam/dicms/internal/store"
	"github.com/digitalislam/dicms/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "dicms - Digital Islam site content service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_SESSION_SECRET      Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_DB_PATH             SQLite database path (default: ./data/dicms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_DOCSTORE            sqlite|firestore|redis|dynamodb|memory (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_BLOBSTORE           none|local|firebase|s3|memory (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_AUTH_MODE           firebase|static (default: firebase)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DICMS_PAYMENT_PROVIDER    none|monime|stripe (default: none)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("dicms %s\n", version.Current())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	var app *firebase.App
	if cfg.UsesFirebase() {
		app, err = newFirebaseApp(ctx, cfg)
		if err != nil {
			return err
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
		return fmt.Errorf("opening document store: %w", err)
	}
	defer func() {
		if err := docs.Close(); err != nil {
			slog.Error("error closing document store", "error", err)
		}
	}()
	slog.Info("document store ready", "backend", cfg.DocStore)

	blobs, err := blobstore.Open(ctx, blobstore.Config{
		Backend:         cfg.BlobStore,
		Dir:             cfg.UploadsDir,
		BaseURL:         cfg.UploadsBaseURL(),
		Firebase:        app,
		Bucket:          cfg.FirebaseStorageBucket,
		S3Bucket:        cfg.S3Bucket,
		S3Region:        cfg.S3Region,
		S3PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}
	slog.Info("blob store ready", "backend", cfg.BlobStore)

	verifier, err := newVerifier(ctx, cfg, app)
	if err != nil {
		return err
	}
	if len(cfg.AdminEmails) == 0 {
		slog.Warn("DICMS_ADMIN_EMAILS is empty, every signed-in user is an administrator")
	}

	payments, err := payment.New(payment.Config{
		Provider: cfg.PaymentProvider,
		Monime: payment.MonimeConfig{
			BaseURL: cfg.MonimeBaseURL,
			Token:   cfg.MonimeToken,
			SpaceID: cfg.MonimeSpaceID,
			Version: cfg.MonimeVersion,
		},
		StripeSecret: cfg.StripeSecretKey,
		Currency:     cfg.Currency,
	})
	if err != nil {
		return fmt.Errorf("configuring payments: %w", err)
	}

	heroPolicy, err := appdata.ParseUpdatePolicy(cfg.HeroUpdatePolicy)
	if err != nil {
		return err
	}
	layer := content.NewLayer(docs, content.NewMediaUploader(blobs, content.WithMaxSize(cfg.UploadMaxSize)))
	data := appdata.New(layer, logger, appdata.WithHeroPolicy(heroPolicy))

	// A failed collection is logged and stays unloaded; reload it from the
	// admin API once the backend recovers.
	report := data.Initialize(ctx)
	if err := report.Err(); err != nil {
		slog.Warn("some collections failed to load", "failed", report.Failed(), "error", err)
	} else {
		slog.Info("content loaded", "duration", report.Duration)
	}

	if cfg.ReloadSchedule != "" {
		sched := scheduler.New(data, logger)
		if err := sched.Start(cfg.ReloadSchedule); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	sessionManager := session.New(db, cfg.IsDevelopment(), cfg.SessionLifetime)
	slog.Info("session manager initialized")

	h := handler.New(handler.Deps{
		Data: data,
		Donations: service.NewDonations(data.Donors, payments, service.CheckoutURLs{
			Success: cfg.SuccessURL(),
			Cancel:  cfg.CancelURL(),
		}, logger),
		Volunteers: service.NewVolunteers(data.Volunteers, logger),
		Reflections: service.NewReflections(service.ReflectionsConfig{
			APIKey:  cfg.ReflectionsAPIKey,
			BaseURL: cfg.ReflectionsBaseURL,
			Model:   cfg.ReflectionsModel,
		}, logger),
		Verifier:      verifier,
		Allowlist:     auth.NewAllowlist(cfg.AdminEmails),
		Sessions:      sessionManager,
		Site:          model.DefaultSiteInfo(),
		MaxUploadSize: cfg.UploadMaxSize,
		Logger:        logger,
	})

	routerCfg := handler.RouterConfig{
		IsDevelopment:  cfg.IsDevelopment(),
		CORSOrigins:    cfg.CORSOrigins(),
		CSRF:           middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.CSRFTrustedHosts(), cfg.IsDevelopment()),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		RequestTimeout: cfg.RequestTimeout,
		RequestLog:     cfg.IsDevelopment(),
	}
	if cfg.BlobStore == blobstore.BackendLocal {
		routerCfg.UploadsDir = cfg.UploadsDir
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           h.Routes(routerCfg, handler.NewHealthHandler(db, data)),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second, // uploads run up to the request timeout
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func newFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	fbCfg := &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseStorageBucket,
	}
	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase: %w", err)
	}
	return app, nil
}

func newVerifier(ctx context.Context, cfg *config.Config, app *firebase.App) (auth.Verifier, error) {
	if cfg.AuthMode == "static" {
		slog.Warn("static admin token authentication enabled", "email", cfg.StaticAdminEmail)
		return auth.NewStaticVerifier(cfg.StaticAdminToken, auth.Identity{
			UID:   "static-admin",
			Email: cfg.StaticAdminEmail,
		}), nil
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}
	return auth.NewFirebaseVerifier(client), nil
}
