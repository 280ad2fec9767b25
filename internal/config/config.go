// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from DICMS_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Server
	ServerHost     string        `env:"DICMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int           `env:"DICMS_SERVER_PORT" envDefault:"8080"`
	Env            string        `env:"DICMS_ENV" envDefault:"development"`
	LogLevel       string        `env:"DICMS_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"DICMS_LOG_FORMAT" envDefault:"text"`
	PublicBaseURL  string        `env:"DICMS_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	SiteURL        string        `env:"DICMS_SITE_URL" envDefault:"http://localhost:5173"`
	TrustedOrigins []string      `env:"DICMS_TRUSTED_ORIGINS" envSeparator:","`
	RequestTimeout time.Duration `env:"DICMS_REQUEST_TIMEOUT" envDefault:"60s"`
	RateLimitRPS   float64       `env:"DICMS_RATE_LIMIT_RPS" envDefault:"1"`
	RateLimitBurst int           `env:"DICMS_RATE_LIMIT_BURST" envDefault:"10"`

	// Sessions
	SessionSecret   string        `env:"DICMS_SESSION_SECRET,required"`
	SessionLifetime time.Duration `env:"DICMS_SESSION_LIFETIME" envDefault:"24h"`

	// Local database for sessions and the sqlite document store
	DBPath string `env:"DICMS_DB_PATH" envDefault:"./data/dicms.db"`

	// Storage backends
	DocStore      string `env:"DICMS_DOCSTORE" envDefault:"sqlite"`
	BlobStore     string `env:"DICMS_BLOBSTORE" envDefault:"local"`
	UploadsDir    string `env:"DICMS_UPLOADS_DIR" envDefault:"./uploads"`
	UploadMaxSize int64  `env:"DICMS_UPLOAD_MAX_SIZE" envDefault:"104857600"`

	// Firebase
	FirebaseProjectID       string `env:"DICMS_FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"DICMS_FIREBASE_CREDENTIALS_FILE"`
	FirebaseStorageBucket   string `env:"DICMS_FIREBASE_STORAGE_BUCKET"`

	// Redis
	RedisURL    string `env:"DICMS_REDIS_URL"`
	RedisPrefix string `env:"DICMS_REDIS_PREFIX" envDefault:"dicms:"`

	// DynamoDB
	DynamoDBTable    string `env:"DICMS_DYNAMODB_TABLE"`
	DynamoDBRegion   string `env:"DICMS_DYNAMODB_REGION" envDefault:"us-east-1"`
	DynamoDBEndpoint string `env:"DICMS_DYNAMODB_ENDPOINT"`

	// S3
	S3Bucket        string `env:"DICMS_S3_BUCKET"`
	S3Region        string `env:"DICMS_S3_REGION" envDefault:"us-east-1"`
	S3PublicBaseURL string `env:"DICMS_S3_PUBLIC_BASE_URL"`

	// Admin authentication
	AuthMode         string   `env:"DICMS_AUTH_MODE" envDefault:"firebase"`
	AdminEmails      []string `env:"DICMS_ADMIN_EMAILS" envSeparator:","`
	StaticAdminToken string   `env:"DICMS_STATIC_ADMIN_TOKEN"`
	StaticAdminEmail string   `env:"DICMS_STATIC_ADMIN_EMAIL" envDefault:"admin@localhost"`

	// Content
	HeroUpdatePolicy string `env:"DICMS_HERO_UPDATE_POLICY" envDefault:"optimistic"`
	// ReloadSchedule re-fetches every collection on a cron schedule; empty disables it.
	ReloadSchedule string `env:"DICMS_RELOAD_SCHEDULE"`

	// Payments
	PaymentProvider    string `env:"DICMS_PAYMENT_PROVIDER" envDefault:"none"`
	MonimeBaseURL      string `env:"DICMS_MONIME_BASE_URL"`
	MonimeToken        string `env:"DICMS_MONIME_TOKEN"`
	MonimeSpaceID      string `env:"DICMS_MONIME_SPACE_ID"`
	MonimeVersion      string `env:"DICMS_MONIME_VERSION"`
	StripeSecretKey    string `env:"DICMS_STRIPE_SECRET_KEY"`
	Currency           string `env:"DICMS_CURRENCY" envDefault:"SLE"`
	CheckoutSuccessURL string `env:"DICMS_CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL  string `env:"DICMS_CHECKOUT_CANCEL_URL"`

	// Reflections
	ReflectionsAPIKey  string `env:"DICMS_REFLECTIONS_API_KEY"`
	ReflectionsBaseURL string `env:"DICMS_REFLECTIONS_BASE_URL"`
	ReflectionsModel   string `env:"DICMS_REFLECTIONS_MODEL"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// ReflectionsEnabled returns true if a reflections model is configured.
func (c Config) ReflectionsEnabled() bool {
	return c.ReflectionsAPIKey != ""
}

// UsesFirebase returns true if any component needs a Firebase app.
func (c Config) UsesFirebase() bool {
	return c.DocStore == "firestore" || c.BlobStore == "firebase" || c.AuthMode == "firebase"
}

// UploadsBaseURL is the public URL prefix of locally stored uploads.
func (c Config) UploadsBaseURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/uploads"
}

// SuccessURL is where the payer lands after a completed checkout.
func (c Config) SuccessURL() string {
	if c.CheckoutSuccessURL != "" {
		return c.CheckoutSuccessURL
	}
	return strings.TrimRight(c.SiteURL, "/") + "/?status=success"
}

// CancelURL is where the payer lands after abandoning checkout.
func (c Config) CancelURL() string {
	if c.CheckoutCancelURL != "" {
		return c.CheckoutCancelURL
	}
	return strings.TrimRight(c.SiteURL, "/") + "/"
}

// CORSOrigins returns the browser origins allowed to call the API.
func (c Config) CORSOrigins() []string {
	origins := []string{strings.TrimRight(c.SiteURL, "/")}
	for _, o := range c.TrustedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && !slices.Contains(origins, o) {
			origins = append(origins, o)
		}
	}
	return origins
}

// CSRFTrustedHosts returns the host[:port] of every CORS origin.
func (c Config) CSRFTrustedHosts() []string {
	var hosts []string
	for _, o := range c.CORSOrigins() {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("DICMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if slices.Contains(knownWeakSecrets, cfg.SessionSecret) {
		return nil, errors.New("DICMS_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("DICMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if err := oneOf("DICMS_ENV", c.Env, "development", "production"); err != nil {
		return err
	}
	if err := oneOf("DICMS_LOG_FORMAT", c.LogFormat, "text", "json"); err != nil {
		return err
	}
	if err := oneOf("DICMS_DOCSTORE", c.DocStore, "sqlite", "firestore", "redis", "dynamodb", "memory"); err != nil {
		return err
	}
	if err := oneOf("DICMS_BLOBSTORE", c.BlobStore, "none", "local", "firebase", "s3", "memory"); err != nil {
		return err
	}
	if err := oneOf("DICMS_AUTH_MODE", c.AuthMode, "firebase", "static"); err != nil {
		return err
	}
	if err := oneOf("DICMS_HERO_UPDATE_POLICY", c.HeroUpdatePolicy, "write-through", "optimistic", "optimistic-revert"); err != nil {
		return err
	}
	if err := oneOf("DICMS_PAYMENT_PROVIDER", c.PaymentProvider, "none", "monime", "stripe"); err != nil {
		return err
	}

	switch {
	case c.UsesFirebase() && c.FirebaseProjectID == "" && c.FirebaseCredentialsFile == "":
		return errors.New("DICMS_FIREBASE_PROJECT_ID or DICMS_FIREBASE_CREDENTIALS_FILE is required for firebase components")
	case c.BlobStore == "firebase" && c.FirebaseStorageBucket == "":
		return errors.New("DICMS_FIREBASE_STORAGE_BUCKET is required when DICMS_BLOBSTORE=firebase")
	case c.DocStore == "redis" && c.RedisURL == "":
		return errors.New("DICMS_REDIS_URL is required when DICMS_DOCSTORE=redis")
	case c.DocStore == "dynamodb" && c.DynamoDBTable == "":
		return errors.New("DICMS_DYNAMODB_TABLE is required when DICMS_DOCSTORE=dynamodb")
	case c.BlobStore == "s3" && c.S3Bucket == "":
		return errors.New("DICMS_S3_BUCKET is required when DICMS_BLOBSTORE=s3")
	case c.AuthMode == "static" && !c.IsDevelopment():
		return errors.New("DICMS_AUTH_MODE=static is only allowed in development")
	case c.AuthMode == "static" && c.StaticAdminToken == "":
		return errors.New("DICMS_STATIC_ADMIN_TOKEN is required when DICMS_AUTH_MODE=static")
	case c.PaymentProvider == "monime" && (c.MonimeToken == "" || c.MonimeSpaceID == ""):
		return errors.New("DICMS_MONIME_TOKEN and DICMS_MONIME_SPACE_ID are required when DICMS_PAYMENT_PROVIDER=monime")
	case c.PaymentProvider == "stripe" && c.StripeSecretKey == "":
		return errors.New("DICMS_STRIPE_SECRET_KEY is required when DICMS_PAYMENT_PROVIDER=stripe")
	case c.RequestTimeout <= 0:
		return errors.New("DICMS_REQUEST_TIMEOUT must be positive")
	}
	if c.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			return fmt.Errorf("invalid DICMS_RELOAD_SCHEDULE: %w", err)
		}
	}
	return nil
}

func oneOf(name, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, ", "), value)
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
