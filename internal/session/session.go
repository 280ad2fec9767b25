// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages admin sessions stored in SQLite.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/digitalislam/dicms/internal/auth"
)

// DefaultLifetime is the session lifetime when none is configured.
const DefaultLifetime = 24 * time.Hour

// Session keys for the signed-in admin.
const (
	KeyUID   = "admin_uid"
	KeyEmail = "admin_email"
)

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool, lifetime time.Duration) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// Login stores id in a freshly issued session.
func Login(ctx context.Context, sm *scs.SessionManager, id *auth.Identity) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyUID, id.UID)
	sm.Put(ctx, KeyEmail, id.Email)
	return nil
}

// Logout destroys the current session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// Identity returns the admin stored in the session, or nil.
func Identity(ctx context.Context, sm *scs.SessionManager) *auth.Identity {
	uid := sm.GetString(ctx, KeyUID)
	if uid == "" {
		return nil
	}
	return &auth.Identity{UID: uid, Email: sm.GetString(ctx, KeyEmail)}
}
