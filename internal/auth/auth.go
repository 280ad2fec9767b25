// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth verifies admin identity tokens and decides which verified
// users may use the admin panel.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// ErrInvalidToken is returned when a token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Identity is a verified user.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Verifier checks an identity token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// IDTokenVerifier is the subset of the Firebase auth client used here.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client IDTokenVerifier
}

// NewFirebaseVerifier wraps a Firebase auth client.
func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify implements Verifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := tok.Claims["email"].(string)
	return &Identity{UID: tok.UID, Email: email}, nil
}

// StaticVerifier accepts a single configured token. It is meant for
// development and tests.
type StaticVerifier struct {
	token    string
	identity Identity
}

// NewStaticVerifier returns a verifier that maps token to identity.
func NewStaticVerifier(token string, identity Identity) *StaticVerifier {
	return &StaticVerifier{token: token, identity: identity}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if v.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return nil, ErrInvalidToken
	}
	id := v.identity
	return &id, nil
}

// Allowlist restricts admin access to a set of emails. An empty list admits
// every verified user.
type Allowlist struct {
	emails []string
}

// NewAllowlist builds an allowlist. Emails are compared case-insensitively.
func NewAllowlist(emails []string) *Allowlist {
	a := &Allowlist{}
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !slices.Contains(a.emails, e) {
			a.emails = append(a.emails, e)
		}
	}
	return a
}

// Allowed reports whether id may use the admin panel.
func (a *Allowlist) Allowed(id *Identity) bool {
	if id == nil {
		return false
	}
	if a == nil || len(a.emails) == 0 {
		return true
	}
	return slices.Contains(a.emails, strings.ToLower(id.Email))
}

// BearerToken extracts the token from an "Authorization: Bearer" header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
