// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"testing"

	firebaseauth "firebase.google.com/go/v4/auth"
)

type fakeFirebase struct {
	uid   string
	email string
	err   error
}

func (f fakeFirebase) VerifyIDToken(_ context.Context, _ string) (*firebaseauth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &firebaseauth.Token{UID: f.uid, Claims: map[string]interface{}{"email": f.email}}, nil
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(fakeFirebase{uid: "u1", email: "admin@digitalislam.org"})
	id, err := v.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UID != "u1" || id.Email != "admin@digitalislam.org" {
		t.Errorf("identity = %+v", id)
	}

	if _, err := v.Verify(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token error = %v", err)
	}

	bad := NewFirebaseVerifier(fakeFirebase{err: errors.New("expired")})
	if _, err := bad.Verify(context.Background(), "tok"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("dev-token", Identity{UID: "dev", Email: "dev@localhost"})

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"match", "dev-token", false},
		{"mismatch", "other", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("error = %v, want ErrInvalidToken", err)
				}
				return
			}
			if err != nil || id.UID != "dev" {
				t.Errorf("Verify() = %+v, %v", id, err)
			}
		})
	}

	if _, err := NewStaticVerifier("", Identity{}).Verify(context.Background(), ""); err == nil {
		t.Error("unconfigured static verifier accepted an empty token")
	}
}

func TestAllowlist(t *testing.T) {
	open := NewAllowlist(nil)
	if !open.Allowed(&Identity{Email: "anyone@example.org"}) {
		t.Error("empty allowlist should admit verified users")
	}
	if open.Allowed(nil) {
		t.Error("nil identity admitted")
	}

	list := NewAllowlist([]string{" Admin@DigitalIslam.org ", "", "admin@digitalislam.org"})
	if len(list.emails) != 1 {
		t.Errorf("emails = %v", list.emails)
	}
	if !list.Allowed(&Identity{Email: "ADMIN@digitalislam.org"}) {
		t.Error("listed email rejected")
	}
	if list.Allowed(&Identity{Email: "other@digitalislam.org"}) {
		t.Error("unlisted email admitted")
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":    "abc",
		"bearer  abc ":  "abc",
		"Basic abc":     "",
		"Bearer":        "",
		"":              "",
	}
	for header, want := range tests {
		if got := BearerToken(header); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
