// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"gallery/1700000000000_photo.jpg", true},
		{"landing_page/1_a.mp4", true},
		{"", false},
		{"/abs/path.jpg", false},
		{"gallery/../etc/passwd", false},
		{"gallery//x.jpg", false},
		{`gallery\x.jpg`, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := validateKey(tt.key)
			if tt.valid && err != nil {
				t.Errorf("validateKey(%q) = %v, want nil", tt.key, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("validateKey(%q) = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestFirebaseDownloadURL(t *testing.T) {
	got := firebaseDownloadURL("dicms.appspot.com", "gallery/1700000000000_my photo.jpg", "tok-123")
	want := "https://firebasestorage.googleapis.com/v0/b/dicms.appspot.com/o/gallery%2F1700000000000_my%20photo.jpg?alt=media&token=tok-123"
	if got != want {
		t.Errorf("firebaseDownloadURL() =\n%s\nwant\n%s", got, want)
	}
}

func TestLocal_Put(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "http://localhost:8080/uploads/")

	url, err := l.Put(context.Background(), "gallery/1_a b.jpg", "image/jpeg", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "http://localhost:8080/uploads/gallery/1_a%20b.jpg" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gallery", "1_a b.jpg"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("data = %q", data)
	}
}

func TestLocal_PutRejectsTraversal(t *testing.T) {
	l := NewLocal(t.TempDir(), "/uploads")
	if _, err := l.Put(context.Background(), "../x", "text/plain", strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Put error = %v, want ErrInvalidKey", err)
	}
}

func TestMemory_FailNext(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailNext(nil)

	if _, err := m.Put(ctx, "gallery/a.jpg", "image/jpeg", strings.NewReader("a")); !errors.Is(err, ErrInjected) {
		t.Fatalf("Put error = %v, want ErrInjected", err)
	}

	url, err := m.Put(ctx, "gallery/a.jpg", "image/jpeg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != MemoryBaseURL+"gallery/a.jpg" {
		t.Errorf("url = %q", url)
	}
	blob, ok := m.Get("gallery/a.jpg")
	if !ok || blob.ContentType != "image/jpeg" || string(blob.Data) != "a" {
		t.Errorf("blob = %+v, %v", blob, ok)
	}
	if keys := m.Keys(); len(keys) != 1 {
		t.Errorf("keys = %v", keys)
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Put(context.Background(), "a/b", "x", strings.NewReader(""))
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Put error = %v, want ErrNotConfigured", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Put(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantURL string
	}{
		{"virtual hosted", "", "https://media.s3.eu-west-1.amazonaws.com/gallery/1_a.png"},
		{"cdn", "https://cdn.example.org/", "https://cdn.example.org/gallery/1_a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeS3{}
			s := NewS3(fake, "media", "eu-west-1", tt.baseURL)

			url, err := s.Put(context.Background(), "gallery/1_a.png", "image/png", strings.NewReader("png"))
			if err != nil {
				t.Fatalf("Put: %v", err)
			}
			if url != tt.wantURL {
				t.Errorf("url = %q, want %q", url, tt.wantURL)
			}
			if aws.ToString(fake.input.Bucket) != "media" || aws.ToString(fake.input.Key) != "gallery/1_a.png" {
				t.Errorf("input = %+v", fake.input)
			}
			if aws.ToString(fake.input.ContentType) != "image/png" || fake.body != "png" {
				t.Errorf("content = %s %q", aws.ToString(fake.input.ContentType), fake.body)
			}
		})
	}
}

func TestS3_PutError(t *testing.T) {
	boom := errors.New("boom")
	s := NewS3(&fakeS3{err: boom}, "media", "eu-west-1", "")
	if _, err := s.Put(context.Background(), "a/b.png", "image/png", strings.NewReader("x")); !errors.Is(err, boom) {
		t.Errorf("Put error = %v, want boom", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := s.(Disabled); !ok {
		t.Errorf("Open(default) = %T, want Disabled", s)
	}

	if _, err := Open(ctx, Config{Backend: BackendLocal}); err == nil {
		t.Error("Open(local) without directory should fail")
	}
	if _, err := Open(ctx, Config{Backend: BackendFirebase}); err == nil {
		t.Error("Open(firebase) without app should fail")
	}
	if _, err := Open(ctx, Config{Backend: BackendS3}); err == nil {
		t.Error("Open(s3) without bucket should fail")
	}
	if _, err := Open(ctx, Config{Backend: "ftp"}); err == nil {
		t.Error("Open(unknown) should fail")
	}
}
