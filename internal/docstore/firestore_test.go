// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapFirestoreError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantCode     codes.Code
	}{
		{"not found", status.Error(codes.NotFound, "no document"), true, codes.NotFound},
		{"permission denied", status.Error(codes.PermissionDenied, "rules"), false, codes.PermissionDenied},
		{"unavailable", status.Error(codes.Unavailable, "offline"), false, codes.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapFirestoreError(tt.err, "updating", "projects", "p1")
			if got := errors.Is(err, ErrNotFound); got != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", got, tt.wantNotFound)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("original error not wrapped: %v", err)
			}
			if got := status.Code(err); got != tt.wantCode {
				t.Errorf("status.Code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}
