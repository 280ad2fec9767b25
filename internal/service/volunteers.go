// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/digitalislam/dicms/internal/model"
)

// VolunteerCreator persists volunteer signups.
type VolunteerCreator interface {
	Create(ctx context.Context, v model.Volunteer) (model.Volunteer, error)
}

// Volunteers records volunteer signups.
type Volunteers struct {
	store  VolunteerCreator
	logger *slog.Logger
}

// NewVolunteers creates the volunteer service.
func NewVolunteers(store VolunteerCreator, logger *slog.Logger) *Volunteers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Volunteers{store: store, logger: logger}
}

// SignUp saves a volunteer.
func (s *Volunteers) SignUp(ctx context.Context, form model.Volunteer) (model.Volunteer, error) {
	form.ID = ""
	v, err := s.store.Create(ctx, form)
	if err != nil {
		return model.Volunteer{}, fmt.Errorf("saving volunteer: %w", err)
	}
	s.logger.Info("volunteer signed up", "volunteer_id", v.ID, "location", v.Location)
	return v, nil
}
