// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler refreshes cached site content on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/digitalislam/dicms/internal/appdata"
)

// DefaultReloadTimeout bounds one scheduled refresh.
const DefaultReloadTimeout = 2 * time.Minute

// Loader reloads every cached collection.
type Loader interface {
	Initialize(ctx context.Context) appdata.InitReport
}

// Scheduler periodically re-fetches every collection so changes made outside
// this service (another instance, the Firebase console) become visible.
type Scheduler struct {
	target  Loader
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a scheduler for target.
func New(target Loader, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		target: target,
		// A slow refresh is skipped rather than stacked.
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: DefaultReloadTimeout,
		logger:  logger,
	}
}

// Start schedules the refresh with a standard five-field cron expression or
// a descriptor such as "@every 15m".
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Reload); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", spec, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Reload re-fetches every collection once.
func (s *Scheduler) Reload() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report := s.target.Initialize(ctx)
	if failed := report.Failed(); len(failed) > 0 {
		s.logger.Error("scheduled reload failed", "failed", failed, "error", report.Err())
		return
	}
	s.logger.Debug("scheduled reload finished", "duration", report.Duration)
}

