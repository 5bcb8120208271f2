// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the site's periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thenetworkclub/network-go/internal/store"
)

// auditPruneSpec runs the nightly audit prune at 03:00 server time.
const auditPruneSpec = "0 3 * * *"

// Scheduler handles scheduled maintenance: pruning old audit log
// entries past the configured retention.
type Scheduler struct {
	db             *sql.DB
	cron           *cron.Cron
	logger         *slog.Logger
	auditRetention time.Duration
}

// New creates a new scheduler instance. retentionDays bounds how long
// audit entries are kept; values below one day are clamped to 90 days.
func New(db *sql.DB, logger *slog.Logger, retentionDays int) *Scheduler {
	if retentionDays < 1 {
		retentionDays = 90
	}
	return &Scheduler{
		db:             db,
		cron:           cron.New(),
		logger:         logger,
		auditRetention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Start registers the maintenance jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(auditPruneSpec, func() {
		if err := s.pruneAuditLog(); err != nil {
			s.logger.Error("failed to prune audit log", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to
// finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneAuditLog deletes audit entries older than the retention window.
func (s *Scheduler) pruneAuditLog() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.auditRetention)
	pruned, err := store.New(s.db).PruneAuditEntries(ctx, cutoff)
	if err != nil {
		return err
	}

	if pruned > 0 {
		s.logger.Info("pruned audit log", "entries", pruned, "cutoff", cutoff)
	}
	return nil
}
