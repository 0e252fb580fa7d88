// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic housekeeping: removing avatar temp files
// orphaned by crashed processes, pruning old events and reloading GeoIP data.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedules and ages.
const (
	SweepSchedule    = "@hourly"
	PruneSchedule    = "@daily"
	GeoIPSchedule    = "@daily"
	DefaultTempAge   = time.Hour
	DefaultRetention = 30 * 24 * time.Hour
)

// EventPruner deletes events older than a retention period.
type EventPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Reloader reopens a data file when it changes.
type Reloader interface {
	Reload() error
}

// Config selects the jobs to run. Nil collaborators disable their job.
type Config struct {
	TempDir        string
	TempPrefix     string
	TempMaxAge     time.Duration
	Events         EventPruner
	EventRetention time.Duration
	GeoIP          Reloader
}

// Scheduler owns a cron instance and its housekeeping jobs.
type Scheduler struct {
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new scheduler instance.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TempMaxAge <= 0 {
		cfg.TempMaxAge = DefaultTempAge
	}
	if cfg.EventRetention <= 0 {
		cfg.EventRetention = DefaultRetention
	}
	return &Scheduler{
		cfg:    cfg,
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.TempDir != "" && s.cfg.TempPrefix != "" {
		if _, err := s.cron.AddFunc(SweepSchedule, s.sweepJob); err != nil {
			return err
		}
	}
	if s.cfg.Events != nil {
		if _, err := s.cron.AddFunc(PruneSchedule, s.pruneJob); err != nil {
			return err
		}
	}
	if s.cfg.GeoIP != nil {
		if _, err := s.cron.AddFunc(GeoIPSchedule, s.geoipJob); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) sweepJob() {
	removed, err := SweepTempFiles(s.cfg.TempDir, s.cfg.TempPrefix, s.cfg.TempMaxAge, s.now())
	if err != nil {
		s.logger.Error("failed to sweep avatar temp files", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("removed orphaned avatar temp files", "count", removed)
	}
}

func (s *Scheduler) pruneJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.cfg.Events.Prune(ctx, s.cfg.EventRetention); err != nil {
		s.logger.Error("failed to prune events", "error", err)
	}
}

func (s *Scheduler) geoipJob() {
	if err := s.cfg.GeoIP.Reload(); err != nil {
		s.logger.Warn("failed to reload GeoIP database", "error", err)
	}
}
