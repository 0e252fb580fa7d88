// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/transfer"
)

// transferOptions holds the backup and restore flags.
type transferOptions struct {
	ExportPath string
	ImportPath string
	Overwrite  bool
	DryRun     bool
}

func (o transferOptions) active() bool {
	return o.ExportPath != "" || o.ImportPath != ""
}

// runTransfer performs a one-shot export or import instead of serving.
func runTransfer(ctx context.Context, db *sql.DB, c cache.Cache, baseURL string, opts transferOptions, logger *slog.Logger) error {
	if opts.ExportPath != "" && opts.ImportPath != "" {
		return errors.New("-export and -import cannot be combined")
	}
	queries := store.New(db)

	if opts.ExportPath != "" {
		if err := transfer.NewExporter(queries, baseURL).ExportToFile(ctx, opts.ExportPath); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		logger.Info("export written", "path", opts.ExportPath)
		return nil
	}

	strategy := transfer.ConflictSkip
	if opts.Overwrite {
		strategy = transfer.ConflictOverwrite
	}
	result, err := transfer.NewImporter(queries, db, logger).ImportFromFile(ctx, opts.ImportPath, transfer.ImportOptions{
		DryRun:           opts.DryRun,
		ConflictStrategy: strategy,
	})
	if errors.Is(err, transfer.ErrValidation) {
		for _, e := range result.Errors {
			logger.Error("invalid import entry", "entity", e.Entity, "id", e.ID, "error", e.Message)
		}
	}
	if err != nil {
		return fmt.Errorf("importing %s: %w", opts.ImportPath, err)
	}

	if !opts.DryRun {
		// A shared Redis cache would otherwise serve the old content.
		for _, key := range []string{cache.KeyHero, cache.KeyProjectsList} {
			if err := c.Delete(ctx, key); err != nil {
				logger.Warn("failed to invalidate cache", "key", key, "error", err)
			}
		}
	}

	logger.Info("import finished",
		"dry_run", result.DryRun,
		"hero", result.HeroUpdated,
		"created", result.ProjectsCreated,
		"updated", result.ProjectsUpdated,
		"skipped", result.ProjectsSkipped,
	)
	return nil
}
