// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeedProject is one of the sample projects inserted into an empty database.
type SeedProject struct {
	Title       string
	Description string
	ImagePath   string
	Link        string
	Keywords    []string
}

// SeedProjects are the sample projects shown on a fresh install.
var SeedProjects = []SeedProject{
	{
		Title:       "Conway's Game of Life",
		Description: "Interactive cellular automaton visualizer exploring emergent behavior.",
		ImagePath:   "/static/images/game-of-life.png",
		Link:        "https://example.com/game-of-life",
		Keywords:    []string{"algorithms", "simulation", "canvas"},
	},
	{
		Title:       "Weather Dashboard",
		Description: "Responsive dashboard that displays real-time weather for multiple cities.",
		ImagePath:   "/static/images/weather-dashboard.png",
		Link:        "https://example.com/weather-dashboard",
		Keywords:    []string{"api", "dashboard", "charts"},
	},
	{
		Title:       "Task Manager Pro",
		Description: "Kanban-style task manager with drag-and-drop and filters.",
		ImagePath:   "/static/images/task-manager.png",
		Link:        "https://example.com/task-manager",
		Keywords:    []string{"productivity", "drag-and-drop", "ui"},
	},
}

// Seed inserts the sample projects when the projects table is empty.
// Image paths are resolved against baseURL so they stay absolute URLs.
func Seed(ctx context.Context, db *sql.DB, baseURL string) error {
	queries := New(db)

	count, err := queries.CountProjects(ctx)
	if err != nil {
		return fmt.Errorf("counting projects: %w", err)
	}
	if count > 0 {
		slog.Info("projects already exist, skipping seed", "count", count)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := queries.WithTx(tx)
	base := strings.TrimRight(baseURL, "/")
	now := time.Now()

	for i, p := range SeedProjects {
		keywords, err := json.Marshal(p.Keywords)
		if err != nil {
			return fmt.Errorf("encoding keywords: %w", err)
		}
		// Stagger timestamps so list order matches seed order.
		created := now.Add(time.Duration(i) * time.Second)
		if _, err := qtx.CreateProject(ctx, CreateProjectParams{
			ID:          uuid.NewString(),
			Title:       p.Title,
			Description: p.Description,
			ImageUrl:    base + p.ImagePath,
			Link:        p.Link,
			Keywords:    string(keywords),
			CreatedAt:   created,
			UpdatedAt:   created,
		}); err != nil {
			return fmt.Errorf("creating seed project %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("seeded sample projects", "count", len(SeedProjects))
	return nil
}
