// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
)

// Exporter reads the portfolio content from the database.
type Exporter struct {
	store   *store.Queries
	siteURL string
	now     func() time.Time
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries, siteURL string) *Exporter {
	return &Exporter{store: queries, siteURL: siteURL, now: time.Now}
}

// Export builds the backup document.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC(),
		SiteURL:    e.siteURL,
		Projects:   []ExportProject{},
	}

	hero, err := e.store.GetHeroProfile(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("reading hero profile: %w", err)
	default:
		data.Hero = &ExportHero{
			Avatar:           hero.Avatar,
			FullName:         hero.FullName,
			ShortDescription: hero.ShortDescription,
			LongDescription:  hero.LongDescription,
			UpdatedAt:        hero.UpdatedAt,
		}
	}

	rows, err := e.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for _, row := range rows {
		p := model.Project{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			ImageURL:    row.ImageUrl,
			Link:        row.Link,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		}
		if row.Keywords != "" {
			if err := json.Unmarshal([]byte(row.Keywords), &p.Keywords); err != nil {
				return nil, fmt.Errorf("decoding keywords of project %s: %w", row.ID, err)
			}
		}
		data.Projects = append(data.Projects, exportProject(p))
	}

	return data, nil
}

// ExportToWriter writes the export as JSON to the provided writer.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportToFile writes the export as JSON to a file.
func (e *Exporter) ExportToFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.ExportToWriter(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
