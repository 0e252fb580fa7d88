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
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// ErrValidation is returned when the document holds invalid entries.
// Nothing is written in that case.
var ErrValidation = errors.New("import validation failed")

// Importer restores a backup into the database.
type Importer struct {
	store  *store.Queries
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewImporter creates a new Importer instance.
func NewImporter(queries *store.Queries, db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: queries, db: db, logger: logger, now: time.Now}
}

// Import validates every entry, then writes them in one transaction.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{DryRun: opts.DryRun}
	if opts.ConflictStrategy == "" {
		opts.ConflictStrategy = ConflictSkip
	}

	i.validate(data, result)
	if len(result.Errors) > 0 {
		return result, ErrValidation
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := i.store.WithTx(tx)

	if data.Hero != nil {
		if err := i.importHero(ctx, queries, data.Hero); err != nil {
			return nil, err
		}
		result.HeroUpdated = true
	}

	for _, p := range data.Projects {
		if err := i.importProject(ctx, queries, p, opts.ConflictStrategy, result); err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		return result, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("import completed",
		"hero", result.HeroUpdated,
		"created", result.ProjectsCreated,
		"updated", result.ProjectsUpdated,
		"skipped", result.ProjectsSkipped,
	)
	return result, nil
}

// ImportFromReader reads and imports from an io.Reader.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return i.Import(ctx, &data, opts)
}

// ImportFromFile reads and imports from a file path.
func (i *Importer) ImportFromFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return i.ImportFromReader(ctx, f, opts)
}

func (i *Importer) validate(data *ExportData, result *ImportResult) {
	if data.Version != ExportVersion {
		result.AddError("document", "", fmt.Sprintf("unsupported version %q", data.Version))
		return
	}

	if h := data.Hero; h != nil {
		err := validation.Validate(validation.HeroInput{
			Avatar:           h.Avatar,
			FullName:         strings.TrimSpace(h.FullName),
			ShortDescription: strings.TrimSpace(h.ShortDescription),
			LongDescription:  strings.TrimSpace(h.LongDescription),
		})
		if err != nil {
			result.AddError("hero", "", err.Error())
		}
	}

	seen := make(map[string]bool, len(data.Projects))
	for _, p := range data.Projects {
		if p.ID != "" {
			if seen[p.ID] {
				result.AddError("project", p.ID, "duplicate id")
				continue
			}
			seen[p.ID] = true
		}
		err := validation.Validate(validation.ProjectInput{
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
			ImageURL:    strings.TrimSpace(p.ImageURL),
			Link:        strings.TrimSpace(p.Link),
			Keywords:    p.Keywords,
		})
		if err != nil {
			result.AddError("project", p.ID, err.Error())
		}
	}
}

func (i *Importer) importHero(ctx context.Context, queries *store.Queries, h *ExportHero) error {
	updated := h.UpdatedAt
	if updated.IsZero() {
		updated = i.now().UTC()
	}
	_, err := queries.UpsertHeroProfile(ctx, store.UpsertHeroProfileParams{
		Avatar:           h.Avatar,
		FullName:         strings.TrimSpace(h.FullName),
		ShortDescription: strings.TrimSpace(h.ShortDescription),
		LongDescription:  strings.TrimSpace(h.LongDescription),
		UpdatedAt:        updated,
	})
	if err != nil {
		return fmt.Errorf("importing hero profile: %w", err)
	}
	return nil
}

func (i *Importer) importProject(ctx context.Context, queries *store.Queries, p ExportProject, strategy ConflictStrategy, result *ImportResult) error {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	kw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}

	now := i.now().UTC()
	created, updated := p.CreatedAt, p.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}

	if p.ID != "" {
		_, err := queries.GetProject(ctx, p.ID)
		switch {
		case err == nil && strategy == ConflictSkip:
			result.ProjectsSkipped++
			return nil
		case err == nil:
			_, err := queries.UpdateProject(ctx, store.UpdateProjectParams{
				ID:          p.ID,
				Title:       strings.TrimSpace(p.Title),
				Description: strings.TrimSpace(p.Description),
				ImageUrl:    strings.TrimSpace(p.ImageURL),
				Link:        strings.TrimSpace(p.Link),
				Keywords:    string(kw),
				UpdatedAt:   updated,
			})
			if err != nil {
				return fmt.Errorf("updating project %s: %w", p.ID, err)
			}
			result.ProjectsUpdated++
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("looking up project %s: %w", p.ID, err)
		}
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err = queries.CreateProject(ctx, store.CreateProjectParams{
		ID:          id,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		ImageUrl:    strings.TrimSpace(p.ImageURL),
		Link:        strings.TrimSpace(p.Link),
		Keywords:    string(kw),
		CreatedAt:   created,
		UpdatedAt:   updated,
	})
	if err != nil {
		return fmt.Errorf("creating project %s: %w", id, err)
	}
	result.ProjectsCreated++
	return nil
}
