// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports the hero profile and projects to a JSON backup
// and restores them from one.
package transfer

import (
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// ExportData is the complete backup document.
type ExportData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	SiteURL    string          `json:"site_url,omitempty"`
	Hero       *ExportHero     `json:"hero,omitempty"`
	Projects   []ExportProject `json:"projects"`
}

// ExportHero is the saved hero profile. It is omitted while the site
// still serves the placeholder profile.
type ExportHero struct {
	Avatar           string    `json:"avatar"`
	FullName         string    `json:"full_name"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ExportProject is one project.
type ExportProject struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"img"`
	Link        string    `json:"link"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func exportProject(p model.Project) ExportProject {
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return ExportProject{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Link:        p.Link,
		Keywords:    keywords,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ConflictStrategy decides what happens to a project whose ID exists.
type ConflictStrategy string

// Conflict strategies.
const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions configures an import.
type ImportOptions struct {
	DryRun           bool
	ConflictStrategy ConflictStrategy
}

// ImportResult counts what an import did, or would do on a dry run.
type ImportResult struct {
	DryRun          bool          `json:"dry_run"`
	HeroUpdated     bool          `json:"hero_updated"`
	ProjectsCreated int           `json:"projects_created"`
	ProjectsUpdated int           `json:"projects_updated"`
	ProjectsSkipped int           `json:"projects_skipped"`
	Errors          []ImportError `json:"errors,omitempty"`
}

// ImportError describes an entry that failed validation.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// AddError records a failed entry.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}
