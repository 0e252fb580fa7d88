// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// ProjectStore is the persistence used by ProjectService.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]store.Project, error)
	GetProject(ctx context.Context, id string) (store.Project, error)
	CreateProject(ctx context.Context, arg store.CreateProjectParams) (store.Project, error)
	UpdateProject(ctx context.Context, arg store.UpdateProjectParams) (store.Project, error)
	DeleteProject(ctx context.Context, id string) (int64, error)
}

// ProjectService manages portfolio projects.
type ProjectService struct {
	queries ProjectStore
	cache   *cache.TypedCache[[]model.Project]
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewProjectService creates a ProjectService. c may be nil to disable caching.
func NewProjectService(queries ProjectStore, c cache.Cache, ttl time.Duration, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		queries: queries,
		cache:   cache.NewTypedCache[[]model.Project](c, ttl, logger),
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// List returns all projects, oldest first.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.cache.GetOrLoad(ctx, cache.KeyProjectsList, func(ctx context.Context) ([]model.Project, error) {
		rows, err := s.queries.ListProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
		projects := make([]model.Project, 0, len(rows))
		for _, r := range rows {
			projects = append(projects, projectFromRow(r, s.logger))
		}
		return projects, nil
	})
}

// GetByID returns ErrNotFound for an unknown id.
func (s *ProjectService) GetByID(ctx context.Context, id string) (model.Project, error) {
	row, err := s.queries.GetProject(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("getting project %s: %w", id, err)
	}
	return projectFromRow(row, s.logger), nil
}

// Create validates in and stores a new project with a fresh UUID.
func (s *ProjectService) Create(ctx context.Context, sess *model.Session, in validation.ProjectInput) (model.Project, error) {
	now := s.now()
	if err := requireSession(sess, now); err != nil {
		return model.Project{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Link = strings.TrimSpace(in.Link)
	if err := validation.Validate(in); err != nil {
		return model.Project{}, err
	}

	keywords, err := encodeKeywords(in.Keywords)
	if err != nil {
		return model.Project{}, err
	}

	row, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		ImageUrl:    in.ImageURL,
		Link:        in.Link,
		Keywords:    keywords,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}

	s.cache.Invalidate(ctx, cache.KeyProjectsList)
	s.logger.Info("project created", "project_id", row.ID, "user_id", sess.UserID)
	return projectFromRow(row, s.logger), nil
}

// Update applies the fields present in patch. The session is checked
// before the patch is validated, and both before the id is looked up.
func (s *ProjectService) Update(ctx context.Context, sess *model.Session, id string, patch validation.ProjectPatch) (model.Project, error) {
	now := s.now()
	if err := requireSession(sess, now); err != nil {
		return model.Project{}, err
	}
	patch.Title = trimmed(patch.Title)
	patch.Description = trimmed(patch.Description)
	patch.ImageURL = trimmed(patch.ImageURL)
	patch.Link = trimmed(patch.Link)
	if err := validation.Validate(patch); err != nil {
		return model.Project{}, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		current.ImageURL = *patch.ImageURL
	}
	if patch.Link != nil {
		current.Link = *patch.Link
	}
	if patch.Keywords != nil {
		current.Keywords = patch.Keywords
	}

	keywords, err := encodeKeywords(current.Keywords)
	if err != nil {
		return model.Project{}, err
	}

	row, err := s.queries.UpdateProject(ctx, store.UpdateProjectParams{
		Title:       current.Title,
		Description: current.Description,
		ImageUrl:    current.ImageURL,
		Link:        current.Link,
		Keywords:    keywords,
		UpdatedAt:   now,
		ID:          id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		// Deleted between read and write.
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("updating project %s: %w", id, err)
	}

	s.cache.Invalidate(ctx, cache.KeyProjectsList)
	s.logger.Info("project updated", "project_id", id, "user_id", sess.UserID)
	return projectFromRow(row, s.logger), nil
}

// Delete removes a project. Without a valid session it returns
// ErrUnauthorized whether or not id exists.
func (s *ProjectService) Delete(ctx context.Context, sess *model.Session, id string) error {
	if err := requireSession(sess, s.now()); err != nil {
		return err
	}

	n, err := s.queries.DeleteProject(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.cache.Invalidate(ctx, cache.KeyProjectsList)
	s.logger.Info("project deleted", "project_id", id, "user_id", sess.UserID)
	return nil
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("encoding keywords: %w", err)
	}
	return string(b), nil
}

func projectFromRow(row store.Project, logger *slog.Logger) model.Project {
	keywords := []string{}
	if row.Keywords != "" {
		if err := json.Unmarshal([]byte(row.Keywords), &keywords); err != nil {
			logger.Warn("project has malformed keywords", "project_id", row.ID, "error", err)
			keywords = []string{}
		}
	}
	return model.Project{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		ImageURL:    row.ImageUrl,
		Link:        row.Link,
		Keywords:    keywords,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// trimmed returns a trimmed copy of a present patch field.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
