// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// ProjectsHandler serves /api/projects.
type ProjectsHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewProjectsHandler creates a ProjectsHandler.
func NewProjectsHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectsHandler{projects: projects, logger: logger}
}

// ProjectList is the GET /api/projects response.
type ProjectList struct {
	Projects []model.Project `json:"projects"`
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	WriteJSON(w, http.StatusOK, ProjectList{Projects: projects})
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteSuccess(w, "", p)
}

// Create handles POST /api/projects/new from a form or a JSON object.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := ParseRequestBody(w, r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	defer body.Close()

	in := validation.ProjectInput{
		Title:       body.Value("title"),
		Description: body.Value("description"),
		ImageURL:    body.Value("img"),
		Link:        body.Value("link"),
		Keywords:    body.Keywords("keywords"),
	}
	if err := body.Err(); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	p, err := h.projects.Create(r.Context(), sess, in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteCreated(w, p)
}

// Update handles PUT /api/projects/{id}. Absent fields are left unchanged.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := ParseRequestBody(w, r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	defer body.Close()

	patch := validation.ProjectPatch{
		Title:       body.Optional("title"),
		Description: body.Optional("description"),
		ImageURL:    body.Optional("img"),
		Link:        body.Optional("link"),
		Keywords:    body.Keywords("keywords"),
	}
	if err := body.Err(); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	p, err := h.projects.Update(r.Context(), sess, id, patch)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, "Project updated", p)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.projects.Delete(r.Context(), sess, id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, "Project deleted", nil)
}

// session returns the caller's valid session or writes 401. Authorization
// is settled before the body is read.
func (h *ProjectsHandler) session(w http.ResponseWriter, r *http.Request) (*model.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if !sess.Valid(time.Now()) {
		writeServiceError(w, r, h.logger, service.ErrUnauthorized)
		return nil, false
	}
	return sess, true
}
