// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/util"
)

// PageHandler renders the public site and the dashboard pages.
type PageHandler struct {
	renderer *render.Renderer
	hero     *service.HeroService
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(renderer *render.Renderer, hero *service.HeroService, projects *service.ProjectService, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{renderer: renderer, hero: hero, projects: projects, logger: logger}
}

// HomeData feeds the home and dashboard pages.
type HomeData struct {
	Hero     model.HeroProfile
	Projects []model.Project
}

// ProjectFormData feeds the new and edit project pages.
type ProjectFormData struct {
	Project model.Project
}

// Home handles GET /.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data, err := h.homeData(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "home", data.Hero.FullName, data)
}

// Projects handles GET /projects.
func (h *PageHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "projects", "Projects", projects)
}

// Project handles GET /projects/{id}.
func (h *PageHandler) Project(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "project", p.Title, p)
}

// Contact handles GET /contact.
func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact", "Contact", nil)
}

// Login handles GET /login. Signed-in visitors go straight to returnTo.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	returnTo := util.SafeLocalRedirect(r.URL.Query().Get("returnTo"), DefaultReturnTo)
	if middleware.SessionFromContext(r.Context()).Valid(time.Now()) {
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Sign in", returnTo)
}

// Dashboard handles GET /dashboard.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.homeData(r)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", data)
}

// NewProject handles GET /projects/new.
func (h *PageHandler) NewProject(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "project_form", "New project", ProjectFormData{})
}

// EditProject handles GET /projects/{id}/edit.
func (h *PageHandler) EditProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "project_form", "Edit "+p.Title, ProjectFormData{Project: p})
}

// NotFound answers unknown paths: JSON under /api/, the 404 page elsewhere.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
		return
	}
	h.render(w, r, http.StatusNotFound, "not_found", "Page not found", nil)
}

// MethodNotAllowed answers a known path with an unsupported method.
func (h *PageHandler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
}

func (h *PageHandler) homeData(r *http.Request) (HomeData, error) {
	hero, err := h.hero.Get(r.Context())
	if err != nil {
		return HomeData{}, err
	}
	projects, err := h.projects.List(r.Context())
	if err != nil {
		return HomeData{}, err
	}
	return HomeData{Hero: hero, Projects: projects}, nil
}

func (h *PageHandler) loadProject(w http.ResponseWriter, r *http.Request) (model.Project, bool) {
	p, err := h.projects.GetByID(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.NotFound(w, r)
		return model.Project{}, false
	case err != nil:
		h.serverError(w, r, err)
		return model.Project{}, false
	}
	return p, true
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	err := h.renderer.Render(w, r, status, name, render.TemplateData{
		Title:   title,
		Data:    data,
		Session: middleware.SessionFromContext(r.Context()),
	})
	if err != nil {
		h.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *PageHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("page failed", "error", err, "path", r.URL.Path)
	h.render(w, r, http.StatusInternalServerError, "error", "Error", nil)
}
