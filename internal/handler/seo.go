// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/portfolio-go/internal/seo"
	"github.com/olegiv/portfolio-go/internal/service"
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	hero        *service.HeroService
	projects    *service.ProjectService
	baseURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates an SEOHandler. disallowAll keeps crawlers away
// from non-production sites.
func NewSEOHandler(hero *service.HeroService, projects *service.ProjectService, baseURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SEOHandler{hero: hero, projects: projects, baseURL: baseURL, disallowAll: disallowAll, logger: logger}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.Robots(h.baseURL, h.disallowAll)))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	hero, err := h.hero.Get(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	out, err := seo.GenerateSitemap(h.baseURL, hero, projects)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

func (h *SEOHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("failed to build sitemap", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
