// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/service"
)

// HeroHandler serves /api/hero.
type HeroHandler struct {
	hero   *service.HeroService
	logger *slog.Logger
}

// NewHeroHandler creates a HeroHandler.
func NewHeroHandler(hero *service.HeroService, logger *slog.Logger) *HeroHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeroHandler{hero: hero, logger: logger}
}

// Get handles GET /api/hero.
func (h *HeroHandler) Get(w http.ResponseWriter, r *http.Request) {
	hero, err := h.hero.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteSuccess(w, "", hero)
}

// Update handles PUT /api/hero. The avatar may be a multipart file or an
// image reference string; without either the stored avatar is kept.
func (h *HeroHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if !sess.Valid(time.Now()) {
		writeServiceError(w, r, h.logger, service.ErrUnauthorized)
		return
	}

	body, err := ParseRequestBody(w, r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	defer body.Close()

	upload, err := body.File("avatar")
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	upd := service.HeroUpdate{
		AvatarFile:       upload,
		Avatar:           body.Value("avatar"),
		FullName:         body.Value("fullName"),
		ShortDescription: body.Value("shortDescription"),
		LongDescription:  body.Value("longDescription"),
	}
	if err := body.Err(); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	hero, err := h.hero.Upsert(r.Context(), sess, upd)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, "Hero updated", hero)
}
