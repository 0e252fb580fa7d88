// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/portfolio-go/internal/service"
)

// GitHubHandler serves /api/github/contributions.
type GitHubHandler struct {
	github *service.GitHubService
	logger *slog.Logger
}

// NewGitHubHandler creates a GitHubHandler.
func NewGitHubHandler(github *service.GitHubService, logger *slog.Logger) *GitHubHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitHubHandler{github: github, logger: logger}
}

// Contributions handles GET /api/github/contributions?username=. The
// payload is returned unwrapped; an upstream failure still answers 200
// with fallback set.
func (h *GitHubHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	result, err := h.github.Contributions(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
