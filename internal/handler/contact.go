// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/portfolio-go/internal/geoip"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// ContactResponse is the contact endpoint's success and 405/429 body.
type ContactResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ContactHandler serves /api/contact-me.
type ContactHandler struct {
	contact *service.ContactService
	geo     *geoip.Lookup
	logger  *slog.Logger
}

// NewContactHandler creates a ContactHandler. geo may be nil.
func NewContactHandler(contact *service.ContactService, geo *geoip.Lookup, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{contact: contact, geo: geo, logger: logger}
}

// ServeHTTP accepts POST only.
func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		WriteJSON(w, http.StatusMethodNotAllowed, ContactResponse{
			Message: "Method not allowed. Use POST to submit contact form.",
		})
		return
	}
	h.Send(w, r)
}

// Send handles POST /api/contact-me.
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	body, err := ParseRequestBody(w, r)
	if err != nil {
		writeContactError(w, r, h.logger, err)
		return
	}
	defer body.Close()

	in := validation.ContactInput{
		Name:    body.Value("name"),
		Email:   body.Value("email"),
		Message: body.Value("message"),
	}
	if err := body.Err(); err != nil {
		writeContactError(w, r, h.logger, err)
		return
	}

	meta := h.geo.Describe(middleware.ClientIP(r), r.UserAgent())
	if err := h.contact.Send(r.Context(), in, meta); err != nil {
		writeContactError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, ContactResponse{OK: true, Message: "Email sent successfully"})
}

// RateLimited answers a request rejected by the contact rate limiter.
func (h *ContactHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("contact rate limit exceeded", "ip", middleware.ClientIP(r))
	w.Header().Set("Retry-After", "60")
	WriteJSON(w, http.StatusTooManyRequests, ContactResponse{
		Message: "Too many messages. Please try again later.",
	})
}
