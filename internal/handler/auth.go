// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/session"
	"github.com/olegiv/portfolio-go/internal/util"
)

// DefaultReturnTo is where a successful login lands without returnTo.
const DefaultReturnTo = "/dashboard"

// IdentityProvider is the part of auth.Provider used by AuthHandler.
type IdentityProvider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (auth.Identity, error)
	LogoutURL(returnTo string) string
}

// AuthHandler runs the login, callback, logout and me endpoints.
type AuthHandler struct {
	sm       *scs.SessionManager
	provider IdentityProvider
	events   *service.EventService
	baseURL  string
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthHandler creates an AuthHandler. A nil provider makes the login
// flow answer 500 configuration_error; events may be nil.
func NewAuthHandler(sm *scs.SessionManager, provider IdentityProvider, events *service.EventService, baseURL string, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		sm:       sm,
		provider: provider,
		events:   events,
		baseURL:  baseURL,
		logger:   logger,
		now:      time.Now,
	}
}

// MeResponse is the GET /api/auth/me payload.
type MeResponse struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles GET /api/auth/login?returnTo=/path.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		h.notConfigured(w)
		return
	}

	state, err := auth.NewState()
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	verifier := auth.NewVerifier()
	returnTo := util.SafeLocalRedirect(r.URL.Query().Get("returnTo"), DefaultReturnTo)

	ctx := r.Context()
	h.sm.Put(ctx, session.KeyOAuthState, state)
	h.sm.Put(ctx, session.KeyOAuthVerifier, verifier)
	h.sm.Put(ctx, session.KeyReturnTo, returnTo)

	http.Redirect(w, r, h.provider.AuthCodeURL(state, verifier), http.StatusFound)
}

// Callback handles GET /api/auth/callback. Every failure answers 401.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		h.notConfigured(w)
		return
	}

	ctx := r.Context()
	state := h.sm.PopString(ctx, session.KeyOAuthState)
	verifier := h.sm.PopString(ctx, session.KeyOAuthVerifier)
	returnTo := h.sm.PopString(ctx, session.KeyReturnTo)

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		h.callbackFailed(w, r, "provider returned error", "provider_error", e)
		return
	}
	if state == "" || subtle.ConstantTimeCompare([]byte(q.Get("state")), []byte(state)) != 1 {
		h.callbackFailed(w, r, "state mismatch")
		return
	}
	code := q.Get("code")
	if code == "" {
		h.callbackFailed(w, r, "missing code")
		return
	}

	id, err := h.provider.Exchange(ctx, code, verifier)
	if err != nil {
		h.callbackFailed(w, r, "code exchange failed", "error", err)
		return
	}

	now := h.now()
	sess := model.Session{
		UserID:    id.Subject,
		Name:      id.Name,
		Email:     id.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(session.Lifetime),
	}
	if err := session.SignIn(ctx, h.sm, sess); err != nil {
		h.callbackFailed(w, r, "storing session failed", "error", err)
		return
	}

	h.logger.Info("user signed in", "user_id", sess.UserID)
	h.logAuthEvent(ctx, "Login successful", &sess, middleware.ClientIP(r))

	http.Redirect(w, r, util.SafeLocalRedirect(returnTo, DefaultReturnTo), http.StatusSeeOther)
}

// Logout handles GET and POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.Identity(ctx, h.sm)

	if err := session.SignOut(ctx, h.sm); err != nil {
		h.logger.Error("failed to destroy session", "error", err)
	}
	if sess != nil {
		h.logger.Info("user signed out", "user_id", sess.UserID)
		h.logAuthEvent(ctx, "Logout", sess, middleware.ClientIP(r))
	}

	target := "/"
	if h.provider != nil {
		target = h.provider.LogoutURL(h.baseURL)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		sess = session.Identity(r.Context(), h.sm)
	}
	if !sess.Valid(h.now()) {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
		return
	}
	WriteSuccess(w, "", MeResponse{
		UserID:    sess.UserID,
		Name:      sess.Name,
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (h *AuthHandler) notConfigured(w http.ResponseWriter) {
	h.logger.Warn("identity provider is not configured", "category", model.EventCategoryAuth)
	WriteError(w, http.StatusInternalServerError, CodeConfiguration, "Authentication is not configured", nil)
}

func (h *AuthHandler) callbackFailed(w http.ResponseWriter, r *http.Request, reason string, args ...any) {
	args = append([]any{"reason", reason, "ip", middleware.ClientIP(r), "category", model.EventCategoryAuth}, args...)
	h.logger.Warn("authentication callback failed", args...)
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication callback failed", nil)
}

func (h *AuthHandler) logAuthEvent(ctx context.Context, message string, sess *model.Session, ip string) {
	if h.events == nil {
		return
	}
	if err := h.events.LogAuthEvent(ctx, message, sess, ip); err != nil {
		h.logger.Error("failed to log auth event", "error", err)
	}
}
