// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware around the portfolio
// handlers: the access gate adapter, rate limiting, cross-origin
// protection, security headers and request timeouts.
package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/olegiv/portfolio-go/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeySession holds the caller's *model.Session.
const ContextKeySession ContextKey = "session"

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, sess)
}

// SessionFromContext returns the session stored by Gate, or nil.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(ContextKeySession).(*model.Session)
	return sess
}

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// ClientIP returns the request's remote address without the port. Run
// chi's RealIP middleware first when behind a proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
