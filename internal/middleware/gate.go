// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/portfolio-go/internal/gate"
	"github.com/olegiv/portfolio-go/internal/model"
)

// SessionSource yields the caller's session, or nil when there is none or
// it cannot be read.
type SessionSource interface {
	Current(ctx context.Context) *model.Session
}

// SessionFunc adapts a function to SessionSource.
type SessionFunc func(ctx context.Context) *model.Session

// Current implements SessionSource.
func (f SessionFunc) Current(ctx context.Context) *model.Session { return f(ctx) }

// Gate applies gate.Decide to every request. Allowed requests continue with
// the valid session, if any, stored in the context.
func Gate(sessions SessionSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return gateWithClock(sessions, logger, time.Now)
}

func gateWithClock(sessions SessionSource, logger *slog.Logger, now func() time.Time) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *model.Session
			if sessions != nil {
				sess = sessions.Current(r.Context())
			}
			t := now()

			d := gate.Decide(r.URL.Path, r.Method, sess, t)
			switch d.Outcome {
			case gate.Redirect:
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
				return
			case gate.Deny:
				logger.Info("gate denied request",
					"category", model.EventCategoryGate,
					"method", r.Method,
					"path", r.URL.Path,
				)
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			if !sess.Valid(t) {
				sess = nil
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
