// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for cross-origin request protection.
// filippo.io/csrf/gorilla checks Fetch metadata headers, so no token cookie
// or form field is involved.
type CSRFConfig struct {
	// AuthKey is a 32-byte key; the session secret is used.
	AuthKey []byte

	// ErrorHandler is called when validation fails.
	ErrorHandler http.Handler

	// TrustedOrigins are host[:port] values allowed to make cross-origin
	// requests.
	TrustedOrigins []string
}

// DefaultCSRFConfig trusts the host of baseURL, plus localhost in development.
func DefaultCSRFConfig(authKey []byte, baseURL string, isDev bool) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey}

	// The csrf library expects host-only values, not full URLs.
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		cfg.TrustedOrigins = append(cfg.TrustedOrigins, u.Host)
	}
	if isDev {
		for _, h := range []string{"localhost:8080", "127.0.0.1:8080"} {
			if !contains(cfg.TrustedOrigins, h) {
				cfg.TrustedOrigins = append(cfg.TrustedOrigins, h)
			}
		}
	}
	return cfg
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CSRF returns a middleware that rejects cross-origin state-changing requests.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	var opts []csrf.Option

	if cfg.ErrorHandler != nil {
		opts = append(opts, csrf.ErrorHandler(cfg.ErrorHandler))
	} else {
		opts = append(opts, csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)))
	}

	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

// csrfErrorHandler answers API requests with the JSON error envelope and
// everything else with plain text.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("cross-origin request rejected",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)

	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteAPIError(w, http.StatusForbidden, "forbidden", "Cross-origin request rejected", nil)
		return
	}
	http.Error(w, "Forbidden - cross-origin request rejected", http.StatusForbidden)
}
