// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash redirects GET and HEAD requests for paths with trailing
// slashes to the canonical path (HTTP 301). Other methods are rewritten in
// place so request bodies are not lost to a redirect. "/" is left alone.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || !strings.HasSuffix(path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		// Leading slashes are collapsed so "//host/" cannot become a
		// protocol-relative redirect.
		clean := "/" + strings.Trim(path, "/")

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			target := clean
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = clean
		r2.URL.RawPath = ""
		next.ServeHTTP(w, r2)
	})
}
