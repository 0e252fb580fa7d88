// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package gate decides, for each request, whether it may proceed, must be
// redirected to login, or is refused.
package gate

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
)

// Outcome is the result of Decide.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Decision is the outcome plus, for Redirect, where to send the browser.
type Decision struct {
	Outcome  Outcome
	Location string
}

// LoginPath starts the identity provider flow.
const LoginPath = "/api/auth/login"

// authPrefix covers login, logout, callback and me. Never gated.
const authPrefix = "/api/auth/"

// Decide classifies a request. A nil or expired session counts as absent.
func Decide(path, method string, sess *model.Session, now time.Time) Decision {
	path = cleanPath(path)

	if !isProtected(path, method) {
		return Decision{Outcome: Allow}
	}
	if sess.Valid(now) {
		return Decision{Outcome: Allow}
	}
	if isAPI(path) {
		return Decision{Outcome: Deny}
	}
	return Decision{Outcome: Redirect, Location: LoginURL(path)}
}

// LoginURL builds the login redirect carrying returnTo.
func LoginURL(returnTo string) string {
	return LoginPath + "?" + url.Values{"returnTo": {returnTo}}.Encode()
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func isProtected(path, method string) bool {
	// Public routes first so nothing below can loop the login flow.
	if path == "/" || strings.HasPrefix(path, authPrefix) {
		return false
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")

	if isAPI(path) {
		if isSafeMethod(method) {
			return false
		}
		switch {
		case len(segs) == 2 && segs[1] == "hero":
			return true
		case len(segs) == 3 && segs[1] == "projects":
			// Covers /api/projects/new and /api/projects/{id}.
			return true
		}
		return false
	}

	switch {
	case segs[0] == "dashboard":
		return true
	case len(segs) == 2 && segs[0] == "projects" && segs[1] == "new":
		return true
	case len(segs) == 3 && segs[0] == "projects" && segs[2] == "edit":
		return true
	}
	return false
}

func isSafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// cleanPath collapses duplicate and trailing slashes so "/dashboard/" and
// "//dashboard" match the same rule as "/dashboard".
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
