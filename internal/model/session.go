// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared by the portfolio services:
// the authenticated Session, the HeroProfile singleton, Projects and the
// transient ContactMessage.
package model

import "time"

// Session is the identity carried by the session cookie.
// A zero UserID means the visitor is not signed in.
type Session struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session identifies a user and has not expired at now.
// A nil session is never valid.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.UserID == "" {
		return false
	}
	return now.Before(s.ExpiresAt)
}
