// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// ContributionDay is one cell of a generated contribution calendar.
type ContributionDay struct {
	Week      int    `json:"week"`
	Day       int    `json:"day"`
	Intensity int    `json:"intensity"`
	Date      string `json:"date"`
	Color     string `json:"color"`
}

// GitHubContributions is the GET /api/github/contributions payload.
// Contributions and User are passed through from GitHub as received. When
// GitHub cannot be reached, Fallback is set and Contributions holds a
// generated []ContributionDay.
type GitHubContributions struct {
	Success       bool            `json:"success"`
	Username      string          `json:"username"`
	Contributions json.RawMessage `json:"contributions"`
	User          json.RawMessage `json:"user,omitempty"`
	Error         string          `json:"error,omitempty"`
	Fallback      bool            `json:"fallback,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}
