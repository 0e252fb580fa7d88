// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryGate    = "gate"
	EventCategoryHero    = "hero"
	EventCategoryProject = "project"
	EventCategoryContact = "contact"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)

// Event is a persisted log entry for warnings and errors.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON string
	CreatedAt time.Time
}
