// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// HeroProfile is the singleton profile shown in the hero section.
type HeroProfile struct {
	Avatar           string    `json:"avatar"`
	FullName         string    `json:"fullName"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
}

// DefaultAvatar is a neutral placeholder used until an avatar is uploaded.
const DefaultAvatar = "data:image/svg+xml;base64," +
	"PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAxMjggMTI4Ij48" +
	"Y2lyY2xlIGN4PSI2NCIgY3k9IjY0IiByPSI2NCIgZmlsbD0iI2QxZDVkYiIvPjwvc3ZnPg=="

// DefaultHeroProfile returns the placeholder profile served before the first upsert.
func DefaultHeroProfile() HeroProfile {
	return HeroProfile{
		Avatar:           DefaultAvatar,
		FullName:         "Your Name",
		ShortDescription: "Software developer",
		LongDescription:  "Tell visitors about yourself from the dashboard.",
	}
}
