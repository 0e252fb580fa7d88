// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"encoding/json"
	"strings"
)

// ContactInput is the contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=50"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10,max=500"`
}

// HeroInput is the full hero profile after avatar resolution.
type HeroInput struct {
	Avatar           string `json:"avatar" validate:"required,imageref"`
	FullName         string `json:"fullName" validate:"required,min=2,max=200"`
	ShortDescription string `json:"shortDescription" validate:"required,min=2,max=120"`
	LongDescription  string `json:"longDescription" validate:"required,min=10,max=5000"`
}

// ProjectInput creates a project.
type ProjectInput struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Description string   `json:"description" validate:"required,min=1"`
	ImageURL    string   `json:"img" validate:"required,absurl"`
	Link        string   `json:"link" validate:"required,absurl"`
	Keywords    []string `json:"keywords" validate:"omitempty,dive,required"`
}

// ProjectPatch updates a project. A nil field is left unchanged; a
// present field obeys the same constraint as in ProjectInput.
type ProjectPatch struct {
	Title       *string  `json:"title" validate:"omitnil,min=1"`
	Description *string  `json:"description" validate:"omitnil,min=1"`
	ImageURL    *string  `json:"img" validate:"omitnil,absurl"`
	Link        *string  `json:"link" validate:"omitnil,absurl"`
	Keywords    []string `json:"keywords" validate:"omitempty,dive,required"`
}

// GitHubQuery selects whose contributions to fetch.
type GitHubQuery struct {
	Username string `json:"username" validate:"required,max=39,ghuser"`
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ImageURL == nil &&
		p.Link == nil && p.Keywords == nil
}

// NormalizeKeywords flattens raw keyword values into trimmed, non-empty
// entries. Each raw value is read as a JSON string array when it is one,
// otherwise it is split on commas. Order and duplicates are kept.
func NormalizeKeywords(raw ...string) []string {
	out := []string{}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		var parts []string
		if strings.HasPrefix(r, "[") {
			if err := json.Unmarshal([]byte(r), &parts); err != nil {
				parts = strings.Split(r, ",")
			}
		} else {
			parts = strings.Split(r, ",")
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
