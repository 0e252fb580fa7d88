// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validationErrors(t *testing.T, err error) *Errors {
	t.Helper()
	var verrs *Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want *Errors", err)
	}
	return verrs
}

func TestValidateContact_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		input     ContactInput
		wantField string
	}{
		{"valid", ContactInput{"Al", "a@b.com", "1234567890"}, ""},
		{"name 1 char", ContactInput{"A", "a@b.com", "1234567890"}, "name"},
		{"name 50 chars", ContactInput{strings.Repeat("n", 50), "a@b.com", "1234567890"}, ""},
		{"name 51 chars", ContactInput{strings.Repeat("n", 51), "a@b.com", "1234567890"}, "name"},
		{"message 9 chars", ContactInput{"Al", "a@b.com", "123456789"}, "message"},
		{"message 500 chars", ContactInput{"Al", "a@b.com", strings.Repeat("m", 500)}, ""},
		{"message 501 chars", ContactInput{"Al", "a@b.com", strings.Repeat("m", 501)}, "message"},
		{"bad email", ContactInput{"Al", "not-an-email", "1234567890"}, "email"},
		{"empty email", ContactInput{"Al", "", "1234567890"}, "email"},
		{"multibyte name counts code points", ContactInput{"Łó", "a@b.com", "1234567890"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			verrs := validationErrors(t, err)
			if !verrs.Has(tt.wantField) {
				t.Errorf("errors %v do not name %q", verrs.Fields, tt.wantField)
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	err := Validate(ContactInput{Name: "A", Email: "x", Message: "short"})
	verrs := validationErrors(t, err)

	want := []FieldError{
		{Field: "name", Message: "must be at least 2 characters"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "message", Message: "must be at least 10 characters"},
	}
	if diff := cmp.Diff(want, verrs.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if got := verrs.Map()["email"]; got != "must be a valid email address" {
		t.Errorf("Map()[email] = %q", got)
	}
}

func TestValidateHero(t *testing.T) {
	valid := HeroInput{
		Avatar:           "data:image/png;base64,iVBORw0KGgo=",
		FullName:         "Ada Lovelace",
		ShortDescription: "Engineer",
		LongDescription:  "Writes programs for analytical engines.",
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*HeroInput)
		field  string
	}{
		{"avatar not image", func(h *HeroInput) { h.Avatar = "data:text/plain,hi" }, "avatar"},
		{"avatar relative", func(h *HeroInput) { h.Avatar = "/img/me.png" }, "avatar"},
		{"avatar ftp", func(h *HeroInput) { h.Avatar = "ftp://example.com/me.png" }, "avatar"},
		{"full name short", func(h *HeroInput) { h.FullName = "A" }, "fullName"},
		{"short description long", func(h *HeroInput) { h.ShortDescription = strings.Repeat("s", 121) }, "shortDescription"},
		{"long description short", func(h *HeroInput) { h.LongDescription = "too short" }, "longDescription"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			verrs := validationErrors(t, Validate(in))
			if !verrs.Has(tt.field) {
				t.Errorf("errors %v do not name %q", verrs.Fields, tt.field)
			}
		})
	}

	in := valid
	in.Avatar = "https://cdn.example.com/me.png"
	if err := Validate(in); err != nil {
		t.Errorf("https avatar rejected: %v", err)
	}
}

func TestValidateHero_LengthBoundaries(t *testing.T) {
	base := HeroInput{
		Avatar:           "data:image/png;base64,iVBORw0KGgo=",
		FullName:         "Ada Lovelace",
		ShortDescription: "Engineer",
		LongDescription:  "Writes programs for analytical engines.",
	}

	tests := []struct {
		name   string
		mutate func(*HeroInput)
		field  string // empty means valid
	}{
		{"full name 2", func(h *HeroInput) { h.FullName = "Al" }, ""},
		{"full name 200", func(h *HeroInput) { h.FullName = strings.Repeat("n", 200) }, ""},
		{"full name 201", func(h *HeroInput) { h.FullName = strings.Repeat("n", 201) }, "fullName"},
		{"full name 200 runes", func(h *HeroInput) { h.FullName = strings.Repeat("é", 200) }, ""},
		{"short description 2", func(h *HeroInput) { h.ShortDescription = "Go" }, ""},
		{"short description 120", func(h *HeroInput) { h.ShortDescription = strings.Repeat("s", 120) }, ""},
		{"long description 10", func(h *HeroInput) { h.LongDescription = strings.Repeat("l", 10) }, ""},
		{"long description 9", func(h *HeroInput) { h.LongDescription = strings.Repeat("l", 9) }, "longDescription"},
		{"long description 5000", func(h *HeroInput) { h.LongDescription = strings.Repeat("l", 5000) }, ""},
		{"long description 5001", func(h *HeroInput) { h.LongDescription = strings.Repeat("l", 5001) }, "longDescription"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			err := Validate(in)
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if verrs := validationErrors(t, err); !verrs.Has(tt.field) {
				t.Errorf("errors %v do not name %q", verrs.Fields, tt.field)
			}
		})
	}
}

func TestValidateProjectInput(t *testing.T) {
	in := ProjectInput{
		Title:       "Ray Tracer",
		Description: "Renders spheres.",
		ImageURL:    "https://example.com/rt.png",
		Link:        "https://example.com/rt",
		Keywords:    []string{"go"},
	}
	if err := Validate(in); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	in.ImageURL = "rt.png"
	in.Title = ""
	verrs := validationErrors(t, Validate(in))
	if !verrs.Has("img") || !verrs.Has("title") {
		t.Errorf("errors = %v, want img and title", verrs.Fields)
	}

	in = ProjectInput{Title: "t", Description: "d", ImageURL: "https://e.com/i", Link: "https://e.com", Keywords: []string{"ok", ""}}
	verrs = validationErrors(t, Validate(in))
	if !verrs.Has("keywords[1]") {
		t.Errorf("errors = %v, want keywords[1]", verrs.Fields)
	}
}

func TestValidateProjectPatch(t *testing.T) {
	str := func(s string) *string { return &s }

	if err := Validate(ProjectPatch{}); err != nil {
		t.Errorf("empty patch rejected: %v", err)
	}
	if err := Validate(ProjectPatch{Title: str("New")}); err != nil {
		t.Errorf("title patch rejected: %v", err)
	}

	verrs := validationErrors(t, Validate(ProjectPatch{Link: str("not-a-url")}))
	if !verrs.Has("link") {
		t.Errorf("errors = %v, want link", verrs.Fields)
	}

	verrs = validationErrors(t, Validate(ProjectPatch{Title: str("")}))
	if !verrs.Has("title") {
		t.Errorf("errors = %v, want title", verrs.Fields)
	}
}

func TestProjectPatchEmpty(t *testing.T) {
	if !(ProjectPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (ProjectPatch{Keywords: []string{}}).Empty() {
		t.Error("patch clearing keywords should not be empty")
	}
}

func TestValidate_NotAStruct(t *testing.T) {
	err := Validate(nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var verrs *Errors
	if errors.As(err, &verrs) {
		t.Error("invalid schema should not be reported as input errors")
	}
}

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"comma list", []string{"go, sql ,, web "}, []string{"go", "sql", "web"}},
		{"json array", []string{`["go"," sql ",""]`}, []string{"go", "sql"}},
		{"bad json falls back to split", []string{`[go, sql`}, []string{"[go", "sql"}},
		{"multiple values", []string{"go", " web"}, []string{"go", "web"}},
		{"duplicates kept", []string{"go,go"}, []string{"go", "go"}},
		{"blank", []string{"   "}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeywords(tt.raw...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeKeywords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":     true,
		"http://localhost:8080/x": true,
		"mailto:someone@example":  false,
		"not-a-url":               false,
		"/relative/path":          false,
		"":                        false,
		"https://exa mple.com":    false,
	}
	for in, want := range tests {
		if got := IsAbsoluteURL(in); got != want {
			t.Errorf("IsAbsoluteURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBodyError(t *testing.T) {
	e := BodyError(errors.New("unexpected EOF"))
	if !e.Has("body") {
		t.Errorf("BodyError fields = %v", e.Fields)
	}
}

func TestValidateGitHubQuery(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"octocat", true},
		{"Dove167", true},
		{"my-user-1", true},
		{strings.Repeat("a", 39), true},
		{strings.Repeat("a", 40), false},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"../admin", false},
		{"a b", false},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			err := Validate(GitHubQuery{Username: tt.username})
			if tt.valid {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.username, err)
				}
				return
			}
			if verrs := validationErrors(t, err); !verrs.Has("username") {
				t.Errorf("errors %v do not name username", verrs.Fields)
			}
		})
	}
}
