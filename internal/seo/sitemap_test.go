// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
)

func TestNewSitemapBuilder(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com/")
	if builder.siteURL != "https://example.com" {
		t.Errorf("siteURL = %q, want trailing slash trimmed", builder.siteURL)
	}
	if len(builder.urls) != 0 {
		t.Errorf("urls length = %d, want 0", len(builder.urls))
	}
}

func TestSitemapBuilderAddStaticPages(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	updated := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	builder.AddStaticPages(updated)

	if len(builder.urls) != 3 {
		t.Fatalf("urls length = %d, want 3", len(builder.urls))
	}

	tests := []struct {
		loc     string
		lastMod string
	}{
		{"https://example.com/", "2025-03-01T09:30:00Z"},
		{"https://example.com/projects", ""},
		{"https://example.com/contact", ""},
	}
	for i, tt := range tests {
		if builder.urls[i].Loc != tt.loc {
			t.Errorf("urls[%d].Loc = %q, want %q", i, builder.urls[i].Loc, tt.loc)
		}
		if builder.urls[i].LastMod != tt.lastMod {
			t.Errorf("urls[%d].LastMod = %q, want %q", i, builder.urls[i].LastMod, tt.lastMod)
		}
	}
}

func TestSitemapBuilderAddStaticPages_DefaultHero(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddStaticPages(time.Time{})

	if builder.urls[0].LastMod != "" {
		t.Errorf("LastMod = %q, want empty for a hero never saved", builder.urls[0].LastMod)
	}
}

func TestSitemapBuilderAddProject(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddProject(model.Project{
		ID:        "3f2a",
		UpdatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.FixedZone("CET", 3600)),
	})

	url := builder.urls[0]
	if url.Loc != "https://example.com/projects/3f2a" {
		t.Errorf("Loc = %q", url.Loc)
	}
	if url.LastMod != "2025-01-15T09:00:00Z" {
		t.Errorf("LastMod = %q, want UTC RFC3339", url.LastMod)
	}
	if url.ChangeFreq != ChangeFreqMonthly {
		t.Errorf("ChangeFreq = %q, want %q", url.ChangeFreq, ChangeFreqMonthly)
	}
}

func TestGenerateSitemap(t *testing.T) {
	projects := []model.Project{
		{ID: "a", UpdatedAt: time.Now()},
		{ID: "b", UpdatedAt: time.Now()},
	}

	out, err := GenerateSitemap("https://example.com", model.DefaultHeroProfile(), projects)
	if err != nil {
		t.Fatalf("GenerateSitemap() error = %v", err)
	}

	if !strings.HasPrefix(string(out), xml.Header) {
		t.Error("sitemap should start with the XML header")
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if parsed.XMLNS != XMLNamespace {
		t.Errorf("xmlns = %q, want %q", parsed.XMLNS, XMLNamespace)
	}
	if len(parsed.URLs) != 5 {
		t.Errorf("url count = %d, want 5", len(parsed.URLs))
	}
	if parsed.URLs[4].Loc != "https://example.com/projects/b" {
		t.Errorf("last url = %q", parsed.URLs[4].Loc)
	}
}
