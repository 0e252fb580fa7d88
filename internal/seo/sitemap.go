// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the XML sitemap for the public pages.
package seo

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the builder.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder collects URLs below siteURL.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddStaticPages adds the home, projects and contact pages. The home page
// takes the hero's last update as lastmod.
func (b *SitemapBuilder) AddStaticPages(heroUpdated time.Time) {
	home := SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqWeekly, Priority: "1.0"}
	if !heroUpdated.IsZero() {
		home.LastMod = heroUpdated.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls,
		home,
		SitemapURL{Loc: b.siteURL + "/projects", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
		SitemapURL{Loc: b.siteURL + "/contact", ChangeFreq: ChangeFreqMonthly, Priority: "0.5"},
	)
}

// AddProject adds a project detail page.
func (b *SitemapBuilder) AddProject(p model.Project) {
	u := SitemapURL{
		Loc:        b.siteURL + "/projects/" + url.PathEscape(p.ID),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.8",
	}
	if !p.UpdatedAt.IsZero() {
		u.LastMod = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// AddProjects adds multiple projects to the sitemap.
func (b *SitemapBuilder) AddProjects(projects []model.Project) {
	for _, p := range projects {
		b.AddProject(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap is a convenience function for the whole public site.
func GenerateSitemap(siteURL string, hero model.HeroProfile, projects []model.Project) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddStaticPages(hero.UpdatedAt)
	builder.AddProjects(projects)
	return builder.Build()
}
