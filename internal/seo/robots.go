// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// privatePaths are never worth crawling: the dashboard, the project
// editors and the identity provider flow.
var privatePaths = []string{
	"/api/",
	"/dashboard",
	"/login",
	"/projects/new",
	"/projects/*/edit",
}

// Robots builds robots.txt. disallowAll blocks every crawler, for
// development and staging sites; siteURL adds the sitemap reference.
func Robots(siteURL string, disallowAll bool) string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if disallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	for _, path := range privatePaths {
		sb.WriteString("Disallow: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: /\n")

	if siteURL != "" {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(siteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}

	return sb.String()
}
