// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// String formats the info for -version output, e.g.
// "portfolio v1.2.3 (commit: abc1234, built: 2025-01-30T12:00:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("portfolio %s (commit: %s, built: %s)", orUnknown(i.Version, "dev"),
		orUnknown(i.GitCommit, "unknown"), orUnknown(i.BuildTime, "unknown"))
}

// Short returns the version, or "dev" for builds without ldflags.
func (i Info) Short() string {
	return orUnknown(i.Version, "dev")
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
