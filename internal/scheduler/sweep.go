// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/util"
)

// SweepTempFiles removes regular files in dir whose name starts with prefix
// and whose modification time is older than maxAge. Files that vanish
// mid-sweep are ignored. It returns the number of files removed.
func SweepTempFiles(dir, prefix string, maxAge time.Duration, now time.Time) (int, error) {
	if prefix == "" {
		return 0, errors.New("sweep prefix must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading temp dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		if err := util.ValidatePathWithinBase(dir, path); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
