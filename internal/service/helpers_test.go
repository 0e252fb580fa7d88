// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/imaging"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/storage"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func pngUpload(t *testing.T) *Upload {
	data := pngBytes(t, 16, 16)
	return &Upload{Filename: "me.png", ContentType: "image/png", Size: int64(len(data)), Reader: bytes.NewReader(data)}
}

func newTestIngest(t *testing.T, refs ReferenceStore) (*AvatarIngest, string) {
	t.Helper()
	dir := t.TempDir()
	if refs == nil {
		refs = storage.DataURIStore{}
	}
	return NewAvatarIngest(imaging.NewProcessor(model.DefaultAvatarVariant), refs, dir, testutil.TestLogger()), dir
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir has %d leftover entries, first %q", len(entries), entries[0].Name())
	}
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

func newTestServices(t *testing.T) (*HeroService, *ProjectService, string) {
	t.Helper()
	db := newTestDB(t)
	q := store.New(db)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })

	ingest, dir := newTestIngest(t, nil)
	hero := NewHeroService(q, ingest, mc, time.Minute, testutil.TestLogger())
	projects := NewProjectService(q, mc, time.Minute, testutil.TestLogger())
	return hero, projects, dir
}
