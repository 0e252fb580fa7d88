// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/olegiv/portfolio-go/internal/imaging"
)

// TempFilePrefix names avatar temp files so the sweeper can find leftovers.
const TempFilePrefix = "portfolio-avatar-"

// Upload is an uploaded file as received by a handler.
type Upload struct {
	Filename    string
	ContentType string
	// Size is the declared size; -1 when unknown.
	Size   int64
	Reader io.Reader
}

// Empty reports whether there is nothing to ingest.
func (u *Upload) Empty() bool {
	return u == nil || u.Reader == nil || u.Size == 0
}

// ReferenceStore persists image bytes and returns a reference that can be
// stored in place of the image, such as a data URI or a public URL.
type ReferenceStore interface {
	Store(ctx context.Context, data []byte, mimeType, filename string) (string, error)
}

// Normalizer re-encodes an image file into storable bytes.
type Normalizer interface {
	NormalizeFile(path string) (*imaging.Result, error)
}

// AvatarIngest converts uploaded avatars into storable references.
type AvatarIngest struct {
	images  Normalizer
	refs    ReferenceStore
	tempDir string
	logger  *slog.Logger
}

// NewAvatarIngest creates an AvatarIngest. An empty tempDir uses os.TempDir.
func NewAvatarIngest(images Normalizer, refs ReferenceStore, tempDir string, logger *slog.Logger) *AvatarIngest {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvatarIngest{images: images, refs: refs, tempDir: tempDir, logger: logger}
}

// ToStorableReference returns fallback unchanged for a missing or empty
// upload. Otherwise the upload is spooled to a temp file, normalised and
// stored. The temp file is removed on every return path and failures are
// returned, never replaced by fallback.
func (a *AvatarIngest) ToStorableReference(ctx context.Context, up *Upload, fallback string) (string, error) {
	if up.Empty() {
		return fallback, nil
	}

	f, err := os.CreateTemp(a.tempDir, TempFilePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	defer func() {
		_ = f.Close()
		if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("failed to remove avatar temp file", "path", name, "error", err)
		}
	}()

	n, err := io.Copy(f, io.LimitReader(up.Reader, imaging.MaxInputSize+1))
	if err != nil {
		return "", fmt.Errorf("spooling upload: %w", err)
	}
	if n == 0 {
		return fallback, nil
	}
	if n > imaging.MaxInputSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, imaging.MaxInputSize)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	res, err := a.images.NormalizeFile(name)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) || errors.Is(err, imaging.ErrDecode) {
			return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		return "", fmt.Errorf("normalising avatar: %w", err)
	}

	ref, err := a.refs.Store(ctx, res.Data, res.MimeType, up.Filename)
	if err != nil {
		return "", fmt.Errorf("storing avatar: %w", err)
	}

	a.logger.Info("avatar ingested", "filename", up.Filename, "bytes", len(res.Data),
		"width", res.Width, "height", res.Height, "mime", res.MimeType)
	return ref, nil
}
