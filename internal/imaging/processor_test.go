// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/portfolio-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_FitsWithinBounds(t *testing.T) {
	p := NewProcessor(model.AvatarVariant{Width: 64, Height: 64, Quality: 80})

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(200, 100), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	res, err := p.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Width != 64 || res.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", res.Width, res.Height)
	}
	if res.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, model.MimeTypeJPEG)
	}
	if _, err := jpeg.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
}

func TestNormalize_SmallImageNotUpscaled(t *testing.T) {
	p := NewProcessor(model.DefaultAvatarVariant)

	res, err := p.Normalize(encodePNG(t, createTestImage(10, 20)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Width != 10 || res.Height != 20 {
		t.Errorf("size = %dx%d, want 10x20", res.Width, res.Height)
	}
	if res.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, model.MimeTypePNG)
	}
}

func TestNormalize_GIFBecomesPNG(t *testing.T) {
	p := NewProcessor(model.DefaultAvatarVariant)

	var buf bytes.Buffer
	if err := gif.Encode(&buf, createTestImage(8, 8), nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	res, err := p.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, model.MimeTypePNG)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	p := NewProcessor(model.DefaultAvatarVariant)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"text", []byte("definitely not an image"), ErrUnsupportedFormat},
		{"tiff", []byte("II*\x00\x08\x00\x00\x00"), ErrUnsupportedFormat},
		{"truncated png", encodePNG(t, createTestImage(4, 4))[:20], ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Normalize(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Normalize error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalizeFile(t *testing.T) {
	p := NewProcessor(model.DefaultAvatarVariant)
	path := filepath.Join(t.TempDir(), "avatar.png")
	if err := os.WriteFile(path, encodePNG(t, createTestImage(3, 3)), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res, err := p.NormalizeFile(path)
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}
	if res.Width != 3 {
		t.Errorf("Width = %d, want 3", res.Width)
	}

	if _, err := p.NormalizeFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(4, 2)
	tests := []struct {
		orientation int
		w, h        int
	}{
		{1, 4, 2},
		{2, 4, 2},
		{3, 4, 2},
		{4, 4, 2},
		{5, 2, 4},
		{6, 2, 4},
		{7, 2, 4},
		{8, 2, 4},
		{0, 4, 2},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}

func TestNewProcessor_Defaults(t *testing.T) {
	p := NewProcessor(model.AvatarVariant{})
	if p.variant != model.DefaultAvatarVariant {
		t.Errorf("variant = %+v, want default", p.variant)
	}
}
