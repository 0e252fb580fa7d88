// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalises uploaded avatar images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/portfolio-go/internal/model"
)

// Errors returned for unusable input. Both mean the upload is bad, not the server.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image could not be decoded")
)

// MaxInputSize caps the bytes read from an upload.
const MaxInputSize = 10 << 20

// Result is a normalised image ready for storage.
type Result struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Processor normalises images using pure Go libraries.
type Processor struct {
	variant model.AvatarVariant
}

// NewProcessor creates a processor bounded by variant.
func NewProcessor(variant model.AvatarVariant) *Processor {
	if variant.Width <= 0 || variant.Height <= 0 {
		variant = model.DefaultAvatarVariant
	}
	if variant.Quality <= 0 || variant.Quality > 100 {
		variant.Quality = model.DefaultAvatarVariant.Quality
	}
	return &Processor{variant: variant}
}

// NormalizeFile reads the image at path and normalises it.
func (p *Processor) NormalizeFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrUnsupportedFormat, MaxInputSize)
	}
	return p.Normalize(data)
}

// Normalize decodes data, applies the EXIF orientation, fits the image
// within the configured bounds and re-encodes it. Metadata is dropped.
// PNG and GIF become PNG; JPEG and WebP become JPEG.
func (p *Processor) Normalize(data []byte) (*Result, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	img = imaging.Fit(img, p.variant.Width, p.variant.Height, imaging.Lanczos)

	out, mimeType, err := encodeImage(img, format, p.variant.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:     out,
		MimeType: mimeType,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png", "gif":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), model.MimeTypePNG, nil
	default:
		// No pure Go WebP encoder; WebP input is stored as JPEG.
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), model.MimeTypeJPEG, nil
	}
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
