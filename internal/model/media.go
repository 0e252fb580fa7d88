// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported image MIME types for avatars.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// AvatarVariant bounds the stored avatar image.
type AvatarVariant struct {
	Width   int
	Height  int
	Quality int
}

// DefaultAvatarVariant fits avatars within 512x512 at JPEG quality 85.
var DefaultAvatarVariant = AvatarVariant{Width: 512, Height: 512, Quality: 85}
