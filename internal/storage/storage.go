// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage turns normalised avatar bytes into a storable reference:
// an inline data URI or a public object-storage URL.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
)

// DataURIStore embeds images inline as base64 data URIs.
type DataURIStore struct{}

// Store returns "data:<mime>;base64,<payload>".
func (DataURIStore) Store(_ context.Context, data []byte, mimeType, _ string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image data")
	}
	if mimeType == "" {
		return "", errors.New("missing MIME type")
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
