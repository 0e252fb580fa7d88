// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/util"
)

// S3Config configures an S3 compatible bucket.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicURL is the base URL objects are served from, e.g. a CDN.
	// Defaults to the endpoint plus bucket.
	PublicURL string
	// Prefix is prepended to object keys.
	Prefix string
}

// S3Store uploads avatars to an S3 compatible bucket with minio-go.
type S3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
	prefix    string
}

// NewS3Store creates the client. It does not contact the server.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 endpoint and bucket are required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "avatars"
	}

	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		prefix:    prefix,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Store uploads data and returns its public URL.
func (s *S3Store) Store(ctx context.Context, data []byte, mimeType, filename string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image data")
	}

	key := s.objectKey(filename, mimeType)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  mimeType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}

// objectKey builds "<prefix>/<slug>-<uuid><ext>". The extension follows the
// stored MIME type since normalisation may change the format.
func (s *S3Store) objectKey(filename, mimeType string) string {
	base := "avatar"
	if safe, err := util.SanitizeFilename(filename); err == nil {
		if slug := util.Slugify(strings.TrimSuffix(safe, path.Ext(safe))); slug != "" {
			base = slug
		}
	}
	return s.prefix + "/" + base + "-" + uuid.NewString() + extensionFor(mimeType)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case model.MimeTypePNG:
		return ".png"
	case model.MimeTypeGIF:
		return ".gif"
	case model.MimeTypeWebP:
		return ".webp"
	default:
		return ".jpg"
	}
}
