// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// HeroStore is the persistence used by HeroService.
type HeroStore interface {
	GetHeroProfile(ctx context.Context) (store.HeroProfile, error)
	UpsertHeroProfile(ctx context.Context, arg store.UpsertHeroProfileParams) (store.HeroProfile, error)
}

// HeroUpdate is a hero edit. AvatarFile takes precedence over Avatar;
// when neither yields an image the stored avatar is kept.
type HeroUpdate struct {
	AvatarFile       *Upload
	Avatar           string
	FullName         string
	ShortDescription string
	LongDescription  string
}

// HeroService reads and updates the hero profile.
type HeroService struct {
	queries HeroStore
	avatars *AvatarIngest
	cache   *cache.TypedCache[model.HeroProfile]
	logger  *slog.Logger
	now     func() time.Time
}

// NewHeroService creates a HeroService. c may be nil to disable caching.
func NewHeroService(queries HeroStore, avatars *AvatarIngest, c cache.Cache, ttl time.Duration, logger *slog.Logger) *HeroService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeroService{
		queries: queries,
		avatars: avatars,
		cache:   cache.NewTypedCache[model.HeroProfile](c, ttl, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the stored profile, or the placeholder defaults before the
// first save.
func (s *HeroService) Get(ctx context.Context) (model.HeroProfile, error) {
	return s.cache.GetOrLoad(ctx, cache.KeyHero, s.load)
}

func (s *HeroService) load(ctx context.Context) (model.HeroProfile, error) {
	row, err := s.queries.GetHeroProfile(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultHeroProfile(), nil
	}
	if err != nil {
		return model.HeroProfile{}, fmt.Errorf("loading hero profile: %w", err)
	}
	return heroFromRow(row), nil
}

// Upsert validates and saves the profile. The avatar resolves to, in order:
// the ingested upload, a well-formed supplied reference, the stored avatar.
func (s *HeroService) Upsert(ctx context.Context, sess *model.Session, upd HeroUpdate) (model.HeroProfile, error) {
	now := s.now()
	if err := requireSession(sess, now); err != nil {
		return model.HeroProfile{}, err
	}

	current, err := s.load(ctx)
	if err != nil {
		return model.HeroProfile{}, err
	}

	fallback := current.Avatar
	if ref := strings.TrimSpace(upd.Avatar); validation.IsImageReference(ref) {
		fallback = ref
	}

	input := validation.HeroInput{
		Avatar:           fallback,
		FullName:         strings.TrimSpace(upd.FullName),
		ShortDescription: strings.TrimSpace(upd.ShortDescription),
		LongDescription:  strings.TrimSpace(upd.LongDescription),
	}
	// Validate text before ingesting so a bad form never uploads an image.
	if err := validation.Validate(input); err != nil {
		return model.HeroProfile{}, err
	}

	input.Avatar, err = s.avatars.ToStorableReference(ctx, upd.AvatarFile, fallback)
	if err != nil {
		return model.HeroProfile{}, err
	}

	row, err := s.queries.UpsertHeroProfile(ctx, store.UpsertHeroProfileParams{
		Avatar:           input.Avatar,
		FullName:         input.FullName,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		UpdatedAt:        now,
	})
	if err != nil {
		return model.HeroProfile{}, fmt.Errorf("saving hero profile: %w", err)
	}

	s.cache.Invalidate(ctx, cache.KeyHero)
	s.logger.Info("hero profile updated", "user_id", sess.UserID)
	return heroFromRow(row), nil
}

func heroFromRow(row store.HeroProfile) model.HeroProfile {
	return model.HeroProfile{
		Avatar:           row.Avatar,
		FullName:         row.FullName,
		ShortDescription: row.ShortDescription,
		LongDescription:  row.LongDescription,
		UpdatedAt:        row.UpdatedAt,
	}
}
