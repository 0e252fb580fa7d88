// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// HeroProfile is the single hero_profile row.
type HeroProfile struct {
	Avatar           string
	FullName         string
	ShortDescription string
	LongDescription  string
	UpdatedAt        time.Time
}

const getHeroProfile = `
SELECT avatar, full_name, short_description, long_description, updated_at
FROM hero_profile WHERE id = 1
`

// GetHeroProfile returns sql.ErrNoRows until the profile has been saved once.
func (q *Queries) GetHeroProfile(ctx context.Context) (HeroProfile, error) {
	row := q.db.QueryRowContext(ctx, getHeroProfile)
	var i HeroProfile
	err := row.Scan(
		&i.Avatar,
		&i.FullName,
		&i.ShortDescription,
		&i.LongDescription,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertHeroProfile = `
INSERT INTO hero_profile (id, avatar, full_name, short_description, long_description, updated_at)
VALUES (1, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    avatar = excluded.avatar,
    full_name = excluded.full_name,
    short_description = excluded.short_description,
    long_description = excluded.long_description,
    updated_at = excluded.updated_at
RETURNING avatar, full_name, short_description, long_description, updated_at
`

type UpsertHeroProfileParams struct {
	Avatar           string
	FullName         string
	ShortDescription string
	LongDescription  string
	UpdatedAt        time.Time
}

func (q *Queries) UpsertHeroProfile(ctx context.Context, arg UpsertHeroProfileParams) (HeroProfile, error) {
	row := q.db.QueryRowContext(ctx, upsertHeroProfile,
		arg.Avatar,
		arg.FullName,
		arg.ShortDescription,
		arg.LongDescription,
		arg.UpdatedAt,
	)
	var i HeroProfile
	err := row.Scan(
		&i.Avatar,
		&i.FullName,
		&i.ShortDescription,
		&i.LongDescription,
		&i.UpdatedAt,
	)
	return i, err
}
