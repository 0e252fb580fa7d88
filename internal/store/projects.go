// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Project is a projects row. Keywords holds a JSON array.
type Project struct {
	ID          string
	Title       string
	Description string
	ImageUrl    string
	Link        string
	Keywords    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const projectColumns = `id, title, description, image_url, link, keywords, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.ImageUrl,
		&i.Link,
		&i.Keywords,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listProjects = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at ASC, id ASC`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Project{}
	for rows.Next() {
		i, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getProject = `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

func (q *Queries) GetProject(ctx context.Context, id string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProject, id))
}

const countProjects = `SELECT COUNT(*) FROM projects`

func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countProjects).Scan(&count)
	return count, err
}

const createProject = `
INSERT INTO projects (id, title, description, image_url, link, keywords, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	ID          string
	Title       string
	Description string
	ImageUrl    string
	Link        string
	Keywords    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.ImageUrl,
		arg.Link,
		arg.Keywords,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanProject(row)
}

const updateProject = `
UPDATE projects SET
    title = ?,
    description = ?,
    image_url = ?,
    link = ?,
    keywords = ?,
    updated_at = ?
WHERE id = ?
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	Title       string
	Description string
	ImageUrl    string
	Link        string
	Keywords    string
	UpdatedAt   time.Time
	ID          string
}

// UpdateProject returns sql.ErrNoRows when id does not exist.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.Title,
		arg.Description,
		arg.ImageUrl,
		arg.Link,
		arg.Keywords,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanProject(row)
}

const deleteProject = `DELETE FROM projects WHERE id = ?`

// DeleteProject reports the number of deleted rows.
func (q *Queries) DeleteProject(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
