// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const albumColumns = `id, title, slug, description, cover_image_url, is_public, created_by, created_at`

func scanAlbum(row interface{ Scan(...any) error }) (model.Album, error) {
	var a model.Album
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Description, &a.CoverImageURL,
		&a.IsPublic, &a.CreatedBy, &a.CreatedAt)
	return a, err
}

// CreateAlbumParams holds fields for CreateAlbum.
type CreateAlbumParams struct {
	Title       string
	Slug        string
	Description sql.NullString
	IsPublic    bool
	CreatedBy   sql.NullInt64
	CreatedAt   time.Time
}

// CreateAlbum inserts an album and returns the created row.
func (q *Queries) CreateAlbum(ctx context.Context, arg CreateAlbumParams) (model.Album, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO photo_albums (title, slug, description, is_public, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+albumColumns,
		arg.Title, arg.Slug, arg.Description, arg.IsPublic, arg.CreatedBy, arg.CreatedAt)
	return scanAlbum(row)
}

// GetAlbumByID returns the album with the given ID.
func (q *Queries) GetAlbumByID(ctx context.Context, id int64) (model.Album, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM photo_albums WHERE id = ?`, id)
	return scanAlbum(row)
}

// GetAlbumBySlug returns the album with the given slug.
func (q *Queries) GetAlbumBySlug(ctx context.Context, slug string) (model.Album, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM photo_albums WHERE slug = ?`, slug)
	return scanAlbum(row)
}

// AlbumSlugExists reports whether a slug is already taken.
func (q *Queries) AlbumSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photo_albums WHERE slug = ?`, slug).Scan(&n)
	return n != 0, err
}

// ListAlbums returns all albums newest-first.
func (q *Queries) ListAlbums(ctx context.Context) ([]model.Album, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+albumColumns+` FROM photo_albums
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var albums []model.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// ListPublicAlbums returns public albums newest-first.
func (q *Queries) ListPublicAlbums(ctx context.Context) ([]model.Album, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+albumColumns+` FROM photo_albums
		WHERE is_public = 1
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var albums []model.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// UpdateAlbumParams holds fields for UpdateAlbum.
type UpdateAlbumParams struct {
	ID          int64
	Title       string
	Description sql.NullString
	IsPublic    bool
}

// UpdateAlbum updates an album's editable fields and returns the row.
func (q *Queries) UpdateAlbum(ctx context.Context, arg UpdateAlbumParams) (model.Album, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE photo_albums SET title = ?, description = ?, is_public = ?
		WHERE id = ?
		RETURNING `+albumColumns,
		arg.Title, arg.Description, arg.IsPublic, arg.ID)
	return scanAlbum(row)
}

// SetAlbumCover sets the album's cover image URL.
func (q *Queries) SetAlbumCover(ctx context.Context, id int64, coverURL sql.NullString) error {
	_, err := q.db.ExecContext(ctx, `UPDATE photo_albums SET cover_image_url = ? WHERE id = ?`, coverURL, id)
	return err
}

// DeleteAlbum removes an album; photos cascade via FK constraint.
func (q *Queries) DeleteAlbum(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM photo_albums WHERE id = ?`, id)
	return err
}

// CountAlbums returns the total number of albums.
func (q *Queries) CountAlbums(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photo_albums`).Scan(&n)
	return n, err
}
