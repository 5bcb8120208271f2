// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const photoColumns = `id, album_id, title, image_url, storage_key, uploaded_by, uploaded_at`

func scanPhoto(row interface{ Scan(...any) error }) (model.Photo, error) {
	var p model.Photo
	err := row.Scan(&p.ID, &p.AlbumID, &p.Title, &p.ImageURL, &p.StorageKey,
		&p.UploadedBy, &p.UploadedAt)
	return p, err
}

// CreatePhotoParams holds fields for CreatePhoto.
type CreatePhotoParams struct {
	AlbumID    int64
	Title      sql.NullString
	ImageURL   string
	StorageKey string
	UploadedBy sql.NullInt64
	UploadedAt time.Time
}

// CreatePhoto inserts a photo record and returns the created row.
func (q *Queries) CreatePhoto(ctx context.Context, arg CreatePhotoParams) (model.Photo, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO photos (album_id, title, image_url, storage_key, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+photoColumns,
		arg.AlbumID, arg.Title, arg.ImageURL, arg.StorageKey, arg.UploadedBy, arg.UploadedAt)
	return scanPhoto(row)
}

// GetPhotoByID returns the photo with the given ID.
func (q *Queries) GetPhotoByID(ctx context.Context, id int64) (model.Photo, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ?`, id)
	return scanPhoto(row)
}

// ListPhotosByAlbum returns an album's photos newest-first.
func (q *Queries) ListPhotosByAlbum(ctx context.Context, albumID int64) ([]model.Photo, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+photoColumns+` FROM photos
		WHERE album_id = ?
		ORDER BY uploaded_at DESC, id DESC`, albumID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var photos []model.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// UpdatePhotoTitle updates a photo's title and returns the row.
func (q *Queries) UpdatePhotoTitle(ctx context.Context, id int64, title sql.NullString) (model.Photo, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE photos SET title = ? WHERE id = ?
		RETURNING `+photoColumns, title, id)
	return scanPhoto(row)
}

// DeletePhoto removes a photo record.
func (q *Queries) DeletePhoto(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	return err
}

// CountPhotosByAlbum returns the number of photos in an album.
func (q *Queries) CountPhotosByAlbum(ctx context.Context, albumID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE album_id = ?`, albumID).Scan(&n)
	return n, err
}
