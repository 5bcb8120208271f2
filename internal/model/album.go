// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Album represents a photo album. Albums are listed newest-first.
type Album struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Description   sql.NullString `json:"description,omitempty"`
	CoverImageURL sql.NullString `json:"cover_image_url,omitempty"`
	IsPublic      bool           `json:"is_public"`
	CreatedBy     sql.NullInt64  `json:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Photo represents one image inside an album. Photos are scoped by
// album and listed newest-first.
type Photo struct {
	ID         int64          `json:"id"`
	AlbumID    int64          `json:"album_id"`
	Title      sql.NullString `json:"title,omitempty"`
	ImageURL   string         `json:"image_url"`
	StorageKey string         `json:"-"` // Key into the binary store, used for cleanup
	UploadedBy sql.NullInt64  `json:"uploaded_by,omitempty"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// DisplayTitle returns the photo title, or its storage filename when
// no title was provided at upload time.
func (p *Photo) DisplayTitle() string {
	if p.Title.Valid && p.Title.String != "" {
		return p.Title.String
	}
	return p.StorageKey
}
