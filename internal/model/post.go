// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
)

// ExcerptLength is the number of content characters kept when an
// excerpt is derived from the post body.
const ExcerptLength = 150

// Post represents a community blog post. Posts are listed newest-first
// and are published by default.
type Post struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Content     string         `json:"content"`
	Excerpt     sql.NullString `json:"excerpt,omitempty"`
	IsPublished bool           `json:"is_published"`
	AuthorID    int64          `json:"author_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ExcerptFromContent derives an excerpt by truncating content to
// ExcerptLength characters and appending an ellipsis marker. The
// marker is appended even when the content fits, so every derived
// excerpt reads as a teaser for the full post. Derivation happens once
// at create/update time, never on read.
func ExcerptFromContent(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}

// EffectiveExcerpt returns the stored excerpt, falling back to the
// raw content for legacy rows written before derivation existed.
func (p *Post) EffectiveExcerpt() string {
	if p.Excerpt.Valid && p.Excerpt.String != "" {
		return p.Excerpt.String
	}
	return ExcerptFromContent(p.Content)
}
