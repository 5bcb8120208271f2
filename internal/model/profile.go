// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Profile is a member's public directory entry. Exactly one profile
// exists per user.
type Profile struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	FullName   sql.NullString `json:"full_name,omitempty"`
	Bio        sql.NullString `json:"bio,omitempty"`
	Location   sql.NullString `json:"location,omitempty"`
	AvatarURL  sql.NullString `json:"avatar_url,omitempty"`
	AvatarKey  sql.NullString `json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// DisplayName returns the profile's full name, or a placeholder when
// the member has not filled one in.
func (p *Profile) DisplayName() string {
	if p.FullName.Valid && p.FullName.String != "" {
		return p.FullName.String
	}
	return "Unknown Member"
}
