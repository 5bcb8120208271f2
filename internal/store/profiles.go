// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const profileColumns = `id, user_id, full_name, bio, location, avatar_url, avatar_key, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Bio, &p.Location,
		&p.AvatarURL, &p.AvatarKey, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProfileParams holds fields for CreateProfile.
type CreateProfileParams struct {
	UserID    int64
	FullName  sql.NullString
	Bio       sql.NullString
	Location  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateProfile inserts a member profile and returns the created row.
// Each user has at most one profile; a second insert for the same user
// fails with a constraint error.
func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (model.Profile, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, full_name, bio, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+profileColumns,
		arg.UserID, arg.FullName, arg.Bio, arg.Location, arg.CreatedAt, arg.UpdatedAt)
	return scanProfile(row)
}

// GetProfileByUserID returns the profile belonging to a user.
func (q *Queries) GetProfileByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)
	return scanProfile(row)
}

// ListProfiles returns all member profiles newest-first.
func (q *Queries) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+profileColumns+` FROM profiles
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpdateProfileParams holds fields for UpdateProfile.
type UpdateProfileParams struct {
	UserID    int64
	FullName  sql.NullString
	Bio       sql.NullString
	Location  sql.NullString
	UpdatedAt time.Time
}

// UpdateProfile updates a member's own profile fields and returns the
// row.
func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (model.Profile, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE profiles SET full_name = ?, bio = ?, location = ?, updated_at = ?
		WHERE user_id = ?
		RETURNING `+profileColumns,
		arg.FullName, arg.Bio, arg.Location, arg.UpdatedAt, arg.UserID)
	return scanProfile(row)
}

// SetProfileAvatar records the avatar URL and storage key for a user's
// profile and returns the row.
func (q *Queries) SetProfileAvatar(ctx context.Context, userID int64, avatarURL, avatarKey sql.NullString, updatedAt time.Time) (model.Profile, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE profiles SET avatar_url = ?, avatar_key = ?, updated_at = ?
		WHERE user_id = ?
		RETURNING `+profileColumns,
		avatarURL, avatarKey, updatedAt, userID)
	return scanProfile(row)
}

// DeleteProfile removes a member's profile.
func (q *Queries) DeleteProfile(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	return err
}
