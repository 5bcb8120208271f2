// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const sponsorColumns = `id, name, contact_info, sponsored_event, created_at`

func scanSponsor(row interface{ Scan(...any) error }) (model.Sponsor, error) {
	var s model.Sponsor
	err := row.Scan(&s.ID, &s.Name, &s.ContactInfo, &s.SponsoredEvent, &s.CreatedAt)
	return s, err
}

// CreateSponsorParams holds fields for CreateSponsor.
type CreateSponsorParams struct {
	Name           string
	ContactInfo    sql.NullString
	SponsoredEvent sql.NullString
	CreatedAt      time.Time
}

// CreateSponsor inserts a sponsor and returns the created row.
func (q *Queries) CreateSponsor(ctx context.Context, arg CreateSponsorParams) (model.Sponsor, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO sponsors (name, contact_info, sponsored_event, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+sponsorColumns,
		arg.Name, arg.ContactInfo, arg.SponsoredEvent, arg.CreatedAt)
	return scanSponsor(row)
}

// GetSponsorByID returns the sponsor with the given ID.
func (q *Queries) GetSponsorByID(ctx context.Context, id int64) (model.Sponsor, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = ?`, id)
	return scanSponsor(row)
}

// ListSponsors returns all sponsors newest-first.
func (q *Queries) ListSponsors(ctx context.Context) ([]model.Sponsor, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+sponsorColumns+` FROM sponsors
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sponsors []model.Sponsor
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

// UpdateSponsorParams holds fields for UpdateSponsor.
type UpdateSponsorParams struct {
	ID             int64
	Name           string
	ContactInfo    sql.NullString
	SponsoredEvent sql.NullString
}

// UpdateSponsor updates a sponsor and returns the row.
func (q *Queries) UpdateSponsor(ctx context.Context, arg UpdateSponsorParams) (model.Sponsor, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE sponsors SET name = ?, contact_info = ?, sponsored_event = ?
		WHERE id = ?
		RETURNING `+sponsorColumns,
		arg.Name, arg.ContactInfo, arg.SponsoredEvent, arg.ID)
	return scanSponsor(row)
}

// DeleteSponsor removes a sponsor.
func (q *Queries) DeleteSponsor(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM sponsors WHERE id = ?`, id)
	return err
}
