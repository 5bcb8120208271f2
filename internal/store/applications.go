// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const applicationColumns = `id, name, roll_number, branch, email, reason_to_join, prior_experience, status, reviewed_by, reviewed_at, created_at`

func scanApplication(row interface{ Scan(...any) error }) (model.JoinApplication, error) {
	var a model.JoinApplication
	err := row.Scan(&a.ID, &a.Name, &a.RollNumber, &a.Branch, &a.Email,
		&a.ReasonToJoin, &a.PriorExperience, &a.Status, &a.ReviewedBy,
		&a.ReviewedAt, &a.CreatedAt)
	return a, err
}

// CreateApplicationParams holds fields for CreateApplication.
type CreateApplicationParams struct {
	Name            string
	RollNumber      string
	Branch          string
	Email           sql.NullString
	ReasonToJoin    string
	PriorExperience sql.NullString
	CreatedAt       time.Time
}

// CreateApplication inserts a join application in pending status and
// returns the created row.
func (q *Queries) CreateApplication(ctx context.Context, arg CreateApplicationParams) (model.JoinApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO join_applications (name, roll_number, branch, email, reason_to_join, prior_experience, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+applicationColumns,
		arg.Name, arg.RollNumber, arg.Branch, arg.Email, arg.ReasonToJoin,
		arg.PriorExperience, model.ApplicationStatusPending, arg.CreatedAt)
	return scanApplication(row)
}

// GetApplicationByID returns the application with the given ID.
func (q *Queries) GetApplicationByID(ctx context.Context, id int64) (model.JoinApplication, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM join_applications WHERE id = ?`, id)
	return scanApplication(row)
}

// ListApplications returns all join applications newest-first.
func (q *Queries) ListApplications(ctx context.Context) ([]model.JoinApplication, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+applicationColumns+` FROM join_applications
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var apps []model.JoinApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// CountPendingApplications returns how many applications await review.
func (q *Queries) CountPendingApplications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM join_applications WHERE status = ?`,
		model.ApplicationStatusPending).Scan(&n)
	return n, err
}

// ReviewApplicationParams holds fields for ReviewApplication.
type ReviewApplicationParams struct {
	ID         int64
	Status     string
	ReviewedBy int64
	ReviewedAt time.Time
}

// ReviewApplication writes an absolute review decision and returns the
// row. The write is idempotent: repeating the same decision leaves the
// application in the same state.
func (q *Queries) ReviewApplication(ctx context.Context, arg ReviewApplicationParams) (model.JoinApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE join_applications SET status = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ?
		RETURNING `+applicationColumns,
		arg.Status, arg.ReviewedBy, arg.ReviewedAt, arg.ID)
	return scanApplication(row)
}

// DeleteApplication removes a join application.
func (q *Queries) DeleteApplication(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM join_applications WHERE id = ?`, id)
	return err
}
