// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const eventColumns = `id, title, description, event_date, created_by, created_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

// CreateEventParams holds fields for CreateEvent.
type CreateEventParams struct {
	Title       string
	Description sql.NullString
	EventDate   time.Time
	CreatedBy   sql.NullInt64
	CreatedAt   time.Time
}

// CreateEvent inserts an event and returns the created row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (title, description, event_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Title, arg.Description, arg.EventDate, arg.CreatedBy, arg.CreatedAt)
	return scanEvent(row)
}

// GetEventByID returns the event with the given ID.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// ListEvents returns all events ordered by event date ascending.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		ORDER BY event_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEventParams holds fields for UpdateEvent.
type UpdateEventParams struct {
	ID          int64
	Title       string
	Description sql.NullString
	EventDate   time.Time
}

// UpdateEvent updates an event's editable fields and returns the row.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE events SET title = ?, description = ?, event_date = ?
		WHERE id = ?
		RETURNING `+eventColumns,
		arg.Title, arg.Description, arg.EventDate, arg.ID)
	return scanEvent(row)
}

// DeleteEvent removes an event; registrations cascade.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

const registrationColumns = `id, event_id, user_id, registered_at`

func scanRegistration(row interface{ Scan(...any) error }) (model.Registration, error) {
	var r model.Registration
	err := row.Scan(&r.ID, &r.EventID, &r.UserID, &r.RegisteredAt)
	return r, err
}

// CreateRegistrationParams holds fields for CreateRegistration.
type CreateRegistrationParams struct {
	EventID      int64
	UserID       int64
	RegisteredAt time.Time
}

// CreateRegistration registers a user for an event and returns the
// created row. The (event_id, user_id) pair is unique; a duplicate
// registration fails with a constraint error.
func (q *Queries) CreateRegistration(ctx context.Context, arg CreateRegistrationParams) (model.Registration, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO registrations (event_id, user_id, registered_at)
		VALUES (?, ?, ?)
		RETURNING `+registrationColumns,
		arg.EventID, arg.UserID, arg.RegisteredAt)
	return scanRegistration(row)
}

// ListRegistrationsByUser returns all of a user's registrations.
func (q *Queries) ListRegistrationsByUser(ctx context.Context, userID int64) ([]model.Registration, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+registrationColumns+` FROM registrations WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var regs []model.Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// CountRegistrationsByEvent returns how many users registered for an
// event.
func (q *Queries) CountRegistrationsByEvent(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID).Scan(&n)
	return n, err
}

// IsRegistered reports whether a user already registered for an event.
func (q *Queries) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = ? AND user_id = ?`,
		eventID, userID).Scan(&n)
	return n != 0, err
}

// DeleteRegistration removes a user's registration for an event.
func (q *Queries) DeleteRegistration(ctx context.Context, eventID, userID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE event_id = ? AND user_id = ?`, eventID, userID)
	return err
}

// CountEvents returns the total number of events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}
