// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event represents a club event. Events are listed by event date
// ascending, soonest first.
type Event struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description,omitempty"`
	EventDate   time.Time      `json:"event_date"`
	CreatedBy   sql.NullInt64  `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// IsUpcoming reports whether the event lies in the future at the given
// reference time.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.EventDate.After(now)
}

// Registration records one user's registration for one event. A user
// registers at most once per event.
type Registration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	UserID       int64     `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}
