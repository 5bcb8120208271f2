// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Join application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ValidApplicationStatuses contains all valid application statuses.
var ValidApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// IsValidApplicationStatus reports whether status is a known
// application status.
func IsValidApplicationStatus(status string) bool {
	for _, s := range ValidApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// JoinApplication is a membership application submitted from the
// public join form and reviewed by an admin.
type JoinApplication struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	RollNumber      string         `json:"roll_number"`
	Branch          string         `json:"branch"`
	Email           sql.NullString `json:"email,omitempty"`
	ReasonToJoin    string         `json:"reason_to_join"`
	PriorExperience sql.NullString `json:"prior_experience,omitempty"`
	Status          string         `json:"status"`
	ReviewedBy      sql.NullInt64  `json:"reviewed_by,omitempty"`
	ReviewedAt      sql.NullTime   `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// IsPending reports whether the application still awaits review.
func (a *JoinApplication) IsPending() bool {
	return a.Status == ApplicationStatusPending
}
