// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Album, Post, Event and Sponsor structures.
package model

import (
	"database/sql"
	"time"
)

// User roles. Anonymous is never stored; it is the resolved role of a
// request without an identity.
const (
	RoleAdmin     = "admin"
	RoleVisitor   = "visitor"
	RoleAnonymous = "anonymous"
)

// ValidStoredRoles contains the roles a user row may carry.
var ValidStoredRoles = []string{RoleAdmin, RoleVisitor}

// IsValidStoredRole reports whether role may be assigned to a user.
func IsValidStoredRole(role string) bool {
	for _, r := range ValidStoredRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a signed-in member of the club site.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
