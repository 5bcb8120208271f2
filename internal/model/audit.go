// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Audit entry levels.
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)

// Audit entry categories.
const (
	AuditCategoryAuth    = "auth"
	AuditCategoryContent = "content"
	AuditCategoryStorage = "storage"
	AuditCategoryUser    = "user"
	AuditCategorySystem  = "system"
)

// AuditEntry is one row of the audit log. WARN and ERROR application
// logs are mirrored here so that swallowed failures (storage cleanup,
// orphaned binaries) stay visible to admins without surfacing to
// visitors.
type AuditEntry struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id,omitempty"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}
