// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/thenetworkclub/network-go/internal/email"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/roles"
	"github.com/thenetworkclub/network-go/internal/store"
)

// auditLogPageSize bounds the audit log page.
const auditLogPageSize = 200

// AdminHandler serves the admin dashboard, join application review,
// user role management, and the audit log.
type AdminHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	roleProvider *roles.Provider
	sender       email.Sender
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, roleProvider *roles.Provider, sender email.Sender) *AdminHandler {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &AdminHandler{
		queries:      store.New(db),
		renderer:     renderer,
		roleProvider: roleProvider,
		sender:       sender,
	}
}

// DashboardData holds the dashboard counters.
type DashboardData struct {
	UserCount           int64
	PendingApplications int64
	AlbumCount          int64
	EventCount          int64
	PostCount           int64
}

// Dashboard renders the admin dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data DashboardData
	var err error

	if data.UserCount, err = h.queries.CountUsers(ctx); err != nil {
		logAndInternalError(w, "failed to count users", "error", err)
		return
	}
	if data.PendingApplications, err = h.queries.CountPendingApplications(ctx); err != nil {
		logAndInternalError(w, "failed to count pending applications", "error", err)
		return
	}
	if data.AlbumCount, err = h.queries.CountAlbums(ctx); err != nil {
		logAndInternalError(w, "failed to count albums", "error", err)
		return
	}
	if data.EventCount, err = h.queries.CountEvents(ctx); err != nil {
		logAndInternalError(w, "failed to count events", "error", err)
		return
	}
	if data.PostCount, err = h.queries.CountPosts(ctx); err != nil {
		logAndInternalError(w, "failed to count posts", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}

// ApplicationsData holds data for the application review page.
type ApplicationsData struct {
	Applications []model.JoinApplication
}

// Applications renders the join application review page, newest first.
func (h *AdminHandler) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.queries.ListApplications(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list applications", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/applications", render.TemplateData{
		Title: "Applications",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  ApplicationsData{Applications: apps},
	}); err != nil {
		logAndInternalError(w, "failed to render applications", "error", err)
	}
}

// ReviewApplication records an approve or reject decision. The write is
// absolute, so re-reviewing overwrites the previous decision.
func (h *AdminHandler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminApplications) {
		return
	}

	status := r.FormValue("status")
	if status != model.ApplicationStatusApproved && status != model.ApplicationStatusRejected {
		flashError(w, r, h.renderer, redirectAdminApplications, "Invalid review decision")
		return
	}

	if _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminApplications, "application", id,
		func(id int64) (model.JoinApplication, error) { return h.queries.GetApplicationByID(r.Context(), id) }); !ok {
		return
	}

	reviewerID := middleware.GetUserID(r)
	app, err := h.queries.ReviewApplication(r.Context(), store.ReviewApplicationParams{
		ID:         id,
		Status:     status,
		ReviewedBy: reviewerID,
		ReviewedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to review application", "error", err, "application_id", id)
		flashError(w, r, h.renderer, redirectAdminApplications, "Error reviewing application")
		return
	}

	h.audit(r.Context(), model.AuditCategoryUser, "application reviewed", reviewerID,
		fmt.Sprintf(`{"application_id":"%d","status":"%s"}`, id, status))
	slog.Info("application reviewed", "application_id", id, "status", status, "user_id", reviewerID)

	// The applicant hears about the decision only when they left an
	// email address.
	if app.Email.Valid && app.Email.String != "" {
		msg := email.ApplicationDecision(app.Email.String, app)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.sender.Send(ctx, msg); err != nil {
				slog.Warn("failed to send application decision", "error", err, "application_id", id)
			}
		}()
	}

	flashSuccess(w, r, h.renderer, redirectAdminApplications, "Application "+status)
}

// UsersData holds data for the user management page.
type UsersData struct {
	Users []model.User
}

// Users renders the user management page.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/users", render.TemplateData{
		Title: "Users",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  UsersData{Users: users},
	}); err != nil {
		logAndInternalError(w, "failed to render users", "error", err)
	}
}

// UpdateUserRole changes a user's stored role and invalidates the
// cached role so the change takes effect immediately. Admins cannot
// change their own role, which keeps the last admin from locking
// themselves out.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	role := r.FormValue("role")
	if !model.IsValidStoredRole(role) {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid role")
		return
	}

	actorID := middleware.GetUserID(r)
	if id == actorID {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot change your own role")
		return
	}

	if _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUserByID(r.Context(), id) }); !ok {
		return
	}

	user, err := h.queries.UpdateUserRole(r.Context(), store.UpdateUserRoleParams{
		ID:        id,
		Role:      role,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update user role", "error", err, "target_user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, "Error updating role")
		return
	}

	h.roleProvider.Invalidate(r.Context(), id)

	h.audit(r.Context(), model.AuditCategoryUser, "user role changed", actorID,
		fmt.Sprintf(`{"target_user_id":"%d","role":"%s"}`, id, role))
	slog.Info("user role changed", "target_user_id", id, "role", role, "user_id", actorID)

	flashSuccess(w, r, h.renderer, redirectAdminUsers, user.Email+" is now "+role)
}

// AuditLogData holds data for the audit log page.
type AuditLogData struct {
	Entries []model.AuditEntry
}

// AuditLog renders the most recent audit log entries.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.ListAuditEntries(r.Context(), auditLogPageSize)
	if err != nil {
		logAndInternalError(w, "failed to list audit entries", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/audit_log", render.TemplateData{
		Title: "Audit Log",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  AuditLogData{Entries: entries},
	}); err != nil {
		logAndInternalError(w, "failed to render audit log", "error", err)
	}
}

// audit records an admin action in the audit log. Unlike the slog
// mirror, these entries carry the acting user.
func (h *AdminHandler) audit(ctx context.Context, category, message string, userID int64, metadata string) {
	if err := h.queries.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		Level:     model.AuditLevelInfo,
		Category:  category,
		Message:   message,
		UserID:    sql.NullInt64{Int64: userID, Valid: userID != 0},
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}); err != nil {
		slog.Warn("failed to write audit entry", "error", err, "message", message)
	}
}
