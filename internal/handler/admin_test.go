// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

func createTestApplication(t *testing.T, e *testEnv, name, email string) model.JoinApplication {
	t.Helper()
	app, err := e.queries.CreateApplication(context.Background(), store.CreateApplicationParams{
		Name:         name,
		RollNumber:   "21CS042",
		Branch:       "CSE",
		Email:        util.NullStringFromValue(email),
		ReasonToJoin: "I want to learn systems programming.",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	return app
}

func TestReviewApplication_Approve(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	app := createTestApplication(t, e, "Priya", "")

	req := postForm("/admin/applications/1/review", url.Values{
		"status": {model.ApplicationStatusApproved},
	})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(app.ID, 10))

	rr := e.do(h.ReviewApplication, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	got, err := e.queries.GetApplicationByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if got.Status != model.ApplicationStatusApproved {
		t.Errorf("Status = %q, want %q", got.Status, model.ApplicationStatusApproved)
	}
	if !got.ReviewedBy.Valid || got.ReviewedBy.Int64 != admin.ID {
		t.Errorf("ReviewedBy = %+v, want %d", got.ReviewedBy, admin.ID)
	}
	if !got.ReviewedAt.Valid {
		t.Error("ReviewedAt should be set")
	}
}

// Re-reviewing writes the new decision; the review is an absolute
// state, not a transition.
func TestReviewApplication_RepeatOverwrites(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	app := createTestApplication(t, e, "Arjun", "")

	for _, status := range []string{model.ApplicationStatusRejected, model.ApplicationStatusApproved} {
		req := postForm("/admin/applications/1/review", url.Values{"status": {status}})
		req = withIDParam(asUser(req, &admin), strconv.FormatInt(app.ID, 10))
		rr := e.do(h.ReviewApplication, req)
		if rr.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
		}
	}

	got, err := e.queries.GetApplicationByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if got.Status != model.ApplicationStatusApproved {
		t.Errorf("Status = %q, want %q", got.Status, model.ApplicationStatusApproved)
	}
}

func TestReviewApplication_InvalidDecision(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	app := createTestApplication(t, e, "Sneha", "")

	req := postForm("/admin/applications/1/review", url.Values{"status": {"pending"}})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(app.ID, 10))

	rr := e.do(h.ReviewApplication, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	got, err := e.queries.GetApplicationByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("GetApplicationByID: %v", err)
	}
	if got.Status != model.ApplicationStatusPending {
		t.Errorf("Status = %q, want pending unchanged", got.Status)
	}
}

func TestUpdateUserRole(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	member := e.createUser(t, "member@thenetwork.com", "password123", model.RoleVisitor)

	// Warm the role cache so the test covers invalidation.
	if got := e.provider.Resolve(context.Background(), member.ID); got != model.RoleVisitor {
		t.Fatalf("Resolve = %q, want visitor", got)
	}

	req := postForm("/admin/users/1/role", url.Values{"role": {model.RoleAdmin}})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(member.ID, 10))

	rr := e.do(h.UpdateUserRole, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	got, err := e.queries.GetUserByID(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
	if resolved := e.provider.Resolve(context.Background(), member.ID); resolved != model.RoleAdmin {
		t.Errorf("Resolve after change = %q, want admin (cache should be invalidated)", resolved)
	}
}

func TestUpdateUserRole_SelfChangeBlocked(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/users/1/role", url.Values{"role": {model.RoleVisitor}})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(admin.ID, 10))

	rr := e.do(h.UpdateUserRole, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	got, err := e.queries.GetUserByID(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin unchanged", got.Role)
	}
}

func TestUpdateUserRole_InvalidRole(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	member := e.createUser(t, "member@thenetwork.com", "password123", model.RoleVisitor)

	req := postForm("/admin/users/1/role", url.Values{"role": {"superuser"}})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(member.ID, 10))

	rr := e.do(h.UpdateUserRole, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	got, err := e.queries.GetUserByID(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Role != model.RoleVisitor {
		t.Errorf("Role = %q, want visitor unchanged", got.Role)
	}
}

func TestDashboard(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	createTestApplication(t, e, "Ravi", "")

	req := asUser(httptest.NewRequest(http.MethodGet, "/admin", nil), &admin)
	rr := e.do(h.Dashboard, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuditLogPage(t *testing.T) {
	e := newTestEnv(t)
	h := NewAdminHandler(e.db, e.renderer, e.provider, nil)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	if err := e.queries.CreateAuditEntry(context.Background(), store.CreateAuditEntryParams{
		Level:     model.AuditLevelInfo,
		Category:  model.AuditCategorySystem,
		Message:   "server started",
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateAuditEntry: %v", err)
	}

	req := asUser(httptest.NewRequest(http.MethodGet, "/admin/audit-log", nil), &admin)
	rr := e.do(h.AuditLog, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}
