// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/thenetworkclub/network-go/internal/model"
)

func TestSponsorCreate_StructuredContact(t *testing.T) {
	e := newTestEnv(t)
	h := NewSponsorHandler(e.db, e.renderer)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/sponsors", url.Values{
		"name":            {"Acme Hosting"},
		"contact_email":   {"sponsors@acme.example"},
		"contact_website": {"https://acme.example"},
		"sponsored_event": {"Tech Fest 2026"},
	})
	rr := e.do(h.Create, asUser(req, &admin))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	sponsors, err := e.queries.ListSponsors(context.Background())
	if err != nil {
		t.Fatalf("ListSponsors: %v", err)
	}
	if len(sponsors) != 1 {
		t.Fatalf("len(sponsors) = %d, want 1", len(sponsors))
	}

	contact := sponsors[0].Contact()
	if !contact.IsStructured() {
		t.Fatalf("contact should parse as structured, got %+v", contact)
	}
	if contact.Email != "sponsors@acme.example" {
		t.Errorf("Email = %q", contact.Email)
	}
}

func TestSponsorCreate_FreeTextContact(t *testing.T) {
	e := newTestEnv(t)
	h := NewSponsorHandler(e.db, e.renderer)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/sponsors", url.Values{
		"name":         {"The Canteen"},
		"contact_text": {"Ask for Ramesh at the counter"},
	})
	rr := e.do(h.Create, asUser(req, &admin))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	sponsors, err := e.queries.ListSponsors(context.Background())
	if err != nil {
		t.Fatalf("ListSponsors: %v", err)
	}
	if len(sponsors) != 1 {
		t.Fatalf("len(sponsors) = %d, want 1", len(sponsors))
	}

	contact := sponsors[0].Contact()
	if contact.IsStructured() {
		t.Fatalf("contact should parse as free text, got %+v", contact)
	}
	if contact.FreeText != "Ask for Ramesh at the counter" {
		t.Errorf("FreeText = %q", contact.FreeText)
	}
}

// Creation runs through the form session: a rejected submission keeps
// the entered values and field errors for the next render, and nothing
// reaches the store.
func TestSponsorCreate_ValidationKeepsEnteredValues(t *testing.T) {
	e := newTestEnv(t)
	h := NewSponsorHandler(e.db, e.renderer)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/sponsors", url.Values{
		"name":         {"   "},
		"contact_text": {"Ask for Ramesh at the counter"},
	})
	rr := e.do(h.Create, asUser(req, &admin))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/admin/sponsors/new" {
		t.Errorf("Location = %q, want %q", loc, "/admin/sponsors/new")
	}

	if got := h.form.Values()["contact_text"]; got != "Ask for Ramesh at the counter" {
		t.Errorf("form values lost after validation failure: %q", got)
	}
	if got := h.form.Errors()["name"]; got != "Name is required" {
		t.Errorf("form errors = %v", h.form.Errors())
	}

	sponsors, err := e.queries.ListSponsors(context.Background())
	if err != nil {
		t.Fatalf("ListSponsors: %v", err)
	}
	if len(sponsors) != 0 {
		t.Errorf("len(sponsors) = %d, want 0", len(sponsors))
	}
}

// Mutations flow through the coordinator, so the snapshot that backs
// the list pages tracks creates and deletes without a reload.
func TestSponsorSnapshotTracksMutations(t *testing.T) {
	e := newTestEnv(t)
	h := NewSponsorHandler(e.db, e.renderer)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/sponsors", url.Values{"name": {"First"}})
	e.do(h.Create, asUser(req, &admin))
	req = postForm("/admin/sponsors", url.Values{"name": {"Second"}})
	e.do(h.Create, asUser(req, &admin))

	items, err := h.coord.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	req = postForm("/admin/sponsors/delete", url.Values{})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(items[0].ID, 10))
	rr := e.do(h.Delete, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d", rr.Code)
	}

	items, err = h.coord.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) after delete = %d, want 1", len(items))
	}

	stored, err := e.queries.ListSponsors(context.Background())
	if err != nil {
		t.Fatalf("ListSponsors: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("len(stored) = %d, want 1", len(stored))
	}
}
