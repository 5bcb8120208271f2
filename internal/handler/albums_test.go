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
	"github.com/thenetworkclub/network-go/internal/service"
	"github.com/thenetworkclub/network-go/internal/store"
)

func newAlbumHandler(t *testing.T, e *testEnv) *AlbumHandler {
	t.Helper()
	uploads := service.NewUploadService(e.db, t.TempDir())
	return NewAlbumHandler(e.db, e.renderer, uploads)
}

func createTestAlbum(t *testing.T, e *testEnv, title, slug string, public bool) model.Album {
	t.Helper()
	album, err := e.queries.CreateAlbum(context.Background(), store.CreateAlbumParams{
		Title:     title,
		Slug:      slug,
		IsPublic:  public,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	return album
}

func TestAlbumCreate(t *testing.T) {
	e := newTestEnv(t)
	h := newAlbumHandler(t, e)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/albums", url.Values{
		"title":     {"Tech Fest 2026"},
		"is_public": {"on"},
	})
	rr := e.do(h.Create, asUser(req, &admin))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	albums, err := e.queries.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(albums) != 1 {
		t.Fatalf("len(albums) = %d, want 1", len(albums))
	}
	if albums[0].Slug != "tech-fest-2026" {
		t.Errorf("Slug = %q, want %q", albums[0].Slug, "tech-fest-2026")
	}
	if loc := rr.Header().Get("Location"); loc != "/admin/albums/"+strconv.FormatInt(albums[0].ID, 10) {
		t.Errorf("Location = %q", loc)
	}
}

func TestAlbumUpdate_SlugImmutable(t *testing.T) {
	e := newTestEnv(t)
	h := newAlbumHandler(t, e)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	album := createTestAlbum(t, e, "Old Title", "old-title", true)

	req := postForm("/admin/albums/1", url.Values{
		"title": {"New Title"},
		"slug":  {"new-title"},
	})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(album.ID, 10))

	rr := e.do(h.Update, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	got, err := e.queries.GetAlbumByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetAlbumByID: %v", err)
	}
	if got.Slug != "old-title" {
		t.Errorf("Slug = %q, want %q", got.Slug, "old-title")
	}
	if got.Title != "New Title" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.IsPublic {
		t.Error("IsPublic should be false when the checkbox is absent")
	}
}

func TestAlbumDetail_HiddenVisibility(t *testing.T) {
	e := newTestEnv(t)
	h := newAlbumHandler(t, e)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	createTestAlbum(t, e, "Committee Only", "committee-only", false)

	req := withSlugParam(asUser(httptest.NewRequest(http.MethodGet, "/gallery/committee-only", nil), nil), "committee-only")
	rr := e.do(h.AlbumDetail, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("anonymous: status = %d, want %d", rr.Code, http.StatusNotFound)
	}

	req = withSlugParam(asUser(httptest.NewRequest(http.MethodGet, "/gallery/committee-only", nil), &admin), "committee-only")
	rr = e.do(h.AlbumDetail, req)
	if rr.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestGallery_VisitorSeesOnlyPublicAlbums(t *testing.T) {
	e := newTestEnv(t)
	h := newAlbumHandler(t, e)
	createTestAlbum(t, e, "Public", "public-album", true)
	createTestAlbum(t, e, "Hidden", "hidden-album", false)

	req := asUser(httptest.NewRequest(http.MethodGet, "/gallery", nil), nil)
	rr := e.do(h.Gallery, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	public, err := e.queries.ListPublicAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListPublicAlbums: %v", err)
	}
	if len(public) != 1 {
		t.Errorf("len(public) = %d, want 1", len(public))
	}
}

// Mutations flow through the coordinator, so the snapshot behind the
// gallery pages tracks visibility edits without a reload.
func TestAlbumSnapshotTracksMutations(t *testing.T) {
	e := newTestEnv(t)
	h := newAlbumHandler(t, e)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)

	req := postForm("/admin/albums", url.Values{
		"title":     {"Tech Fest 2026"},
		"is_public": {"on"},
	})
	e.do(h.Create, asUser(req, &admin))

	items, err := h.coord.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 || !items[0].IsPublic {
		t.Fatalf("snapshot after create = %+v, want one public album", items)
	}

	// Hiding the album updates the snapshot record in place.
	req = postForm("/admin/albums/1", url.Values{"title": {"Tech Fest 2026"}})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(items[0].ID, 10))
	rr := e.do(h.Update, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d", rr.Code)
	}

	got, ok := h.coord.Cache().Get(items[0].ID)
	if !ok {
		t.Fatal("updated album missing from snapshot")
	}
	if got.IsPublic {
		t.Error("album should be hidden when the checkbox is absent")
	}
	if got.Slug != "tech-fest-2026" {
		t.Errorf("Slug = %q, snapshot must keep the stored slug", got.Slug)
	}
}

func TestAlbumDelete(t *testing.T) {
	e := newTestEnv(t)
	h := newAlbumHandler(t, e)
	admin := e.createUser(t, "admin@thenetwork.com", "password123", model.RoleAdmin)
	album := createTestAlbum(t, e, "Doomed", "doomed", true)

	req := postForm("/admin/albums/1/delete", url.Values{})
	req = withIDParam(asUser(req, &admin), strconv.FormatInt(album.ID, 10))

	rr := e.do(h.Delete, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}

	albums, err := e.queries.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(albums) != 0 {
		t.Errorf("len(albums) = %d, want 0", len(albums))
	}
}
