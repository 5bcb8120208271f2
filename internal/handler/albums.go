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

	"github.com/go-chi/chi/v5"

	"github.com/thenetworkclub/network-go/internal/collection"
	"github.com/thenetworkclub/network-go/internal/gallery"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/section"
	"github.com/thenetworkclub/network-go/internal/service"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

// albumBackend adapts the store queries to the section backend
// contract so album mutations flow through a coordinator and its list
// snapshot.
type albumBackend struct {
	queries *store.Queries
}

func (b *albumBackend) List(ctx context.Context) ([]model.Album, error) {
	return b.queries.ListAlbums(ctx)
}

func (b *albumBackend) Create(ctx context.Context, a model.Album) (model.Album, error) {
	created, err := b.queries.CreateAlbum(ctx, store.CreateAlbumParams{
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		IsPublic:    a.IsPublic,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	})
	if err != nil {
		return model.Album{}, &section.BackendError{Op: "create album", Err: err}
	}
	return created, nil
}

func (b *albumBackend) Update(ctx context.Context, a model.Album) (model.Album, error) {
	updated, err := b.queries.UpdateAlbum(ctx, store.UpdateAlbumParams{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		IsPublic:    a.IsPublic,
	})
	if err != nil {
		return model.Album{}, &section.BackendError{Op: "update album", Err: err}
	}
	return updated, nil
}

func (b *albumBackend) Delete(ctx context.Context, id int64) error {
	if err := b.queries.DeleteAlbum(ctx, id); err != nil {
		return &section.BackendError{Op: "delete album", Err: err}
	}
	return nil
}

// AlbumHandler serves the public photo gallery and the admin album
// management pages. The snapshot holds every album, hidden ones
// included; the public gallery filters it down for non-admins.
type AlbumHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	uploads  *service.UploadService
	coord    *section.Coordinator[model.Album]
}

// NewAlbumHandler creates a new AlbumHandler.
func NewAlbumHandler(db *sql.DB, renderer *render.Renderer, uploads *service.UploadService) *AlbumHandler {
	queries := store.New(db)
	cache := collection.New(
		func(a model.Album) int64 { return a.ID },
		func(a, b model.Album) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		},
	)
	return &AlbumHandler{
		queries:  queries,
		renderer: renderer,
		uploads:  uploads,
		coord:    section.NewCoordinator[model.Album](&albumBackend{queries: queries}, cache),
	}
}

// GalleryData holds data for the public gallery page.
type GalleryData struct {
	Albums []model.Album
}

// Gallery renders the public gallery: public albums, newest first.
// Admins additionally see hidden albums.
func (h *AlbumHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	albums, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list albums", "error", err)
		return
	}

	if middleware.GetRole(r) != model.RoleAdmin {
		public := make([]model.Album, 0, len(albums))
		for _, a := range albums {
			if a.IsPublic {
				public = append(public, a)
			}
		}
		albums = public
	}

	if err := h.renderer.Render(w, r, "site/gallery", render.TemplateData{
		Title: "Gallery",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  GalleryData{Albums: albums},
	}); err != nil {
		logAndInternalError(w, "failed to render gallery", "error", err)
	}
}

// AlbumData holds data for the album detail page.
type AlbumData struct {
	Album            model.Album
	Photos           []model.Photo
	RotationInterval time.Duration
}

// AlbumDetail renders one album and its photos. Hidden albums 404 for
// everyone except admins.
func (h *AlbumHandler) AlbumDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	album, err := h.queries.GetAlbumBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if !album.IsPublic && middleware.GetRole(r) != model.RoleAdmin {
		http.NotFound(w, r)
		return
	}

	photos, err := h.queries.ListPhotosByAlbum(r.Context(), album.ID)
	if err != nil {
		logAndInternalError(w, "failed to list photos", "error", err, "album_id", album.ID)
		return
	}

	if err := h.renderer.Render(w, r, "site/album", render.TemplateData{
		Title: album.Title,
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data: AlbumData{
			Album:            album,
			Photos:           photos,
			RotationInterval: gallery.DefaultInterval,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render album", "error", err)
	}
}

// AdminList renders the admin album list, hidden albums included.
func (h *AlbumHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	albums, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list albums", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/albums", render.TemplateData{
		Title: "Albums",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  GalleryData{Albums: albums},
	}); err != nil {
		logAndInternalError(w, "failed to render admin albums", "error", err)
	}
}

// NewForm renders the album creation form.
func (h *AlbumHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/album_form", render.TemplateData{
		Title: "New Album",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
	}); err != nil {
		logAndInternalError(w, "failed to render album form", "error", err)
	}
}

// Create handles album creation.
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAlbumsNew) {
		return
	}

	title := r.FormValue("title")
	if title == "" {
		flashError(w, r, h.renderer, redirectAdminAlbumsNew, "Title is required")
		return
	}

	slug := r.FormValue("slug")
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		flashError(w, r, h.renderer, redirectAdminAlbumsNew, "Invalid slug")
		return
	}

	exists, err := h.queries.AlbumSlugExists(r.Context(), slug)
	if err != nil {
		logAndInternalError(w, "failed to check album slug", "error", err)
		return
	}
	if exists {
		flashError(w, r, h.renderer, redirectAdminAlbumsNew, "An album with this slug already exists")
		return
	}

	album, err := h.coord.Create(r.Context(), model.Album{
		Title:       title,
		Slug:        slug,
		Description: util.NullStringFromValue(r.FormValue("description")),
		IsPublic:    r.FormValue("is_public") == "on",
		CreatedBy:   sql.NullInt64{Int64: middleware.GetUserID(r), Valid: middleware.GetUserID(r) != 0},
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to create album", "error", err)
		flashError(w, r, h.renderer, redirectAdminAlbumsNew, "Error creating album")
		return
	}

	slog.Info("album created", "album_id", album.ID, "slug", album.Slug, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminAlbumsID, album.ID), "Album created")
}

// EditForm renders the album edit form with its photos.
func (h *AlbumHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	album, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminAlbums, "album", id,
		func(id int64) (model.Album, error) { return h.queries.GetAlbumByID(r.Context(), id) })
	if !ok {
		return
	}

	photos, err := h.queries.ListPhotosByAlbum(r.Context(), album.ID)
	if err != nil {
		logAndInternalError(w, "failed to list photos", "error", err, "album_id", album.ID)
		return
	}

	if err := h.renderer.Render(w, r, "admin/album_form", render.TemplateData{
		Title: "Edit Album",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  AlbumData{Album: album, Photos: photos},
	}); err != nil {
		logAndInternalError(w, "failed to render album form", "error", err)
	}
}

// Update handles album edits. The slug is immutable after creation.
func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAlbums) {
		return
	}

	title := r.FormValue("title")
	if title == "" {
		flashError(w, r, h.renderer, fmt.Sprintf(redirectAdminAlbumsID, id), "Title is required")
		return
	}

	if _, err := h.coord.Update(r.Context(), model.Album{
		ID:          id,
		Title:       title,
		Description: util.NullStringFromValue(r.FormValue("description")),
		IsPublic:    r.FormValue("is_public") == "on",
	}); err != nil {
		slog.Error("failed to update album", "error", err, "album_id", id)
		flashError(w, r, h.renderer, redirectAdminAlbums, "Error updating album")
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminAlbumsID, id), "Album updated")
}

// Delete removes an album, its photo records, and their stored files.
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	photos, err := h.queries.ListPhotosByAlbum(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to list photos", "error", err, "album_id", id)
		return
	}

	// Photo rows cascade with the album; stored files do not.
	if err := h.coord.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete album", "error", err, "album_id", id)
		flashError(w, r, h.renderer, redirectAdminAlbums, "Error deleting album")
		return
	}

	for _, p := range photos {
		if err := h.uploads.DeleteFiles(p.StorageKey); err != nil {
			slog.Warn("failed to delete stored photo files", "photo_id", p.ID, "error", err)
		}
	}

	slog.Info("album deleted", "album_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminAlbums, "Album deleted")
}

// UploadPhoto handles a photo upload into an album.
func (h *AlbumHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	redirect := fmt.Sprintf(redirectAdminAlbumsID, id)

	if _, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminAlbums, "album", id,
		func(id int64) (model.Album, error) { return h.queries.GetAlbumByID(r.Context(), id) }); !ok {
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirect, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		flashError(w, r, h.renderer, redirect, "No photo selected")
		return
	}
	defer func() { _ = file.Close() }()

	photo, err := h.uploads.UploadPhoto(r.Context(), file, header, id, middleware.GetUserID(r), r.FormValue("title"))
	if err != nil {
		slog.Error("photo upload failed", "error", err, "album_id", id)
		flashError(w, r, h.renderer, redirect, "Error uploading photo")
		return
	}

	// First photo becomes the album cover.
	if count, err := h.queries.CountPhotosByAlbum(r.Context(), id); err == nil && count == 1 {
		if err := h.queries.SetAlbumCover(r.Context(), id, sql.NullString{String: photo.ImageURL, Valid: true}); err != nil {
			slog.Warn("failed to set album cover", "error", err, "album_id", id)
		} else if album, err := h.queries.GetAlbumByID(r.Context(), id); err == nil {
			h.coord.Cache().ApplyUpdate(album)
		}
	}

	slog.Info("photo uploaded", "photo_id", photo.ID, "album_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirect, "Photo uploaded")
}

// DeletePhoto removes a single photo and its files.
func (h *AlbumHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	photo, ok := requireEntityWithError(w, "photo", id,
		func(id int64) (model.Photo, error) { return h.queries.GetPhotoByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.uploads.DeletePhoto(r.Context(), id); err != nil {
		slog.Error("failed to delete photo", "error", err, "photo_id", id)
		flashError(w, r, h.renderer, fmt.Sprintf(redirectAdminAlbumsID, photo.AlbumID), "Error deleting photo")
		return
	}

	slog.Info("photo deleted", "photo_id", id, "album_id", photo.AlbumID, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminAlbumsID, photo.AlbumID), "Photo deleted")
}
