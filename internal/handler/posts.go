// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thenetworkclub/network-go/internal/collection"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/section"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

// postBackend adapts the store queries to the section backend contract
// so post mutations flow through a coordinator and its list snapshot.
type postBackend struct {
	queries *store.Queries
}

func (b *postBackend) List(ctx context.Context) ([]model.Post, error) {
	return b.queries.ListPosts(ctx)
}

func (b *postBackend) Create(ctx context.Context, p model.Post) (model.Post, error) {
	created, err := b.queries.CreatePost(ctx, store.CreatePostParams{
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		IsPublished: p.IsPublished,
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		return model.Post{}, &section.BackendError{Op: "create post", Err: err}
	}
	return created, nil
}

func (b *postBackend) Update(ctx context.Context, p model.Post) (model.Post, error) {
	updated, err := b.queries.UpdatePost(ctx, store.UpdatePostParams{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		IsPublished: p.IsPublished,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		return model.Post{}, &section.BackendError{Op: "update post", Err: err}
	}
	return updated, nil
}

func (b *postBackend) Delete(ctx context.Context, id int64) error {
	if err := b.queries.DeletePost(ctx, id); err != nil {
		return &section.BackendError{Op: "delete post", Err: err}
	}
	return nil
}

// PostHandler serves the public blog and the admin post management
// pages. The snapshot holds every post, drafts included; the public
// blog filters it down to published posts.
type PostHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	coord    *section.Coordinator[model.Post]
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(db *sql.DB, renderer *render.Renderer) *PostHandler {
	queries := store.New(db)
	cache := collection.New(
		func(p model.Post) int64 { return p.ID },
		func(a, b model.Post) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		},
	)
	return &PostHandler{
		queries:  queries,
		renderer: renderer,
		coord:    section.NewCoordinator[model.Post](&postBackend{queries: queries}, cache),
	}
}

// BlogData holds data for the blog list page.
type BlogData struct {
	Posts []model.Post
}

// PostData holds data for the post detail page.
type PostData struct {
	Post model.Post
}

// List renders the public blog: published posts, newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	published := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.IsPublished {
			published = append(published, p)
		}
	}

	if err := h.renderer.Render(w, r, "site/blog", render.TemplateData{
		Title: "Blog",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  BlogData{Posts: published},
	}); err != nil {
		logAndInternalError(w, "failed to render blog", "error", err)
	}
}

// Detail renders one post by slug. Unpublished posts 404 for everyone
// except admins.
func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPostBySlug(r.Context(), slug)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if !post.IsPublished && middleware.GetRole(r) != model.RoleAdmin {
		http.NotFound(w, r)
		return
	}

	if err := h.renderer.Render(w, r, "site/post", render.TemplateData{
		Title: post.Title,
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  PostData{Post: post},
	}); err != nil {
		logAndInternalError(w, "failed to render post", "error", err)
	}
}

// AdminList renders the admin post list, drafts included.
func (h *PostHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/posts", render.TemplateData{
		Title: "Posts",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  BlogData{Posts: posts},
	}); err != nil {
		logAndInternalError(w, "failed to render admin posts", "error", err)
	}
}

// NewForm renders the post creation form.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/post_form", render.TemplateData{
		Title: "New Post",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
	}); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Create handles post creation. A blank excerpt is derived from the
// content here, once, and stored.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPostsNew) {
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Title and content are required")
		return
	}

	slug := r.FormValue("slug")
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Invalid slug")
		return
	}

	exists, err := h.queries.PostSlugExists(r.Context(), slug)
	if err != nil {
		logAndInternalError(w, "failed to check post slug", "error", err)
		return
	}
	if exists {
		flashError(w, r, h.renderer, redirectAdminPostsNew, "A post with this slug already exists")
		return
	}

	excerpt := r.FormValue("excerpt")
	if strings.TrimSpace(excerpt) == "" {
		excerpt = model.ExcerptFromContent(content)
	}

	now := time.Now()
	post, err := h.coord.Create(r.Context(), model.Post{
		Title:       title,
		Slug:        slug,
		Content:     content,
		Excerpt:     util.NullStringFromValue(excerpt),
		IsPublished: r.FormValue("is_published") == "on",
		AuthorID:    middleware.GetUserID(r),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		slog.Error("failed to create post", "error", err)
		flashError(w, r, h.renderer, redirectAdminPostsNew, "Error creating post")
		return
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.Slug, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post created")
}

// EditForm renders the post edit form.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	post, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPosts, "post", id,
		func(id int64) (model.Post, error) { return h.queries.GetPostByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/post_form", render.TemplateData{
		Title: "Edit Post",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  PostData{Post: post},
	}); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Update handles post edits. The slug is immutable so published URLs
// stay stable.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPosts) {
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	if title == "" || content == "" {
		flashError(w, r, h.renderer, redirectAdminPosts, "Title and content are required")
		return
	}

	excerpt := r.FormValue("excerpt")
	if strings.TrimSpace(excerpt) == "" {
		excerpt = model.ExcerptFromContent(content)
	}

	if _, err := h.coord.Update(r.Context(), model.Post{
		ID:          id,
		Title:       title,
		Content:     content,
		Excerpt:     util.NullStringFromValue(excerpt),
		IsPublished: r.FormValue("is_published") == "on",
		UpdatedAt:   time.Now(),
	}); err != nil {
		slog.Error("failed to update post", "error", err, "post_id", id)
		flashError(w, r, h.renderer, redirectAdminPosts, "Error updating post")
		return
	}

	slog.Info("post updated", "post_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post updated")
}

// Delete removes a post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.coord.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete post", "error", err, "post_id", id)
		flashError(w, r, h.renderer, redirectAdminPosts, "Error deleting post")
		return
	}

	slog.Info("post deleted", "post_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminPosts, "Post deleted")
}
