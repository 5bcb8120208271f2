// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

const postColumns = `id, title, slug, content, excerpt, is_published, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.IsPublished, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePostParams holds fields for CreatePost.
type CreatePostParams struct {
	Title       string
	Slug        string
	Content     string
	Excerpt     sql.NullString
	IsPublished bool
	AuthorID    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePost inserts a blog post and returns the created row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (title, slug, content, excerpt, is_published, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.Title, arg.Slug, arg.Content, arg.Excerpt, arg.IsPublished,
		arg.AuthorID, arg.CreatedAt, arg.UpdatedAt)
	return scanPost(row)
}

// GetPostByID returns the post with the given ID.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPostBySlug returns the post with the given slug.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = ?`, slug)
	return scanPost(row)
}

// PostSlugExists reports whether a slug is already taken.
func (q *Queries) PostSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts WHERE slug = ?`, slug).Scan(&n)
	return n != 0, err
}

// ListPublishedPosts returns published posts newest-first.
func (q *Queries) ListPublishedPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM blog_posts
		WHERE is_published = 1
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts returns all posts newest-first, drafts included.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM blog_posts
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePostParams holds fields for UpdatePost.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Content     string
	Excerpt     sql.NullString
	IsPublished bool
	UpdatedAt   time.Time
}

// UpdatePost updates a post's editable fields and returns the row.
// The slug is immutable after creation so published URLs stay stable.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE blog_posts SET title = ?, content = ?, excerpt = ?, is_published = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title, arg.Content, arg.Excerpt, arg.IsPublished, arg.UpdatedAt, arg.ID)
	return scanPost(row)
}

// DeletePost removes a blog post.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	return err
}

// CountPosts returns the total number of blog posts, drafts included.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&n)
	return n, err
}
