// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package section coordinates mutations for one content section
// (albums, events, posts, sponsors) against the store and the
// section's in-memory list snapshot. Writes go to the store first; the
// snapshot is patched only after the store accepts, so the UI never
// shows state the database does not have.
package section

import (
	"context"

	"github.com/thenetworkclub/network-go/internal/collection"
)

// Backend is the store surface a coordinator drives. Implementations
// wrap the store queries for one record type and translate their
// failures into the section error types.
type Backend[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Coordinator serializes a section's mutations through its backend and
// keeps the list snapshot in sync. Concurrent edits resolve
// last-write-wins: whichever update the store accepts later is the
// state everyone sees.
type Coordinator[T any] struct {
	backend Backend[T]
	cache   *collection.Cache[T]
}

// NewCoordinator creates a coordinator for one section.
func NewCoordinator[T any](backend Backend[T], cache *collection.Cache[T]) *Coordinator[T] {
	return &Coordinator[T]{backend: backend, cache: cache}
}

// Refresh reloads the snapshot from the store. Used on first access
// and whenever a caller wants to drop locally patched state.
func (c *Coordinator[T]) Refresh(ctx context.Context) error {
	items, err := c.backend.List(ctx)
	if err != nil {
		return err
	}
	c.cache.Load(items)
	return nil
}

// Items returns the current snapshot, loading it first if needed.
func (c *Coordinator[T]) Items(ctx context.Context) ([]T, error) {
	if !c.cache.Loaded() {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return c.cache.Items(), nil
}

// Create writes a new record through the backend and, on success,
// inserts the stored row (with its assigned ID) into the snapshot.
func (c *Coordinator[T]) Create(ctx context.Context, item T) (T, error) {
	created, err := c.backend.Create(ctx, item)
	if err != nil {
		var zero T
		return zero, err
	}
	c.cache.ApplyInsert(created)
	return created, nil
}

// Update writes changed fields through the backend and, on success,
// replaces the snapshot record with the stored row. When the record
// was deleted from the snapshot in the meantime the patch is dropped
// and the delete stands.
func (c *Coordinator[T]) Update(ctx context.Context, item T) (T, error) {
	updated, err := c.backend.Update(ctx, item)
	if err != nil {
		var zero T
		return zero, err
	}
	c.cache.ApplyUpdate(updated)
	return updated, nil
}

// Delete removes a record through the backend and, on success, drops
// it from the snapshot.
func (c *Coordinator[T]) Delete(ctx context.Context, id int64) error {
	if err := c.backend.Delete(ctx, id); err != nil {
		return err
	}
	c.cache.ApplyDelete(id)
	return nil
}

// Cache exposes the underlying snapshot for read paths that do not
// need coordinator semantics.
func (c *Coordinator[T]) Cache() *collection.Cache[T] {
	return c.cache
}
