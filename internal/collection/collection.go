// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package collection maintains in-memory snapshots of record lists that
// stay consistent with the store without a full reload after every
// mutation. A snapshot is loaded once, then successful inserts, updates
// and deletes are applied locally in the same order the store accepted
// them.
package collection

import (
	"sort"
	"sync"
)

// Cache holds an ordered snapshot of records of type T. All methods are
// safe for concurrent use. Ordering is defined by the less function
// supplied at construction and is preserved across every mutation, so a
// locally patched snapshot matches what a fresh load would return.
type Cache[T any] struct {
	mu     sync.RWMutex
	items  []T
	id     func(T) int64
	less   func(a, b T) bool
	loaded bool
}

// New creates an empty cache. id extracts a record's unique key; less
// defines the snapshot order.
func New[T any](id func(T) int64, less func(a, b T) bool) *Cache[T] {
	return &Cache[T]{id: id, less: less}
}

// Load replaces the snapshot with the given records, sorted into
// canonical order. The input slice is not retained.
func (c *Cache[T]) Load(items []T) {
	snapshot := make([]T, len(items))
	copy(snapshot, items)
	sort.SliceStable(snapshot, func(i, j int) bool {
		return c.less(snapshot[i], snapshot[j])
	})

	c.mu.Lock()
	c.items = snapshot
	c.loaded = true
	c.mu.Unlock()
}

// Loaded reports whether Load has been called at least once.
func (c *Cache[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Items returns a copy of the current snapshot.
func (c *Cache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records in the snapshot.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns the record with the given ID.
func (c *Cache[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ApplyInsert adds a record the store has accepted. If a record with
// the same ID is already present the call degrades to an update, which
// makes replayed inserts harmless.
func (c *Cache[T]) ApplyInsert(item T) {
	c.upsert(item)
}

// ApplyUpdate replaces the record with the same ID. If the record is
// no longer in the snapshot the update is dropped: the record was
// deleted concurrently, and re-inserting it here would resurrect it.
func (c *Cache[T]) ApplyUpdate(item T) {
	id := c.id(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items[i] = item
			c.resortLocked()
			return
		}
	}
}

// ApplyDelete removes the record with the given ID. Deleting an absent
// ID is a no-op, so replayed deletes are harmless.
func (c *Cache[T]) ApplyDelete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if c.id(item) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cache[T]) upsert(item T) {
	id := c.id(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items[i] = item
			c.resortLocked()
			return
		}
	}

	// Insert at the position that keeps the snapshot ordered.
	pos := sort.Search(len(c.items), func(i int) bool {
		return c.less(item, c.items[i])
	})
	c.items = append(c.items, item)
	copy(c.items[pos+1:], c.items[pos:])
	c.items[pos] = item
}

// resortLocked restores ordering after an in-place update changed a
// sort key. Callers must hold the write lock.
func (c *Cache[T]) resortLocked() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.less(c.items[i], c.items[j])
	})
}
