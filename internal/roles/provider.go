// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package roles resolves the access role for the current session
// identity. Role lookups hit a cache first so page loads do not pay a
// database round trip, and fall back to the visitor role when the
// lookup fails, so a broken lookup can never widen access.
package roles

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/thenetworkclub/network-go/internal/cache"
	"github.com/thenetworkclub/network-go/internal/model"
)

// UserGetter is the subset of the store needed to resolve roles.
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (model.User, error)
}

// Provider resolves and caches user roles.
type Provider struct {
	store UserGetter
	cache cache.Cacher
	ttl   time.Duration
}

// NewProvider creates a role provider backed by the given store and cache.
// A zero ttl defaults to 5 minutes.
func NewProvider(store UserGetter, c cache.Cacher, ttl time.Duration) *Provider {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Provider{store: store, cache: c, ttl: ttl}
}

func cacheKey(userID int64) string {
	return "role:" + strconv.FormatInt(userID, 10)
}

// Resolve returns the role for the given user ID. A user ID of 0 means
// no session identity and resolves to the anonymous role without any
// lookup. Lookup failures resolve to the visitor role: the page still
// renders, just without elevated controls.
func (p *Provider) Resolve(ctx context.Context, userID int64) string {
	if userID == 0 {
		return model.RoleAnonymous
	}

	key := cacheKey(userID)
	if val, err := p.cache.Get(ctx, key); err == nil {
		role := string(val)
		if model.IsValidStoredRole(role) {
			return role
		}
		// A stale or corrupt entry is dropped and re-resolved.
		_ = p.cache.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("role cache read failed", "user_id", userID, "error", err)
	}

	user, err := p.store.GetUserByID(ctx, userID)
	if err != nil {
		// Missing or unreadable user: fall back to the least
		// privileged signed-in role. Not cached, so a transient
		// failure heals on the next resolve.
		slog.Warn("role lookup failed, defaulting to visitor", "user_id", userID, "error", err)
		return model.RoleVisitor
	}

	role := user.Role
	if !model.IsValidStoredRole(role) {
		slog.Warn("unknown role in user record, defaulting to visitor", "user_id", userID, "role", role)
		role = model.RoleVisitor
	}

	if err := p.cache.Set(ctx, key, []byte(role), p.ttl); err != nil {
		slog.Warn("role cache write failed", "user_id", userID, "error", err)
	}
	return role
}

// Invalidate drops the cached role for a user. Called after role
// changes so the next resolve sees the new value.
func (p *Provider) Invalidate(ctx context.Context, userID int64) {
	if err := p.cache.Delete(ctx, cacheKey(userID)); err != nil {
		slog.Warn("role cache invalidation failed", "user_id", userID, "error", err)
	}
}

// InvalidateAll drops every cached role. Used when roles change in
// bulk, e.g. after a data import.
func (p *Provider) InvalidateAll(ctx context.Context) {
	if err := p.cache.Clear(ctx); err != nil {
		slog.Warn("role cache clear failed", "error", err)
	}
}

// IsAdmin reports whether the given user resolves to the admin role.
func (p *Provider) IsAdmin(ctx context.Context, userID int64) bool {
	return p.Resolve(ctx, userID) == model.RoleAdmin
}
