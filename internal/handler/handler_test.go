// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/thenetworkclub/network-go/internal/auth"
	"github.com/thenetworkclub/network-go/internal/cache"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/roles"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/testutil"
)

// testPages lists every template the handlers under test render.
var testPages = []string{
	"site/home", "site/gallery", "site/album", "site/events", "site/blog",
	"site/post", "site/sponsors", "site/members", "site/join", "site/profile",
	"auth/login",
	"admin/dashboard", "admin/albums", "admin/album_form", "admin/events",
	"admin/event_form", "admin/posts", "admin/post_form", "admin/sponsors",
	"admin/sponsor_form", "admin/users", "admin/applications", "admin/audit_log",
}

type testEnv struct {
	db       *sql.DB
	queries  *store.Queries
	sm       *scs.SessionManager
	renderer *render.Renderer
	provider *roles.Provider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	sm := scs.New()

	renderer, err := render.New(render.Config{
		TemplatesFS:    testutil.TestTemplatesFS(testPages...),
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	memCache := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = memCache.Close() })

	return &testEnv{
		db:       db,
		queries:  store.New(db),
		sm:       sm,
		renderer: renderer,
		provider: roles.NewProvider(store.New(db), memCache, time.Minute),
	}
}

func (e *testEnv) createUser(t *testing.T, email, password, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Now()
	user, err := e.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// do runs a request through the session middleware so flash messages
// and login state behave as in production.
func (e *testEnv) do(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.sm.LoadAndSave(handler).ServeHTTP(rr, req)
	return rr
}

// asUser attaches the user and role to the request context, standing in
// for the auth middleware chain.
func asUser(req *http.Request, user *model.User) *http.Request {
	ctx := req.Context()
	role := model.RoleAnonymous
	if user != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyUser, *user)
		role = user.Role
	}
	return req.WithContext(context.WithValue(ctx, middleware.ContextKeyRole, role))
}

// withIDParam attaches a chi route context carrying the {id} parameter.
func withIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
