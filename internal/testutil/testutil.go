// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for The Network.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"testing/fstest"

	"github.com/thenetworkclub/network-go/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with all migrations applied.
// Cleanup is registered on the test.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "network-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestTemplatesFS returns a minimal template tree that parses with the
// renderer. Every page named here renders the title and flash so
// handler tests can assert on output without the real web assets.
func TestTemplatesFS(pages ...string) fstest.MapFS {
	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}<p class="flash {{.FlashType}}">{{.Flash}}</p>{{end}}{{template "content" .}}{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "admin-nav"}}{{end}}`),
		},
	}
	for _, page := range pages {
		fsys[page+".html"] = &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{end}}`),
		}
	}
	return fsys
}
