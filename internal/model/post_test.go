// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"testing"
)

func TestExcerptFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short content still gets the marker",
			content: "A short update.",
			want:    "A short update....",
		},
		{
			name:    "exactly at limit",
			content: strings.Repeat("a", ExcerptLength),
			want:    strings.Repeat("a", ExcerptLength) + "...",
		},
		{
			name:    "long content truncated",
			content: strings.Repeat("b", 300),
			want:    strings.Repeat("b", ExcerptLength) + "...",
		},
		{
			name:    "surrounding whitespace trimmed first",
			content: "  hello  ",
			want:    "hello...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExcerptFromContent(tt.content); got != tt.want {
				t.Errorf("ExcerptFromContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExcerptFromContentMultibyte(t *testing.T) {
	content := strings.Repeat("é", 200)
	got := ExcerptFromContent(content)
	want := strings.Repeat("é", ExcerptLength) + "..."
	if got != want {
		t.Errorf("multibyte truncation produced %d runes", len([]rune(got)))
	}
}

func TestPostEffectiveExcerpt(t *testing.T) {
	stored := &Post{
		Content: strings.Repeat("x", 300),
		Excerpt: sql.NullString{String: "hand-written excerpt", Valid: true},
	}
	if got := stored.EffectiveExcerpt(); got != "hand-written excerpt" {
		t.Errorf("EffectiveExcerpt() = %q, want stored excerpt", got)
	}

	legacy := &Post{Content: strings.Repeat("x", 300)}
	want := strings.Repeat("x", ExcerptLength) + "..."
	if got := legacy.EffectiveExcerpt(); got != want {
		t.Errorf("EffectiveExcerpt() fallback = %q, want derived", got)
	}
}
