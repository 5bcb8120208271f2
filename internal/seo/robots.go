// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo generates the crawler-facing plumbing for the public
// site.
package seo

import (
	"net/http"
	"strings"
)

// defaultDisallow lists the paths crawlers have no business visiting:
// the admin area, auth endpoints, the member-only profile page, and
// raw uploaded files.
var defaultDisallow = []string{
	"/admin",
	"/login",
	"/logout",
	"/profile",
	"/uploads",
}

// RobotsConfig controls robots.txt generation.
type RobotsConfig struct {
	// DisallowAll blocks all crawlers. Meant for staging instances.
	DisallowAll bool

	// ExtraDisallow adds paths on top of the defaults.
	ExtraDisallow []string
}

// Robots renders robots.txt content for the given configuration.
func Robots(cfg RobotsConfig) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if cfg.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	for _, path := range defaultDisallow {
		sb.WriteString("Disallow: " + path + "\n")
	}
	for _, path := range cfg.ExtraDisallow {
		sb.WriteString("Disallow: " + path + "\n")
	}
	sb.WriteString("Allow: /\n")

	return sb.String()
}

// RobotsHandler serves robots.txt. Content is fixed at startup.
func RobotsHandler(cfg RobotsConfig) http.HandlerFunc {
	body := []byte(Robots(cfg))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(body)
	}
}
