// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/store"
)

// homeItemLimit caps each home page section.
const homeItemLimit = 3

// HomeHandler serves the public home page.
type HomeHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(db *sql.DB, renderer *render.Renderer) *HomeHandler {
	return &HomeHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// HomeData holds data for the home page.
type HomeData struct {
	UpcomingEvents []model.Event
	LatestPosts    []model.Post
}

// Home renders the home page with the next few upcoming events and the
// latest published posts. Either section failing to load leaves the
// page up with the section empty.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	var data HomeData

	if events, err := h.queries.ListEvents(r.Context()); err == nil {
		now := time.Now()
		for _, ev := range events {
			if !ev.IsUpcoming(now) {
				continue
			}
			data.UpcomingEvents = append(data.UpcomingEvents, ev)
			if len(data.UpcomingEvents) == homeItemLimit {
				break
			}
		}
	}

	if posts, err := h.queries.ListPublishedPosts(r.Context()); err == nil {
		if len(posts) > homeItemLimit {
			posts = posts[:homeItemLimit]
		}
		data.LatestPosts = posts
	}

	if err := h.renderer.Render(w, r, "site/home", render.TemplateData{
		Title: "The Network",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render home", "error", err)
	}
}
