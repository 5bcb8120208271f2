// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/thenetworkclub/network-go/internal/email"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

// JoinHandler serves the public membership application form.
type JoinHandler struct {
	queries    *store.Queries
	renderer   *render.Renderer
	sender     email.Sender
	adminEmail string
}

// NewJoinHandler creates a new JoinHandler. Notifications about new
// applications go to adminEmail.
func NewJoinHandler(db *sql.DB, renderer *render.Renderer, sender email.Sender, adminEmail string) *JoinHandler {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &JoinHandler{
		queries:    store.New(db),
		renderer:   renderer,
		sender:     sender,
		adminEmail: adminEmail,
	}
}

// Form renders the join application form.
func (h *JoinHandler) Form(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "site/join", render.TemplateData{
		Title: "Join the Club",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
	}); err != nil {
		logAndInternalError(w, "failed to render join form", "error", err)
	}
}

// Submit handles a join application submission.
func (h *JoinHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectJoin) {
		return
	}

	name := r.FormValue("name")
	rollNumber := r.FormValue("roll_number")
	branch := r.FormValue("branch")
	reason := r.FormValue("reason_to_join")
	if name == "" || rollNumber == "" || branch == "" || reason == "" {
		flashError(w, r, h.renderer, redirectJoin, "Name, roll number, branch, and reason to join are required")
		return
	}

	app, err := h.queries.CreateApplication(r.Context(), store.CreateApplicationParams{
		Name:            name,
		RollNumber:      rollNumber,
		Branch:          branch,
		Email:           util.NullStringFromValue(r.FormValue("email")),
		ReasonToJoin:    reason,
		PriorExperience: util.NullStringFromValue(r.FormValue("prior_experience")),
		CreatedAt:       time.Now(),
	})
	if err != nil {
		slog.Error("failed to create join application", "error", err)
		flashError(w, r, h.renderer, redirectJoin, "Error submitting application, please try again")
		return
	}

	slog.Info("join application submitted", "application_id", app.ID)

	// The admin gets a notification; the applicant gets an
	// acknowledgement when they left an address. Neither blocks the
	// response.
	var msgs []email.Message
	if h.adminEmail != "" {
		msgs = append(msgs, email.ApplicationReceived(h.adminEmail, app))
	}
	if app.Email.Valid && app.Email.String != "" {
		msgs = append(msgs, email.ApplicationAcknowledged(app.Email.String, app))
	}
	if len(msgs) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			for _, msg := range msgs {
				if err := h.sender.Send(ctx, msg); err != nil {
					slog.Warn("failed to send application email", "error", err, "to", msg.To, "application_id", app.ID)
				}
			}
		}()
	}

	flashSuccess(w, r, h.renderer, redirectJoin, "Application submitted! We will get back to you soon.")
}
