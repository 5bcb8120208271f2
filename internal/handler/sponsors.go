// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/thenetworkclub/network-go/internal/collection"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/section"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

// sponsorBackend adapts the store queries to the section backend
// contract so sponsor mutations flow through a coordinator and its
// list snapshot.
type sponsorBackend struct {
	queries *store.Queries
}

func (b *sponsorBackend) List(ctx context.Context) ([]model.Sponsor, error) {
	return b.queries.ListSponsors(ctx)
}

func (b *sponsorBackend) Create(ctx context.Context, s model.Sponsor) (model.Sponsor, error) {
	created, err := b.queries.CreateSponsor(ctx, store.CreateSponsorParams{
		Name:           s.Name,
		ContactInfo:    s.ContactInfo,
		SponsoredEvent: s.SponsoredEvent,
		CreatedAt:      s.CreatedAt,
	})
	if err != nil {
		return model.Sponsor{}, &section.BackendError{Op: "create sponsor", Err: err}
	}
	return created, nil
}

func (b *sponsorBackend) Update(ctx context.Context, s model.Sponsor) (model.Sponsor, error) {
	updated, err := b.queries.UpdateSponsor(ctx, store.UpdateSponsorParams{
		ID:             s.ID,
		Name:           s.Name,
		ContactInfo:    s.ContactInfo,
		SponsoredEvent: s.SponsoredEvent,
	})
	if err != nil {
		return model.Sponsor{}, &section.BackendError{Op: "update sponsor", Err: err}
	}
	return updated, nil
}

func (b *sponsorBackend) Delete(ctx context.Context, id int64) error {
	if err := b.queries.DeleteSponsor(ctx, id); err != nil {
		return &section.BackendError{Op: "delete sponsor", Err: err}
	}
	return nil
}

// SponsorHandler serves the public sponsors page and the admin sponsor
// management pages. Reads come from the coordinator's snapshot;
// mutations are reconciled into it from the stored rows. Creation runs
// through a section form session, which drops duplicate submissions
// while the first is still writing.
type SponsorHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	coord    *section.Coordinator[model.Sponsor]
	form     *section.Form[model.Sponsor]
}

// NewSponsorHandler creates a new SponsorHandler.
func NewSponsorHandler(db *sql.DB, renderer *render.Renderer) *SponsorHandler {
	queries := store.New(db)
	cache := collection.New(
		func(s model.Sponsor) int64 { return s.ID },
		func(a, b model.Sponsor) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		},
	)
	h := &SponsorHandler{
		queries:  queries,
		renderer: renderer,
		coord:    section.NewCoordinator[model.Sponsor](&sponsorBackend{queries: queries}, cache),
	}
	h.form = section.NewForm(sponsorFromValues, func(ctx context.Context, s model.Sponsor) error {
		created, err := h.coord.Create(ctx, s)
		if err != nil {
			return err
		}
		slog.Info("sponsor created", "sponsor_id", created.ID)
		return nil
	})
	return h
}

// SponsorView pairs a sponsor with its parsed contact info.
type SponsorView struct {
	Sponsor model.Sponsor
	Contact model.ContactInfo
}

// SponsorsData holds data for the sponsors pages.
type SponsorsData struct {
	Sponsors []SponsorView
}

func sponsorViews(sponsors []model.Sponsor) []SponsorView {
	views := make([]SponsorView, 0, len(sponsors))
	for _, s := range sponsors {
		views = append(views, SponsorView{Sponsor: s, Contact: s.Contact()})
	}
	return views
}

// List renders the public sponsors page, newest first.
func (h *SponsorHandler) List(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list sponsors", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "site/sponsors", render.TemplateData{
		Title: "Sponsors",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  SponsorsData{Sponsors: sponsorViews(sponsors)},
	}); err != nil {
		logAndInternalError(w, "failed to render sponsors", "error", err)
	}
}

// AdminList renders the admin sponsor list.
func (h *SponsorHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list sponsors", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/sponsors", render.TemplateData{
		Title: "Sponsors",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  SponsorsData{Sponsors: sponsorViews(sponsors)},
	}); err != nil {
		logAndInternalError(w, "failed to render admin sponsors", "error", err)
	}
}

// NewForm renders the sponsor creation form.
func (h *SponsorHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/sponsor_form", render.TemplateData{
		Title: "New Sponsor",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
	}); err != nil {
		logAndInternalError(w, "failed to render sponsor form", "error", err)
	}
}

// sponsorFormValues collects the sponsor form fields for a form
// session.
func sponsorFormValues(r *http.Request) map[string]string {
	return map[string]string{
		"name":            r.FormValue("name"),
		"contact_email":   r.FormValue("contact_email"),
		"contact_phone":   r.FormValue("contact_phone"),
		"contact_website": r.FormValue("contact_website"),
		"contact_text":    r.FormValue("contact_text"),
		"sponsored_event": r.FormValue("sponsored_event"),
	}
}

// contactFromValues assembles contact info from the form fields. When
// only the free-text field is filled it is stored verbatim.
func contactFromValues(values map[string]string) model.ContactInfo {
	c := model.ContactInfo{
		Email:   values["contact_email"],
		Phone:   values["contact_phone"],
		Website: values["contact_website"],
	}
	if !c.IsStructured() {
		c.FreeText = values["contact_text"]
	}
	return c
}

// sponsorFromValues validates the entered fields and assembles the
// record for submission.
func sponsorFromValues(values map[string]string) (model.Sponsor, map[string]string) {
	name := strings.TrimSpace(values["name"])
	if name == "" {
		return model.Sponsor{}, map[string]string{"name": "Name is required"}
	}
	return model.Sponsor{
		Name:           name,
		ContactInfo:    util.NullStringFromValue(contactFromValues(values).Encode()),
		SponsoredEvent: util.NullStringFromValue(values["sponsored_event"]),
		CreatedAt:      time.Now(),
	}, nil
}

// Create handles sponsor creation. The submission runs through the
// form session: validation failures keep the entered values for the
// next render, and a duplicate submit while the first is still writing
// is dropped instead of creating a second sponsor.
func (h *SponsorHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSponsorsNew) {
		return
	}

	h.form.Begin(sponsorFormValues(r))
	if err := h.form.Commit(r.Context()); err != nil {
		if ve, ok := section.AsValidation(err); ok {
			flashError(w, r, h.renderer, redirectAdminSponsorsNew, ve.Fields["name"])
			return
		}
		if errors.Is(err, section.ErrSubmitInFlight) {
			flashError(w, r, h.renderer, redirectAdminSponsors, "This sponsor is already being saved")
			return
		}
		slog.Error("failed to create sponsor", "error", err)
		flashError(w, r, h.renderer, redirectAdminSponsorsNew, "Error creating sponsor")
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminSponsors, "Sponsor created")
}

// EditForm renders the sponsor edit form.
func (h *SponsorHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	sponsor, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminSponsors, "sponsor", id,
		func(id int64) (model.Sponsor, error) { return h.queries.GetSponsorByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/sponsor_form", render.TemplateData{
		Title: "Edit Sponsor",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  SponsorView{Sponsor: sponsor, Contact: sponsor.Contact()},
	}); err != nil {
		logAndInternalError(w, "failed to render sponsor form", "error", err)
	}
}

// Update handles sponsor edits.
func (h *SponsorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminSponsors) {
		return
	}

	sponsor, fieldErrs := sponsorFromValues(sponsorFormValues(r))
	if len(fieldErrs) > 0 {
		flashError(w, r, h.renderer, redirectAdminSponsors, fieldErrs["name"])
		return
	}
	sponsor.ID = id

	if _, err := h.coord.Update(r.Context(), sponsor); err != nil {
		slog.Error("failed to update sponsor", "error", err, "sponsor_id", id)
		flashError(w, r, h.renderer, redirectAdminSponsors, "Error updating sponsor")
		return
	}

	slog.Info("sponsor updated", "sponsor_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminSponsors, "Sponsor updated")
}

// Delete removes a sponsor.
func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.coord.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete sponsor", "error", err, "sponsor_id", id)
		flashError(w, r, h.renderer, redirectAdminSponsors, "Error deleting sponsor")
		return
	}

	slog.Info("sponsor deleted", "sponsor_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminSponsors, "Sponsor deleted")
}
