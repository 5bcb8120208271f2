// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/thenetworkclub/network-go/internal/collection"
	"github.com/thenetworkclub/network-go/internal/email"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/section"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

// eventDateLayout is the expected format of the event date form field.
const eventDateLayout = "2006-01-02T15:04"

// eventBackend adapts the store queries to the section backend
// contract so event mutations flow through a coordinator and its list
// snapshot.
type eventBackend struct {
	queries *store.Queries
}

func (b *eventBackend) List(ctx context.Context) ([]model.Event, error) {
	return b.queries.ListEvents(ctx)
}

func (b *eventBackend) Create(ctx context.Context, ev model.Event) (model.Event, error) {
	created, err := b.queries.CreateEvent(ctx, store.CreateEventParams{
		Title:       ev.Title,
		Description: ev.Description,
		EventDate:   ev.EventDate,
		CreatedBy:   ev.CreatedBy,
		CreatedAt:   ev.CreatedAt,
	})
	if err != nil {
		return model.Event{}, &section.BackendError{Op: "create event", Err: err}
	}
	return created, nil
}

func (b *eventBackend) Update(ctx context.Context, ev model.Event) (model.Event, error) {
	updated, err := b.queries.UpdateEvent(ctx, store.UpdateEventParams{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		EventDate:   ev.EventDate,
	})
	if err != nil {
		return model.Event{}, &section.BackendError{Op: "update event", Err: err}
	}
	return updated, nil
}

func (b *eventBackend) Delete(ctx context.Context, id int64) error {
	if err := b.queries.DeleteEvent(ctx, id); err != nil {
		return &section.BackendError{Op: "delete event", Err: err}
	}
	return nil
}

// EventHandler serves the public events page, member registrations,
// and the admin event management pages. Event records come from the
// coordinator's snapshot; registrations are per-viewer and stay on
// direct queries.
type EventHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	sender   email.Sender
	coord    *section.Coordinator[model.Event]
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(db *sql.DB, renderer *render.Renderer, sender email.Sender) *EventHandler {
	if sender == nil {
		sender = email.NoopSender{}
	}
	queries := store.New(db)
	cache := collection.New(
		func(ev model.Event) int64 { return ev.ID },
		func(a, b model.Event) bool {
			if !a.EventDate.Equal(b.EventDate) {
				return a.EventDate.Before(b.EventDate)
			}
			return a.ID < b.ID
		},
	)
	return &EventHandler{
		queries:  queries,
		renderer: renderer,
		sender:   sender,
		coord:    section.NewCoordinator[model.Event](&eventBackend{queries: queries}, cache),
	}
}

// EventView pairs an event with the viewer's registration state.
type EventView struct {
	Event       model.Event
	Registered  bool
	Registrants int64
}

// EventsData holds data for the events list page.
type EventsData struct {
	Events    []EventView
	CanManage bool
}

// List renders all events ordered by event date, soonest first. For a
// logged-in viewer each event carries their registration state.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	userID := middleware.GetUserID(r)
	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		view := EventView{Event: ev}
		if count, err := h.queries.CountRegistrationsByEvent(r.Context(), ev.ID); err == nil {
			view.Registrants = count
		}
		if userID != 0 {
			if registered, err := h.queries.IsRegistered(r.Context(), ev.ID, userID); err == nil {
				view.Registered = registered
			}
		}
		views = append(views, view)
	}

	if err := h.renderer.Render(w, r, "site/events", render.TemplateData{
		Title: "Events",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data: EventsData{
			Events:    views,
			CanManage: middleware.GetRole(r) == model.RoleAdmin,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render events", "error", err)
	}
}

// Register registers the logged-in member for an event. Registering
// twice is a no-op rather than an error.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	event, ok := requireEntityWithRedirect(w, r, h.renderer, redirectEvents, "event", id,
		func(id int64) (model.Event, error) { return h.queries.GetEventByID(r.Context(), id) })
	if !ok {
		return
	}

	if _, err := h.queries.CreateRegistration(r.Context(), store.CreateRegistrationParams{
		EventID:      id,
		UserID:       user.ID,
		RegisteredAt: time.Now(),
	}); err != nil {
		if isUniqueViolation(err) {
			// Already registered; treat the repeat as success.
			flashSuccess(w, r, h.renderer, redirectEvents, "You are registered for "+event.Title)
			return
		}
		slog.Error("failed to create registration", "error", err, "event_id", id, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectEvents, "Error registering for event")
		return
	}

	slog.Info("event registration", "event_id", id, "user_id", user.ID)

	// Confirmation mail must not block the response.
	msg := email.RegistrationConfirmed(user.Email, event)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.sender.Send(ctx, msg); err != nil {
			slog.Warn("failed to send registration confirmation", "error", err, "event_id", id)
		}
	}()

	flashSuccess(w, r, h.renderer, redirectEvents, "You are registered for "+event.Title)
}

// Unregister removes the logged-in member's registration. Removing a
// registration that does not exist is a no-op.
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	if err := h.queries.DeleteRegistration(r.Context(), id, userID); err != nil {
		slog.Error("failed to delete registration", "error", err, "event_id", id, "user_id", userID)
		flashError(w, r, h.renderer, redirectEvents, "Error cancelling registration")
		return
	}

	slog.Info("event registration cancelled", "event_id", id, "user_id", userID)
	flashSuccess(w, r, h.renderer, redirectEvents, "Registration cancelled")
}

// AdminList renders the admin event list.
func (h *EventHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	events, err := h.coord.Items(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		view := EventView{Event: ev}
		if count, err := h.queries.CountRegistrationsByEvent(r.Context(), ev.ID); err == nil {
			view.Registrants = count
		}
		views = append(views, view)
	}

	if err := h.renderer.Render(w, r, "admin/events", render.TemplateData{
		Title: "Events",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  EventsData{Events: views, CanManage: true},
	}); err != nil {
		logAndInternalError(w, "failed to render admin events", "error", err)
	}
}

// NewForm renders the event creation form.
func (h *EventHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "admin/event_form", render.TemplateData{
		Title: "New Event",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
	}); err != nil {
		logAndInternalError(w, "failed to render event form", "error", err)
	}
}

// Create handles event creation.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEventsNew) {
		return
	}

	title := r.FormValue("title")
	eventDate, dateErr := time.Parse(eventDateLayout, r.FormValue("event_date"))
	if title == "" || dateErr != nil {
		flashError(w, r, h.renderer, redirectAdminEventsNew, "Title and a valid event date are required")
		return
	}

	event, err := h.coord.Create(r.Context(), model.Event{
		Title:       title,
		Description: util.NullStringFromValue(r.FormValue("description")),
		EventDate:   eventDate,
		CreatedBy:   sql.NullInt64{Int64: middleware.GetUserID(r), Valid: middleware.GetUserID(r) != 0},
		CreatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to create event", "error", err)
		flashError(w, r, h.renderer, redirectAdminEventsNew, "Error creating event")
		return
	}

	slog.Info("event created", "event_id", event.ID, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event created")
}

// EditForm renders the event edit form.
func (h *EventHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	event, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminEvents, "event", id,
		func(id int64) (model.Event, error) { return h.queries.GetEventByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.renderer.Render(w, r, "admin/event_form", render.TemplateData{
		Title: "Edit Event",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  EventView{Event: event},
	}); err != nil {
		logAndInternalError(w, "failed to render event form", "error", err)
	}
}

// Update handles event edits.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents) {
		return
	}

	title := r.FormValue("title")
	eventDate, dateErr := time.Parse(eventDateLayout, r.FormValue("event_date"))
	if title == "" || dateErr != nil {
		flashError(w, r, h.renderer, redirectAdminEvents, "Title and a valid event date are required")
		return
	}

	if _, err := h.coord.Update(r.Context(), model.Event{
		ID:          id,
		Title:       title,
		Description: util.NullStringFromValue(r.FormValue("description")),
		EventDate:   eventDate,
	}); err != nil {
		slog.Error("failed to update event", "error", err, "event_id", id)
		flashError(w, r, h.renderer, redirectAdminEvents, "Error updating event")
		return
	}

	slog.Info("event updated", "event_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event updated")
}

// Delete removes an event and, via cascade, its registrations.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.coord.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete event", "error", err, "event_id", id)
		flashError(w, r, h.renderer, redirectAdminEvents, "Error deleting event")
		return
	}

	slog.Info("event deleted", "event_id", id, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminEvents, "Event deleted")
}

// isUniqueViolation reports whether the error is a SQLite unique
// constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
