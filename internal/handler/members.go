// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/service"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/util"
)

// MemberHandler serves the public members page and the logged-in
// member's own profile.
type MemberHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	uploads  *service.UploadService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(db *sql.DB, renderer *render.Renderer, uploads *service.UploadService) *MemberHandler {
	return &MemberHandler{
		queries:  store.New(db),
		renderer: renderer,
		uploads:  uploads,
	}
}

// MembersData holds data for the members list page.
type MembersData struct {
	Profiles []model.Profile
}

// ProfileData holds data for the own-profile page.
type ProfileData struct {
	Profile model.Profile
}

// List renders the public members page.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.queries.ListProfiles(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list profiles", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "site/members", render.TemplateData{
		Title: "Members",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  MembersData{Profiles: profiles},
	}); err != nil {
		logAndInternalError(w, "failed to render members", "error", err)
	}
}

// Profile renders the logged-in member's own profile form. A profile
// row is created lazily on first visit.
func (h *MemberHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	profile, err := h.getOrCreateProfile(r.Context(), userID)
	if err != nil {
		logAndInternalError(w, "failed to load profile", "error", err, "user_id", userID)
		return
	}

	if err := h.renderer.Render(w, r, "site/profile", render.TemplateData{
		Title: "My Profile",
		User:  middleware.GetUser(r),
		Role:  middleware.GetRole(r),
		Data:  ProfileData{Profile: profile},
	}); err != nil {
		logAndInternalError(w, "failed to render profile", "error", err)
	}
}

// Update handles edits to the logged-in member's profile.
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	if _, err := h.getOrCreateProfile(r.Context(), userID); err != nil {
		logAndInternalError(w, "failed to load profile", "error", err, "user_id", userID)
		return
	}

	if _, err := h.queries.UpdateProfile(r.Context(), store.UpdateProfileParams{
		UserID:    userID,
		FullName:  util.NullStringFromValue(r.FormValue("full_name")),
		Bio:       util.NullStringFromValue(r.FormValue("bio")),
		Location:  util.NullStringFromValue(r.FormValue("location")),
		UpdatedAt: time.Now(),
	}); err != nil {
		slog.Error("failed to update profile", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirectProfile, "Error updating profile")
		return
	}

	slog.Info("profile updated", "user_id", userID)
	flashSuccess(w, r, h.renderer, redirectProfile, "Profile updated")
}

// UploadAvatar handles an avatar image upload for the logged-in member.
func (h *MemberHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	if _, err := h.getOrCreateProfile(r.Context(), userID); err != nil {
		logAndInternalError(w, "failed to load profile", "error", err, "user_id", userID)
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectProfile, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		flashError(w, r, h.renderer, redirectProfile, "No image selected")
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := h.uploads.UploadAvatar(r.Context(), file, header, userID); err != nil {
		slog.Error("avatar upload failed", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirectProfile, "Error uploading avatar")
		return
	}

	slog.Info("avatar updated", "user_id", userID)
	flashSuccess(w, r, h.renderer, redirectProfile, "Avatar updated")
}

// RemoveAvatar clears the logged-in member's avatar.
func (h *MemberHandler) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}

	if _, err := h.uploads.RemoveAvatar(r.Context(), userID); err != nil {
		slog.Error("failed to remove avatar", "error", err, "user_id", userID)
		flashError(w, r, h.renderer, redirectProfile, "Error removing avatar")
		return
	}

	slog.Info("avatar removed", "user_id", userID)
	flashSuccess(w, r, h.renderer, redirectProfile, "Avatar removed")
}

func (h *MemberHandler) getOrCreateProfile(ctx context.Context, userID int64) (model.Profile, error) {
	profile, err := h.queries.GetProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, err
	}

	now := time.Now()
	return h.queries.CreateProfile(ctx, store.CreateProfileParams{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
