// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service contains application services that sit between the
// HTTP handlers and the store: photo and avatar uploads, and outbound
// email notifications.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thenetworkclub/network-go/internal/imaging"
	"github.com/thenetworkclub/network-go/internal/model"
	"github.com/thenetworkclub/network-go/internal/store"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"
)

// UploadService handles photo and avatar uploads: validation, image
// processing, disk storage, and the matching database records.
type UploadService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
}

// NewUploadService creates an upload service rooted at uploadDir.
func NewUploadService(db *sql.DB, uploadDir string) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &UploadService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// UploadPhoto validates and processes an uploaded image, stores it
// under a fresh storage key, and creates the photo record for the
// album. Files already written are cleaned up when the record insert
// fails.
func (s *UploadService) UploadPhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader, albumID, userID int64, title string) (model.Photo, error) {
	subDir, filename, err := s.processUpload(file, header, "photos")
	if err != nil {
		return model.Photo{}, err
	}

	queries := store.New(s.db)
	photo, err := queries.CreatePhoto(ctx, store.CreatePhotoParams{
		AlbumID:    albumID,
		Title:      nullString(title),
		ImageURL:   originalURL(subDir, filename),
		StorageKey: subDir,
		UploadedBy: sql.NullInt64{Int64: userID, Valid: userID != 0},
		UploadedAt: time.Now(),
	})
	if err != nil {
		_ = s.processor.DeleteFiles(subDir)
		return model.Photo{}, fmt.Errorf("failed to create photo record: %w", err)
	}

	return photo, nil
}

// DeletePhoto removes a photo record and its files. File removal is
// best-effort once the record is gone.
func (s *UploadService) DeletePhoto(ctx context.Context, photoID int64) error {
	queries := store.New(s.db)

	photo, err := queries.GetPhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("failed to get photo: %w", err)
	}

	if err := queries.DeletePhoto(ctx, photoID); err != nil {
		return fmt.Errorf("failed to delete photo record: %w", err)
	}

	if err := s.processor.DeleteFiles(photo.StorageKey); err != nil {
		slog.Warn("failed to delete stored photo files",
			"photo_id", photoID, "storage_key", photo.StorageKey, "error", err)
	}

	return nil
}

// UploadAvatar validates and processes a member's avatar image and
// points their profile at the thumbnail variant. The previous avatar's
// files are removed best-effort after the profile update succeeds.
func (s *UploadService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader, userID int64) (model.Profile, error) {
	subDir, filename, err := s.processUpload(file, header, "avatars")
	if err != nil {
		return model.Profile{}, err
	}

	queries := store.New(s.db)

	prev, err := queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		_ = s.processor.DeleteFiles(subDir)
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	profile, err := queries.SetProfileAvatar(ctx, userID,
		sql.NullString{String: variantURL(model.VariantThumbnail, subDir, filename), Valid: true},
		sql.NullString{String: subDir, Valid: true},
		time.Now())
	if err != nil {
		_ = s.processor.DeleteFiles(subDir)
		return model.Profile{}, fmt.Errorf("failed to update profile avatar: %w", err)
	}

	if prev.AvatarKey.Valid && prev.AvatarKey.String != "" {
		if err := s.processor.DeleteFiles(prev.AvatarKey.String); err != nil {
			slog.Warn("failed to delete previous avatar files",
				"user_id", userID, "storage_key", prev.AvatarKey.String, "error", err)
		}
	}

	return profile, nil
}

// RemoveAvatar clears a profile's avatar and removes its files.
func (s *UploadService) RemoveAvatar(ctx context.Context, userID int64) (model.Profile, error) {
	queries := store.New(s.db)

	prev, err := queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	profile, err := queries.SetProfileAvatar(ctx, userID,
		sql.NullString{}, sql.NullString{}, time.Now())
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to clear profile avatar: %w", err)
	}

	if prev.AvatarKey.Valid && prev.AvatarKey.String != "" {
		if err := s.processor.DeleteFiles(prev.AvatarKey.String); err != nil {
			slog.Warn("failed to delete avatar files",
				"user_id", userID, "storage_key", prev.AvatarKey.String, "error", err)
		}
	}

	return profile, nil
}

// DeleteFiles removes the original and all variants stored under the
// given storage key.
func (s *UploadService) DeleteFiles(storageKey string) error {
	return s.processor.DeleteFiles(storageKey)
}

// PhotoURL returns the URL path for a photo variant. An empty or
// "original" variant returns the full-size image URL.
func (s *UploadService) PhotoURL(photo model.Photo, variant string) string {
	if variant == "" || variant == "original" {
		return photo.ImageURL
	}
	return variantURL(variant, photo.StorageKey, filepath.Base(photo.ImageURL))
}

// processUpload validates the incoming file and writes the original
// plus variants to disk. It returns the storage key (subdirectory
// under the upload root) and the sanitized filename.
func (s *UploadService) processUpload(file multipart.File, header *multipart.FileHeader, kind string) (string, string, error) {
	if header.Size > MaxUploadSize {
		return "", "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !s.processor.IsSupportedType(mimeType) {
		return "", "", fmt.Errorf("file type %s is not allowed", mimeType)
	}

	subDir := kind + "/" + uuid.New().String()
	filename := sanitizeFilename(header.Filename)

	result, err := s.processor.Process(file, subDir, filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to process image: %w", err)
	}

	if _, err := s.processor.CreateAllVariants(result.FilePath, subDir, filename); err != nil {
		// The original is saved; missing variants degrade display only.
		slog.Warn("failed to create some image variants",
			"storage_key", subDir, "error", err)
	}

	return subDir, filename, nil
}

func originalURL(subDir, filename string) string {
	return fmt.Sprintf("/uploads/originals/%s/%s", subDir, filename)
}

func variantURL(variant, subDir, filename string) string {
	return fmt.Sprintf("/uploads/%s/%s/%s", variant, subDir, filename)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)

	if filepath.Ext(filename) == "" {
		filename += ".jpg"
	}

	return filename
}

func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
