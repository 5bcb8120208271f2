// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/thenetworkclub/network-go/internal/cache"
	"github.com/thenetworkclub/network-go/internal/config"
	"github.com/thenetworkclub/network-go/internal/email"
	"github.com/thenetworkclub/network-go/internal/handler"
	"github.com/thenetworkclub/network-go/internal/logging"
	"github.com/thenetworkclub/network-go/internal/middleware"
	"github.com/thenetworkclub/network-go/internal/render"
	"github.com/thenetworkclub/network-go/internal/roles"
	"github.com/thenetworkclub/network-go/internal/scheduler"
	"github.com/thenetworkclub/network-go/internal/seo"
	"github.com/thenetworkclub/network-go/internal/service"
	"github.com/thenetworkclub/network-go/internal/session"
	"github.com/thenetworkclub/network-go/internal/store"
	"github.com/thenetworkclub/network-go/internal/version"
	"github.com/thenetworkclub/network-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "The Network - student club community site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_DB_PATH           SQLite database path (default: ./data/network.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_UPLOADS_DIR       Photo and avatar storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_REDIS_URL         Redis URL for distributed role caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NETWORK_RESEND_API_KEY    Resend API key for notification email (optional)\n")
	}

	flag.Parse()

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("network %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	slog.Info("starting the network", "version", info.Version, "commit", info.GitCommit)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to mirror WARN and ERROR logs into the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Seed the initial admin account
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Role cache: Redis when configured, in-memory otherwise
	roleCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing role cache: %w", err)
	}
	defer func() {
		if err := roleCache.Close(); err != nil {
			slog.Error("error closing role cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("role cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("role cache initialized", "backend", "memory")
	}

	roleProvider := roles.NewProvider(store.New(db), roleCache, time.Duration(cfg.CacheTTL)*time.Second)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Outbound email: Resend when configured, otherwise a no-op sender
	var sender email.Sender = email.NoopSender{}
	if cfg.EmailEnabled() {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
		slog.Info("email sender initialized", "from", cfg.EmailFrom)
	} else {
		slog.Info("email disabled, notifications will be skipped")
	}

	uploads := service.NewUploadService(db, cfg.UploadsDir)

	sched := scheduler.New(db, logger, cfg.AuditRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	homeHandler := handler.NewHomeHandler(db, renderer)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, roleProvider, loginProtection)
	albumHandler := handler.NewAlbumHandler(db, renderer, uploads)
	eventHandler := handler.NewEventHandler(db, renderer, sender)
	postHandler := handler.NewPostHandler(db, renderer)
	sponsorHandler := handler.NewSponsorHandler(db, renderer)
	memberHandler := handler.NewMemberHandler(db, renderer, uploads)
	joinHandler := handler.NewJoinHandler(db, renderer, sender, cfg.AdminEmail)
	adminHandler := handler.NewAdminHandler(db, renderer, roleProvider, sender)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.ResolveRole(sessionManager, roleProvider))
	r.Use(middleware.OptionalLoadUser(sessionManager, db))

	// Public pages
	r.Get(handler.RouteRoot, homeHandler.Home)
	r.Get(handler.RouteGallery, albumHandler.Gallery)
	r.Get(handler.RouteGallery+handler.RouteParamSlug, albumHandler.AlbumDetail)
	r.Get(handler.RouteEvents, eventHandler.List)
	r.Get(handler.RouteBlog, postHandler.List)
	r.Get(handler.RouteBlog+handler.RouteParamSlug, postHandler.Detail)
	r.Get(handler.RouteSponsors, sponsorHandler.List)
	r.Get(handler.RouteMembers, memberHandler.List)
	r.Get(handler.RouteJoin, joinHandler.Form)
	r.Post(handler.RouteJoin, joinHandler.Submit)

	// Auth
	r.Get(handler.RouteLogin, authHandler.LoginForm)
	r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
	r.Post(handler.RouteLogout, authHandler.Logout)

	// Member-only pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))

		r.Post(handler.RouteEvents+handler.RouteParamID+"/register", eventHandler.Register)
		r.Post(handler.RouteEvents+handler.RouteParamID+"/unregister", eventHandler.Unregister)

		r.Get(handler.RouteProfile, memberHandler.Profile)
		r.Post(handler.RouteProfile, memberHandler.Update)
		r.Post(handler.RouteProfile+"/avatar", memberHandler.UploadAvatar)
		r.Post(handler.RouteProfile+"/avatar/delete", memberHandler.RemoveAvatar)
	})

	// Admin pages
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.RequireAdmin())

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		r.Get(handler.RouteAlbums, albumHandler.AdminList)
		r.Get(handler.RouteAlbums+handler.RouteSuffixNew, albumHandler.NewForm)
		r.Post(handler.RouteAlbums, albumHandler.Create)
		r.Get(handler.RouteAlbums+handler.RouteParamID, albumHandler.EditForm)
		r.Post(handler.RouteAlbums+handler.RouteParamID, albumHandler.Update)
		r.Post(handler.RouteAlbums+handler.RouteParamID+handler.RouteSuffixDelete, albumHandler.Delete)
		r.Post(handler.RouteAlbums+handler.RouteParamID+handler.RouteSuffixUpload, albumHandler.UploadPhoto)
		r.Post("/photos"+handler.RouteParamID+handler.RouteSuffixDelete, albumHandler.DeletePhoto)

		r.Get(handler.RouteEvents, eventHandler.AdminList)
		r.Get(handler.RouteEvents+handler.RouteSuffixNew, eventHandler.NewForm)
		r.Post(handler.RouteEvents, eventHandler.Create)
		r.Get(handler.RouteEvents+handler.RouteParamID+handler.RouteSuffixEdit, eventHandler.EditForm)
		r.Post(handler.RouteEvents+handler.RouteParamID, eventHandler.Update)
		r.Post(handler.RouteEvents+handler.RouteParamID+handler.RouteSuffixDelete, eventHandler.Delete)

		r.Get(handler.RoutePosts, postHandler.AdminList)
		r.Get(handler.RoutePosts+handler.RouteSuffixNew, postHandler.NewForm)
		r.Post(handler.RoutePosts, postHandler.Create)
		r.Get(handler.RoutePosts+handler.RouteParamID+handler.RouteSuffixEdit, postHandler.EditForm)
		r.Post(handler.RoutePosts+handler.RouteParamID, postHandler.Update)
		r.Post(handler.RoutePosts+handler.RouteParamID+handler.RouteSuffixDelete, postHandler.Delete)

		r.Get(handler.RouteSponsors, sponsorHandler.AdminList)
		r.Get(handler.RouteSponsors+handler.RouteSuffixNew, sponsorHandler.NewForm)
		r.Post(handler.RouteSponsors, sponsorHandler.Create)
		r.Get(handler.RouteSponsors+handler.RouteParamID+handler.RouteSuffixEdit, sponsorHandler.EditForm)
		r.Post(handler.RouteSponsors+handler.RouteParamID, sponsorHandler.Update)
		r.Post(handler.RouteSponsors+handler.RouteParamID+handler.RouteSuffixDelete, sponsorHandler.Delete)

		r.Get(handler.RouteApplications, adminHandler.Applications)
		r.Post(handler.RouteApplications+handler.RouteParamID+"/review", adminHandler.ReviewApplication)

		r.Get(handler.RouteUsers, adminHandler.Users)
		r.Post(handler.RouteUsers+handler.RouteParamID+"/role", adminHandler.UpdateUserRole)

		r.Get(handler.RouteAuditLog, adminHandler.AuditLog)
	})

	r.Get("/robots.txt", seo.RobotsHandler(seo.RobotsConfig{
		DisallowAll: cfg.IsDevelopment(),
	}))

	// Embedded static assets
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Uploaded photos and avatars, served from disk with containment
	// checks against path traversal.
	uploadsRoot, err := filepath.Abs(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("resolving uploads directory: %w", err)
	}
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		requested := filepath.Join(uploadsRoot, filepath.Clean("/"+chi.URLParam(req, "*")))
		rel, err := filepath.Rel(uploadsRoot, requested)
		if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, requested)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for photo uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
