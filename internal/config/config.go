// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"NETWORK_DB_PATH" envDefault:"./data/network.db"`
	SessionSecret string `env:"NETWORK_SESSION_SECRET,required"`
	ServerHost    string `env:"NETWORK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"NETWORK_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"NETWORK_ENV" envDefault:"development"`
	LogLevel      string `env:"NETWORK_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"NETWORK_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL    string `env:"NETWORK_REDIS_URL"`                       // Optional Redis URL for distributed role caching
	CachePrefix string `env:"NETWORK_CACHE_PREFIX" envDefault:"ntwk:"` // Redis key prefix
	CacheTTL    int    `env:"NETWORK_CACHE_TTL" envDefault:"300"`      // Role cache TTL in seconds

	// Admin account seeded on first start
	AdminEmail    string `env:"NETWORK_ADMIN_EMAIL"`
	AdminPassword string `env:"NETWORK_ADMIN_PASSWORD"`

	// Email configuration (Resend). Notifications are skipped when unset.
	ResendAPIKey string `env:"NETWORK_RESEND_API_KEY"`
	EmailFrom    string `env:"NETWORK_EMAIL_FROM" envDefault:"The Network <noreply@thenetwork.com>"`

	// Audit log retention in days, pruned nightly.
	AuditRetentionDays int `env:"NETWORK_AUDIT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// EmailEnabled returns true if outbound email is configured.
func (c Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("NETWORK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("NETWORK_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("NETWORK_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
