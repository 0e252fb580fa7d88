// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads PORTFOLIO_* settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/portfolio-go/internal/validation"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Avatar store kinds.
const (
	AvatarStoreDataURI = "datauri"
	AvatarStoreS3      = "s3"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env           string `env:"PORTFOLIO_ENV" envDefault:"development"`
	ServerHost    string `env:"PORTFOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PORTFOLIO_SERVER_PORT" envDefault:"8080"`
	LogLevel      string `env:"PORTFOLIO_LOG_LEVEL" envDefault:"info"`
	DBPath        string `env:"PORTFOLIO_DB_PATH" envDefault:"./data/portfolio.db"`
	SessionSecret string `env:"PORTFOLIO_SESSION_SECRET,required"`
	BaseURL       string `env:"PORTFOLIO_BASE_URL" envDefault:"http://localhost:8080"`

	// Identity provider
	AuthDomain       string `env:"PORTFOLIO_AUTH_DOMAIN"`
	AuthClientID     string `env:"PORTFOLIO_AUTH_CLIENT_ID"`
	AuthClientSecret string `env:"PORTFOLIO_AUTH_CLIENT_SECRET"`

	// Contact email
	ResendAPIKey string `env:"PORTFOLIO_RESEND_API_KEY"`
	MailFrom     string `env:"PORTFOLIO_MAIL_FROM"`
	MailTo       string `env:"PORTFOLIO_MAIL_TO"`

	// Cache
	RedisURL    string `env:"PORTFOLIO_REDIS_URL"`
	CachePrefix string `env:"PORTFOLIO_CACHE_PREFIX" envDefault:"portfolio:"`
	CacheTTL    int    `env:"PORTFOLIO_CACHE_TTL" envDefault:"300"` // seconds

	// Avatar storage
	AvatarStore string `env:"PORTFOLIO_AVATAR_STORE" envDefault:"datauri"`
	S3          S3Config

	GeoIPDBPath string `env:"PORTFOLIO_GEOIP_DB_PATH"` // GeoLite2-Country.mmdb

	// GitHub contributions proxy
	GitHubUsername string `env:"PORTFOLIO_GITHUB_USERNAME" envDefault:"Dove167"`
	GitHubAPIURL   string `env:"PORTFOLIO_GITHUB_API_URL" envDefault:"https://api.github.com"`
	GitHubToken    string `env:"PORTFOLIO_GITHUB_TOKEN"`
	GitHubCacheTTL int    `env:"PORTFOLIO_GITHUB_CACHE_TTL" envDefault:"3600"` // seconds

	// Per-IP limit for the contact endpoint.
	ContactRate  float64 `env:"PORTFOLIO_CONTACT_RATE" envDefault:"0.2"`
	ContactBurst int     `env:"PORTFOLIO_CONTACT_BURST" envDefault:"3"`

	TempDir string `env:"PORTFOLIO_TEMP_DIR"` // empty means os.TempDir()

	DoSeed bool `env:"PORTFOLIO_DO_SEED" envDefault:"false"`
}

// S3Config configures the S3-compatible avatar store.
type S3Config struct {
	Endpoint  string `env:"PORTFOLIO_S3_ENDPOINT"`
	AccessKey string `env:"PORTFOLIO_S3_ACCESS_KEY"`
	SecretKey string `env:"PORTFOLIO_S3_SECRET_KEY"`
	Bucket    string `env:"PORTFOLIO_S3_BUCKET"`
	Region    string `env:"PORTFOLIO_S3_REGION"`
	PublicURL string `env:"PORTFOLIO_S3_PUBLIC_URL"`
	UseSSL    bool   `env:"PORTFOLIO_S3_USE_SSL" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// GitHubCacheTTLDuration returns the GitHub cache TTL as a duration.
func (c Config) GitHubCacheTTLDuration() time.Duration {
	return time.Duration(c.GitHubCacheTTL) * time.Second
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PORTFOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("PORTFOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("PORTFOLIO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("PORTFOLIO_ENV must be development or production, got %q", c.Env)
	}

	switch c.AvatarStore {
	case AvatarStoreDataURI:
	case AvatarStoreS3:
		var missing []string
		if c.S3.Endpoint == "" {
			missing = append(missing, "PORTFOLIO_S3_ENDPOINT")
		}
		if c.S3.Bucket == "" {
			missing = append(missing, "PORTFOLIO_S3_BUCKET")
		}
		if len(missing) > 0 {
			return fmt.Errorf("PORTFOLIO_AVATAR_STORE=s3 requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("PORTFOLIO_AVATAR_STORE must be %s or %s, got %q", AvatarStoreDataURI, AvatarStoreS3, c.AvatarStore)
	}

	if c.GitHubCacheTTL < 0 {
		return fmt.Errorf("PORTFOLIO_GITHUB_CACHE_TTL must not be negative, got %d", c.GitHubCacheTTL)
	}
	if err := validation.Validate(validation.GitHubQuery{Username: c.GitHubUsername}); err != nil {
		return fmt.Errorf("PORTFOLIO_GITHUB_USERNAME: %w", err)
	}

	if c.ContactRate <= 0 {
		return fmt.Errorf("PORTFOLIO_CONTACT_RATE must be positive, got %v", c.ContactRate)
	}
	return nil
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
