// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package config loads and validates application configuration using koanf.
// Precedence, lowest to highest: built-in defaults, YAML config file,
// STREAMKEEP_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Media     MediaConfig     `koanf:"media"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Logging   LoggingConfig   `koanf:"logging"`
	Audit     AuditConfig     `koanf:"audit"`
}

// StorageConfig configures the file-backed record store.
type StorageConfig struct {
	// DataDir is the root directory holding all catalog JSON files.
	DataDir string `koanf:"data_dir"`

	// LockAttempts is the bounded retry budget for lock acquisition.
	LockAttempts int `koanf:"lock_attempts"`

	// LockBackoffMin is the initial wait between lock retries.
	LockBackoffMin time.Duration `koanf:"lock_backoff_min"`

	// LockBackoffMax caps the wait between lock retries.
	LockBackoffMax time.Duration `koanf:"lock_backoff_max"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig configures authentication.
type SecurityConfig struct {
	// JWTSecret signs session tokens (HS256). Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the JWT validity window.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername/AdminPassword bootstrap the admin singleton on first run.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`
}

// MediaConfig constrains media URLs.
type MediaConfig struct {
	// AllowedHosts is the hostname allow-list for poster, stream and
	// subtitle URLs.
	AllowedHosts []string `koanf:"allowed_hosts"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	// RequestsPerMinute applies to authenticated API routes.
	RequestsPerMinute int `koanf:"requests_per_minute"`

	// LoginPerMinute applies to the login endpoint only.
	LoginPerMinute int `koanf:"login_per_minute"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AuditConfig configures the append-only audit trail.
type AuditConfig struct {
	Enabled    bool `koanf:"enabled"`
	BufferSize int  `koanf:"buffer_size"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:        "/data",
			LockAttempts:   5,
			LockBackoffMin: 50 * time.Millisecond,
			LockBackoffMax: 200 * time.Millisecond,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8480,
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			SessionTimeout: 24 * time.Hour,
			AdminUsername:  "admin",
			AdminPassword:  "",
		},
		Media: MediaConfig{
			AllowedHosts: []string{"localhost", "127.0.0.1"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 300,
			LoginPerMinute:    5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1000,
		},
	}
}

// Validate checks invariants that cannot be expressed per-field.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if c.Storage.LockAttempts < 1 {
		return fmt.Errorf("storage.lock_attempts must be at least 1, got %d", c.Storage.LockAttempts)
	}
	if c.Storage.LockBackoffMin <= 0 || c.Storage.LockBackoffMax < c.Storage.LockBackoffMin {
		return fmt.Errorf("storage lock backoff range is invalid: min=%s max=%s",
			c.Storage.LockBackoffMin, c.Storage.LockBackoffMax)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
		return fmt.Errorf("security.admin_username and security.admin_password are required")
	}
	if len(c.Media.AllowedHosts) == 0 {
		return fmt.Errorf("media.allowed_hosts must list at least one hostname")
	}
	for _, h := range c.Media.AllowedHosts {
		if strings.ContainsAny(h, "/: ") {
			return fmt.Errorf("media.allowed_hosts entry %q must be a bare hostname", h)
		}
	}
	return nil
}
