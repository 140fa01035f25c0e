// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamkeep/config.yaml",
	"/etc/streamkeep/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "STREAMKEEP_CONFIG"

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "STREAMKEEP_"

// Load builds the configuration from defaults, an optional YAML file, and
// STREAMKEEP_* environment variables (highest priority), then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables, highest priority.
	// STREAMKEEP_SERVER_PORT -> server.port
	// STREAMKEEP_SECURITY_JWT_SECRET -> security.jwt_secret
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// media.allowed_hosts arrives as a comma-separated string from env
	if raw := k.String("media.allowed_hosts"); raw != "" && strings.Contains(raw, ",") {
		hosts := strings.Split(raw, ",")
		for i := range hosts {
			hosts[i] = strings.TrimSpace(hosts[i])
		}
		if err := k.Set("media.allowed_hosts", hosts); err != nil {
			return nil, fmt.Errorf("failed to expand media.allowed_hosts: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps STREAMKEEP_SECTION_FIELD_NAME to section.field_name.
// Only the first underscore separates the section from the field; the rest
// of the name keeps its underscores.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return s
	}
	// rate_limit is the only two-word section
	if parts[0] == "rate" && strings.HasPrefix(parts[1], "limit_") {
		return "rate_limit." + strings.TrimPrefix(parts[1], "limit_")
	}
	return parts[0] + "." + parts[1]
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
