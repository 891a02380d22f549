// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Fallback signing secrets for local development only. Load rejects them
// when ENVIRONMENT=production.
const (
	devAccessSecret  = "secret"
	devRefreshSecret = "refresh_secret"
)

// # Configuration Schema

// Config holds all runtime configuration for the DevHive API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Access-token signing. The default secret and 4h expiry exist only as a
	// fallback for local development.
	JWTSecret string        `env:"JWT_SECRET"  envDefault:"secret"`
	JWTExpire time.Duration `env:"JWT_EXPIRE"  envDefault:"4h"`

	// Refresh-token signing. Kept as an independent secret/expiry pair so
	// refresh support never derives trust from the access-token secret.
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"  envDefault:"refresh_secret"`
	JWTRefreshExpire time.Duration `env:"JWT_REFRESH_EXPIRE"  envDefault:"168h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// It fails fast when a required variable is missing, or when a production
// deployment still relies on the development fallback signing secrets.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == devAccessSecret {
			return nil, fmt.Errorf("config: JWT_SECRET must be set in production")
		}
		if cfg.JWTRefreshSecret == devRefreshSecret {
			return nil, fmt.Errorf("config: JWT_REFRESH_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// ExtraOriginList returns the comma-separated EXTRA_ORIGINS entries, trimmed,
// with empty entries dropped.
func (c *Config) ExtraOriginList() []string {
	if strings.TrimSpace(c.ExtraOrigins) == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
