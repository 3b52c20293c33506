// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

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
  - DI-Friendly: Passed to core components (upstream client, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the gateway is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the dashboard gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Remote mining-operations REST API (the system of record).
	// All panel data is fetched from here; the gateway owns no domain data.
	UpstreamBaseURL string        `env:"UPSTREAM_BASE_URL,required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

	// Key-Value session storage (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Browser session cookie
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"minepanel_sid"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"720h"`
	CookieSecure  bool          `env:"COOKIE_SECURE"  envDefault:"true"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the gateway is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the gateway is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
