// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, and 'go-playground/validator' to reject values that parse but make no
sense (a JWT secret that is too short, a malformed frontend URL).

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.

A local '.env' file is honoured when present so development setups do not need
to export every variable by hand.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Editaliza server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"        validate:"required,numeric"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development" validate:"oneof=development staging production test"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the feed cache.
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret signs and verifies the auth-token cookie (HS256).
	JWTSecret string `env:"JWT_SECRET,required" validate:"min=32"`

	// TokenTTL is the validity window of an issued token.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h" validate:"gt=0"`

	// FeedCacheTTL bounds how stale a cached feed listing may be.
	FeedCacheTTL time.Duration `env:"FEED_CACHE_TTL" envDefault:"30s"`

	// Page UI: proxied to FrontendURL when set, otherwise served from StaticDir.
	FrontendURL string `env:"FRONTEND_URL" validate:"omitempty,url"`
	StaticDir   string `env:"STATIC_DIR"   envDefault:"./web"`

	// GateResolveUser makes the request gate resolve the token's user
	// against the database instead of trusting the signature alone.
	GateResolveUser bool `env:"GATE_RESOLVE_USER" envDefault:"false"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`

	// TrustedProxies lists the addresses or CIDRs of reverse proxies whose
	// X-Real-IP and X-Forwarded-For headers are believed. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment into a validated [Config].
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TrustedProxyPrefixes returns [Config.TrustedProxies] as prefixes; a bare
// address becomes a single-host prefix.
func (c *Config) TrustedProxyPrefixes() []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

// AllowedOrigins returns the CORS origin allow-list for this environment.
func (c *Config) AllowedOrigins() []string {
	if c.IsDevelopment() {
		return []string{"http://*", "https://*"}
	}
	return append([]string{"https://editaliza.app", "https://*.editaliza.app"}, c.ExtraOrigins...)
}
