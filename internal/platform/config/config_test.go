// Copyright (c) 2026 Editaliza. All rights reserved.

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editaliza/editaliza/internal/platform/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestParse_Defaults verifies that optional settings fall back to their defaults.
*/
func TestParse_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/editaliza")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.GateResolveUser)
}

/*
TestParse_MissingRequired ensures the secret and DSN are mandatory.
*/
func TestParse_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Parse()
	assert.Error(t, err)
}

/*
TestParse_ShortSecret rejects secrets too short for HS256.
*/
func TestParse_ShortSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/editaliza")
	t.Setenv("JWT_SECRET", "short")

	_, err := config.Parse()
	assert.Error(t, err)
}

/*
TestConfig_AllowedOrigins checks that production origins are strict.
*/
func TestConfig_AllowedOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/editaliza")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("EXTRA_ORIGINS", "https://preview.example.com")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Contains(t, cfg.AllowedOrigins(), "https://editaliza.app")
	assert.Contains(t, cfg.AllowedOrigins(), "https://preview.example.com")
}

/*
TestConfig_TrustedProxies accepts addresses and CIDRs and rejects anything else.
*/
func TestConfig_TrustedProxies(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/editaliza")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.Parse()
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxyPrefixes())

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1,fd00::/8")
	cfg, err = config.Parse()
	require.NoError(t, err)

	prefixes := cfg.TrustedProxyPrefixes()
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "127.0.0.1/32", prefixes[1].String())
	assert.Equal(t, "fd00::/8", prefixes[2].String())

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,not-an-address")
	_, err = config.Parse()
	assert.Error(t, err)
}
