// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jcodagnone/geo6/geo6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{EnvClientID, EnvSecret, EnvHost, EnvReferer, EnvTimeout, EnvRateLimit, EnvUserAgent} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvClientID, "client")
	t.Setenv(EnvSecret, "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, &Config{
		ClientID: "client",
		Secret:   "secret",
		Host:     geo6.DefaultHost,
		Timeout:  10 * time.Second,
	}, cfg)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSecret, "from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	content := `GEO6_CLIENT_ID=from-file
GEO6_SECRET=ignored
GEO6_HOST=https://example.be
GEO6_TIMEOUT=3s
GEO6_RATE_LIMIT=2.5
GEO6_USER_AGENT=geo6-cli
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "from-file", cfg.ClientID)
	assert.Equal(t, "from-env", cfg.Secret, "environment wins over the file")
	assert.Equal(t, "https://example.be", cfg.Host)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.InDelta(t, 2.5, cfg.RateLimit, 1e-9)
	assert.Equal(t, "geo6-cli", cfg.UserAgent)

	g := cfg.Geo6()
	assert.Equal(t, "from-file", g.ClientID)
	assert.Equal(t, 3*time.Second, g.Timeout)
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"timeout", EnvTimeout, "ten seconds"},
		{"rate limit", EnvRateLimit, "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{ClientID: "c", Secret: "s", Host: geo6.DefaultHost, Timeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing client id", func(c *Config) { c.ClientID = "" }, "ClientID"},
		{"missing secret", func(c *Config) { c.Secret = "" }, "Secret"},
		{"dollar in secret", func(c *Config) { c.Secret = "a$b" }, "Secret"},
		{"bad host", func(c *Config) { c.Host = "ws.geo6.be" }, "Host"},
		{"bad referer", func(c *Config) { c.Referer = "nope" }, "Referer"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "Timeout"},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, "RateLimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
