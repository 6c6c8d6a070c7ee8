// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jcodagnone/geo6/geo6"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvClientID  = "GEO6_CLIENT_ID"
	EnvSecret    = "GEO6_SECRET"
	EnvHost      = "GEO6_HOST"
	EnvReferer   = "GEO6_REFERER"
	EnvTimeout   = "GEO6_TIMEOUT"
	EnvRateLimit = "GEO6_RATE_LIMIT"
	EnvUserAgent = "GEO6_USER_AGENT"
)

// Config holds the settings needed to talk to the Geo6 API.
type Config struct {
	ClientID  string        `validate:"required"`
	Secret    string        `validate:"required,excludesall=$"`
	Host      string        `validate:"required,url"`
	Referer   string        `validate:"omitempty,url"`
	Timeout   time.Duration `validate:"gt=0"`
	RateLimit float64       `validate:"gte=0"`
	UserAgent string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads envFile (".env" when empty) into the process environment and
// builds a Config from it. A missing file is not an error, variables already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	timeout, err := time.ParseDuration(getEnv(EnvTimeout, "10s"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvTimeout, err)
	}

	rateLimit, err := strconv.ParseFloat(getEnv(EnvRateLimit, "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", EnvRateLimit, err)
	}

	cfg := &Config{
		ClientID:  getEnv(EnvClientID, ""),
		Secret:    getEnv(EnvSecret, ""),
		Host:      getEnv(EnvHost, geo6.DefaultHost),
		Referer:   getEnv(EnvReferer, ""),
		Timeout:   timeout,
		RateLimit: rateLimit,
		UserAgent: getEnv(EnvUserAgent, ""),
	}

	return cfg, nil
}

// Validate checks the settings, Load does not so that flags can fill gaps.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}

			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}

		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// Geo6 converts the settings for geo6.New.
func (c *Config) Geo6() geo6.Config {
	return geo6.Config{
		ClientID:  c.ClientID,
		Secret:    c.Secret,
		Host:      c.Host,
		Referer:   c.Referer,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	return fallback
}
