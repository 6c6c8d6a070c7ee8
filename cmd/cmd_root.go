// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/jcodagnone/geo6/config"
	"github.com/jcodagnone/geo6/geo6"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

type rootOptions struct {
	EnvFile             string
	ClientID            string
	Secret              string
	Host                string
	Verbose             bool
	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

var rootFlags = &rootOptions{}

var rootCmd = &cobra.Command{
	Use:   "geo6",
	Short: "Belgian address lookup",
	Long: `
geo6 geocodes Belgian addresses and reverse geocodes coordinates using the
Geo6 address API. Names are returned in French, Dutch or German.

Credentials are read from GEO6_CLIENT_ID and GEO6_SECRET, or from a .env file.
`,
	SilenceUsage: true,
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if rootFlags.Verbose {
		level = slog.LevelDebug
	}

	// logWriter already stamps each line
	return slog.New(slog.NewTextHandler(&logWriter{writer: os.Stderr}, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}))
}

// loadConfig reads the environment and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.EnvFile)
	if err != nil {
		return nil, err
	}

	if rootFlags.ClientID != "" {
		cfg.ClientID = rootFlags.ClientID
	}

	if rootFlags.Secret != "" {
		cfg.Secret = rootFlags.Secret
	}

	if rootFlags.Host != "" {
		cfg.Host = rootFlags.Host
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = "geo6/" + Version
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newProvider() (*geo6.Provider, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts := []geo6.Option{geo6.WithLogger(newLogger())}
	if rootFlags.EnableHTTPTrace || rootFlags.EnableHTTPBodyTrace {
		opts = append(opts, geo6.WithTrace(os.Stderr, rootFlags.EnableHTTPBodyTrace))
	}

	return geo6.New(cfg.Geo6(), opts...)
}

func hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid host %q", rawURL)
	}

	return u.Hostname(), nil
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVar(
		&rootFlags.EnvFile,
		"env-file",
		".env",
		"File with GEO6_* variables, ignored when missing",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootFlags.ClientID,
		"client-id",
		"",
		"Client id, overrides GEO6_CLIENT_ID",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootFlags.Secret,
		"secret",
		"",
		"Client secret, overrides GEO6_SECRET",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootFlags.Host,
		"host",
		"",
		"API base URL, overrides GEO6_HOST",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&rootFlags.Verbose,
		"verbose",
		"v",
		false,
		"Log every request",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rootFlags.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rootFlags.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
