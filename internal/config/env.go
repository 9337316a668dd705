// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides lists every variable that can override the config file.
// Unset variables leave the corresponding field untouched.
type envOverrides struct {
	APIURL         string        `env:"AVA_API_URL"`
	ViteAPIURL     string        `env:"VITE_API_URL"`
	Timeout        time.Duration `env:"AVA_TIMEOUT"`
	MaxRPS         *float64      `env:"AVA_MAX_RPS"`
	PersistSession *bool         `env:"AVA_PERSIST_SESSION"`
	Theme          string        `env:"AVA_THEME"`
	TypingInterval time.Duration `env:"AVA_TYPING_INTERVAL"`
	Markdown       *bool         `env:"AVA_MARKDOWN"`
	LogLevel       string        `env:"AVA_LOG_LEVEL"`
	LogPath        string        `env:"AVA_LOG_PATH"`
}

// LoadDotEnv reads KEY=value pairs from the given files (default ".env")
// into the process environment. Variables already set win. A missing file is
// not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies AVA_* variables on top of c. VITE_API_URL is
// honored for parity with the web client's build environment; AVA_API_URL
// takes precedence over it.
func (c *Config) ApplyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}

	switch {
	case o.APIURL != "":
		c.API.BaseURL = o.APIURL
	case o.ViteAPIURL != "":
		c.API.BaseURL = o.ViteAPIURL
	}
	if o.Timeout > 0 {
		c.API.TimeoutSecs = int(o.Timeout / time.Second)
		if c.API.TimeoutSecs == 0 {
			c.API.TimeoutSecs = 1
		}
	}
	if o.MaxRPS != nil {
		c.API.MaxRPS = *o.MaxRPS
	}
	if o.PersistSession != nil {
		c.API.PersistSession = *o.PersistSession
	}
	if o.Theme != "" {
		c.UI.Theme = o.Theme
	}
	if o.TypingInterval > 0 {
		c.UI.TypingIntervalMs = int(o.TypingInterval / time.Millisecond)
	}
	if o.Markdown != nil {
		c.UI.Markdown = *o.Markdown
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogPath != "" {
		c.Log.Path = o.LogPath
	}
	return nil
}
