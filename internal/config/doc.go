// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ava.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, validation and live reload.
//
// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: remote API location, timeout, request rate, session persistence
//   - UIConfig: theme, typing reveal speed, markdown and timestamp display
//   - LogConfig: log level and file
//   - Watcher: fsnotify-backed reloader for the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//
//   - Environment variables (AVA_*, plus VITE_API_URL), optionally from a .env file
//   - ~/.ava/config.toml
//   - ~/.ava/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	base := cfg.API.BaseURL
//	tick := cfg.UI.TypingInterval()
package config
