// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for molesim.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Hosted language model settings (key, model, limits)
//   - SimulationConfig: Tick rate and synthetic data shape
//   - WorkspaceConfig: Project storage and autosave behavior
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MOLESIM_*, GEMINI_API_KEY)
//   - ~/.molesim/config.toml
//   - ~/.molesim/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	model := cfg.API.Model
//	tick := cfg.Simulation.TickMillis
package config
