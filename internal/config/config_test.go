// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.Version == "" {
		t.Error("Default config should have a version")
	}
	if cfg.API.Model == "" {
		t.Error("Default config should have a model")
	}
	if cfg.RCSB.FilesBaseURL == "" {
		t.Error("Default config should have a files base URL")
	}
	if cfg.Simulation.TickMillis == 0 {
		t.Error("Default config should have a tick interval")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"temperature too high", func(c *Config) { c.API.Temperature = 3.0 }, true},
		{"temperature negative", func(c *Config) { c.API.Temperature = -0.1 }, true},
		{"zero output tokens", func(c *Config) { c.API.MaxOutputTokens = 0 }, true},
		{"timeout too long", func(c *Config) { c.API.TimeoutSecs = 600 }, true},
		{"tick too fast", func(c *Config) { c.Simulation.TickMillis = 50 }, true},
		{"step max below min", func(c *Config) { c.Simulation.StepMin = 10; c.Simulation.StepMax = 5 }, true},
		{"invalid theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
		{"invalid export format", func(c *Config) { c.Export.Format = "docx" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"autosave negative", func(c *Config) { c.Workspace.AutosaveSecs = -1 }, true},
		{"autosave disabled is fine", func(c *Config) { c.Workspace.AutosaveSecs = 0 }, false},
		{"random server port is fine", func(c *Config) { c.Server.Port = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_ValidationErrorFields tests that errors name the bad field.
func TestConfig_ValidationErrorFields(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	cfg.Export.Format = "docx"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msg := err.Error()
	if !strings.Contains(msg, "ui.theme") || !strings.Contains(msg, "export.format") {
		t.Errorf("error should name both fields: %v", msg)
	}
}

// TestConfig_SetDefaults tests zero-value backfill.
func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.API.Model != Default().API.Model {
		t.Errorf("API.Model = %q", cfg.API.Model)
	}
	if cfg.Simulation.StepMin != 3 || cfg.Simulation.StepMax != 9 {
		t.Errorf("Simulation steps = %d..%d", cfg.Simulation.StepMin, cfg.Simulation.StepMax)
	}
	if cfg.Server.Host == "" {
		t.Error("Server.Host should be defaulted")
	}
}

// TestConfig_Migrate tests legacy value migration.
func TestConfig_Migrate(t *testing.T) {
	cfg := Default()
	cfg.API.Model = "gemini-pro"
	cfg.Export.Format = "md"

	cfg.Migrate()

	if cfg.API.Model != "gemini-1.5-pro" {
		t.Errorf("model = %q, want gemini-1.5-pro", cfg.API.Model)
	}
	if cfg.Export.Format != "markdown" {
		t.Errorf("format = %q, want markdown", cfg.Export.Format)
	}
}

// TestConfig_EnvOverrides tests environment variable precedence.
func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MOLESIM_API_KEY", "molesim-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("MOLESIM_MODEL", "gemini-1.5-pro")
	t.Setenv("MOLESIM_OFFLINE", "true")
	t.Setenv("MOLESIM_SERVER_PORT", "9000")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.Key != "molesim-key" {
		t.Errorf("MOLESIM_API_KEY should win over GEMINI_API_KEY, got %q", cfg.API.Key)
	}
	if cfg.API.Model != "gemini-1.5-pro" {
		t.Errorf("model = %q", cfg.API.Model)
	}
	if !cfg.API.Offline {
		t.Error("offline should be enabled")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

// TestConfig_GeminiKeyFallback tests the GEMINI_API_KEY fallback.
func TestConfig_GeminiKeyFallback(t *testing.T) {
	t.Setenv("MOLESIM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.Key != "gemini-key" {
		t.Errorf("API.Key = %q, want gemini-key", cfg.API.Key)
	}
}

// TestConfig_TOMLRoundTrip tests save and reload through a TOML file.
func TestConfig_TOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.Model = "gemini-1.5-pro"
	cfg.Simulation.TickMillis = 500
	cfg.UI.Theme = "light"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}

	loaded := Default()
	if err := LoadTOML(loaded, path); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if loaded.API.Model != "gemini-1.5-pro" {
		t.Errorf("model = %q", loaded.API.Model)
	}
	if loaded.Simulation.TickMillis != 500 {
		t.Errorf("tick = %d", loaded.Simulation.TickMillis)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("theme = %q", loaded.UI.Theme)
	}
}

// TestConfig_JSONRoundTrip tests save and reload through a JSON file.
func TestConfig_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Export.Format = "markdown"

	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded := Default()
	if err := LoadJSON(loaded, path); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if loaded.Export.Format != "markdown" {
		t.Errorf("format = %q", loaded.Export.Format)
	}
}

// TestConfig_LoadFromPath tests loading with validation from an explicit path.
func TestConfig_LoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := "[ui]\ntheme = \"light\"\n\n[simulation]\ntick_millis = 400\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.Simulation.TickMillis != 400 {
		t.Errorf("tick = %d", cfg.Simulation.TickMillis)
	}
	// Unset sections fall back to defaults
	if cfg.API.Model == "" {
		t.Error("defaults should backfill unset sections")
	}
}

// TestConfig_LoadFromPathRejectsInvalid tests validation on explicit loads.
func TestConfig_LoadFromPathRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := "[ui]\ntheme = \"solarized\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("invalid theme should fail validation")
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("api.model")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "gemini-1.5-flash" {
		t.Errorf("Get('api.model') = %v", val)
	}

	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, _ = cfg.Get("ui.theme")
	if val != "light" {
		t.Errorf("Get('ui.theme') after Set = %v", val)
	}

	// String conversion for typed fields
	if err := cfg.Set("simulation.tick_millis", "450"); err != nil {
		t.Fatalf("Set() int conversion error = %v", err)
	}
	if cfg.Simulation.TickMillis != 450 {
		t.Errorf("TickMillis = %d", cfg.Simulation.TickMillis)
	}

	if err := cfg.Set("api.offline", "true"); err != nil {
		t.Fatalf("Set() bool conversion error = %v", err)
	}
	if !cfg.API.Offline {
		t.Error("Offline should be true")
	}

	if _, err := cfg.Get("invalid.key"); err == nil {
		t.Error("Get() with invalid key should return error")
	}
	if err := cfg.Set("api.bogus", "x"); err == nil {
		t.Error("Set() with invalid key should return error")
	}
}

// TestConfig_GetAllKeysResolve tests that every published key resolves.
func TestConfig_GetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
	}
}

// TestConfig_StringRedactsKey tests that String() never leaks the API key.
func TestConfig_StringRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.API.Key = "super-secret-key"

	out := cfg.String()
	if strings.Contains(out, "super-secret-key") {
		t.Error("String() must redact the API key")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() should mark the redaction")
	}
	if cfg.API.Key != "super-secret-key" {
		t.Error("String() must not mutate the original")
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "test"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	ResetGlobalForTesting()

	_ = Global()

	customCfg := Default()
	customCfg.Version = "custom-version"
	SetGlobal(customCfg)

	result := Global()
	if result.Version != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", result.Version)
	}
}
