// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete molesim configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// API holds hosted language model settings
	API APIConfig `toml:"api" json:"api"`

	// RCSB holds structural database settings
	RCSB RCSBConfig `toml:"rcsb" json:"rcsb"`

	// Simulation holds run loop settings
	Simulation SimulationConfig `toml:"simulation" json:"simulation"`

	// UI holds terminal interface settings
	UI UIConfig `toml:"ui" json:"ui"`

	// Workspace holds project storage settings
	Workspace WorkspaceConfig `toml:"workspace" json:"workspace"`

	// Export holds report export settings
	Export ExportConfig `toml:"export" json:"export"`

	// Server holds report preview server settings
	Server ServerConfig `toml:"server" json:"server"`
}

// APIConfig contains hosted language model configuration.
type APIConfig struct {
	// Key is the API key for the generative language service.
	// Prefer the keyring (molesim setup) or GEMINI_API_KEY over this field.
	Key string `toml:"key" json:"key"`
	// Model is the model used for intent parsing
	Model string `toml:"model" json:"model"`
	// BaseURL is the service endpoint
	BaseURL string `toml:"base_url" json:"base_url"`
	// Temperature for generation (0.0-2.0)
	Temperature float64 `toml:"temperature" json:"temperature"`
	// MaxOutputTokens caps each model reply
	MaxOutputTokens int `toml:"max_output_tokens" json:"max_output_tokens"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// Offline blocks all model requests; chat falls back to local rules
	Offline bool `toml:"offline" json:"offline"`
}

// RCSBConfig contains structural database configuration.
type RCSBConfig struct {
	// DataBaseURL is the metadata endpoint
	DataBaseURL string `toml:"data_base_url" json:"data_base_url"`
	// FilesBaseURL is the structure file download endpoint
	FilesBaseURL string `toml:"files_base_url" json:"files_base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// CacheEnabled keeps downloaded structure files on disk
	CacheEnabled bool `toml:"cache_enabled" json:"cache_enabled"`
}

// SimulationConfig contains run loop configuration.
type SimulationConfig struct {
	// TickMillis is the interval between progress ticks
	TickMillis int `toml:"tick_millis" json:"tick_millis"`
	// StepMin is the smallest per-tick progress increment
	StepMin int `toml:"step_min" json:"step_min"`
	// StepMax is the largest per-tick progress increment
	StepMax int `toml:"step_max" json:"step_max"`
	// MaxPoints caps the analysis series length
	MaxPoints int `toml:"max_points" json:"max_points"`
	// LogLines caps the rolling run log
	LogLines int `toml:"log_lines" json:"log_lines"`
}

// UIConfig contains terminal interface configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowLanding shows the animated landing page on startup
	ShowLanding bool `toml:"show_landing" json:"show_landing"`
	// ShowTimestamps displays message timestamps in chat
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// WorkspaceConfig contains project storage configuration.
type WorkspaceConfig struct {
	// Dir overrides the workspace directory (empty = ~/.molesim)
	Dir string `toml:"dir" json:"dir"`
	// AutosaveSecs is the autosave interval (0 disables autosave)
	AutosaveSecs int `toml:"autosave_secs" json:"autosave_secs"`
	// WatchEnabled watches the workspace for external file changes
	WatchEnabled bool `toml:"watch_enabled" json:"watch_enabled"`
	// MaxTranscripts caps stored chat transcripts
	MaxTranscripts int `toml:"max_transcripts" json:"max_transcripts"`
}

// ExportConfig contains report export configuration.
type ExportConfig struct {
	// Format is the default export format: "html", "markdown"
	Format string `toml:"format" json:"format"`
	// OutputDir overrides the export directory (empty = current directory)
	OutputDir string `toml:"output_dir" json:"output_dir"`
	// OpenAfter opens the exported report in the system default app
	OpenAfter bool `toml:"open_after" json:"open_after"`
}

// ServerConfig contains report preview server configuration.
type ServerConfig struct {
	// Host to bind the preview server to
	Host string `toml:"host" json:"host"`
	// Port to listen on (0 picks a free port)
	Port int `toml:"port" json:"port"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			Model:           "gemini-1.5-flash",
			BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
			Temperature:     0.2,
			MaxOutputTokens: 768,
			TimeoutSecs:     30,
		},

		RCSB: RCSBConfig{
			DataBaseURL:  "https://data.rcsb.org/rest/v1/core/entry",
			FilesBaseURL: "https://files.rcsb.org/download",
			TimeoutSecs:  30,
			CacheEnabled: true,
		},

		Simulation: SimulationConfig{
			TickMillis: 800,
			StepMin:    3,
			StepMax:    9,
			MaxPoints:  600,
			LogLines:   50,
		},

		UI: UIConfig{
			Theme:          "dark",
			ShowLanding:    true,
			ShowTimestamps: true,
			CompactMode:    false,
		},

		Workspace: WorkspaceConfig{
			AutosaveSecs:   30,
			WatchEnabled:   true,
			MaxTranscripts: 50,
		},

		Export: ExportConfig{
			Format:    "html",
			OpenAfter: true,
		},

		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8642,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the molesim configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".molesim"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WorkspaceDir resolves the workspace directory, honoring the override.
func (c *Config) WorkspaceDir() (string, error) {
	if c.Workspace.Dir != "" {
		return c.Workspace.Dir, nil
	}
	return ConfigDir()
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files hold API keys and should be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	cfg, err = finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finish applies overrides, migration, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.Migrate()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# molesim configuration file")
	fmt.Fprintln(file, "# Generated by molesim - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// API settings
	if c.API.Temperature < 0 || c.API.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "api.temperature",
			Message: fmt.Sprintf("must be between 0.0 and 2.0, got %g", c.API.Temperature),
		})
	}
	if c.API.MaxOutputTokens < 1 || c.API.MaxOutputTokens > 8192 {
		errs = append(errs, ValidationError{
			Field:   "api.max_output_tokens",
			Message: fmt.Sprintf("must be 1-8192, got %d", c.API.MaxOutputTokens),
		})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be 1-300 seconds, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.BaseURL != "" {
		if _, err := url.Parse(c.API.BaseURL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	// RCSB settings
	for field, value := range map[string]string{
		"rcsb.data_base_url":  c.RCSB.DataBaseURL,
		"rcsb.files_base_url": c.RCSB.FilesBaseURL,
	} {
		if value == "" {
			continue
		}
		if _, err := url.Parse(value); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	// Simulation settings
	if c.Simulation.TickMillis < 100 || c.Simulation.TickMillis > 10000 {
		errs = append(errs, ValidationError{
			Field:   "simulation.tick_millis",
			Message: fmt.Sprintf("must be 100-10000, got %d", c.Simulation.TickMillis),
		})
	}
	if c.Simulation.StepMin < 1 {
		errs = append(errs, ValidationError{
			Field:   "simulation.step_min",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Simulation.StepMin),
		})
	}
	if c.Simulation.StepMax < c.Simulation.StepMin || c.Simulation.StepMax > 50 {
		errs = append(errs, ValidationError{
			Field:   "simulation.step_max",
			Message: fmt.Sprintf("must be between step_min and 50, got %d", c.Simulation.StepMax),
		})
	}
	if c.Simulation.MaxPoints < 10 || c.Simulation.MaxPoints > 100000 {
		errs = append(errs, ValidationError{
			Field:   "simulation.max_points",
			Message: fmt.Sprintf("must be 10-100000, got %d", c.Simulation.MaxPoints),
		})
	}
	if c.Simulation.LogLines < 10 || c.Simulation.LogLines > 1000 {
		errs = append(errs, ValidationError{
			Field:   "simulation.log_lines",
			Message: fmt.Sprintf("must be 10-1000, got %d", c.Simulation.LogLines),
		})
	}

	// UI settings
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Workspace settings
	if c.Workspace.AutosaveSecs < 0 || c.Workspace.AutosaveSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "workspace.autosave_secs",
			Message: fmt.Sprintf("must be 0-3600, got %d", c.Workspace.AutosaveSecs),
		})
	}
	if c.Workspace.MaxTranscripts < 1 || c.Workspace.MaxTranscripts > 1000 {
		errs = append(errs, ValidationError{
			Field:   "workspace.max_transcripts",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.Workspace.MaxTranscripts),
		})
	}

	// Export settings
	validFormats := map[string]bool{"html": true, "markdown": true}
	if !validFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: html, markdown", c.Export.Format),
		})
	}

	// Server settings
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be 0-65535, got %d", c.Server.Port),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	// API defaults
	if c.API.Model == "" {
		c.API.Model = defaults.API.Model
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.MaxOutputTokens == 0 {
		c.API.MaxOutputTokens = defaults.API.MaxOutputTokens
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}

	// RCSB defaults
	if c.RCSB.DataBaseURL == "" {
		c.RCSB.DataBaseURL = defaults.RCSB.DataBaseURL
	}
	if c.RCSB.FilesBaseURL == "" {
		c.RCSB.FilesBaseURL = defaults.RCSB.FilesBaseURL
	}
	if c.RCSB.TimeoutSecs == 0 {
		c.RCSB.TimeoutSecs = defaults.RCSB.TimeoutSecs
	}

	// Simulation defaults
	if c.Simulation.TickMillis == 0 {
		c.Simulation.TickMillis = defaults.Simulation.TickMillis
	}
	if c.Simulation.StepMin == 0 {
		c.Simulation.StepMin = defaults.Simulation.StepMin
	}
	if c.Simulation.StepMax == 0 {
		c.Simulation.StepMax = defaults.Simulation.StepMax
	}
	if c.Simulation.MaxPoints == 0 {
		c.Simulation.MaxPoints = defaults.Simulation.MaxPoints
	}
	if c.Simulation.LogLines == 0 {
		c.Simulation.LogLines = defaults.Simulation.LogLines
	}

	// UI defaults
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	// Workspace defaults
	if c.Workspace.MaxTranscripts == 0 {
		c.Workspace.MaxTranscripts = defaults.Workspace.MaxTranscripts
	}

	// Export defaults
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}

	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = defaults.Server.Host
	}
}

// Migrate handles migration from old configuration formats to new ones.
func (c *Config) Migrate() {
	// Retired model names map forward to their replacements.
	switch c.API.Model {
	case "gemini-pro":
		c.API.Model = "gemini-1.5-pro"
	case "gemini-flash":
		c.API.Model = "gemini-1.5-flash"
	}

	// Early builds used "md" for markdown exports.
	if strings.EqualFold(c.Export.Format, "md") {
		c.Export.Format = "markdown"
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MOLESIM_API_KEY: overrides api.key
//   - GEMINI_API_KEY: overrides api.key (checked after MOLESIM_API_KEY)
//   - MOLESIM_MODEL: overrides api.model
//   - MOLESIM_BASE_URL: overrides api.base_url
//   - MOLESIM_OFFLINE: set to "1" or "true" to block model requests
//   - MOLESIM_THEME: overrides ui.theme
//   - MOLESIM_WORKSPACE: overrides workspace.dir
//   - MOLESIM_SERVER_PORT: overrides server.port
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("MOLESIM_API_KEY"); key != "" {
		c.API.Key = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.API.Key = key
	}

	if model := os.Getenv("MOLESIM_MODEL"); model != "" {
		c.API.Model = model
	}

	if base := os.Getenv("MOLESIM_BASE_URL"); base != "" {
		c.API.BaseURL = base
	}

	if offline := os.Getenv("MOLESIM_OFFLINE"); offline != "" {
		c.API.Offline = offline == "1" || strings.ToLower(offline) == "true"
	}

	if theme := os.Getenv("MOLESIM_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if dir := os.Getenv("MOLESIM_WORKSPACE"); dir != "" {
		c.Workspace.Dir = dir
	}

	if port := os.Getenv("MOLESIM_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.model").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "api.model").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.key",
		"api.model",
		"api.base_url",
		"api.temperature",
		"api.max_output_tokens",
		"api.timeout_secs",
		"api.offline",
		"rcsb.data_base_url",
		"rcsb.files_base_url",
		"rcsb.timeout_secs",
		"rcsb.cache_enabled",
		"simulation.tick_millis",
		"simulation.step_min",
		"simulation.step_max",
		"simulation.max_points",
		"simulation.log_lines",
		"ui.theme",
		"ui.show_landing",
		"ui.show_timestamps",
		"ui.compact_mode",
		"workspace.dir",
		"workspace.autosave_secs",
		"workspace.watch_enabled",
		"workspace.max_transcripts",
		"export.format",
		"export.output_dir",
		"export.open_after",
		"server.host",
		"server.port",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// The API key is redacted so the output is safe to log.
func (c *Config) String() string {
	safe := c.Clone()

	if safe.API.Key != "" {
		safe.API.Key = "[REDACTED]"
	}

	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
