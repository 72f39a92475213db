// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for molesim.
//
// Command: config [subcommand]
// Short:   View and modify configuration
// Aliases: cfg
//
// Subcommands:
//   show (default)      Display current configuration (alias: list)
//   get <key>           Print a single configuration value
//   set <key> <value>   Set a configuration value
//   path                Show configuration file path
//   reset               Reset to default configuration
//
// Examples:
//   molesim config                        Show current config (default)
//   molesim config show --json           Config in JSON format
//   molesim config get api.model
//   molesim config set ui.theme light
//   molesim config set api.offline true
//   molesim config set api.key AIza...   Stored in the credential vault
//   molesim config set simulation.tick_millis 500
//   molesim config path
//   molesim config reset
//
// Keys use dot notation, section then field: api.model, rcsb.cache_enabled,
// simulation.max_points, ui.theme, workspace.dir, export.format, server.port.
// The full list comes from "molesim config show".
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/secrets"
)

// configLabelWidth fits the longest key, workspace.max_transcripts.
const configLabelWidth = 28

// HandleConfigCommand dispatches the config subcommands.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show", "list":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		return handleConfigPath(args)
	case "reset":
		return handleConfigReset(args)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown config subcommand",
			Example: "molesim config show",
		}
	}
}

// handleConfigShow prints every key with its current value.
func handleConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		redacted := cfg.Clone()
		if redacted.API.Key != "" {
			redacted.API.Key = "[REDACTED]"
		}
		NewJSONResponse("config", redacted).Print()
		return nil
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	var lastSection string
	for _, key := range config.GetAllKeys() {
		section := key
		if i := strings.Index(key, "."); i > 0 {
			section = key[:i]
		}
		if section != lastSection {
			if lastSection != "" {
				fmt.Println()
			}
			lastSection = section
		}

		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		display := maskIfSecret(key, fmt.Sprintf("%v", value))
		fmt.Printf("%s %s\n", RenderLabel(key, configLabelWidth), ValueStyle.Render(display))
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("File: " + configPathOrUnknown()))
	return nil
}

// handleConfigGet prints one value, unstyled so it can be captured.
func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "molesim config get api.model")
	}
	key := strings.ToLower(args.ConfigKey)

	cfg := config.Global()
	value, err := cfg.Get(key)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: key}
	}

	display := maskIfSecret(key, fmt.Sprintf("%v", value))
	if args.JSON {
		NewJSONResponse("config", map[string]string{key: display}).Print()
		return nil
	}
	fmt.Println(display)
	return nil
}

// handleConfigSet updates one value and saves the file. API keys go to
// the credential vault instead so they never land in the TOML.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "molesim config set ui.theme light")
	}
	key := strings.ToLower(args.ConfigKey)
	value := args.ConfigVal

	if key == "api.key" {
		vault, err := secrets.OpenDefault()
		if err != nil {
			return WrapError(err, "opening credential vault")
		}
		if err := vault.StoreAPIKey(value); err != nil {
			return WrapError(err, "storing API key")
		}
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, maskAPIKey(value))
		fmt.Println(DimStyle.Render("Stored encrypted in the credential vault."))
		return nil
	}

	cfg := config.Global()
	if err := cfg.Set(key, value); err != nil {
		return &NotFoundError{Resource: "config key", ID: key}
	}
	if err := cfg.Validate(); err != nil {
		return WrapError(err, "invalid configuration")
	}
	if err := config.Save(cfg); err != nil {
		return WrapError(err, "saving configuration")
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, maskIfSecret(key, value))
	return nil
}

// handleConfigPath prints the config file location.
func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "resolving config path")
	}
	if args.JSON {
		NewJSONResponse("config", map[string]string{"path": path}).Print()
		return nil
	}
	fmt.Println(path)
	return nil
}

// handleConfigReset writes defaults back to disk, asking first when a
// terminal is attached.
func handleConfigReset(args Args) error {
	if CanPrompt() && !args.Quiet {
		if !promptYesNo("Reset configuration to defaults?", false) {
			fmt.Println(DimStyle.Render("Cancelled."))
			return nil
		}
	}

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return WrapError(err, "saving configuration")
	}
	config.SetGlobal(cfg)

	fmt.Printf("%s Configuration reset to defaults\n", SuccessStyle.Render("[OK]"))
	fmt.Println(DimStyle.Render("File: " + configPathOrUnknown()))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func configPathOrUnknown() string {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "(unknown)"
	}
	return path
}

// maskAPIKey renders a stable fingerprint instead of the key itself.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) < 8 {
		return "[invalid key]"
	}
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x...", hash[:4])
}

// maskIfSecret masks values whose key names suggest credentials.
func maskIfSecret(key, value string) string {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "key") ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, "token") ||
		strings.Contains(lower, "password") {
		return maskAPIKey(value)
	}
	return value
}
