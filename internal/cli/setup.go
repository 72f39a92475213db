// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard and setup commands for molesim.
//
// Command: setup
// Short:   Interactive first-run configuration
// Aliases: init
//
// Subcommands:
//   (none)   Full wizard: API key, archive cache, workspace, appearance
//   key      Store or replace the API key only
//
// Examples:
//   molesim setup          Run the full wizard
//   molesim setup key      Update the stored API key
//
// The API key goes to the encrypted credential vault under ~/.molesim,
// never to the config file. Everything else is written to config.toml.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/secrets"
)

// HandleSetupCommand dispatches the setup subcommands.
func HandleSetupCommand(args Args) error {
	if err := RequiresTTY("run setup"); err != nil {
		return err
	}

	switch args.Subcommand {
	case "":
		return runSetupWizard()
	case "key":
		return runSetupKey()
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown setup subcommand",
			Example: "molesim setup key",
		}
	}
}

// =============================================================================
// WIZARD
// =============================================================================

// runSetupWizard walks through the full first-run configuration.
func runSetupWizard() error {
	fmt.Println()
	fmt.Println(TitleStyle.Render("molesim setup"))
	fmt.Println(strings.Repeat("=", 39))
	fmt.Println("Configure the workbench. Enter keeps the shown default.")
	fmt.Println()

	cfg := config.Global().Clone()

	// Step 1: language service access.
	printSetupStep(1, "Language Service")
	fmt.Println("Instructions are interpreted by a hosted generative language")
	fmt.Println("model. Without a key the workbench falls back to rule-based")
	fmt.Println("parsing, which understands less but works anywhere.")
	fmt.Println()

	keyStored := false
	key, err := promptSecure("Gemini API key (Enter to skip)")
	if err != nil {
		return err
	}
	if key != "" {
		vault, err := secrets.OpenDefault()
		if err != nil {
			return WrapError(err, "opening credential vault")
		}
		if err := vault.StoreAPIKey(key); err != nil {
			return WrapError(err, "storing API key")
		}
		keyStored = true
		fmt.Printf("%s API key stored (%s)\n", SuccessStyle.Render("[OK]"), maskAPIKey(key))
	}

	cfg.API.Model = promptInputWithDefault("Model", cfg.API.Model)
	if !keyStored {
		cfg.API.Offline = promptYesNo("Enable offline rule-based parsing", true)
	} else {
		cfg.API.Offline = false
	}

	// Step 2: structure archive.
	printSetupStep(2, "Structure Archive")
	fmt.Println("Structures are downloaded from the public RCSB archive.")
	fmt.Println()
	cfg.RCSB.CacheEnabled = promptYesNo("Cache downloaded structures on disk", cfg.RCSB.CacheEnabled)

	// Step 3: workspace.
	printSetupStep(3, "Workspace")
	defaultWS, err := cfg.WorkspaceDir()
	if err != nil {
		defaultWS = "~/.molesim"
	}
	fmt.Println("Projects, transcripts and exports live in the workspace.")
	fmt.Println()
	dir := promptInputWithDefault("Workspace directory", defaultWS)
	if dir != defaultWS {
		cfg.Workspace.Dir = dir
	}
	cfg.Workspace.WatchEnabled = promptYesNo("Watch the workspace for new structure files", cfg.Workspace.WatchEnabled)

	// Step 4: appearance.
	printSetupStep(4, "Appearance")
	themes := []string{"dark", "light"}
	defaultTheme := 0
	if cfg.UI.Theme == "light" {
		defaultTheme = 1
	}
	cfg.UI.Theme = promptChoice("Theme", themes, defaultTheme)
	cfg.UI.ShowLanding = promptYesNo("Show the landing screen at startup", cfg.UI.ShowLanding)

	// Persist.
	if err := cfg.Validate(); err != nil {
		return WrapError(err, "invalid configuration")
	}
	if err := config.Save(cfg); err != nil {
		return WrapError(err, "saving configuration")
	}
	config.SetGlobal(cfg)

	// Summary.
	fmt.Println()
	fmt.Println(SectionStyle.Render("Setup complete"))
	fmt.Println(strings.Repeat("-", 14))
	keyStatus := "(not set, offline rules)"
	if keyStored {
		keyStatus = "stored in credential vault"
	} else if cfg.API.Key != "" {
		keyStatus = "from environment or config"
	}
	fmt.Printf("%s %s\n", RenderLabel("API key"), ValueStyle.Render(keyStatus))
	fmt.Printf("%s %s\n", RenderLabel("Model"), ValueStyle.Render(cfg.API.Model))
	fmt.Printf("%s %v\n", RenderLabel("Cache"), cfg.RCSB.CacheEnabled)
	fmt.Printf("%s %s\n", RenderLabel("Workspace"), ValueStyle.Render(defaultWS))
	fmt.Printf("%s %s\n", RenderLabel("Theme"), ValueStyle.Render(cfg.UI.Theme))
	fmt.Printf("%s %s\n", RenderLabel("Config file"), ValueStyle.Render(configPathOrUnknown()))
	fmt.Println()
	fmt.Println("Run " + HighlightStyle.Render("molesim") + " to launch the workbench.")
	return nil
}

// runSetupKey stores or replaces the API key without the full wizard.
func runSetupKey() error {
	key, err := promptSecure("Gemini API key")
	if err != nil {
		return err
	}
	if key == "" {
		return ErrMissingArgument("API key", "molesim setup key")
	}

	vault, err := secrets.OpenDefault()
	if err != nil {
		return WrapError(err, "opening credential vault")
	}
	if err := vault.StoreAPIKey(key); err != nil {
		return WrapError(err, "storing API key")
	}

	fmt.Printf("%s API key stored (%s)\n", SuccessStyle.Render("[OK]"), maskAPIKey(key))
	return nil
}

// printSetupStep prints a step heading with an underline.
func printSetupStep(n int, title string) {
	heading := fmt.Sprintf("Step %d: %s", n, title)
	fmt.Println()
	fmt.Println(SectionStyle.Render(heading))
	fmt.Println(strings.Repeat("-", len(heading)))
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

var (
	inputReader = bufio.NewReader(os.Stdin)
	inputMutex  sync.Mutex
)

// setupPromptInput reads one line of input with a prompt.
func setupPromptInput(prompt string) string {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	fmt.Print(prompt)
	input, err := inputReader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(input)
}

// promptInputWithDefault reads a line, returning def on empty input.
func promptInputWithDefault(prompt, def string) string {
	input := setupPromptInput(fmt.Sprintf("%s [%s]: ", prompt, def))
	if input == "" {
		return def
	}
	return input
}

// promptSecure reads a value without echoing it.
func promptSecure(prompt string) (string, error) {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	fmt.Print(prompt + ": ")
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", WrapError(err, "reading input")
	}
	return strings.TrimSpace(string(data)), nil
}

// promptYesNo asks a yes/no question. Empty input takes the default.
func promptYesNo(prompt string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	input := strings.ToLower(setupPromptInput(fmt.Sprintf("%s %s: ", prompt, suffix)))
	if input == "" {
		return def
	}
	return input == "y" || input == "yes"
}

// promptChoice presents numbered options and returns the chosen one.
// Input may be the option text or its 1-based number.
func promptChoice(prompt string, options []string, defaultIdx int) string {
	fmt.Println(prompt + ":")
	for i, opt := range options {
		marker := " "
		if i == defaultIdx {
			marker = "*"
		}
		fmt.Printf("  %s %d) %s\n", marker, i+1, opt)
	}

	input := setupPromptInput(fmt.Sprintf("Choice [%d]: ", defaultIdx+1))
	if input == "" {
		return options[defaultIdx]
	}
	for _, opt := range options {
		if strings.EqualFold(input, opt) {
			return opt
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return options[defaultIdx]
}
