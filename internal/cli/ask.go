// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single instruction command handler for molesim CLI.
//
// Handles the "molesim ask" command which runs one instruction through the
// intent parser and prints the resulting command without acting on it.
// Any unrecognized first argument also lands here, so "molesim load 1CRN"
// behaves like "molesim ask load 1CRN".
//
// Command: ask [instruction]
// Short:   Interpret one instruction
// Aliases: (any unrecognized command word)
//
// Examples:
//   molesim ask "load 1CRN"
//   molesim ask --json "color it by element"
//   molesim --offline ask "start a simulation"
//   molesim show the evaluation panel
//
// Flags:
//   --model NAME   Use specific model (overrides config)
//   --json         Output the command object as JSON
//   --offline      Rule-based parsing without the language service
//   -v, --verbose  Show which parser produced the command
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/genlang"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/secrets"
)

var markdownRenderer *glamour.TermRenderer

func init() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		markdownRenderer = renderer
	}
}

// renderMarkdown renders markdown for terminal display, returning the
// content unchanged when no renderer is available.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints assistant text, rendered as markdown when stdout
// is a terminal and raw otherwise so output stays pipeable.
func displayResponse(content string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(content))
		return
	}
	fmt.Println(content)
}

// =============================================================================
// API KEY RESOLUTION
// =============================================================================

// ResolveAPIKey fills cfg.API.Key from the credential vault when neither
// the environment nor the config file supplied one. Failures are treated
// as "no stored key"; the parser then runs offline.
func ResolveAPIKey(cfg *config.Config) {
	if cfg.API.Key != "" {
		return
	}
	vault, err := secrets.OpenDefault()
	if err != nil {
		return
	}
	key, err := vault.LoadAPIKey()
	if err != nil || key == "" {
		return
	}
	cfg.API.Key = key
}

// newIntentParser builds the instruction parser for CLI use, online when
// an API key is configured and offline rules otherwise.
func newIntentParser(cfg *config.Config) *intent.Parser {
	if cfg.API.Offline {
		return intent.NewParser(nil)
	}
	gen := genlang.NewClient(genlang.Config{
		BaseURL:         cfg.API.BaseURL,
		Model:           cfg.API.Model,
		APIKey:          cfg.API.Key,
		Timeout:         time.Duration(cfg.API.TimeoutSecs) * time.Second,
		Temperature:     cfg.API.Temperature,
		MaxOutputTokens: cfg.API.MaxOutputTokens,
	})
	return intent.NewParser(gen)
}

// =============================================================================
// HANDLER
// =============================================================================

// HandleAskCommand interprets a single instruction and prints the parsed
// command without acting on it.
func HandleAskCommand(args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return ErrMissingArgument("instruction", `molesim ask "load 1CRN"`)
	}

	cfg := config.Global()
	if args.Model != "" {
		cfg.API.Model = args.Model
	}
	if args.Offline {
		cfg.API.Offline = true
	}
	ResolveAPIKey(cfg)

	parser := newIntentParser(cfg)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.API.TimeoutSecs)*time.Second)
	defer cancel()

	cmd, err := parser.Parse(ctx, args.Query, intent.Context{})
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
			return nil
		}
		return WrapError(err, "interpretation failed")
	}

	if args.JSON {
		fmt.Println(cmd.JSON())
		return nil
	}

	printCommand(cmd, parser.Online(), args.Verbose)
	return nil
}

// printCommand renders the parsed command as label/value rows.
func printCommand(cmd intent.Command, online, verbose bool) {
	fmt.Println(TitleStyle.Render("Interpreted Command"))
	fmt.Printf("%s %s\n", RenderLabel("Command"), HighlightStyle.Render(string(cmd.Type)))

	keys := make([]string, 0, len(cmd.Params))
	for k := range cmd.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s %s\n", RenderLabel(k), ValueStyle.Render(cmd.Params[k]))
	}

	if verbose {
		mode := "offline rules"
		if online {
			mode = "language service"
		}
		fmt.Printf("%s %s\n", RenderLabel("Parsed by"), DimStyle.Render(mode))
	}

	if cmd.Explanation != "" {
		fmt.Println()
		displayResponse(cmd.Explanation)
	}
}
