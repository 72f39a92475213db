// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version metadata, overridden at build time via ldflags.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMAND ENUM
// =============================================================================

// Command identifies which subcommand was requested.
type Command int

const (
	// CmdTUI launches the interactive workbench (default).
	CmdTUI Command = iota
	// CmdAsk interprets a single instruction and prints the command.
	CmdAsk
	// CmdRepl runs the line-oriented interpreter.
	CmdRepl
	// CmdFetch downloads a structure entry from the RCSB archive.
	CmdFetch
	// CmdConfig shows or edits configuration.
	CmdConfig
	// CmdSetup runs the interactive first-run wizard.
	CmdSetup
	// CmdServe runs the local report server.
	CmdServe
	// CmdVersion prints version information.
	CmdVersion
	// CmdHelp shows usage.
	CmdHelp
)

// Args carries parsed global flags plus per-command fields.
type Args struct {
	// Global flags.
	Offline bool
	Quiet   bool
	Verbose bool
	JSON    bool
	Model   string

	// Per-command fields.
	Query      string // ask: the instruction text
	Subcommand string // config/setup: first word after the command
	ConfigKey  string // config: key argument
	ConfigVal  string // config: value argument

	// Raw holds the unconsumed arguments after the command word, for
	// handlers that do their own flag parsing.
	Raw []string

	// Options collects miscellaneous key=value pairs.
	Options map[string]string
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `molesim - chat-driven molecular workbench

Usage:
  molesim                      Launch the interactive workbench
  molesim <instruction...>     Interpret an instruction directly (same as ask)
  molesim <command> [options]

Commands:
  ask <instruction>    Interpret one instruction and print the resulting command
  repl                 Line-oriented interpreter without the full-screen UI (alias: chat)
  fetch <id>           Download a structure entry from the RCSB archive (alias: get)
  config               Show or edit configuration (alias: cfg)
  setup                Interactive first-run wizard (alias: init)
  serve                Run the local report server (alias: server)
  version              Print version information
  help                 Show this help

Global Options:
  --offline            Skip the language service and use rule-based parsing
  --model NAME         Override the configured model for this run
  --json               Machine-readable output where supported
  -q, --quiet          Suppress non-essential output
  -v, --verbose        Verbose output

Examples:
  molesim                            Launch the workbench
  molesim load 1CRN                  Interpret an instruction directly
  molesim ask "color it by element"  Print the parsed command without acting on it
  molesim fetch 4HHB --output 4hhb.pdb
  molesim config set ui.theme light
  molesim serve --port 8642

Configuration:
  Settings live in ~/.molesim/config.toml (see "molesim config path").
  MOLESIM_API_KEY or GEMINI_API_KEY override the stored API key.

Version: %s
`

// PrintUsage writes the top-level usage text to stdout.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion writes the plain-text version block to stdout.
func PrintVersion() {
	fmt.Printf("molesim version %s\n", Version)
	fmt.Printf("Git commit: %s\n", GitCommit)
	fmt.Printf("Build date: %s\n", BuildDate)
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

// Parse inspects os.Args and returns the requested command along with the
// parsed arguments. Global flags may appear anywhere on the line.
func Parse() (Command, Args) {
	args := os.Args[1:]
	parsedArgs, remaining := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "ask":
		return CmdAsk, parseAskArgs(parsedArgs, remaining)
	case "repl", "chat":
		return CmdRepl, parsedArgs
	case "fetch", "get":
		return CmdFetch, parsedArgs
	case "config", "cfg":
		return CmdConfig, parseConfigArgs(parsedArgs, remaining)
	case "setup", "init":
		return CmdSetup, parseSetupArgs(parsedArgs, remaining)
	case "serve", "server":
		return CmdServe, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		// Not a known command word. Treat the whole line as an
		// instruction for the interpreter instead of failing.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdAsk, parseAskArgs(parsedArgs, parsedArgs.Raw)
	}
}

// parseGlobalFlags extracts flags that apply to every command and returns
// the arguments it did not consume.
func parseGlobalFlags(args []string) (Args, []string) {
	parsed := Args{Options: make(map[string]string)}
	remaining := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--offline":
			parsed.Offline = true
		case arg == "-q" || arg == "--quiet":
			parsed.Quiet = true
		case arg == "-v" || arg == "--verbose":
			parsed.Verbose = true
		case arg == "--json":
			parsed.JSON = true
		case arg == "--model":
			if i+1 < len(args) {
				parsed.Model = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--model="):
			parsed.Model = strings.TrimPrefix(arg, "--model=")
		default:
			remaining = append(remaining, arg)
		}
	}

	return parsed, remaining
}

// parseAskArgs joins the non-flag words into the instruction text.
func parseAskArgs(parsed Args, remaining []string) Args {
	words := make([]string, 0, len(remaining))
	for _, arg := range remaining {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		words = append(words, arg)
	}
	parsed.Query = strings.Join(words, " ")
	return parsed
}

// parseConfigArgs maps positional words onto subcommand, key and value.
func parseConfigArgs(parsed Args, remaining []string) Args {
	if len(remaining) > 0 {
		parsed.Subcommand = strings.ToLower(remaining[0])
	}
	if len(remaining) > 1 {
		parsed.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		parsed.ConfigVal = remaining[2]
	}
	return parsed
}

// parseSetupArgs captures the optional wizard subcommand.
func parseSetupArgs(parsed Args, remaining []string) Args {
	if len(remaining) > 0 {
		parsed.Subcommand = strings.ToLower(remaining[0])
	}
	return parsed
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk interprets a single instruction and exits on failure.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleRepl runs the line-oriented interpreter and exits on failure.
func HandleRepl(args Args) {
	if err := HandleReplCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleFetch downloads a structure entry and exits on failure.
func HandleFetch(args Args) {
	if err := HandleFetchCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfig shows or edits configuration and exits on failure.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleSetup runs the first-run wizard and exits on failure.
func HandleSetup(args Args) {
	if err := HandleSetupCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleServe runs the report server and exits on failure.
func HandleServe(args Args) {
	if err := HandleServeCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion prints version information, honoring --json.
func HandleVersion(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		NewJSONResponse("version", data).Print()
		return
	}
	PrintVersion()
}
