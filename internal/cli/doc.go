// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the molesim command-line interface.
//
// The package owns everything that happens before (or instead of) the
// terminal workbench: argument parsing, the command dispatch table, and
// the handlers for the non-interactive subcommands.
//
// # Commands
//
//   - (none)   launch the interactive workbench
//   - ask      interpret a single instruction and print the command
//   - repl     line-oriented interpreter without the full-screen UI
//   - fetch    download a structure entry from the RCSB archive
//   - config   inspect and edit configuration
//   - setup    interactive first-run wizard
//   - serve    run the local report server
//   - version  print version information
//
// Any unrecognized first argument is treated as an instruction for the
// interpreter, so `molesim show me ubiquitin` behaves like
// `molesim ask show me ubiquitin`.
//
// # Structure
//
//   - cli.go         command enum, argument parsing, dispatch
//   - args.go        subcommand flag parser
//   - errors.go      error types and exit codes
//   - styles.go      lipgloss styles shared by handlers
//   - terminal.go    TTY detection and width helpers
//   - json_output.go machine-readable output envelope
//
// Handlers print user-facing errors to stderr and translate them into
// process exit codes via GetExitCode.
package cli
