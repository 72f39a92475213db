// molesim - A chat-driven molecular workbench for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/app"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/cli"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/history"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/store"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/watch"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdRepl:
		cli.HandleRepl(args)
	case cli.CmdFetch:
		cli.HandleFetch(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdSetup:
		cli.HandleSetup(args)
	case cli.CmdServe:
		cli.HandleServe(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI launches the interactive workbench.
func runTUI(args cli.Args) {
	cfg := config.Global()
	if args.Model != "" {
		cfg.API.Model = args.Model
	}
	if args.Offline {
		cfg.API.Offline = true
	}
	cli.ResolveAPIKey(cfg)

	theme := styles.NewTheme()
	opts := app.Options{Version: Version}

	// Workspace-backed persistence. A broken workspace or database is
	// shown on the error screen instead of exiting with a stack trace;
	// transcripts and the file watcher just degrade to off.
	var initErr error
	ws, err := cfg.WorkspaceDir()
	if err == nil {
		err = os.MkdirAll(ws, 0755)
	}
	if err != nil {
		initErr = fmt.Errorf("workspace unavailable: %w", err)
	} else {
		st, err := store.Open(filepath.Join(ws, "molesim.db"))
		if err != nil {
			initErr = fmt.Errorf("project database unavailable: %w", err)
		} else {
			opts.Store = st
			defer st.Close()
		}

		if hist, err := history.NewStore(filepath.Join(ws, "transcripts")); err == nil {
			hist.MaxTranscripts = cfg.Workspace.MaxTranscripts
			opts.History = hist
		}

		if cfg.Workspace.WatchEnabled {
			if watcher, err := watch.Start(ws, 500*time.Millisecond); err == nil {
				opts.Watcher = watcher
			}
		}
	}

	a := app.New(theme, cfg, opts)
	if initErr != nil {
		a.SetFatal(initErr)
	}

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The quit message ends the event loop before the model sees it, so
	// final persistence runs here.
	a.Shutdown()
}
