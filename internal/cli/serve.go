// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Report server command for molesim CLI.
//
// Handles the "molesim serve" command which runs the local HTTP server
// over the project workspace. The server renders the evaluation report
// (dark and print-friendly variants) plus a JSON project listing, so
// results can be viewed in a browser without the terminal workbench.
//
// Command: serve
// Short:   Run the local report server
// Aliases: server
//
// Examples:
//   molesim serve
//   molesim serve --port 9000
//   molesim serve --host 0.0.0.0 --port 8642
//
// Flags:
//   --host HOST   Bind address (default from config, 127.0.0.1)
//   --port PORT   Listen port (default from config, 8642)
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/server"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/store"
)

// HandleServeCommand runs the report server until interrupted.
func HandleServeCommand(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()

	host := parser.FlagOrDefault("host", cfg.Server.Host)
	port := parser.FlagIntOrDefault("port", cfg.Server.Port)

	ws, err := cfg.WorkspaceDir()
	if err != nil {
		return WrapError(err, "resolving workspace")
	}
	if err := os.MkdirAll(ws, 0755); err != nil {
		return WrapError(err, "creating workspace")
	}

	st, err := store.Open(filepath.Join(ws, "molesim.db"))
	if err != nil {
		return WrapError(err, "opening project database")
	}
	defer st.Close()

	srv := server.New(config.ServerConfig{Host: host, Port: port}, st)

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("molesim report server"))
		fmt.Printf("%s %s\n", RenderLabel("Listening"),
			HighlightStyle.Render("http://"+srv.Addr()))
		fmt.Printf("%s %s\n", RenderLabel("Report"),
			ValueStyle.Render("http://"+srv.Addr()+"/report"))
		fmt.Printf("%s %s\n", RenderLabel("Print view"),
			ValueStyle.Render("http://"+srv.Addr()+"/report/print"))
		fmt.Printf("%s %s\n", RenderLabel("Projects"),
			ValueStyle.Render("http://"+srv.Addr()+"/api/projects"))
		fmt.Println()
		fmt.Println(DimStyle.Render("Ctrl+C to stop."))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapError(err, "report server")
	case <-sigChan:
		if !args.Quiet {
			fmt.Println("\nShutting down...")
		}
		if err := srv.Shutdown(context.Background()); err != nil {
			return WrapError(err, "shutting down")
		}
		<-errCh
		return nil
	}
}
