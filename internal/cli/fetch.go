// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// fetch.go - Structure download command for molesim CLI.
//
// Handles the "molesim fetch" command which retrieves entry metadata and,
// optionally, the structure file itself from the RCSB archive. Shares the
// workbench's download cache so a later "load" inside the workbench skips
// the network.
//
// Command: fetch <id>
// Short:   Download a structure entry from the RCSB archive
// Aliases: get
//
// Examples:
//   molesim fetch 4HHB
//   molesim fetch 1CRN --output crambin.pdb
//   molesim fetch 4HHB --json
//
// Flags:
//   -o, --output FILE   Also write the structure file to FILE
//   --json              Output entry metadata as JSON
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/rcsb"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// newArchiveClient builds the RCSB client with the same cache wiring the
// workbench uses.
func newArchiveClient(cfg *config.Config) *rcsb.Client {
	archiveCfg := rcsb.Config{
		DataBaseURL:  cfg.RCSB.DataBaseURL,
		FilesBaseURL: cfg.RCSB.FilesBaseURL,
		Timeout:      time.Duration(cfg.RCSB.TimeoutSecs) * time.Second,
	}
	if cfg.RCSB.CacheEnabled {
		if ws, err := cfg.WorkspaceDir(); err == nil {
			archiveCfg.CacheDir = filepath.Join(ws, "cache")
		}
	}
	return rcsb.NewClient(archiveCfg)
}

// HandleFetchCommand downloads entry metadata and optionally the structure
// file for one accession code.
func HandleFetchCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	id := parser.Positional(0)
	if id == "" {
		return ErrMissingArgument("structure id", "molesim fetch 4HHB")
	}
	normalized, err := rcsb.ValidateID(id)
	if err != nil {
		return &ValidationError{
			Field:   "structure id",
			Value:   id,
			Reason:  "expected a four-character accession code",
			Example: "molesim fetch 4HHB",
		}
	}

	cfg := config.Global()
	client := newArchiveClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.RCSB.TimeoutSecs)*time.Second)
	defer cancel()

	entry, err := client.FetchEntry(ctx, normalized)
	if err != nil {
		return WrapError(err, fmt.Sprintf("fetching %s", normalized))
	}

	outputPath, wantFile := parser.Flag("output")
	if !wantFile {
		outputPath, wantFile = parser.Flag("o")
	}
	if wantFile {
		data, err := client.FetchStructure(ctx, normalized)
		if err != nil {
			return WrapError(err, fmt.Sprintf("downloading %s", normalized))
		}
		if err := util.AtomicWriteFile(outputPath, data, 0644); err != nil {
			return WrapError(err, fmt.Sprintf("writing %s", outputPath))
		}
	}

	if args.JSON {
		NewJSONResponse("fetch", entry).Print()
		return nil
	}

	printEntry(entry)
	if wantFile {
		fmt.Printf("\n%s %s\n", SuccessStyle.Render("[OK]"),
			ValueStyle.Render(fmt.Sprintf("Structure written to %s", outputPath)))
	}
	return nil
}

// printEntry renders entry metadata as label/value rows.
func printEntry(entry *rcsb.Entry) {
	fmt.Println(TitleStyle.Render(entry.ID + " - " + entry.Title))
	fmt.Printf("%s %s\n", RenderLabel("Method"), ValueStyle.Render(entry.Method))
	if entry.Resolution > 0 {
		fmt.Printf("%s %s\n", RenderLabel("Resolution"),
			ValueStyle.Render(fmt.Sprintf("%.2f A", entry.Resolution)))
	}
	if entry.Released != "" {
		fmt.Printf("%s %s\n", RenderLabel("Released"), ValueStyle.Render(entry.Released))
	}
	if entry.AtomCount > 0 {
		fmt.Printf("%s %s\n", RenderLabel("Atoms"),
			ValueStyle.Render(fmt.Sprintf("%d", entry.AtomCount)))
	}
	if entry.MolecularWeight > 0 {
		fmt.Printf("%s %s\n", RenderLabel("Weight"),
			ValueStyle.Render(fmt.Sprintf("%.1f kDa", entry.MolecularWeight)))
	}
	if entry.Keywords != "" {
		fmt.Printf("%s %s\n", RenderLabel("Keywords"),
			ValueStyle.Render(WrapText(entry.Keywords, 60)))
	}
}
