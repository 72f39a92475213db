// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"bytes"
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/mol"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/project"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/rcsb"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/report"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/store"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/watch"
)

// =============================================================================
// MESSAGES
// =============================================================================

// IntentResultMsg carries the outcome of one intent parse. Err is set on
// network or API failure; the handler posts the generic fallback and does
// not retry.
type IntentResultMsg struct {
	Command intent.Command
	Err     error
}

// StructureFetchedMsg carries a fetched (or locally read) structure.
// Entry is nil for local files and when the metadata lookup failed.
type StructureFetchedMsg struct {
	ID        string
	Entry     *rcsb.Entry
	Structure *mol.Structure
	Local     bool
	Err       error
}

// PredictTickMsg advances the fake prediction through its cosmetic stages.
type PredictTickMsg struct {
	Stage int
}

// SimTickMsg drives one simulation engine step.
type SimTickMsg struct {
	Time time.Time
}

// WatchEventMsg surfaces one workspace file change.
type WatchEventMsg struct {
	Event watch.Event
}

// ReportExportedMsg carries the result of a report export.
type ReportExportedMsg struct {
	Path string
	Err  error
}

// CatalogSavedMsg reports a background catalog write. A nil Err is the
// common case and is ignored.
type CatalogSavedMsg struct {
	Err error
}

// FramesArchivedMsg reports a background frame archive write.
type FramesArchivedMsg struct {
	Count int
	Err   error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// parseIntent asks the language model to interpret one chat message.
// Dependencies are captured before the closure runs so the command is
// safe to execute off the update loop.
func parseIntent(p *intent.Parser, text string, ictx intent.Context, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cmd, err := p.Parse(ctx, text, ictx)
		return IntentResultMsg{Command: cmd, Err: err}
	}
}

// fetchStructure downloads a structure file and its entry metadata. The
// metadata lookup is best-effort; only the file itself is required.
func fetchStructure(client *rcsb.Client, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		entry, err := client.FetchEntry(ctx, id)
		if err != nil {
			entry = nil
		}

		raw, err := client.FetchStructure(ctx, id)
		if err != nil {
			return StructureFetchedMsg{ID: id, Err: err}
		}

		s, err := mol.Parse(bytes.NewReader(raw))
		if err != nil {
			return StructureFetchedMsg{ID: id, Err: err}
		}
		s.ID = id
		return StructureFetchedMsg{ID: id, Entry: entry, Structure: s}
	}
}

// readLocalStructure parses a structure file from the workspace.
func readLocalStructure(name, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return StructureFetchedMsg{ID: name, Local: true, Err: err}
		}
		defer f.Close()

		s, err := mol.Parse(f)
		if err != nil {
			return StructureFetchedMsg{ID: name, Local: true, Err: err}
		}
		if s.ID == "" {
			s.ID = name
		}
		return StructureFetchedMsg{ID: s.ID, Local: true, Structure: s}
	}
}

// predictTick schedules the next fake-prediction stage.
func predictTick(stage int) tea.Cmd {
	return tea.Tick(700*time.Millisecond, func(time.Time) tea.Msg {
		return PredictTickMsg{Stage: stage}
	})
}

// simTick schedules the next simulation step.
func simTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return SimTickMsg{Time: t}
	})
}

// waitForWatch blocks on the watcher channel and delivers one event.
// The handler re-arms it, forming a receive loop.
func waitForWatch(w watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return nil
		}
		return WatchEventMsg{Event: ev}
	}
}

// exportReport renders the evaluation report and writes it to disk.
func exportReport(rep *report.Report, exporter report.Exporter, opts *report.Options) tea.Cmd {
	return func() tea.Msg {
		path, err := report.ExportToFile(rep, exporter, opts)
		return ReportExportedMsg{Path: path, Err: err}
	}
}

// saveCatalog persists every project and the active id. Projects are
// copied before the closure runs so the write races nothing.
func saveCatalog(st *store.Store, projects []*project.Project, activeID string) tea.Cmd {
	if st == nil {
		return nil
	}
	snap := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		snap = append(snap, *p)
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for i := range snap {
			if err := st.SaveProject(ctx, &snap[i]); err != nil {
				return CatalogSavedMsg{Err: err}
			}
		}
		if err := st.SaveActiveID(ctx, activeID); err != nil {
			return CatalogSavedMsg{Err: err}
		}
		return CatalogSavedMsg{}
	}
}

// deleteStoredProject removes one project row (and its archived frames).
func deleteStoredProject(st *store.Store, id, activeID string) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := st.DeleteProject(ctx, id); err != nil {
			return CatalogSavedMsg{Err: err}
		}
		return CatalogSavedMsg{Err: st.SaveActiveID(ctx, activeID)}
	}
}

// archiveFrames stores a completed run's data points for the project.
func archiveFrames(st *store.Store, projectID string, points []sim.DataPoint) tea.Cmd {
	if st == nil || projectID == "" || len(points) == 0 {
		return nil
	}
	snap := make([]sim.DataPoint, len(points))
	copy(snap, points)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := st.ReplaceFrames(ctx, projectID, snap); err != nil {
			return FramesArchivedMsg{Err: err}
		}
		return FramesArchivedMsg{Count: len(snap)}
	}
}
