// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/mol"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/project"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/rcsb"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/report"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/chat"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/components"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/viewer"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/watch"
)

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// applyCommand mutates workbench state for one parsed command. Slash
// commands and model-parsed free text both land here.
func (a *App) applyCommand(cmd intent.Command) tea.Cmd {
	if cmd.Explanation != "" {
		a.chat.AddAssistant(cmd.Explanation)
		a.transcript.AddAssistantMessage(cmd.Explanation)
	}

	switch cmd.Type {
	case intent.CommandLoadStructure:
		return a.loadStructure(cmd)

	case intent.CommandPredictStructure:
		return a.predictStructure(cmd)

	case intent.CommandSetRepresentation:
		a.setRepresentation(cmd)
		return nil

	case intent.CommandSetColor:
		a.setColor(cmd)
		return nil

	case intent.CommandSetSpin:
		return a.applySpin(cmd)

	case intent.CommandRunSimulation:
		return a.startSimulation()

	case intent.CommandStopSimulation:
		a.stopSimulation()
		return nil

	case intent.CommandShowViewer:
		a.rightPanel = FocusViewer
		return nil

	case intent.CommandShowAnalysis:
		a.analysis.Sync(a.engine)
		a.rightPanel = FocusAnalysis
		return nil

	case intent.CommandShowEvaluation:
		a.rightPanel = FocusEvaluation
		return nil

	case intent.CommandExportReport:
		return a.exportReport(cmd)

	case intent.CommandNewProject:
		return a.newProject(cmd)

	case intent.CommandOpenProject:
		return a.openProject(cmd)

	case intent.CommandDeleteProject:
		return a.deleteProject(cmd)

	case intent.CommandListProjects:
		a.listProjects()
		return nil

	case intent.CommandHelp:
		a.chat.AddAssistant(a.chat.HelpText())
		return nil

	case intent.CommandChat:
		if cmd.Explanation == "" {
			a.chat.AddAssistant("Tell me what to load, simulate, or show. /help lists every command.")
		}
		return nil
	}
	return nil
}

// =============================================================================
// STRUCTURES
// =============================================================================

// loadStructure resolves the target to either a watched local file or an
// archive accession code and starts the fetch.
func (a *App) loadStructure(cmd intent.Command) tea.Cmd {
	ref := cmd.Param("structure_id", "id", "name")
	if ref == "" {
		a.chat.AddSystem("Which structure? Try /load 1CRN or a file from the workspace.")
		return nil
	}

	if path, ok := a.localPath(ref); ok {
		return a.beginFetch(filepath.Base(path), readLocalStructure(filepath.Base(path), path))
	}

	id, err := rcsb.ValidateID(ref)
	if err != nil {
		a.chat.AddSystem(fmt.Sprintf("%q does not look like a PDB ID. IDs are four characters, like 1CRN.", ref))
		return nil
	}

	timeout := a.archiveTimeout()
	return a.beginFetch(id, fetchStructure(a.archive, id, timeout))
}

// localPath matches a reference against watched workspace files by base
// name, case-insensitively.
func (a *App) localPath(ref string) (string, bool) {
	for _, path := range a.localFiles {
		if strings.EqualFold(filepath.Base(path), ref) {
			return path, true
		}
	}
	if watch.IsStructureFile(ref) && strings.ContainsAny(ref, "/\\") {
		return ref, true
	}
	return "", false
}

// beginFetch flips the workbench into its fetching state and launches the
// load command.
func (a *App) beginFetch(id string, fetch tea.Cmd) tea.Cmd {
	a.fetching = true
	a.busy = components.NewFetchSpinner(id)
	a.statusBar.SetStatus(components.StatusFetching)
	a.chat.AddSystem(fmt.Sprintf("Fetching %s...", id))

	if p := a.catalog.Active(); p != nil {
		p.Status = project.StatusFetching
	}

	return tea.Batch(a.busy.Start(), fetch)
}

// handleStructureFetched lands the fetch result. A failure posts the one
// generic fallback and a toast; nothing is retried.
func (a *App) handleStructureFetched(msg StructureFetchedMsg) (tea.Model, tea.Cmd) {
	a.fetching = false
	a.busy.Stop()

	if msg.Err != nil {
		a.statusBar.SetStatus(components.StatusReady)
		a.chat.AddFallback()
		a.transcript.AddAssistantMessage(chat.FallbackText)
		a.toasts.AddError(fmt.Sprintf("Could not fetch %s", msg.ID))
		if p := a.catalog.Active(); p != nil {
			p.Status = project.StatusNew
			if p.StructureID != "" {
				p.Status = project.StatusReady
			}
		}
		return a, components.ToastTickCmd()
	}

	a.structureID = msg.ID
	a.viewer.SetStructure(msg.Structure)
	a.viewer.SetEntry(msg.Entry)
	a.rightPanel = FocusViewer
	a.statusBar.SetStructure(msg.ID)
	a.statusBar.SetStatus(components.StatusReady)

	var cmds []tea.Cmd
	if p := a.catalog.Active(); p != nil {
		p.StructureID = msg.ID
		p.Status = project.StatusReady
		p.Touch()
		a.session.MarkDirty()
		cmds = append(cmds, saveCatalog(a.store, a.catalog.All(), a.catalog.ActiveID()))
	}

	a.chat.AddSystem(loadedMessage(msg))
	return a, tea.Batch(cmds...)
}

// loadedMessage summarizes a loaded structure for the transcript.
func loadedMessage(msg StructureFetchedMsg) string {
	title := ""
	if msg.Entry != nil {
		title = msg.Entry.Title
	} else if msg.Structure != nil {
		title = msg.Structure.Title
	}

	atoms := 0
	if msg.Structure != nil {
		atoms = len(msg.Structure.Atoms)
	}

	source := "archive"
	if msg.Local {
		source = "workspace file"
	}

	if title != "" {
		return fmt.Sprintf("Loaded %s from the %s: %s (%d atoms).", msg.ID, source, title, atoms)
	}
	return fmt.Sprintf("Loaded %s from the %s (%d atoms).", msg.ID, source, atoms)
}

// =============================================================================
// PREDICTION
// =============================================================================

// predictStructure walks the four-stage prediction ceremony on a timer and
// then shows an idealized model with per-residue confidence.
func (a *App) predictStructure(cmd intent.Command) tea.Cmd {
	if a.predicting {
		a.chat.AddSystem("A prediction is already running.")
		return nil
	}

	a.predicting = true
	a.predictSeq = cmd.Param("sequence")

	a.busy = components.NewThinkingSpinner()
	a.busy.SetMessage("Predicting structure")
	a.busy.SetDetail(sim.PredictStages[0])
	a.statusBar.SetStatus(components.StatusThinking)
	a.chat.AddSystem("Starting structure prediction. This runs four stages.")

	return tea.Batch(a.busy.Start(), predictTick(1))
}

// handlePredictTick advances the staged prediction. The final tick swaps
// in the predicted model.
func (a *App) handlePredictTick(msg PredictTickMsg) (tea.Model, tea.Cmd) {
	if !a.predicting {
		return a, nil
	}

	if msg.Stage < len(sim.PredictStages) {
		a.busy.SetDetail(sim.PredictStages[msg.Stage])
		return a, predictTick(msg.Stage + 1)
	}

	a.predicting = false
	a.busy.Stop()

	result := sim.Predict(a.rng, a.predictSeq)
	structure := mol.Demo()
	a.structureID = structure.ID
	a.viewer.SetStructure(structure)
	a.viewer.SetEntry(nil)
	a.rightPanel = FocusViewer
	a.statusBar.SetStructure(structure.ID)
	a.statusBar.SetStatus(components.StatusReady)

	var cmds []tea.Cmd
	if p := a.catalog.Active(); p != nil {
		p.StructureID = structure.ID
		p.Status = project.StatusReady
		p.Touch()
		a.session.MarkDirty()
		cmds = append(cmds, saveCatalog(a.store, a.catalog.All(), a.catalog.ActiveID()))
	}

	summary := fmt.Sprintf(
		"Prediction complete: %d residues, mean pLDDT %.1f (%s confidence). Showing an idealized backbone model.",
		result.Residues, result.MeanPLDDT, result.ConfidenceLabel(),
	)
	a.chat.AddAssistant(summary)
	a.transcript.AddAssistantMessage(summary)
	return a, tea.Batch(cmds...)
}

// =============================================================================
// VIEWER SETTINGS
// =============================================================================

func (a *App) setRepresentation(cmd intent.Command) {
	style := cmd.Param("style", "representation")
	if !contains(intent.Representations, style) {
		a.chat.AddSystem(fmt.Sprintf("Unknown style %q. Try one of: %s.", style, strings.Join(intent.Representations, ", ")))
		return
	}
	a.viewer.SetRepresentation(style)
	a.rightPanel = FocusViewer
	a.chat.AddSystem(fmt.Sprintf("Representation set to %s.", style))
}

func (a *App) setColor(cmd intent.Command) {
	scheme := cmd.Param("scheme", "color")
	if !contains(intent.ColorSchemes, scheme) {
		a.chat.AddSystem(fmt.Sprintf("Unknown color scheme %q. Try one of: %s.", scheme, strings.Join(intent.ColorSchemes, ", ")))
		return
	}
	a.viewer.SetColorScheme(scheme)
	a.rightPanel = FocusViewer
	a.chat.AddSystem(fmt.Sprintf("Coloring by %s.", scheme))
}

// applySpin handles the spin command, including the bare toggle form.
func (a *App) applySpin(cmd intent.Command) tea.Cmd {
	on := !a.viewer.Spinning()
	switch cmd.Param("enabled") {
	case "on":
		on = true
	case "off":
		on = false
	}

	spinCmd := a.setSpin(on)
	if on {
		a.chat.AddSystem("Spin on.")
	} else {
		a.chat.AddSystem("Spin off.")
	}
	return spinCmd
}

// setSpin flips rotation and, when turning on with a structure loaded,
// kicks the viewer's tick chain. The chain stops itself when spin or the
// structure goes away.
func (a *App) setSpin(on bool) tea.Cmd {
	a.viewer.SetSpin(on)
	if on && a.viewer.Structure() != nil {
		return viewer.SpinTickCmd()
	}
	return nil
}

// =============================================================================
// SIMULATION
// =============================================================================

func (a *App) startSimulation() tea.Cmd {
	if a.structureID == "" {
		a.chat.AddSystem("Load a structure before running a simulation.")
		return nil
	}
	if a.engine.Running() {
		a.chat.AddSystem("A simulation is already running.")
		return nil
	}

	a.engine.Start()
	a.analysis.Sync(a.engine)
	a.rightPanel = FocusAnalysis
	a.statusBar.SetStatus(components.StatusSimulating)
	a.statusBar.SetStage(a.engine.Stage(), 0)

	if p := a.catalog.Active(); p != nil {
		p.Status = project.StatusSimulating
		p.Touch()
	}
	a.session.MarkDirty()
	a.chat.AddSystem("Simulation started: minimization, then equilibration, then production.")

	return simTick(a.tickInterval())
}

// handleSimTick advances the engine one step. The chain re-arms itself
// until the run completes or is stopped.
func (a *App) handleSimTick() (tea.Model, tea.Cmd) {
	if !a.engine.Running() {
		return a, nil
	}

	a.engine.Advance()
	a.analysis.Sync(a.engine)
	a.statusBar.SetStage(a.engine.Stage(), a.engine.Progress()/100)

	if a.engine.Stage() == sim.StageComplete {
		a.statusBar.SetStatus(components.StatusReady)
		a.session.MarkDirty()

		var cmds []tea.Cmd
		if p := a.catalog.Active(); p != nil {
			p.Status = project.StatusReady
			p.Touch()
			cmds = append(cmds, archiveFrames(a.store, p.ID, a.engine.Points()))
		}
		a.chat.AddSystem(fmt.Sprintf("Simulation complete: %d frames collected. Analysis charts are up to date.", len(a.engine.Points())))
		return a, tea.Batch(cmds...)
	}

	return a, simTick(a.tickInterval())
}

func (a *App) stopSimulation() {
	if !a.engine.Running() {
		a.chat.AddSystem("No simulation is running.")
		return
	}

	stage := a.engine.Stage()
	a.engine.Stop()
	a.analysis.Sync(a.engine)
	a.statusBar.SetStatus(components.StatusReady)

	if p := a.catalog.Active(); p != nil {
		p.Status = project.StatusReady
		p.Touch()
	}
	a.session.MarkDirty()
	a.chat.AddSystem(fmt.Sprintf("Simulation stopped during %s. %d frames kept.", stage.DisplayName(), len(a.engine.Points())))
}

// =============================================================================
// REPORTS
// =============================================================================

func (a *App) exportReport(cmd intent.Command) tea.Cmd {
	format := cmd.Param("format")
	if format == "" {
		format = a.cfg.Export.Format
	}

	opts := report.DefaultOptions()
	if a.cfg.Export.OutputDir != "" {
		opts.OutputDir = a.cfg.Export.OutputDir
	}
	opts.OpenAfterExport = a.cfg.Export.OpenAfter
	if a.cfg.UI.Theme != "" {
		opts.Theme = a.cfg.UI.Theme
	}

	exporter, err := report.ForFormat(format, opts)
	if err != nil {
		a.chat.AddSystem(fmt.Sprintf("Unknown report format %q. Use html or markdown.", format))
		return nil
	}

	projectName := ""
	if p := a.catalog.Active(); p != nil {
		projectName = p.Name
	}
	rep := report.New(projectName, a.structureID, a.engine.Stage().DisplayName())

	a.rightPanel = FocusEvaluation
	a.chat.AddSystem("Exporting the evaluation report...")
	return exportReport(rep, exporter, opts)
}

func (a *App) handleReportExported(msg ReportExportedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.toasts.AddError("Report export failed")
		a.chat.AddSystem("The report could not be written. Check the output directory in your config.")
		return a, components.ToastTickCmd()
	}

	a.toasts.AddSuccess("Report saved")
	a.chat.AddSystem(fmt.Sprintf("Report saved to %s.", msg.Path))

	var cmds []tea.Cmd
	if p := a.catalog.Active(); p != nil {
		p.Status = project.StatusEvaluated
		p.Touch()
		a.session.MarkDirty()
		cmds = append(cmds, saveCatalog(a.store, a.catalog.All(), a.catalog.ActiveID()))
	}
	cmds = append(cmds, components.ToastTickCmd())
	return a, tea.Batch(cmds...)
}

// =============================================================================
// PROJECTS
// =============================================================================

func (a *App) newProject(cmd intent.Command) tea.Cmd {
	name := cmd.Param("name")
	if name == "" {
		a.chat.AddSystem("Give the project a name: /project new <name>.")
		return nil
	}

	p := project.New(name)
	if err := a.catalog.Add(p); err != nil {
		a.chat.AddSystem(fmt.Sprintf("A project named %q already exists.", name))
		return nil
	}
	a.catalog.SetActive(p.ID)

	a.statusBar.SetProject(p.Name)
	a.landing.SetProjectCount(a.catalog.Len())
	a.session.MarkDirty()
	a.chat.AddSystem(fmt.Sprintf("Created project %s. It is now active.", p.Name))

	return saveCatalog(a.store, a.catalog.All(), a.catalog.ActiveID())
}

func (a *App) openProject(cmd intent.Command) tea.Cmd {
	ref := cmd.Param("name", "id")
	p := a.catalog.Resolve(ref)
	if p == nil {
		a.chat.AddSystem(fmt.Sprintf("No project named %q. /project list shows what you have.", ref))
		return nil
	}

	a.catalog.SetActive(p.ID)
	p.Touch()
	a.statusBar.SetProject(p.Name)
	a.session.MarkDirty()
	a.chat.AddSystem(fmt.Sprintf("Opened project %s.", p.Name))

	cmds := []tea.Cmd{saveCatalog(a.store, a.catalog.All(), a.catalog.ActiveID())}
	if p.StructureID != "" && p.StructureID != a.structureID {
		cmds = append(cmds, a.loadStructure(intent.Command{
			Type:   intent.CommandLoadStructure,
			Params: map[string]string{"structure_id": p.StructureID},
		}))
	}
	return tea.Batch(cmds...)
}

// deleteProject removes a project. Deleting the active project clears the
// viewer and the status bar so no stale structure lingers.
func (a *App) deleteProject(cmd intent.Command) tea.Cmd {
	ref := cmd.Param("name", "id")
	p := a.catalog.Resolve(ref)
	if p == nil {
		a.chat.AddSystem(fmt.Sprintf("No project named %q.", ref))
		return nil
	}

	id, name := p.ID, p.Name
	wasActive, err := a.catalog.Remove(id)
	if err != nil {
		a.chat.AddSystem(fmt.Sprintf("Could not delete %s.", name))
		return nil
	}

	if wasActive {
		a.structureID = ""
		a.viewer.Clear()
		a.statusBar.SetStructure("")
		a.statusBar.SetProject("")
	}

	a.landing.SetProjectCount(a.catalog.Len())
	a.session.MarkDirty()
	a.chat.AddSystem(fmt.Sprintf("Deleted project %s.", name))
	a.toasts.AddStatus(fmt.Sprintf("Deleted %s", name))

	return tea.Batch(
		deleteStoredProject(a.store, id, a.catalog.ActiveID()),
		components.ToastTickCmd(),
	)
}

func (a *App) listProjects() {
	if a.catalog.Len() == 0 {
		a.chat.AddSystem("No projects yet. /project new <name> starts one.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Projects:\n")
	activeID := a.catalog.ActiveID()
	for _, p := range a.catalog.All() {
		marker := "  "
		if p.ID == activeID {
			marker = "* "
		}
		line := fmt.Sprintf("%s%s [%s]", marker, p.Name, p.Status.DisplayName())
		if p.StructureID != "" {
			line += " " + p.StructureID
		}
		sb.WriteString(line + "\n")
	}

	listing := strings.TrimRight(sb.String(), "\n")
	a.chat.AddAssistant(listing)
	a.transcript.AddAssistantMessage(listing)
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// archiveTimeout guards fetches a little past the client's HTTP timeout.
func (a *App) archiveTimeout() time.Duration {
	secs := a.cfg.RCSB.TimeoutSecs
	if secs <= 0 {
		secs = 15
	}
	return time.Duration(secs)*time.Second + 5*time.Second
}
