// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/mol"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/chat"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/watch"
)

func testApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.API.Offline = true
	cfg.UI.ShowLanding = false
	cfg.RCSB.CacheEnabled = false
	cfg.Workspace.Dir = t.TempDir()

	a := New(styles.NewTheme(), cfg, Options{Version: "test"})
	a.resize(120, 40)
	return a
}

func command(typ intent.CommandType, params map[string]string) intent.Command {
	return intent.Command{Type: typ, Params: params}
}

// loadDemo puts the built-in structure into the viewer the way a
// completed fetch would.
func loadDemo(a *App) {
	s := mol.Demo()
	a.handleStructureFetched(StructureFetchedMsg{ID: s.ID, Structure: s})
}

func lastMessage(t *testing.T, a *App) chat.Message {
	t.Helper()
	msgs := a.chat.Messages()
	if len(msgs) == 0 {
		t.Fatal("chat transcript is empty")
	}
	return msgs[len(msgs)-1]
}

func chatContains(a *App, substr string) bool {
	for _, m := range a.chat.Messages() {
		if strings.Contains(m.Content, substr) {
			return true
		}
	}
	return false
}

// =============================================================================
// STATES
// =============================================================================

func TestLandingHonorsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.Offline = true
	cfg.RCSB.CacheEnabled = false
	cfg.Workspace.Dir = t.TempDir()

	a := New(styles.NewTheme(), cfg, Options{})
	if a.state != StateLanding {
		t.Errorf("state = %v, want StateLanding", a.state)
	}

	cfg.UI.ShowLanding = false
	a = New(styles.NewTheme(), cfg, Options{})
	if a.state != StateWorkbench {
		t.Errorf("state = %v, want StateWorkbench", a.state)
	}
}

func TestAnyKeyLeavesLanding(t *testing.T) {
	a := testApp(t)
	a.state = StateLanding

	a.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if a.state != StateWorkbench {
		t.Errorf("state = %v, want StateWorkbench", a.state)
	}
}

func TestQuitFromLanding(t *testing.T) {
	a := testApp(t)
	a.state = StateLanding

	_, cmd := a.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

// =============================================================================
// STRUCTURE LOADING
// =============================================================================

func TestLoadStartsFetch(t *testing.T) {
	a := testApp(t)

	cmd := a.applyCommand(command(intent.CommandLoadStructure, map[string]string{"structure_id": "1CRN"}))
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	if !a.fetching {
		t.Error("fetching should be set while a load is in flight")
	}
	if !chatContains(a, "Fetching 1CRN") {
		t.Error("chat should announce the fetch")
	}
}

func TestLoadRejectsBadID(t *testing.T) {
	a := testApp(t)

	a.applyCommand(command(intent.CommandLoadStructure, map[string]string{"structure_id": "not/valid!"}))
	if a.fetching {
		t.Error("an invalid ID should not start a fetch")
	}
	if !chatContains(a, "does not look like a PDB ID") {
		t.Error("chat should explain what a valid ID looks like")
	}
}

func TestFetchFailureShowsOneFallback(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandLoadStructure, map[string]string{"structure_id": "1CRN"}))

	_, cmd := a.handleStructureFetched(StructureFetchedMsg{ID: "1CRN", Err: errors.New("connection refused")})
	if a.fetching {
		t.Error("fetching should clear on failure")
	}
	if got := lastMessage(t, a); got.Content != chat.FallbackText {
		t.Errorf("last message = %q, want the generic fallback", got.Content)
	}
	if !a.toasts.HasToasts() {
		t.Error("a failed fetch should raise a toast")
	}
	if cmd == nil {
		t.Error("expected a toast tick command")
	}
	if a.viewer.Structure() != nil {
		t.Error("viewer should stay empty after a failed fetch")
	}
}

func TestFetchSuccessFillsViewer(t *testing.T) {
	a := testApp(t)
	loadDemo(a)

	if a.structureID != "DEMO" {
		t.Errorf("structureID = %q, want DEMO", a.structureID)
	}
	if a.viewer.Structure() == nil {
		t.Fatal("viewer should hold the structure")
	}
	if a.rightPanel != FocusViewer {
		t.Errorf("rightPanel = %v, want FocusViewer", a.rightPanel)
	}
	if !chatContains(a, "Loaded DEMO") {
		t.Error("chat should confirm the load")
	}
}

func TestLoadLocalFileByName(t *testing.T) {
	a := testApp(t)
	a.localFiles = []string{"/workspace/crambin.pdb"}

	cmd := a.applyCommand(command(intent.CommandLoadStructure, map[string]string{"structure_id": "crambin.pdb"}))
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	if !a.fetching {
		t.Error("loading a local file should set fetching")
	}
	if !chatContains(a, "Fetching crambin.pdb") {
		t.Error("chat should announce the local load")
	}
}

// =============================================================================
// PREDICTION
// =============================================================================

func TestPredictLifecycle(t *testing.T) {
	a := testApp(t)

	cmd := a.applyCommand(command(intent.CommandPredictStructure, map[string]string{"sequence": "ACDEFGHIKLM"}))
	if cmd == nil {
		t.Fatal("expected a prediction tick command")
	}
	if !a.predicting {
		t.Fatal("predicting should be set")
	}

	for stage := 1; stage < len(sim.PredictStages); stage++ {
		_, next := a.handlePredictTick(PredictTickMsg{Stage: stage})
		if !a.predicting {
			t.Fatalf("prediction ended early at stage %d", stage)
		}
		if next == nil {
			t.Fatalf("stage %d should schedule the next tick", stage)
		}
	}

	a.handlePredictTick(PredictTickMsg{Stage: len(sim.PredictStages)})
	if a.predicting {
		t.Error("predicting should clear after the last stage")
	}
	if a.structureID != "DEMO" {
		t.Errorf("structureID = %q, want the demo model", a.structureID)
	}
	if !chatContains(a, "Prediction complete") {
		t.Error("chat should summarize the prediction")
	}
	if !chatContains(a, "confidence") {
		t.Error("summary should include a confidence label")
	}
}

func TestPredictTickIgnoredAfterCancel(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandPredictStructure, nil))
	a.predicting = false

	_, cmd := a.handlePredictTick(PredictTickMsg{Stage: 1})
	if cmd != nil {
		t.Error("a stale prediction tick should not reschedule")
	}
}

// =============================================================================
// SIMULATION
// =============================================================================

func TestRunSimulationNeedsStructure(t *testing.T) {
	a := testApp(t)

	cmd := a.startSimulation()
	if cmd != nil {
		t.Error("no tick should start without a structure")
	}
	if a.engine.Running() {
		t.Error("engine should not run without a structure")
	}
	if !chatContains(a, "Load a structure") {
		t.Error("chat should say a structure is required")
	}
}

func TestSimulationRunsToCompletion(t *testing.T) {
	a := testApp(t)
	loadDemo(a)

	cmd := a.startSimulation()
	if cmd == nil {
		t.Fatal("expected the first tick command")
	}
	if !a.engine.Running() {
		t.Fatal("engine should be running")
	}
	if a.rightPanel != FocusAnalysis {
		t.Errorf("rightPanel = %v, want FocusAnalysis", a.rightPanel)
	}

	for i := 0; i < 500 && a.engine.Stage() != sim.StageComplete; i++ {
		a.handleSimTick()
	}
	if a.engine.Stage() != sim.StageComplete {
		t.Fatal("simulation never completed")
	}
	if !chatContains(a, "Simulation complete") {
		t.Error("chat should announce completion")
	}

	// The tick chain must die once the run is over.
	_, next := a.handleSimTick()
	if next != nil {
		t.Error("completed simulation should not reschedule ticks")
	}
}

func TestStopSimulation(t *testing.T) {
	a := testApp(t)
	loadDemo(a)
	a.startSimulation()
	a.handleSimTick()

	a.stopSimulation()
	if a.engine.Running() {
		t.Error("engine should stop")
	}
	if !chatContains(a, "Simulation stopped") {
		t.Error("chat should confirm the stop")
	}

	_, next := a.handleSimTick()
	if next != nil {
		t.Error("stopped simulation should not reschedule ticks")
	}
}

func TestSecondRunRejectedWhileRunning(t *testing.T) {
	a := testApp(t)
	loadDemo(a)
	a.startSimulation()

	cmd := a.startSimulation()
	if cmd != nil {
		t.Error("a second run should not start another tick chain")
	}
	if !chatContains(a, "already running") {
		t.Error("chat should say a run is in progress")
	}
}

// =============================================================================
// INTENT RESULTS
// =============================================================================

func TestParseFailureFallsBack(t *testing.T) {
	a := testApp(t)

	_, cmd := a.handleIntentResult(IntentResultMsg{Err: errors.New("api unreachable")})
	if cmd != nil {
		t.Error("a parse failure must not schedule retries")
	}
	if got := lastMessage(t, a); got.Content != chat.FallbackText {
		t.Errorf("last message = %q, want the generic fallback", got.Content)
	}
}

func TestIntentResultDispatches(t *testing.T) {
	a := testApp(t)

	a.handleIntentResult(IntentResultMsg{Command: command(intent.CommandShowEvaluation, nil)})
	if a.rightPanel != FocusEvaluation {
		t.Errorf("rightPanel = %v, want FocusEvaluation", a.rightPanel)
	}
}

func TestExplanationPostedBeforeEffects(t *testing.T) {
	a := testApp(t)

	cmd := command(intent.CommandShowViewer, nil)
	cmd.Explanation = "Switching to the 3D view."
	a.applyCommand(cmd)

	if !chatContains(a, "Switching to the 3D view.") {
		t.Error("the explanation should appear in the chat")
	}
}

// =============================================================================
// VIEWER SETTINGS
// =============================================================================

func TestSetRepresentationValidates(t *testing.T) {
	a := testApp(t)

	a.applyCommand(command(intent.CommandSetRepresentation, map[string]string{"style": "cartoon"}))
	if got := a.viewer.Representation(); got != "cartoon" {
		t.Errorf("representation = %q, want cartoon", got)
	}

	a.applyCommand(command(intent.CommandSetRepresentation, map[string]string{"style": "wireframe"}))
	if got := a.viewer.Representation(); got != "cartoon" {
		t.Errorf("invalid style changed representation to %q", got)
	}
	if !chatContains(a, "Unknown style") {
		t.Error("chat should list valid styles")
	}
}

func TestSpinStartsTickOnlyWithStructure(t *testing.T) {
	a := testApp(t)

	cmd := a.applyCommand(command(intent.CommandSetSpin, map[string]string{"enabled": "on"}))
	if cmd != nil {
		t.Error("spin without a structure should not start the tick chain")
	}
	if !a.viewer.Spinning() {
		t.Error("spin flag should still be set")
	}

	loadDemo(a)
	a.viewer.SetSpin(false)
	cmd = a.applyCommand(command(intent.CommandSetSpin, map[string]string{"enabled": "on"}))
	if cmd == nil {
		t.Error("spin with a structure should start the tick chain")
	}
}

func TestSpinBareTogglesState(t *testing.T) {
	a := testApp(t)
	loadDemo(a)

	a.applyCommand(command(intent.CommandSetSpin, nil))
	if !a.viewer.Spinning() {
		t.Error("bare spin should toggle on")
	}
	a.applyCommand(command(intent.CommandSetSpin, nil))
	if a.viewer.Spinning() {
		t.Error("bare spin should toggle off")
	}
}

// =============================================================================
// PROJECTS
// =============================================================================

func TestNewProjectBecomesActive(t *testing.T) {
	a := testApp(t)

	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "kinase"}))
	p := a.catalog.Active()
	if p == nil || p.Name != "kinase" {
		t.Fatal("new project should become active")
	}
	if !chatContains(a, "Created project kinase") {
		t.Error("chat should confirm creation")
	}
}

func TestNewProjectRequiresName(t *testing.T) {
	a := testApp(t)

	a.applyCommand(command(intent.CommandNewProject, nil))
	if a.catalog.Len() != 0 {
		t.Error("no project should be created without a name")
	}
	if !chatContains(a, "Give the project a name") {
		t.Error("chat should ask for a name")
	}
}

func TestDuplicateProjectNameRejected(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "kinase"}))
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "kinase"}))

	if a.catalog.Len() != 1 {
		t.Errorf("catalog has %d projects, want 1", a.catalog.Len())
	}
	if !chatContains(a, "already exists") {
		t.Error("chat should reject the duplicate")
	}
}

func TestOpenProjectSwitchesActive(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "alpha"}))
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "beta"}))

	a.applyCommand(command(intent.CommandOpenProject, map[string]string{"name": "alpha"}))
	if p := a.catalog.Active(); p == nil || p.Name != "alpha" {
		t.Error("open should switch the active project")
	}
}

func TestDeleteActiveProjectClearsViewer(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "alpha"}))
	loadDemo(a)

	a.applyCommand(command(intent.CommandDeleteProject, map[string]string{"name": "alpha"}))
	if a.catalog.Len() != 0 {
		t.Error("project should be gone")
	}
	if a.catalog.ActiveID() != "" {
		t.Error("no project should remain active")
	}
	if a.structureID != "" {
		t.Error("structure reference should clear with its project")
	}
	if a.viewer.Structure() != nil {
		t.Error("viewer should clear when the active project is deleted")
	}
}

func TestDeleteOtherProjectKeepsViewer(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "alpha"}))
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "beta"}))
	loadDemo(a)

	a.applyCommand(command(intent.CommandDeleteProject, map[string]string{"name": "alpha"}))
	if a.viewer.Structure() == nil {
		t.Error("deleting an inactive project should not clear the viewer")
	}
	if p := a.catalog.Active(); p == nil || p.Name != "beta" {
		t.Error("the active project should be untouched")
	}
}

func TestListProjectsMarksActive(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandListProjects, nil))
	if !chatContains(a, "No projects yet") {
		t.Error("empty catalog should say so")
	}

	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "alpha"}))
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "beta"}))
	a.applyCommand(command(intent.CommandListProjects, nil))

	listing := lastMessage(t, a).Content
	if !strings.Contains(listing, "alpha") || !strings.Contains(listing, "beta") {
		t.Errorf("listing should include both projects, got %q", listing)
	}
	if !strings.Contains(listing, "* beta") {
		t.Errorf("active project should carry the marker, got %q", listing)
	}
}

// =============================================================================
// FOCUS AND KEYS
// =============================================================================

func TestTabCyclesPanelsWhenInputEmpty(t *testing.T) {
	a := testApp(t)

	want := []Focus{FocusViewer, FocusAnalysis, FocusEvaluation, FocusChat}
	for _, expected := range want {
		a.handleKey(tea.KeyMsg{Type: tea.KeyTab})
		if a.focus != expected {
			t.Fatalf("focus = %v, want %v", a.focus, expected)
		}
	}
	if a.rightPanel != FocusEvaluation {
		t.Errorf("rightPanel = %v, want the last focused right panel", a.rightPanel)
	}
}

func TestTabCompletesInsideNonEmptyInput(t *testing.T) {
	a := testApp(t)
	a.chat.SetInputValue("/lo")

	a.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if a.focus != FocusChat {
		t.Errorf("focus = %v, tab should stay in the chat for completion", a.focus)
	}
}

func TestEscReturnsFocusToChat(t *testing.T) {
	a := testApp(t)
	a.setFocus(FocusAnalysis)

	a.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if a.focus != FocusChat {
		t.Errorf("focus = %v, want FocusChat", a.focus)
	}
	if a.rightPanel != FocusAnalysis {
		t.Errorf("rightPanel = %v, esc should not change the visible panel", a.rightPanel)
	}
}

func TestShowPanelKeepsChatFocus(t *testing.T) {
	a := testApp(t)

	a.applyCommand(command(intent.CommandShowAnalysis, nil))
	if a.rightPanel != FocusAnalysis {
		t.Errorf("rightPanel = %v, want FocusAnalysis", a.rightPanel)
	}
	if a.focus != FocusChat {
		t.Errorf("focus = %v, panel switching should not steal chat focus", a.focus)
	}
}

func TestViewerKeysRotate(t *testing.T) {
	a := testApp(t)
	loadDemo(a)
	a.setFocus(FocusViewer)

	a.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if !a.viewer.Spinning() {
		t.Error("s should toggle spin on")
	}
	a.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if a.viewer.Spinning() {
		t.Error("s should toggle spin off")
	}
}

// =============================================================================
// REPORTS
// =============================================================================

func TestExportRejectsUnknownFormat(t *testing.T) {
	a := testApp(t)
	a.cfg.Export.Format = "docx"

	cmd := a.exportReport(command(intent.CommandExportReport, nil))
	if cmd != nil {
		t.Error("an unknown format should not start an export")
	}
	if !chatContains(a, "Unknown report format") {
		t.Error("chat should name the accepted formats")
	}
}

func TestExportFormatParamOverridesConfig(t *testing.T) {
	a := testApp(t)
	a.cfg.Export.Format = "docx"

	cmd := a.exportReport(command(intent.CommandExportReport, map[string]string{"format": "markdown"}))
	if cmd == nil {
		t.Error("a valid format parameter should start the export")
	}
}

func TestReportExportedUpdatesProject(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "kinase"}))

	a.handleReportExported(ReportExportedMsg{Path: "/tmp/evaluation.html"})
	if !chatContains(a, "Report saved to /tmp/evaluation.html") {
		t.Error("chat should include the output path")
	}
	if got := a.catalog.Active().Status; got != "evaluated" {
		t.Errorf("project status = %q, want evaluated", got)
	}
}

func TestReportExportFailureIsNotFatal(t *testing.T) {
	a := testApp(t)

	a.handleReportExported(ReportExportedMsg{Err: errors.New("read-only filesystem")})
	if a.state == StateError {
		t.Error("a failed export must not take down the app")
	}
	if !a.toasts.HasToasts() {
		t.Error("a failed export should raise a toast")
	}
}

// =============================================================================
// WATCH EVENTS
// =============================================================================

func TestWatchEventTracksLocalFiles(t *testing.T) {
	a := testApp(t)

	a.handleWatchEvent(WatchEventMsg{Event: watch.Event{Path: "/workspace/crambin.pdb", Op: watch.OpCreate}})
	found := false
	for _, opt := range a.structureOptions() {
		if opt == "crambin.pdb" {
			found = true
		}
	}
	if !found {
		t.Error("a created file should appear in completion options")
	}
	if !a.toasts.HasToasts() {
		t.Error("a watch event should raise a toast")
	}

	a.handleWatchEvent(WatchEventMsg{Event: watch.Event{Path: "/workspace/crambin.pdb", Op: watch.OpRemove}})
	for _, opt := range a.structureOptions() {
		if opt == "crambin.pdb" {
			t.Error("a removed file should leave the completion options")
		}
	}
}

// =============================================================================
// SESSION
// =============================================================================

func TestAutosaveOnlyWhenDirty(t *testing.T) {
	a := testApp(t)

	a.autosave()
	if a.session.IsDirty() {
		t.Error("clean session should stay clean")
	}

	a.session.MarkDirty()
	a.autosave()
	if a.session.IsDirty() {
		t.Error("autosave should mark the session clean")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	a := testApp(t)
	a.Shutdown()
	a.Shutdown()
}

// =============================================================================
// RENDERING
// =============================================================================

func TestWorkbenchViewShowsPanels(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandNewProject, map[string]string{"name": "kinase"}))

	view := a.View()
	for _, want := range []string{"molesim", "Chat", "Viewer", "Projects", "kinase"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestNarrowViewShowsOnlyFocusedPanel(t *testing.T) {
	a := testApp(t)
	a.resize(50, 20)

	view := a.View()
	if !strings.Contains(view, "Chat") {
		t.Error("narrow view should show the chat panel")
	}
	if strings.Contains(view, "Projects") {
		t.Error("narrow view should not show the project strip")
	}
}

func TestViewRendersBusySpinnerDuringFetch(t *testing.T) {
	a := testApp(t)
	a.applyCommand(command(intent.CommandLoadStructure, map[string]string{"structure_id": "1CRN"}))

	view := a.View()
	if !strings.Contains(view, "1CRN") {
		t.Error("fetch spinner should name the structure")
	}
}
