// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app assembles the molesim workbench: the landing screen, the
// chat / viewer / analysis / evaluation panels, the simulation tick loop,
// and the dispatch of parsed commands onto workbench state. All mutable
// view state lives here; panels render from it.
package app

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/config"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/genlang"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/history"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/model"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/project"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/rcsb"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/session"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/store"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/analysis"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/chat"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/components"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/evaluation"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/viewer"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/watch"
)

// =============================================================================
// APP STATE
// =============================================================================

// State is the top-level screen the app is showing.
type State int

const (
	StateLanding State = iota
	StateWorkbench
	StateError
)

// Focus identifies the panel that receives keyboard input. The three
// non-chat values double as the selector for the visible right panel.
type Focus int

const (
	FocusChat Focus = iota
	FocusViewer
	FocusAnalysis
	FocusEvaluation
)

// Title returns the panel title shown in its frame.
func (f Focus) Title() string {
	switch f {
	case FocusChat:
		return "Chat"
	case FocusViewer:
		return "Viewer"
	case FocusAnalysis:
		return "Analysis"
	case FocusEvaluation:
		return "Evaluation"
	default:
		return ""
	}
}

// focusOrder is the Tab cycling order.
var focusOrder = []Focus{FocusChat, FocusViewer, FocusAnalysis, FocusEvaluation}

// =============================================================================
// APP MODEL
// =============================================================================

// Options carries the optional collaborators main wires in. Any of them
// may be nil; the workbench degrades to session-only state.
type Options struct {
	Version string
	Store   *store.Store
	History *history.Store
	Watcher watch.Watcher
}

// App is the root Bubble Tea model.
type App struct {
	state State
	theme *styles.Theme
	cfg   *config.Config

	width  int
	height int

	// Panels
	chat       chat.Model
	viewer     viewer.Model
	analysis   analysis.Model
	evaluation evaluation.Model
	landing    components.Landing
	statusBar  *components.StatusBar
	toasts     *components.ToastManager

	focus      Focus
	rightPanel Focus

	// Domain state
	engine     *sim.Engine
	catalog    *project.Catalog
	parser     *intent.Parser
	archive    *rcsb.Client
	session    *session.Manager
	transcript *model.Transcript
	rng        *rand.Rand

	// Persistence (nil-safe)
	store   *store.Store
	history *history.Store
	watcher watch.Watcher

	structureID string
	localFiles  []string

	// In-flight async work
	fetching   bool
	predicting bool
	predictSeq string
	busy       components.Spinner

	version  string
	fatalErr error
	shutdown bool
}

// New builds the workbench from configuration. Persisted projects are
// loaded before the first frame so the landing screen can count them.
func New(theme *styles.Theme, cfg *config.Config, opts Options) *App {
	parser := intent.NewParser(generatorFor(cfg))

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

	engine := sim.New(sim.Config{
		StepMin:     float64(cfg.Simulation.StepMin),
		StepMax:     float64(cfg.Simulation.StepMax),
		MaxPoints:   cfg.Simulation.MaxPoints,
		LogCapacity: cfg.Simulation.LogLines,
	})

	catalog := project.NewCatalog()
	if opts.Store != nil {
		loadCatalog(opts.Store, catalog)
	}

	sessionCfg := session.Config{
		AutosaveEnabled:  cfg.Workspace.AutosaveSecs > 0,
		AutosaveInterval: time.Duration(cfg.Workspace.AutosaveSecs) * time.Second,
	}

	chatPanel := chat.New(theme)
	chatPanel.SetOnline(parser.Online())
	if parser.Online() {
		chatPanel.SetModelName(cfg.API.Model)
	}

	landing := components.NewLanding(theme)
	landing.SetVersion(opts.Version)
	landing.SetOnline(parser.Online())
	landing.SetModelName(cfg.API.Model)
	landing.SetProjectCount(catalog.Len())

	statusBar := components.NewStatusBar(theme)
	statusBar.SetOnline(parser.Online())

	a := &App{
		state:      StateLanding,
		theme:      theme,
		cfg:        cfg,
		chat:       chatPanel,
		viewer:     viewer.New(theme),
		analysis:   analysis.New(theme),
		evaluation: evaluation.New(theme),
		landing:    landing,
		statusBar:  statusBar,
		toasts:     components.NewToastManager(),
		focus:      FocusChat,
		rightPanel: FocusViewer,
		engine:     engine,
		catalog:    catalog,
		parser:     parser,
		archive:    rcsb.NewClient(archiveCfg),
		session:    session.NewManager(sessionCfg),
		transcript: model.NewTranscript(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		store:      opts.Store,
		history:    opts.History,
		watcher:    opts.Watcher,
		version:    opts.Version,
	}

	if !cfg.UI.ShowLanding {
		a.state = StateWorkbench
	}
	if p := catalog.Active(); p != nil {
		statusBar.SetProject(p.Name)
	}

	completer := a.chat.Completer()
	completer.ProjectsFn = catalog.Names
	completer.StructuresFn = a.structureOptions

	return a
}

// generatorFor builds the language-model client, or nil when the config
// forces offline mode.
func generatorFor(cfg *config.Config) intent.Generator {
	if cfg.API.Offline {
		return nil
	}
	return genlang.NewClient(genlang.Config{
		BaseURL:         cfg.API.BaseURL,
		Model:           cfg.API.Model,
		APIKey:          cfg.API.Key,
		Timeout:         time.Duration(cfg.API.TimeoutSecs) * time.Second,
		Temperature:     cfg.API.Temperature,
		MaxOutputTokens: cfg.API.MaxOutputTokens,
	})
}

// loadCatalog restores the persisted project list. Failures leave the
// catalog empty; the workbench still runs.
func loadCatalog(st *store.Store, catalog *project.Catalog) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	projects, err := st.ListProjects(ctx)
	if err != nil {
		return
	}
	activeID, err := st.LoadActiveID(ctx)
	if err != nil {
		activeID = ""
	}
	catalog.Replace(projects, activeID)
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the background loops.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.chat.Init(),
		session.TickCmd(),
	}
	if a.state == StateLanding {
		cmds = append(cmds, a.landing.Init())
	}
	if a.watcher != nil {
		cmds = append(cmds, waitForWatch(a.watcher))
	}
	return tea.Batch(cmds...)
}

// Update routes messages to handlers. Every state mutation happens here,
// on the update goroutine.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case components.LandingTickMsg:
		if a.state != StateLanding {
			return a, nil
		}
		var cmd tea.Cmd
		a.landing, cmd = a.landing.Update(msg)
		return a, cmd

	case chat.ParseRequestMsg:
		return a, a.beginParse(msg.Text)

	case chat.DispatchMsg:
		a.session.RecordActivity()
		return a, a.applyCommand(msg.Command)

	case IntentResultMsg:
		return a.handleIntentResult(msg)

	case StructureFetchedMsg:
		return a.handleStructureFetched(msg)

	case PredictTickMsg:
		return a.handlePredictTick(msg)

	case SimTickMsg:
		return a.handleSimTick()

	case viewer.SpinTickMsg:
		var cmd tea.Cmd
		a.viewer, cmd = a.viewer.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		return a.handleSpinnerTick(msg)

	case session.TickMsg:
		cmds := []tea.Cmd{session.TickCmd()}
		if cmd := a.session.HandleTick(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case session.AutosaveMsg:
		return a, a.autosave()

	case components.ToastTickMsg:
		a.toasts.TickToasts()
		if a.toasts.HasToasts() {
			return a, components.ToastTickCmd()
		}
		return a, nil

	case WatchEventMsg:
		return a.handleWatchEvent(msg)

	case ReportExportedMsg:
		return a.handleReportExported(msg)

	case CatalogSavedMsg:
		if msg.Err != nil {
			a.toasts.AddWarning("Project save failed")
			return a, components.ToastTickCmd()
		}
		return a, nil

	case FramesArchivedMsg:
		if msg.Err != nil {
			a.toasts.AddWarning("Frame archive failed")
			return a, components.ToastTickCmd()
		}
		return a, nil
	}

	if a.state == StateWorkbench {
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleSpinnerTick feeds spinner frames to whichever spinners run.
// Each spinner ignores ticks that are not its own.
func (a *App) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if a.fetching || a.predicting {
		var cmd tea.Cmd
		a.busy, cmd = a.busy.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.session.RecordActivity()

	switch a.state {
	case StateLanding:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, a.quit()
		default:
			a.enterWorkbench()
			return a, nil
		}

	case StateError:
		return a, a.quit()
	}

	switch msg.String() {
	case "ctrl+c":
		return a, a.quit()

	case "tab":
		// Tab completes inside a non-empty chat input and cycles panel
		// focus everywhere else.
		if a.focus != FocusChat || strings.TrimSpace(a.chat.InputValue()) == "" {
			a.cycleFocus(1)
			return a, nil
		}

	case "shift+tab":
		a.cycleFocus(-1)
		return a, nil

	case "esc":
		if a.focus != FocusChat {
			a.setFocus(FocusChat)
			return a, nil
		}
	}

	switch a.focus {
	case FocusChat:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case FocusViewer:
		return a.handleViewerKey(msg)

	case FocusEvaluation:
		switch msg.String() {
		case "j", "down":
			a.evaluation.MoveDown()
		case "k", "up":
			a.evaluation.MoveUp()
		}
		return a, nil
	}
	return a, nil
}

// handleViewerKey rotates and spins the structure from the keyboard.
func (a *App) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		a.viewer.RotateBy(-math.Pi / 24)
	case "right", "l":
		a.viewer.RotateBy(math.Pi / 24)
	case "s":
		return a, a.setSpin(!a.viewer.Spinning())
	}
	return a, nil
}

// cycleFocus moves panel focus along the Tab order. Focusing a right
// panel also makes it the visible one.
func (a *App) cycleFocus(step int) {
	idx := 0
	for i, f := range focusOrder {
		if f == a.focus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(focusOrder)) % len(focusOrder)
	a.setFocus(focusOrder[idx])
}

func (a *App) setFocus(f Focus) {
	a.focus = f
	a.chat.SetFocused(f == FocusChat)
	if f != FocusChat {
		a.rightPanel = f
	}
}

// enterWorkbench leaves the landing screen.
func (a *App) enterWorkbench() {
	a.state = StateWorkbench
	a.layout()
}

// quit stops background collaborators and exits.
func (a *App) quit() tea.Cmd {
	a.Shutdown()
	return tea.Quit
}

// SetFatal switches to the error screen. Initialization failures that
// should be read rather than panic land here.
func (a *App) SetFatal(err error) {
	a.fatalErr = err
	a.state = StateError
}

// Shutdown releases collaborators and writes the transcript. Safe to call
// more than once; main calls it after the program exits because /quit
// leaves through Bubble Tea without passing back through Update.
func (a *App) Shutdown() {
	if a.shutdown {
		return
	}
	a.shutdown = true

	if a.watcher != nil {
		a.watcher.Close()
	}
	a.saveTranscript()
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// intentContext snapshots the workbench state the language model sees.
func (a *App) intentContext() intent.Context {
	ictx := intent.Context{
		ActiveStructure:   a.structureID,
		Representation:    a.viewer.Representation(),
		ColorScheme:       a.viewer.ColorScheme(),
		SpinEnabled:       a.viewer.Spinning(),
		SimulationRunning: a.engine.Running(),
		Stage:             string(a.engine.Stage()),
		ProjectNames:      a.catalog.Names(),
	}
	if p := a.catalog.Active(); p != nil {
		ictx.ActiveProject = p.Name
	}
	return ictx
}

// structureOptions feeds tab completion: known accession codes plus any
// structure files the watcher has seen in the workspace.
func (a *App) structureOptions() []string {
	opts := []string{"1CRN", "4HHB", "6LU7", "1UBQ", "2LYZ"}
	if a.structureID != "" {
		opts = append(opts, a.structureID)
	}
	for _, path := range a.localFiles {
		opts = append(opts, filepath.Base(path))
	}
	return opts
}

// tickInterval is the simulation step period from config.
func (a *App) tickInterval() time.Duration {
	millis := a.cfg.Simulation.TickMillis
	if millis <= 0 {
		millis = 800
	}
	return time.Duration(millis) * time.Millisecond
}

// parseTimeout guards the intent request a little past the client's own
// HTTP timeout.
func (a *App) parseTimeout() time.Duration {
	secs := a.cfg.API.TimeoutSecs
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs)*time.Second + 5*time.Second
}

// beginParse records the user message and launches the intent request.
func (a *App) beginParse(text string) tea.Cmd {
	a.session.RecordActivity()
	a.session.MarkDirty()
	a.transcript.AddUserMessage(text)

	a.statusBar.SetStatus(components.StatusThinking)
	thinking := a.chat.SetThinking(true)
	return tea.Batch(thinking, parseIntent(a.parser, text, a.intentContext(), a.parseTimeout()))
}

// handleIntentResult posts either the parsed command's effects or the
// single generic fallback. Failures are terminal for that message; there
// is no retry.
func (a *App) handleIntentResult(msg IntentResultMsg) (tea.Model, tea.Cmd) {
	a.chat.SetThinking(false)
	a.statusBar.SetStatus(components.StatusReady)

	if msg.Err != nil {
		a.chat.AddFallback()
		a.transcript.AddAssistantMessage(chat.FallbackText)
		return a, nil
	}

	a.chat.SetLastCommand(msg.Command)
	return a, a.applyCommand(msg.Command)
}

// resize fans the new terminal size out to every component.
func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.theme.SetSize(width, height)
	a.landing.SetSize(width, height)
	a.statusBar.SetWidth(width)
	a.layout()
}

// handleWatchEvent surfaces workspace file changes as toasts and keeps
// the local-file completion list current. The watch channel is re-armed
// every time.
func (a *App) handleWatchEvent(msg WatchEventMsg) (tea.Model, tea.Cmd) {
	ev := msg.Event

	switch ev.Op {
	case watch.OpCreate, watch.OpModify:
		if !containsPath(a.localFiles, ev.Path) {
			a.localFiles = append(a.localFiles, ev.Path)
		}
	case watch.OpRemove:
		a.localFiles = removePath(a.localFiles, ev.Path)
	}

	a.toasts.AddStatus(fmt.Sprintf("%s %s", filepath.Base(ev.Path), ev.Op))

	cmds := []tea.Cmd{components.ToastTickCmd()}
	if a.watcher != nil {
		cmds = append(cmds, waitForWatch(a.watcher))
	}
	return a, tea.Batch(cmds...)
}

func containsPath(paths []string, p string) bool {
	for _, existing := range paths {
		if existing == p {
			return true
		}
	}
	return false
}

func removePath(paths []string, p string) []string {
	out := paths[:0]
	for _, existing := range paths {
		if existing != p {
			out = append(out, existing)
		}
	}
	return out
}

// autosave persists dirty session state: the project catalog through the
// store and the transcript through history.
func (a *App) autosave() tea.Cmd {
	if !a.session.IsDirty() {
		return nil
	}
	a.session.MarkClean()
	a.saveTranscript()
	return saveCatalog(a.store, a.catalog.All(), a.catalog.ActiveID())
}

// saveTranscript writes the transcript when it has content.
func (a *App) saveTranscript() {
	if a.history == nil || a.transcript.Len() == 0 {
		return
	}
	a.history.Save(a.transcript)
}
