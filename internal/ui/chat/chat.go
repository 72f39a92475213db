// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation panel of the workbench.
//
// The panel owns the transcript viewport, the input line, tab completion
// for slash commands, and the thinking indicator. It does not talk to the
// network itself: slash commands and parsed free text leave the panel as
// DispatchMsg and ParseRequestMsg values for the workbench to act on.
package chat

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/commands"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/components"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat panel.
type Model struct {
	theme  *styles.Theme
	width  int
	height int

	viewport viewport.Model
	input    textinput.Model
	thinking components.Spinner

	transcript []Message
	isThinking bool

	registry        *commands.Registry
	completer       *commands.Completer
	completionState *commands.CompletionState
	showCompletions bool

	inputHistory []string
	historyPos   int

	lastCommand *intent.Command
	modelName   string
	online      bool
	focused     bool
}

// New creates the chat panel with an empty transcript.
func New(theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe what you want, or /help for commands"
	ti.CharLimit = 1024
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	vp := viewport.New(60, 20)

	registry := commands.NewRegistry()

	return Model{
		theme:           theme,
		viewport:        vp,
		input:           ti,
		thinking:        components.NewThinkingSpinner(),
		registry:        registry,
		completer:       commands.NewCompleter(registry),
		completionState: commands.NewCompletionState(),
		focused:         true,
	}
}

// SetSize updates the panel dimensions. Three rows stay reserved for the
// input area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	inputWidth := width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.refreshViewport()
}

// =============================================================================
// TRANSCRIPT MUTATION
// =============================================================================

func (m *Model) append(role Role, content string) {
	m.transcript = append(m.transcript, Message{
		Role:    role,
		Content: content,
		Time:    time.Now(),
	})
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// AddUser appends a user message to the transcript.
func (m *Model) AddUser(content string) { m.append(RoleUser, content) }

// AddAssistant appends an assistant reply to the transcript.
func (m *Model) AddAssistant(content string) { m.append(RoleAssistant, content) }

// AddSystem appends a system notice to the transcript.
func (m *Model) AddSystem(content string) { m.append(RoleSystem, content) }

// AddFallback posts the generic failure reply.
func (m *Model) AddFallback() { m.append(RoleAssistant, FallbackText) }

// ClearTranscript removes all messages.
func (m *Model) ClearTranscript() {
	m.transcript = nil
	m.refreshViewport()
}

// Messages returns a copy of the transcript.
func (m *Model) Messages() []Message {
	out := make([]Message, len(m.transcript))
	copy(out, m.transcript)
	return out
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// SetThinking toggles the thinking indicator. Starting it returns the
// spinner tick command that drives the animation.
func (m *Model) SetThinking(on bool) tea.Cmd {
	if on == m.isThinking {
		return nil
	}
	m.isThinking = on
	if on {
		cmd := m.thinking.Start()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return cmd
	}
	m.thinking.Stop()
	m.refreshViewport()
	return nil
}

// Thinking reports whether the indicator is showing.
func (m *Model) Thinking() bool { return m.isThinking }

// SetLastCommand records the most recent parsed command for /inspect.
func (m *Model) SetLastCommand(cmd intent.Command) {
	m.lastCommand = &cmd
}

// SetModelName sets the model shown in the empty state.
func (m *Model) SetModelName(name string) { m.modelName = name }

// SetOnline flags whether the hosted parser is reachable.
func (m *Model) SetOnline(online bool) { m.online = online }

// SetFocused moves keyboard focus onto or off the input line.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
	if focused {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// Focused reports whether the input line has focus.
func (m *Model) Focused() bool { return m.focused }

// Completer exposes the completion engine so the workbench can hook up
// project and structure name sources.
func (m *Model) Completer() *commands.Completer { return m.completer }

// Registry exposes the slash command registry.
func (m *Model) Registry() *commands.Registry { return m.registry }

// InputValue returns the current input line contents.
func (m *Model) InputValue() string { return m.input.Value() }

// SetInputValue replaces the input line contents.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input keys, completion, and spinner ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.isThinking {
			var cmd tea.Cmd
			m.thinking, cmd = m.thinking.Update(msg)
			m.refreshViewport()
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.focused {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.showCompletions {
			return m.applyCompletion()
		}
		if strings.TrimSpace(m.input.Value()) != "" {
			return m.submitInput()
		}
		return m, nil

	case "tab":
		return m.handleTabCompletion()

	case "esc":
		if m.showCompletions {
			m.clearCompletions()
			return m, nil
		}
		m.input.Reset()
		m.historyPos = len(m.inputHistory)
		return m, nil

	case "up":
		if m.showCompletions {
			m.completionState.Prev()
			return m, nil
		}
		return m.recallHistory(-1), nil

	case "down":
		if m.showCompletions {
			m.completionState.Next()
			return m, nil
		}
		return m.recallHistory(1), nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "home":
		if m.input.Value() == "" {
			m.viewport.GotoTop()
			return m, nil
		}

	case "end":
		if m.input.Value() == "" {
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	// Any other key means the user is typing again.
	key := msg.String()
	if !strings.HasPrefix(key, "ctrl") && !strings.HasPrefix(key, "alt") {
		m.clearCompletions()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// recallHistory steps through previously submitted inputs. Direction -1
// goes back in time, +1 forward; stepping past the newest entry restores
// an empty line.
func (m Model) recallHistory(direction int) Model {
	if len(m.inputHistory) == 0 {
		return m
	}

	pos := m.historyPos + direction
	if pos < 0 {
		pos = 0
	}
	if pos >= len(m.inputHistory) {
		m.historyPos = len(m.inputHistory)
		m.input.Reset()
		return m
	}

	m.historyPos = pos
	m.input.SetValue(m.inputHistory[pos])
	m.input.CursorEnd()
	return m
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submitInput routes one input line: slash commands through the registry,
// anything else out to the intent parser.
func (m Model) submitInput() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.clearCompletions()

	m.inputHistory = append(m.inputHistory, text)
	m.historyPos = len(m.inputHistory)

	if commands.IsCommand(text) {
		return m.runSlashCommand(text)
	}

	m.AddUser(text)
	return m, emit(ParseRequestMsg{Text: text})
}

func (m Model) runSlashCommand(text string) (Model, tea.Cmd) {
	result, err := m.registry.Execute(text)
	if err != nil {
		m.AddSystem(err.Error())
		return m, nil
	}

	switch result.Action {
	case commands.ActionQuit:
		return m, tea.Quit

	case commands.ActionClear:
		m.ClearTranscript()
		return m, nil

	case commands.ActionInspect:
		m.showInspect()
		return m, nil

	default:
		m.AddUser(text)
		return m, emit(DispatchMsg{Command: result.Command})
	}
}

// showInspect posts the JSON of the last parsed command as a fenced code
// block, which the transcript renderer highlights.
func (m *Model) showInspect() {
	if m.lastCommand == nil {
		m.AddSystem("Nothing parsed yet. Send a message or a command first.")
		return
	}
	m.AddAssistant("```json\n" + m.lastCommand.JSON() + "\n```")
}

// helpCategories fixes the order commands appear in /help output.
var helpCategories = []string{
	"Navigation", "Structure", "Viewer", "Simulation", "Projects", "Report", "Utility",
}

// HelpText lists every visible command grouped by category.
func (m *Model) HelpText() string {
	byCategory := m.registry.ByCategory()

	var sb strings.Builder
	sb.WriteString("Available commands\n")

	for _, category := range helpCategories {
		cmds := byCategory[category]
		if len(cmds) == 0 {
			continue
		}
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		sb.WriteString("\n" + category + "\n")
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			sb.WriteString("  " + util.PadRight(usage, 38) + cmd.Description + "\n")
		}
	}

	sb.WriteString("\nAnything without a leading / goes to the language model.")
	return sb.String()
}

// emit wraps a message as a command for the workbench.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// =============================================================================
// TAB COMPLETION
// =============================================================================

// handleTabCompletion shows completions on first Tab and cycles on
// repeat presses.
func (m Model) handleTabCompletion() (Model, tea.Cmd) {
	if m.showCompletions && m.completionState.Visible {
		m.completionState.Next()
		return m, nil
	}

	completions := m.completer.Complete(m.input.Value(), m.input.Position())
	if len(completions) == 0 {
		return m, nil
	}

	m.completionState.Update(m.input.Value(), completions)
	m.showCompletions = true

	if len(completions) == 1 {
		return m.applyCompletion()
	}
	return m, nil
}

// applyCompletion writes the selected completion into the input line.
func (m Model) applyCompletion() (Model, tea.Cmd) {
	selected := m.completionState.GetSelected()
	if selected == nil {
		return m, nil
	}

	input := m.input.Value()
	start := completionStart(input, m.input.Position())
	newInput := input[:start] + selected.Value

	// Completing a command that takes arguments? Leave the cursor ready
	// for the first one.
	if strings.HasPrefix(selected.Value, "/") {
		if cmd := m.registry.Get(selected.Value); cmd != nil && len(cmd.Args) > 0 {
			newInput += " "
		}
	}

	m.input.SetValue(newInput)
	m.input.CursorEnd()
	m.clearCompletions()
	return m, textinput.Blink
}

// completionStart finds where the token being completed begins.
func completionStart(input string, cursorPos int) int {
	if cursorPos > len(input) {
		cursorPos = len(input)
	}
	for i := cursorPos - 1; i >= 0; i-- {
		if input[i] == ' ' {
			return i + 1
		}
	}
	return 0
}

func (m *Model) clearCompletions() {
	m.showCompletions = false
	m.completionState.Clear()
}
