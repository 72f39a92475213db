// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the molesim TUI.
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
)

// =============================================================================
// LANDING SCREEN MODEL
// =============================================================================

// moleculeFrames animate a diatomic molecule tumbling in place. All frames
// are the same size so the layout never shifts.
var moleculeFrames = []string{
	`
 o---o
       `,
	`     o
   /
 o     `,
	`   o
   |
   o   `,
	` o
   \
     o `,
}

// MoleculeFrameInterval is how often the landing animation advances.
const MoleculeFrameInterval = 250 * time.Millisecond

// LandingTickMsg advances the landing animation.
type LandingTickMsg struct {
	Time time.Time
}

// LandingTickCmd returns a command that ticks the molecule animation.
func LandingTickCmd() tea.Cmd {
	return tea.Tick(MoleculeFrameInterval, func(t time.Time) tea.Msg {
		return LandingTickMsg{Time: t}
	})
}

// Landing is the landing screen component.
type Landing struct {
	version      string
	modelName    string
	online       bool
	projectCount int

	frame int

	width  int
	height int

	theme *styles.Theme
}

// NewLanding creates a new landing screen.
func NewLanding(theme *styles.Theme) Landing {
	return Landing{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (l *Landing) SetVersion(version string) {
	l.version = version
}

// SetModelName sets the configured language model name.
func (l *Landing) SetModelName(name string) {
	l.modelName = name
}

// SetOnline sets the API connectivity state.
func (l *Landing) SetOnline(online bool) {
	l.online = online
}

// SetProjectCount sets the number of saved projects.
func (l *Landing) SetProjectCount(n int) {
	l.projectCount = n
}

// SetSize updates the dimensions.
func (l *Landing) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Advance moves the molecule animation one frame forward.
func (l *Landing) Advance() {
	l.frame++
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the molecule animation.
func (l Landing) Init() tea.Cmd {
	return LandingTickCmd()
}

// Update handles messages.
func (l Landing) Update(msg tea.Msg) (Landing, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
	case LandingTickMsg:
		l.frame++
		return l, LandingTickCmd()
	}
	return l, nil
}

// View renders the landing screen centered in the terminal.
func (l Landing) View() string {
	width := l.width
	if width == 0 {
		width = 80
	}
	height := l.height
	if height == 0 {
		height = 24
	}

	boxWidth := 60
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	verticalPadding := 1
	horizontalPadding := 4
	if width < 70 {
		horizontalPadding = 2
	}

	content := l.renderLogo()
	content += "\n\n" + l.renderMolecule()
	content += "\n" + l.renderTagline()
	content += "\n\n" + l.renderSystemInfo()
	content += "\n\n" + l.renderPressKey()

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)
	if boxHeight >= height {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, box)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo (5 lines) or a compact fallback.
func (l Landing) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if l.width >= 60 {
		logo := ` __  __  ___  _     _____ ____  ___ __  __
|  \/  |/ _ \| |   | ____/ ___||_ _|  \/  |
| |\/| | | | | |   |  _| \___ \ | || |\/| |
| |  | | |_| | |___| |___ ___) || || |  | |
|_|  |_|\___/|_____|_____|____/|___|_|  |_|`
		return logoStyle.Render(logo)
	}

	return l.renderLogoCompact()
}

// renderLogoCompact renders a compact text-based logo.
func (l Landing) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if l.width >= 40 {
		return logoStyle.Render(`+--------------------+
|      molesim       |
+--------------------+`)
	}

	return logoStyle.Render("molesim")
}

// renderMolecule renders the current animation frame.
func (l Landing) renderMolecule() string {
	frame := moleculeFrames[l.frame%len(moleculeFrames)]
	return lipgloss.NewStyle().
		Foreground(styles.Emerald).
		Bold(true).
		Render(frame)
}

// renderTagline renders the subtitle.
func (l Landing) renderTagline() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Molecular Workbench v" + l.version)
}

// renderSystemInfo renders model, mode, and project info.
func (l Landing) renderSystemInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(10)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	model := l.modelName
	if model == "" {
		model = "not configured"
	}

	lines := []string{
		labelStyle.Render("Model:") + valueStyle.Render(model),
		labelStyle.Render("Mode:") + l.renderModeIndicator(),
		labelStyle.Render("Projects:") + valueStyle.Render(formatCount(l.projectCount)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderModeIndicator renders online/offline with appropriate color.
func (l Landing) renderModeIndicator() string {
	if l.online {
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true).Render("online")
	}
	return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true).Render("offline (rule-based parser)")
}

// renderPressKey renders the continue prompt.
func (l Landing) renderPressKey() string {
	return lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("Press Enter to begin...")
}

// formatCount renders a small non-negative count.
func formatCount(n int) string {
	if n < 0 {
		n = 0
	}
	if n == 0 {
		return "none"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}
