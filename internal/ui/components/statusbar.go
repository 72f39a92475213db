// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the molesim TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusFetching
	StatusSimulating
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusFetching:
		return "Fetching..."
	case StatusSimulating:
		return "Simulating..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status, distinct beyond color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking, StatusFetching:
		return styles.StatusIndicators.Pending
	case StatusSimulating:
		return styles.StatusIndicators.Active
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar.
type StatusBar struct {
	ProjectName string    // Active project, "" when none
	StructureID string    // Loaded structure accession, "" when none
	Stage       sim.Stage // Current simulation stage
	Progress    float64   // Stage progress 0..1
	Status      Status
	Online      bool // True when the language model API is reachable
	Width       int
	ShowHints   bool

	theme *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Stage:     sim.StageIdle,
		Status:    StatusReady,
		Width:     80,
		ShowHints: true,
		theme:     theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetProject updates the active project display.
func (s *StatusBar) SetProject(name string) {
	s.ProjectName = name
}

// SetStructure updates the loaded structure display.
func (s *StatusBar) SetStructure(id string) {
	s.StructureID = id
}

// SetStage updates the simulation stage display.
func (s *StatusBar) SetStage(stage sim.Stage, progress float64) {
	s.Stage = stage
	s.Progress = progress
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetOnline updates the API connectivity display.
func (s *StatusBar) SetOnline(online bool) {
	s.Online = online
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals.
// Format: [MODE] project stage status
func (s *StatusBar) viewNarrow() string {
	parts := []string{s.renderMode(true)}

	if s.ProjectName != "" {
		parts = append(parts, util.TruncateWidth(s.ProjectName, 14))
	}
	if s.Stage != sim.StageIdle {
		parts = append(parts, s.renderStage(true))
	}
	parts = append(parts, s.renderStatus())

	bar := strings.Join(parts, " | ")
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Padding(0, 1).
		Render(util.TruncateWidth(bar, s.Width-2))
}

// viewWide renders the full status bar.
// Format: [MODE] Project: name | Structure: id | stage ====- | status    hints
func (s *StatusBar) viewWide() string {
	left := []string{s.renderMode(false)}

	if s.ProjectName != "" {
		label := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("Project: ")
		value := lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true).
			Render(util.TruncateWidth(s.ProjectName, 20))
		left = append(left, label+value)
	}

	if s.StructureID != "" {
		label := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("Structure: ")
		value := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true).Render(s.StructureID)
		left = append(left, label+value)
	}

	if s.Stage != sim.StageIdle {
		left = append(left, s.renderStage(false))
	}

	left = append(left, s.renderStatus())
	leftView := strings.Join(left, "  |  ")

	var rightView string
	if s.ShowHints && s.Width >= 100 {
		rightView = s.renderHints()
	}

	gap := s.Width - lipgloss.Width(leftView) - lipgloss.Width(rightView) - 2
	if gap < 1 {
		gap = 1
	}

	bar := leftView + strings.Repeat(" ", gap) + rightView
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(s.Width).
		Padding(0, 1).
		Render(bar)
}

// renderMode renders the online/offline indicator.
func (s *StatusBar) renderMode(compact bool) string {
	if s.Online {
		text := "ONLINE"
		if compact {
			text = "ON"
		}
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true).Render(text)
	}
	text := "OFFLINE"
	if compact {
		text = "OFF"
	}
	return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true).Render(text)
}

// renderStage renders the simulation stage with a small progress bar.
func (s *StatusBar) renderStage(compact bool) string {
	var style lipgloss.Style
	switch s.Stage {
	case sim.StageComplete:
		style = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case sim.StageIdle:
		style = lipgloss.NewStyle().Foreground(styles.TextMuted)
	default:
		style = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	}

	name := s.Stage.DisplayName()
	if compact {
		return style.Render(name)
	}
	if s.Stage == sim.StageComplete || s.Stage == sim.StageIdle {
		return style.Render(name)
	}

	bar := styles.RenderProgressBar(8, s.Progress*100)
	return style.Render(name) + " " +
		lipgloss.NewStyle().Foreground(styles.TextMuted).Render("["+bar+"]")
}

// renderStatus renders the status icon and text.
func (s *StatusBar) renderStatus() string {
	var style lipgloss.Style
	switch s.Status {
	case StatusError:
		style = lipgloss.NewStyle().Foreground(styles.Rose)
	case StatusReady:
		style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
	default:
		style = lipgloss.NewStyle().Foreground(styles.Amber)
	}
	return style.Render(s.Status.Icon() + " " + s.Status.String())
}

// renderHints renders keyboard shortcut hints.
func (s *StatusBar) renderHints() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	hints := []string{
		keyStyle.Render("Tab") + descStyle.Render(" panels"),
		keyStyle.Render("/help") + descStyle.Render(" commands"),
		keyStyle.Render("Ctrl+C") + descStyle.Render(" quit"),
	}
	return strings.Join(hints, "  ")
}
