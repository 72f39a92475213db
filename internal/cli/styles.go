// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// Shared styles for CLI output. Handlers use these instead of building
// their own so the subcommands stay visually consistent.
var (
	// TitleStyle renders top-level headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	// SectionStyle renders section headings within a command's output.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			MarginTop(1)

	// LabelStyle renders field labels in label/value rows.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(20)

	// ValueStyle renders field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// SuccessStyle renders success markers.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	// ErrorStyle renders failure markers.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	// WarningStyle renders warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle renders de-emphasized text such as hints.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	// SeparatorStyle renders horizontal rules.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// HighlightStyle renders emphasized values.
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	// InfoStyle renders informational markers.
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))
)

// RenderSeparator returns a horizontal rule. Width defaults to 70.
func RenderSeparator(width ...int) string {
	w := 70
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("=", w))
}

// RenderStatus renders a bracketed status marker for the given state.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "success", "ready", "complete":
		return SuccessStyle.Render("[OK]")
	case "fail", "failed", "error":
		return ErrorStyle.Render("[FAIL]")
	case "warn", "warning":
		return WarningStyle.Render("[WARN]")
	default:
		return DimStyle.Render("[" + strings.ToUpper(status) + "]")
	}
}

// RenderLabel renders a fixed-width label for label/value rows. Width
// defaults to the shared label width.
func RenderLabel(label string, width ...int) string {
	style := LabelStyle
	if len(width) > 0 && width[0] > 0 {
		style = LabelStyle.Width(width[0])
	}
	return style.Render(label + ":")
}
