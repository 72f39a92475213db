// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/components"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
)

// projectStripHeight is the fixed height of the project list under the
// chat panel: border, title, and three item rows.
const projectStripHeight = 6

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case StateLanding:
		return a.landing.View()
	case StateError:
		return a.renderFatal()
	default:
		return a.renderWorkbench()
	}
}

func (a *App) renderWorkbench() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	bodyHeight := a.height - 2
	var body string
	if a.theme.GetLayoutMode() == styles.LayoutNarrow {
		body = a.renderNarrow(bodyHeight)
	} else {
		body = a.renderWide(bodyHeight)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderHeader(),
		body,
		a.statusBar.View(),
	)

	if a.toasts.HasToasts() {
		view = a.overlayToasts(view, components.RenderToasts(a.toasts.GetToasts(), a.width))
	}
	return view
}

// renderNarrow shows a single panel: whichever one has focus.
func (a *App) renderNarrow(height int) string {
	if a.focus == FocusChat {
		return a.renderPanel(FocusChat.Title(), a.chat.View(), a.width, height, true)
	}
	return a.renderRight(a.width, height)
}

// renderWide splits the body into the chat column and the active right
// panel.
func (a *App) renderWide(height int) string {
	leftWidth := clamp(2*a.width/5, 38, 60)
	if leftWidth > a.width-30 {
		leftWidth = a.width / 2
	}
	rightWidth := a.width - leftWidth

	var left string
	if height >= 14 {
		chatHeight := height - projectStripHeight
		left = lipgloss.JoinVertical(
			lipgloss.Left,
			a.renderPanel(FocusChat.Title(), a.chat.View(), leftWidth, chatHeight, a.focus == FocusChat),
			a.renderProjects(leftWidth, projectStripHeight),
		)
	} else {
		left = a.renderPanel(FocusChat.Title(), a.chat.View(), leftWidth, height, a.focus == FocusChat)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, a.renderRight(rightWidth, height))
}

// renderRight draws the visible right panel, or the busy spinner while a
// fetch or prediction is in flight.
func (a *App) renderRight(width, height int) string {
	if a.fetching || a.predicting {
		busy := lipgloss.Place(width-4, height-3, lipgloss.Center, lipgloss.Center, a.busy.View())
		return a.renderPanel(a.rightPanel.Title(), busy, width, height, false)
	}

	var body string
	switch a.rightPanel {
	case FocusAnalysis:
		body = a.analysis.View()
	case FocusEvaluation:
		body = a.evaluation.View()
	default:
		body = a.viewer.View()
	}
	return a.renderPanel(a.rightPanel.Title(), body, width, height, a.focus == a.rightPanel)
}

// renderPanel frames content with a title line. Width and height are the
// full footprint including the border.
func (a *App) renderPanel(title, body string, width, height int, focused bool) string {
	frame := a.theme.Panel
	titleStyle := a.theme.PanelTitle
	if focused {
		frame = a.theme.PanelFocused
		titleStyle = a.theme.PanelTitleFocused
	}

	inner := titleStyle.Render(title)
	if body != "" {
		inner = lipgloss.JoinVertical(lipgloss.Left, inner, body)
	}
	return frame.Width(width - 2).Height(height - 2).Render(inner)
}

// renderProjects draws the project strip under the chat panel.
func (a *App) renderProjects(width, height int) string {
	lines := []string{a.theme.PanelTitle.Render("Projects")}

	if a.catalog.Len() == 0 {
		lines = append(lines, a.theme.ProjectMeta.Render("none yet - /project new <name>"))
	} else {
		activeID := a.catalog.ActiveID()
		maxRows := height - 3
		projects := a.catalog.All()

		visible := projects
		overflow := 0
		if len(projects) > maxRows && maxRows >= 2 {
			visible = projects[:maxRows-1]
			overflow = len(projects) - len(visible)
		}

		for _, p := range visible {
			label := cutToWidth(p.Name, width-18)
			meta := a.theme.ProjectMeta.Render(p.Status.DisplayName())
			if p.ID == activeID {
				lines = append(lines, a.theme.ProjectItemActive.Render("* "+label)+" "+meta)
			} else {
				lines = append(lines, a.theme.ProjectItem.Render("  "+label)+" "+meta)
			}
		}
		if overflow > 0 {
			lines = append(lines, a.theme.ProjectMeta.Render(fmt.Sprintf("+%d more", overflow)))
		}
	}

	body := strings.Join(lines, "\n")
	return a.theme.ProjectList.Width(width - 2).Height(height - 2).Render(body)
}

// renderHeader draws the one-line header bar: brand, active project,
// loaded structure, and the version on the right.
func (a *App) renderHeader() string {
	parts := []string{a.theme.HeaderBrand.Render("molesim")}
	if p := a.catalog.Active(); p != nil {
		parts = append(parts, a.theme.HeaderProject.Render(p.Name))
	}
	if a.structureID != "" {
		parts = append(parts, a.structureID)
	}

	left := strings.Join(parts, "  ")
	right := a.version

	gap := a.width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return a.theme.Header.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderFatal shows the terminal error screen. Any key exits.
func (a *App) renderFatal() string {
	msg := "molesim hit an unrecoverable error."
	if a.fatalErr != nil {
		msg = a.fatalErr.Error()
	}

	body := lipgloss.JoinVertical(
		lipgloss.Center,
		a.theme.ErrorStyle.Render("Something went wrong"),
		"",
		msg,
		"",
		a.theme.ProjectMeta.Render("Press any key to exit"),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout pushes panel sizes down to the components. Panel frames eat two
// columns and two rows; the title line eats one more row.
func (a *App) layout() {
	if a.width == 0 || a.height == 0 {
		return
	}

	bodyHeight := a.height - 2
	if bodyHeight < 4 {
		bodyHeight = 4
	}

	if a.theme.GetLayoutMode() == styles.LayoutNarrow {
		innerWidth, innerHeight := a.width-4, bodyHeight-3
		a.chat.SetSize(innerWidth, innerHeight)
		a.viewer.SetSize(innerWidth, innerHeight)
		a.analysis.SetSize(innerWidth, innerHeight)
		a.evaluation.SetSize(innerWidth, innerHeight)
		return
	}

	leftWidth := clamp(2*a.width/5, 38, 60)
	if leftWidth > a.width-30 {
		leftWidth = a.width / 2
	}
	rightWidth := a.width - leftWidth

	chatHeight := bodyHeight
	if bodyHeight >= 14 {
		chatHeight = bodyHeight - projectStripHeight
	}

	a.chat.SetSize(leftWidth-4, chatHeight-3)
	a.viewer.SetSize(rightWidth-4, bodyHeight-3)
	a.analysis.SetSize(rightWidth-4, bodyHeight-3)
	a.evaluation.SetSize(rightWidth-4, bodyHeight-3)
}

// =============================================================================
// TOAST OVERLAY
// =============================================================================

// overlayToasts splices the toast stack into the bottom-right corner of
// the view, above the status bar, without reflowing the layout.
func (a *App) overlayToasts(baseView, toastView string) string {
	if toastView == "" {
		return baseView
	}

	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(toastView, "\n")

	startRow := len(baseLines) - len(toastLines) - 2
	if startRow < 0 {
		startRow = 0
	}

	for i, toastLine := range toastLines {
		row := startRow + i
		if row >= len(baseLines) || lipgloss.Width(toastLine) == 0 {
			continue
		}

		room := a.width - lipgloss.Width(toastLine) - 1
		if room < 0 {
			room = 0
		}

		baseLine := baseLines[row]
		baseWidth := lipgloss.Width(baseLine)
		if baseWidth < room {
			baseLine += strings.Repeat(" ", room-baseWidth)
		} else if baseWidth > room {
			baseLine = cutToWidth(baseLine, room)
		}
		baseLines[row] = baseLine + toastLine
	}

	return strings.Join(baseLines, "\n")
}

// cutToWidth trims a string to a display width with no ellipsis. Used
// where the cut edge is covered by other content.
func cutToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}

	current := 0
	var sb strings.Builder
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if current+w > width {
			break
		}
		sb.WriteRune(r)
		current += w
	}
	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
