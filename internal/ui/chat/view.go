// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/components"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the transcript, the completion popup when visible, and the
// input area. Layout: viewport + [popup] + input (3 lines).
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	transcript := m.viewport.View()
	input := m.renderInput()

	if popup := m.renderCompletionPopup(); popup != "" {
		return lipgloss.JoinVertical(lipgloss.Left, transcript, popup, input)
	}

	return lipgloss.JoinVertical(lipgloss.Left, transcript, input)
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders all messages, or the welcome screen when the
// conversation has not started.
func (m *Model) renderTranscript() string {
	if len(m.transcript) == 0 && !m.isThinking {
		return m.renderEmptyState()
	}

	var parts []string
	for _, msg := range m.transcript {
		switch msg.Role {
		case RoleUser:
			parts = append(parts, m.renderUserMessage(msg))
		case RoleAssistant:
			parts = append(parts, m.renderAssistantMessage(msg))
		case RoleSystem:
			parts = append(parts, m.renderSystemMessage(msg))
		}
	}

	if m.isThinking {
		parts = append(parts, m.renderThinking())
	}

	return strings.Join(parts, "\n")
}

// bubbleWidth returns the widest a message bubble may grow.
func (m *Model) bubbleWidth() int {
	maxWidth := m.width - 8
	if maxWidth > m.width-2 {
		maxWidth = m.width - 2
	}
	if maxWidth < 10 {
		maxWidth = 10
	}
	return maxWidth
}

// renderUserMessage renders a user message pushed to the right edge.
func (m *Model) renderUserMessage(msg Message) string {
	maxWidth := m.bubbleWidth()

	wrapWidth := maxWidth - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	bubble := m.theme.UserBubble.MarginLeft(0).MaxWidth(maxWidth)
	rendered := bubble.Render(wrapText(msg.Content, wrapWidth))

	marginLeft := m.width - lipgloss.Width(rendered) - 2
	if marginLeft < 0 {
		marginLeft = 0
	}

	return lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(1).
		Render(rendered)
}

// renderAssistantMessage renders an assistant reply, splitting out fenced
// code blocks for syntax highlighting.
func (m *Model) renderAssistantMessage(msg Message) string {
	if strings.TrimSpace(msg.Content) == "" {
		return ""
	}

	maxWidth := m.bubbleWidth()
	content := m.renderWithCodeBlocks(msg.Content, maxWidth)

	return lipgloss.NewStyle().
		MarginTop(1).
		MarginLeft(1).
		Render(content)
}

// renderWithCodeBlocks renders assistant content, handing ``` fenced
// sections to the code block component.
func (m *Model) renderWithCodeBlocks(content string, maxWidth int) string {
	wrapWidth := maxWidth - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	bubble := m.theme.AssistantBubble.MaxWidth(maxWidth)

	if !strings.Contains(content, "```") {
		return bubble.Render(wrapText(content, wrapWidth))
	}

	var parts []string
	var textLines []string
	var codeLines []string
	var language string
	inCodeBlock := false

	flushText := func() {
		if len(textLines) == 0 {
			return
		}
		text := strings.Join(textLines, "\n")
		if strings.TrimSpace(text) != "" {
			parts = append(parts, bubble.Render(wrapText(text, wrapWidth)))
		}
		textLines = nil
	}

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "```"):
			if inCodeBlock {
				cb := components.NewCodeBlock(language, strings.Join(codeLines, "\n"))
				cb.SetMaxWidth(maxWidth)
				parts = append(parts, cb.Render())
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				flushText()
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
		case inCodeBlock:
			codeLines = append(codeLines, line)
		default:
			textLines = append(textLines, line)
		}
	}

	flushText()

	// Unclosed fence: render what we have as code anyway.
	if inCodeBlock && len(codeLines) > 0 {
		cb := components.NewCodeBlock(language, strings.Join(codeLines, "\n"))
		cb.SetMaxWidth(maxWidth)
		parts = append(parts, cb.Render())
	}

	return strings.Join(parts, "\n")
}

// renderSystemMessage renders a system notice in a double-bordered bubble.
func (m *Model) renderSystemMessage(msg Message) string {
	maxWidth := m.bubbleWidth()

	wrapWidth := maxWidth - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	bubble := m.theme.SystemBubble.MaxWidth(maxWidth)
	rendered := bubble.Render(wrapText(msg.Content, wrapWidth))

	return lipgloss.NewStyle().
		MarginTop(1).
		Render(rendered)
}

// renderThinking renders the animated waiting indicator.
func (m *Model) renderThinking() string {
	return lipgloss.NewStyle().
		MarginTop(1).
		MarginLeft(1).
		Render(m.thinking.View())
}

// =============================================================================
// EMPTY STATE
// =============================================================================

// renderEmptyState renders the welcome screen shown before the first message.
func (m *Model) renderEmptyState() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	emptyWidth := width - 6
	if emptyWidth < 30 {
		emptyWidth = 30
	}
	if emptyWidth > 70 {
		emptyWidth = 70
	}

	var sb strings.Builder

	welcomeStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true).
		Align(lipgloss.Center).
		Width(emptyWidth)
	sb.WriteString(welcomeStyle.Render("Welcome to molesim"))
	sb.WriteString("\n\n")

	modelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Align(lipgloss.Center).
		Width(emptyWidth)
	modelName := m.modelName
	if modelName == "" {
		modelName = "offline (slash commands only)"
	}
	sb.WriteString(modelStyle.Render("Model: " + modelName))
	sb.WriteString("\n\n")

	sepStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Align(lipgloss.Center).
		Width(emptyWidth)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", 36)))
	sb.WriteString("\n\n")

	tipsHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	sb.WriteString(tipsHeaderStyle.Render("Quick Tips"))
	sb.WriteString("\n\n")

	tipStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)

	tips := []struct {
		key  string
		desc string
	}{
		{"Type a message", "Describe what you want to see"},
		{"/help", "List available commands"},
		{"Tab", "Complete commands and names"},
		{"Up/Down", "Recall earlier input"},
	}

	for _, tip := range tips {
		sb.WriteString("  " + keyStyle.Render(util.PadRight(tip.key, 16)) + tipStyle.Render(tip.desc))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	examplesHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Emerald).
		Bold(true)
	sb.WriteString(examplesHeaderStyle.Render("Try asking"))
	sb.WriteString("\n\n")

	exampleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true)

	examples := []string{
		"\"load 1CRN\"",
		"\"show it as spacefill, colored by chain\"",
		"\"run a short simulation\"",
		"\"which model folds best?\"",
	}

	for _, example := range examples {
		sb.WriteString("  " + exampleStyle.Render(example))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Align(lipgloss.Center).
		Width(emptyWidth)
	sb.WriteString(hintStyle.Render("Tab cycles panels | Ctrl+C quits"))

	containerStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width - 2).
		Padding(1, 0)

	return containerStyle.Render(sb.String())
}

// =============================================================================
// INPUT AREA
// =============================================================================

// renderInput renders the bordered input line plus a status row with the
// offline badge and character count.
func (m Model) renderInput() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	inputLine := m.theme.InputContainer.Width(width).Render(m.input.View())

	var left string
	if !m.online {
		left = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render("[!] offline - slash commands only")
	}

	right := m.renderCharCount()

	statusWidth := width - 2
	if statusWidth < 10 {
		statusWidth = 10
	}
	gap := statusWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	status := " " + left + strings.Repeat(" ", gap) + right

	return lipgloss.JoinVertical(lipgloss.Left, inputLine, status)
}

// renderCharCount renders the character counter, coloring it as the limit
// approaches.
func (m Model) renderCharCount() string {
	count := len([]rune(m.input.Value()))
	limit := m.input.CharLimit
	if limit <= 0 {
		limit = 1
	}

	var style lipgloss.Style
	percent := float64(count) / float64(limit) * 100
	switch {
	case percent >= 90:
		style = lipgloss.NewStyle().Foreground(styles.Rose)
	case percent >= 75:
		style = lipgloss.NewStyle().Foreground(styles.Amber)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextMuted)
	}

	return style.Render(formatInt(count) + " / " + formatInt(limit))
}

// =============================================================================
// COMPLETION POPUP
// =============================================================================

const maxVisibleCompletions = 8

// renderCompletionPopup renders the tab completion list above the input.
func (m Model) renderCompletionPopup() string {
	if !m.showCompletions || !m.completionState.Visible {
		return ""
	}
	completions := m.completionState.Completions
	if len(completions) == 0 {
		return ""
	}

	popupWidth := m.width - 4
	if popupWidth > 56 {
		popupWidth = 56
	}
	if popupWidth < 20 {
		popupWidth = 20
	}

	// Window the list so the selection stays visible.
	start := 0
	if len(completions) > maxVisibleCompletions {
		start = m.completionState.Selected - maxVisibleCompletions/2
		if start < 0 {
			start = 0
		}
		if start > len(completions)-maxVisibleCompletions {
			start = len(completions) - maxVisibleCompletions
		}
	}
	end := start + maxVisibleCompletions
	if end > len(completions) {
		end = len(completions)
	}

	valueWidth := 0
	for _, c := range completions[start:end] {
		if w := util.StringWidth(c.Display); w > valueWidth {
			valueWidth = w
		}
	}
	if valueWidth > popupWidth-6 {
		valueWidth = popupWidth - 6
	}

	var lines []string
	for i := start; i < end; i++ {
		c := completions[i]

		value := util.PadRight(util.TruncateWidth(c.Display, valueWidth), valueWidth)
		desc := util.TruncateWidth(c.Description, popupWidth-valueWidth-4)

		if i == m.completionState.Selected {
			lines = append(lines, m.theme.CompletionSelected.Render(" "+value+"  "+desc+" "))
			continue
		}

		line := " " + m.theme.CompletionItem.Render(value)
		if desc != "" {
			line += "  " + lipgloss.NewStyle().Foreground(styles.TextMuted).Render(desc)
		}
		lines = append(lines, line)
	}

	if len(completions) > maxVisibleCompletions {
		more := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true).
			Render(" " + formatInt(len(completions)) + " matches, Tab to cycle")
		lines = append(lines, more)
	}

	return m.theme.CompletionPopup.Width(popupWidth).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// HELPERS
// =============================================================================

// wrapText wraps text at word boundaries, preserving existing newlines.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}

		runes := []rune(line)
		for len(runes) > maxWidth {
			breakPoint := maxWidth
			for j := maxWidth; j > 0; j-- {
				if runes[j] == ' ' {
					breakPoint = j
					break
				}
			}
			result.WriteString(string(runes[:breakPoint]))
			result.WriteString("\n")
			runes = []rune(strings.TrimLeft(string(runes[breakPoint:]), " "))
		}
		result.WriteString(string(runes))
	}

	return result.String()
}

// formatInt renders an int in decimal without reaching for fmt.
func formatInt(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
