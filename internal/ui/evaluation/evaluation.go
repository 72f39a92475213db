// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package evaluation renders the model-evaluation panel.
//
// The leaderboard, score bars and per-target breakdown all come from the
// fixed benchmark snapshot in the eval package. Selection moves through
// the ranked models and switches which model's target scores are shown;
// the actual report export is handled by the shell.
package evaluation

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/eval"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the evaluation panel.
type Model struct {
	dataset  eval.Dataset
	ranked   []eval.ModelMetrics
	selected int

	width  int
	height int
	theme  *styles.Theme
}

// New creates the panel over the benchmark snapshot.
func New(theme *styles.Theme) Model {
	ds := eval.Metrics()
	return Model{
		dataset: ds,
		ranked:  ds.Ranked(),
		width:   80,
		height:  24,
		theme:   theme,
	}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dataset returns the benchmark snapshot backing the panel.
func (m *Model) Dataset() eval.Dataset {
	return m.dataset
}

// MoveUp moves the selection toward the top of the leaderboard.
func (m *Model) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves the selection toward the bottom of the leaderboard.
func (m *Model) MoveDown() {
	if m.selected < len(m.ranked)-1 {
		m.selected++
	}
}

// SelectedModel returns the name of the highlighted model.
func (m *Model) SelectedModel() string {
	if len(m.ranked) == 0 {
		return ""
	}
	return m.ranked[m.selected].Name
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, leaderboard, F1 bars, target breakdown and the
// key hints.
func (m Model) View() string {
	if len(m.ranked) == 0 {
		return m.theme.ViewerEmpty.Render("No benchmark data.")
	}

	sections := []string{
		m.renderHeader(),
		m.renderLeaderboard(),
		m.renderBars(),
	}
	if m.height >= 22 {
		sections = append(sections, m.renderTargets())
	}
	sections = append(sections, m.renderHints())

	return strings.Join(sections, "\n\n")
}

func (m Model) renderHeader() string {
	title := m.theme.ChartTitle.Render("Model Evaluation")
	meta := m.theme.ChartAxis.Render(
		"snapshot " + m.dataset.GeneratedAt.Format("2006-01-02") +
			" | " + strconv.Itoa(len(m.dataset.Models)) + " models" +
			" | " + strconv.Itoa(len(m.dataset.Targets)) + " targets")
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(meta)
	if gap < 2 {
		return title
	}
	return title + strings.Repeat(" ", gap) + meta
}

// =============================================================================
// LEADERBOARD
// =============================================================================

// renderLeaderboard draws the ranked table. Narrow panels drop the
// per-metric columns and keep rank, model, F1 and latency.
func (m Model) renderLeaderboard() string {
	compact := m.width < 64

	var header string
	if compact {
		header = pad("#", 3) + pad("MODEL", 14) + pad("F1", 7) + "LATENCY"
	} else {
		header = pad("#", 3) + pad("MODEL", 13) + pad("VER", 7) +
			pad("ACC", 7) + pad("PREC", 7) + pad("REC", 7) +
			pad("F1", 7) + pad("TM", 7) + "LATENCY"
	}

	rows := []string{m.theme.TableHeader.Render(header)}
	for i, mm := range m.ranked {
		var row string
		if compact {
			row = pad(strconv.Itoa(i+1), 3) + pad(mm.Name, 14) +
				pad(score(mm.F1), 7) + formatLatency(mm.LatencyMs)
		} else {
			tm := m.dataset.TargetMean(m.dataset.ModelIndex(mm.Name))
			row = pad(strconv.Itoa(i+1), 3) + pad(mm.Name, 13) + pad(mm.Version, 7) +
				pad(score(mm.Accuracy), 7) + pad(score(mm.Precision), 7) +
				pad(score(mm.Recall), 7) + pad(score(mm.F1), 7) +
				pad(score(tm), 7) + formatLatency(mm.LatencyMs)
		}

		style := m.theme.TableRow
		if i == 0 {
			style = m.theme.TableBestRow
		}
		if i == m.selected {
			style = style.Background(styles.SelectionBg)
		}
		rows = append(rows, style.Render(row))
	}
	return strings.Join(rows, "\n")
}

// =============================================================================
// BARS
// =============================================================================

// renderBars draws one horizontal F1 bar per model, in rank order.
func (m Model) renderBars() string {
	barMax := m.width - 24
	if barMax > 40 {
		barMax = 40
	}
	if barMax < 10 {
		barMax = 10
	}

	lines := make([]string, 0, len(m.ranked)+1)
	lines = append(lines, m.theme.ChartTitle.Render("F1 score"))
	for _, mm := range m.ranked {
		filled := int(mm.F1*float64(barMax) + 0.5)
		if filled > barMax {
			filled = barMax
		}
		bar := m.theme.BarFill.Render(strings.Repeat("#", filled)) +
			m.theme.BarEmpty.Render(strings.Repeat("-", barMax-filled))
		label := m.theme.BarLabel.Render(pad(mm.Name, 13))
		lines = append(lines, label+bar+" "+m.theme.ChartValue.Render(score(mm.F1)))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// TARGET BREAKDOWN
// =============================================================================

// renderTargets shows the selected model's TM-score on each benchmark
// target.
func (m Model) renderTargets() string {
	name := m.SelectedModel()
	idx := m.dataset.ModelIndex(name)

	lines := make([]string, 0, len(m.dataset.Targets)+1)
	lines = append(lines, m.theme.ChartTitle.Render("Targets - "+name))

	descWidth := m.width - 32
	if descWidth < 10 {
		descWidth = 10
	}
	for _, t := range m.dataset.Targets {
		if idx < 0 || idx >= len(t.Scores) {
			continue
		}
		v := t.Scores[idx]
		filled := int(v*10 + 0.5)
		if filled > 10 {
			filled = 10
		}
		bar := m.theme.BarFill.Render(strings.Repeat("#", filled)) +
			m.theme.BarEmpty.Render(strings.Repeat("-", 10-filled))
		lines = append(lines,
			pad(t.Target, 7)+
				m.theme.ChartAxis.Render(pad(util.TruncateWidth(t.Description, descWidth), descWidth+2))+
				bar+" "+m.theme.ChartValue.Render(score(v)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHints() string {
	return m.theme.ChartAxis.Render("j/k select model   /export saves the HTML report")
}

// =============================================================================
// FORMATTING
// =============================================================================

func pad(s string, width int) string {
	return util.PadRight(util.TruncateWidth(s, width-1), width)
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// formatLatency renders a benchmark latency for the table.
func formatLatency(ms int) string {
	switch {
	case ms < 1000:
		return strconv.Itoa(ms) + "ms"
	case ms < 60000:
		return strconv.FormatFloat(float64(ms)/1000, 'f', 1, 64) + "s"
	default:
		mins := ms / 60000
		secs := (ms % 60000) / 1000
		return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
	}
}
