// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis renders the simulation charts panel.
//
// Three sparkline charts track the trajectory series (RMSD, potential
// energy, temperature) against simulated time, with the latest value and
// the observed range alongside each. Below the charts the panel tails the
// engine's rolling log so a running simulation looks alive.
package analysis

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the analysis panel. It holds a snapshot of the engine state
// rather than the engine itself, so rendering never races the tick loop.
type Model struct {
	points   []sim.DataPoint
	stage    sim.Stage
	progress float64
	running  bool
	logLines []string

	width  int
	height int
	theme  *styles.Theme

	printer *message.Printer
}

// New creates an empty analysis panel.
func New(theme *styles.Theme) Model {
	return Model{
		stage:   sim.StageIdle,
		width:   80,
		height:  24,
		theme:   theme,
		printer: message.NewPrinter(language.English),
	}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Sync copies the engine's current state into the panel.
func (m *Model) Sync(e *sim.Engine) {
	if e == nil {
		return
	}
	m.points = e.Points()
	m.stage = e.Stage()
	m.progress = e.Progress()
	m.running = e.Running()
	m.logLines = e.LogLines()
}

// SetData replaces the trajectory series.
func (m *Model) SetData(points []sim.DataPoint) {
	m.points = points
}

// SetStage updates the stage line.
func (m *Model) SetStage(stage sim.Stage, progress float64, running bool) {
	m.stage = stage
	m.progress = progress
	m.running = running
}

// SetLog replaces the tailed log lines.
func (m *Model) SetLog(lines []string) {
	m.logLines = lines
}

// HasData reports whether any trajectory points have arrived.
func (m *Model) HasData() bool {
	return len(m.points) > 0
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the stage line, the three charts and the log tail.
func (m Model) View() string {
	width := m.width
	if width < 24 {
		width = 24
	}

	if len(m.points) == 0 {
		hint := m.theme.ViewerEmpty.Render(
			"No simulation data yet.\n\n" +
				"Start a run from the chat (\"run a simulation\")\n" +
				"or with the /sim command.")
		return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, hint)
	}

	sections := []string{m.renderStageLine(width)}

	last := m.points[len(m.points)-1]
	sparkWidth := width - 2
	if sparkWidth > 72 {
		sparkWidth = 72
	}

	charts := []chartSpec{
		{
			title:  "RMSD (A)",
			style:  m.theme.ChartRMSD,
			latest: formatRMSD(last.RMSD),
			values: extract(m.points, func(p sim.DataPoint) float64 { return p.RMSD }),
			format: formatRMSD,
		},
		{
			title:  "Energy (kJ/mol)",
			style:  m.theme.ChartEnergy,
			latest: m.formatEnergy(last.Energy),
			values: extract(m.points, func(p sim.DataPoint) float64 { return p.Energy }),
			format: m.formatEnergy,
		},
		{
			title:  "Temperature (K)",
			style:  m.theme.ChartTemp,
			latest: formatTemperature(last.Temperature),
			values: extract(m.points, func(p sim.DataPoint) float64 { return p.Temperature }),
			format: formatTemperature,
		},
	}
	for _, c := range charts {
		sections = append(sections, m.renderChart(c, sparkWidth))
	}

	if tail := m.renderLogTail(width, len(sections)); tail != "" {
		sections = append(sections, tail)
	}

	return strings.Join(sections, "\n\n")
}

// renderStageLine shows where the run is: stage, progress bar and the
// simulated time covered so far.
func (m Model) renderStageLine(width int) string {
	var line string
	switch {
	case m.stage == sim.StageComplete:
		line = m.theme.StageDone.Render(styles.StatusIndicators.Success + " Run complete")
	case m.running:
		bar := styles.RenderProgressBar(12, m.progress*100)
		pct := strconv.Itoa(int(m.progress*100)) + "%"
		line = m.theme.StageRunning.Render(styles.StatusIndicators.Active+" "+m.stage.DisplayName()) +
			"  " + m.theme.ChartAxis.Render("["+bar+"] "+pct)
	default:
		line = m.theme.StageIdle.Render(styles.StatusIndicators.Pending + " " + m.stage.DisplayName())
	}

	span := m.theme.ChartAxis.Render(m.timeSpan())
	gap := width - lipgloss.Width(line) - lipgloss.Width(span)
	if gap < 2 {
		return line
	}
	return line + strings.Repeat(" ", gap) + span
}

// timeSpan describes the simulated time range of the retained points.
func (m Model) timeSpan() string {
	first := m.points[0].Time
	last := m.points[len(m.points)-1].Time
	return "t = " + strconv.FormatFloat(first, 'f', 0, 64) +
		".." + strconv.FormatFloat(last, 'f', 0, 64) + " ps"
}

// =============================================================================
// CHARTS
// =============================================================================

type chartSpec struct {
	title  string
	style  lipgloss.Style
	latest string
	values []float64
	format func(float64) string
}

// renderChart draws one titled sparkline with its observed range.
func (m Model) renderChart(c chartSpec, sparkWidth int) string {
	title := m.theme.ChartTitle.Render(c.title)
	value := m.theme.ChartValue.Render(c.latest)
	head := title + "  " + value

	spark := c.style.Render(styles.RenderSparkline(c.values, sparkWidth))

	lo, hi := seriesRange(c.values)
	axis := m.theme.ChartAxis.Render("min " + c.format(lo) + "   max " + c.format(hi))

	return head + "\n" + spark + "\n" + axis
}

// renderLogTail shows the most recent engine log lines that still fit.
func (m Model) renderLogTail(width, sectionsAbove int) string {
	if len(m.logLines) == 0 {
		return ""
	}

	// Charts take three lines each plus separators; whatever height is
	// left goes to the log.
	used := 1 + (sectionsAbove-1)*4 + 2
	avail := m.height - used - 2
	if avail < 2 {
		return ""
	}
	count := avail
	if count > len(m.logLines) {
		count = len(m.logLines)
	}

	lines := make([]string, 0, count+1)
	lines = append(lines, m.theme.ChartTitle.Render("Engine log"))
	for _, l := range m.logLines[len(m.logLines)-count:] {
		lines = append(lines, m.theme.LogLine.Render(util.TruncateWidth(l, width-1)))
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// SERIES HELPERS
// =============================================================================

func extract(points []sim.DataPoint, sel func(sim.DataPoint) float64) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = sel(p)
	}
	return out
}

func seriesRange(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func formatRMSD(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatEnergy groups thousands so large potentials stay readable.
func (m Model) formatEnergy(v float64) string {
	return m.printer.Sprintf("%.0f", v)
}

func formatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
