// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewer renders a molecular structure as colored ASCII art.
//
// The renderer is an orthographic projection: atom coordinates are rotated
// about the vertical axis, scaled to fit the character grid, and drawn
// nearest-atom-first so closer atoms occlude farther ones. Terminal cells
// are roughly twice as tall as they are wide, so the vertical scale is
// halved to keep molecules from looking stretched.
//
// Representation styles change which atoms are drawn and with what glyphs;
// color schemes change how atoms map to the theme palette. Both accept the
// canonical names from the intent package.
package viewer

import (
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/intent"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/mol"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/rcsb"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/util"
)

// =============================================================================
// SPIN TICKS
// =============================================================================

// SpinInterval is the delay between rotation frames while spinning.
const SpinInterval = 150 * time.Millisecond

// spinStep is the rotation per frame. A full turn takes 48 frames.
const spinStep = math.Pi / 24

// SpinTickMsg advances the rotation by one frame.
type SpinTickMsg struct {
	Time time.Time
}

// SpinTickCmd schedules the next rotation frame.
func SpinTickCmd() tea.Cmd {
	return tea.Tick(SpinInterval, func(t time.Time) tea.Msg {
		return SpinTickMsg{Time: t}
	})
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the structure viewer panel.
type Model struct {
	structure *mol.Structure
	entry     *rcsb.Entry

	rep       string
	colorMode string
	spin      bool
	angle     float64

	width  int
	height int
	theme  *styles.Theme

	printer *message.Printer
}

// New creates a viewer with the default representation and color scheme.
func New(theme *styles.Theme) Model {
	return Model{
		rep:       intent.RepCartoon,
		colorMode: intent.ColorElement,
		width:     80,
		height:    24,
		theme:     theme,
		printer:   message.NewPrinter(language.English),
	}
}

// SetSize updates the viewer dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStructure replaces the displayed structure and resets the rotation.
func (m *Model) SetStructure(s *mol.Structure) {
	m.structure = s
	m.angle = 0
}

// SetEntry attaches archive metadata shown in the header. May be nil.
func (m *Model) SetEntry(e *rcsb.Entry) {
	m.entry = e
}

// Structure returns the displayed structure, or nil.
func (m *Model) Structure() *mol.Structure {
	return m.structure
}

// Clear removes the displayed structure and metadata.
func (m *Model) Clear() {
	m.structure = nil
	m.entry = nil
	m.spin = false
	m.angle = 0
}

// SetRepresentation switches the drawing style. Unknown names are ignored.
func (m *Model) SetRepresentation(rep string) {
	if canonical, ok := intent.NormalizeRepresentation(rep); ok {
		m.rep = canonical
	}
}

// Representation returns the current drawing style.
func (m *Model) Representation() string {
	return m.rep
}

// SetColorScheme switches the atom coloring. Unknown names are ignored.
func (m *Model) SetColorScheme(scheme string) {
	if canonical, ok := intent.NormalizeColorScheme(scheme); ok {
		m.colorMode = canonical
	}
}

// ColorScheme returns the current coloring mode.
func (m *Model) ColorScheme() string {
	return m.colorMode
}

// SetSpin starts or stops rotation.
func (m *Model) SetSpin(on bool) {
	m.spin = on
}

// Spinning reports whether the viewer is rotating.
func (m *Model) Spinning() bool {
	return m.spin
}

// Advance rotates the model by one frame step.
func (m *Model) Advance() {
	m.angle += spinStep
	if m.angle >= 2*math.Pi {
		m.angle -= 2 * math.Pi
	}
}

// RotateBy rotates the model by an arbitrary angle in radians.
func (m *Model) RotateBy(delta float64) {
	m.angle = math.Mod(m.angle+delta, 2*math.Pi)
	if m.angle < 0 {
		m.angle += 2 * math.Pi
	}
}

// Update handles spin ticks. The tick chain stops on its own when spin is
// turned off or the structure is cleared.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case SpinTickMsg:
		if !m.spin || m.structure == nil {
			return m, nil
		}
		m.Advance()
		return m, SpinTickCmd()
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, canvas and footer.
func (m Model) View() string {
	width := m.width
	height := m.height
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}

	if m.structure == nil || len(m.structure.Atoms) == 0 {
		return m.renderEmpty(width, height)
	}

	header := m.renderHeader(width)
	footer := m.renderFooter(width)

	canvasHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if canvasHeight < 3 {
		canvasHeight = 3
	}
	canvas := m.renderCanvas(width, canvasHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, canvas, footer)
}

func (m Model) renderEmpty(width, height int) string {
	hint := m.theme.ViewerEmpty.Render(
		"No structure loaded.\n\n" +
			"Ask for one in the chat  (\"load 1CRN\")\n" +
			"or use the slash command (/load 6LU7).")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, hint)
}

func (m Model) renderHeader(width int) string {
	id := m.theme.ViewerHeader.Render(m.structure.ID)
	title := util.TruncateWidth(m.structure.Title, width-lipgloss.Width(id)-3)
	line1 := id + "  " + m.theme.ViewerMeta.Render(title)

	meta := m.metaLine()
	if meta == "" {
		return line1
	}
	line2 := m.theme.ViewerMeta.Render(util.TruncateWidth(meta, width-1))
	return line1 + "\n" + line2
}

// metaLine summarizes archive metadata when an entry was fetched, falling
// back to the classification from the structure file header.
func (m Model) metaLine() string {
	if m.entry == nil {
		return m.structure.Classification
	}

	parts := make([]string, 0, 3)
	if m.entry.Method != "" {
		parts = append(parts, m.entry.Method)
	}
	if m.entry.Resolution > 0 {
		parts = append(parts, strconv.FormatFloat(m.entry.Resolution, 'f', 2, 64)+" A")
	}
	if m.entry.Released != "" {
		parts = append(parts, "released "+m.entry.Released)
	}
	if len(parts) == 0 {
		return m.structure.Classification
	}
	return strings.Join(parts, " | ")
}

func (m Model) renderFooter(width int) string {
	s := m.structure

	counts := m.printer.Sprintf("%d atoms", len(s.Atoms))
	counts += "  " + m.printer.Sprintf("%d residues", s.ResidueCount())
	chains := len(s.Chains())
	if chains == 1 {
		counts += "  1 chain"
	} else {
		counts += "  " + strconv.Itoa(chains) + " chains"
	}

	spinState := "spin off"
	if m.spin {
		spinState = "spin on"
	}
	mode := m.rep + " | " + m.colorMode + " | " + spinState

	left := m.theme.ViewerFooter.Render(counts)
	right := m.theme.ViewerFooter.Render(mode)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// =============================================================================
// PROJECTION
// =============================================================================

// cell is one character of the canvas. Depth keeps the nearest atom on top.
type cell struct {
	ch    byte
	color lipgloss.AdaptiveColor
	depth float64
	set   bool
}

// renderCanvas projects the atoms onto a width x height character grid.
func (m Model) renderCanvas(width, height int) string {
	atoms := m.atomsForRep()
	if len(atoms) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			m.theme.ViewerEmpty.Render("Nothing to draw in this representation."))
	}

	center := m.structure.Center()
	sin, cos := math.Sincos(m.angle)

	// Rotation about Y preserves the horizontal radius, so the fit can be
	// computed once from the unrotated coordinates.
	var radiusXZ, radiusY float64
	for _, a := range atoms {
		dx := a.X - center.X
		dy := a.Y - center.Y
		dz := a.Z - center.Z
		if r := math.Hypot(dx, dz); r > radiusXZ {
			radiusXZ = r
		}
		if r := math.Abs(dy); r > radiusY {
			radiusY = r
		}
	}

	scale := math.Inf(1)
	if radiusXZ > 0 {
		scale = (float64(width)/2 - 1) / radiusXZ
	}
	if radiusY > 0 {
		if s := (float64(height) - 1) / radiusY; s < scale {
			scale = s
		}
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	grid := make([]cell, width*height)
	colCenter := float64(width) / 2
	rowCenter := float64(height) / 2

	depthMin, depthMax := math.Inf(1), math.Inf(-1)
	type placed struct {
		idx   int
		atom  mol.Atom
		depth float64
	}
	hits := make([]placed, 0, len(atoms))

	for _, a := range atoms {
		dx := a.X - center.X
		dy := a.Y - center.Y
		dz := a.Z - center.Z

		rx := dx*cos + dz*sin
		rz := -dx*sin + dz*cos

		col := int(colCenter + rx*scale)
		row := int(rowCenter - dy*scale*0.5)
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		hits = append(hits, placed{idx: row*width + col, atom: a, depth: rz})
		if rz < depthMin {
			depthMin = rz
		}
		if rz > depthMax {
			depthMax = rz
		}
	}

	chainIndex := m.chainIndices()
	bMin, bMax := m.structure.BFactorRange()

	for _, h := range hits {
		g := &grid[h.idx]
		if g.set && g.depth >= h.depth {
			continue
		}
		g.set = true
		g.depth = h.depth
		g.ch = m.glyph(h.atom, h.depth, depthMin, depthMax)
		g.color = m.atomColor(h.atom, chainIndex, bMin, bMax)
	}

	return m.paintGrid(grid, width, height)
}

// paintGrid turns the cell grid into styled lines, batching runs of the
// same color to keep the escape-sequence overhead down.
func (m Model) paintGrid(grid []cell, width, height int) string {
	var out strings.Builder
	var run strings.Builder
	var runColor lipgloss.AdaptiveColor

	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
		run.Reset()
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := grid[row*width+col]
			if !c.set {
				flush()
				out.WriteByte(' ')
				continue
			}
			if run.Len() > 0 && c.color != runColor {
				flush()
			}
			runColor = c.color
			run.WriteByte(c.ch)
		}
		flush()
		if row < height-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// =============================================================================
// REPRESENTATIONS
// =============================================================================

// atomsForRep filters the atom list for the active representation.
func (m Model) atomsForRep() []mol.Atom {
	switch m.rep {
	case intent.RepCartoon:
		return m.structure.BackboneAtoms()
	default:
		return m.structure.Atoms
	}
}

// surfaceRamp shades the surface representation by depth, far to near.
var surfaceRamp = []byte{'.', ':', '+', '%', '#'}

// glyph picks the character for an atom under the active representation.
func (m Model) glyph(a mol.Atom, depth, depthMin, depthMax float64) byte {
	switch m.rep {
	case intent.RepCartoon:
		if a.Name == "CA" {
			return 'o'
		}
		return '.'

	case intent.RepSpacefill:
		if a.Element == "H" {
			return 'o'
		}
		return '@'

	case intent.RepLicorice:
		if a.Hetero {
			return '*'
		}
		return '+'

	case intent.RepSurface:
		span := depthMax - depthMin
		if span <= 0 {
			return surfaceRamp[len(surfaceRamp)-1]
		}
		idx := int((depth - depthMin) / span * float64(len(surfaceRamp)))
		if idx >= len(surfaceRamp) {
			idx = len(surfaceRamp) - 1
		}
		return surfaceRamp[idx]

	default: // ball+stick
		if a.Hetero {
			return '*'
		}
		if a.Element == "H" {
			return '.'
		}
		return 'o'
	}
}

// =============================================================================
// COLOR SCHEMES
// =============================================================================

// bfactorRamp runs cold to hot, following the usual temperature-factor
// convention of blue for rigid regions and red for mobile ones.
var bfactorRamp = []lipgloss.AdaptiveColor{
	styles.ElementNitrogen,
	styles.Cyan,
	styles.Emerald,
	styles.Amber,
	styles.Rose,
}

// chainIndices maps each chain ID to its position in sorted order, which
// keeps chain colors stable across frames.
func (m Model) chainIndices() map[string]int {
	idx := make(map[string]int)
	for i, c := range m.structure.Chains() {
		idx[c] = i
	}
	return idx
}

func (m Model) atomColor(a mol.Atom, chainIndex map[string]int, bMin, bMax float64) lipgloss.AdaptiveColor {
	switch m.colorMode {
	case intent.ColorChain:
		return styles.ChainColor(chainIndex[a.Chain])

	case intent.ColorResidue:
		return styles.ChainColor(residueHash(a.Residue))

	case intent.ColorBFactor:
		return bfactorRamp[bfactorBucket(a.BFactor, bMin, bMax)]

	default:
		return styles.ElementColor(a.Element)
	}
}

// residueHash folds a residue name into a palette index.
func residueHash(name string) int {
	h := 0
	for i := 0; i < len(name); i++ {
		h = h*31 + int(name[i])
	}
	if h < 0 {
		h = -h
	}
	return h
}

// bfactorBucket places a temperature factor into one of the ramp's buckets.
func bfactorBucket(b, min, max float64) int {
	span := max - min
	if span <= 0 {
		return 0
	}
	idx := int((b - min) / span * float64(len(bfactorRamp)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(bfactorRamp) {
		idx = len(bfactorRamp) - 1
	}
	return idx
}
