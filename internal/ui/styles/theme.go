// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the molesim TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderProject  lipgloss.Style

	// ==========================================================================
	// PANEL FRAME STYLES
	// ==========================================================================

	Panel             lipgloss.Style
	PanelFocused      lipgloss.Style
	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StageIdle    lipgloss.Style
	StageRunning lipgloss.Style
	StageDone    lipgloss.Style
	ModeOnline   lipgloss.Style
	ModeOffline  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// COMPLETION POPUP STYLES
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionMatch    lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ThinkingTime lipgloss.Style

	// ==========================================================================
	// VIEWER STYLES
	// ==========================================================================

	ViewerHeader lipgloss.Style
	ViewerMeta   lipgloss.Style
	ViewerFooter lipgloss.Style
	ViewerEmpty  lipgloss.Style

	// ==========================================================================
	// ANALYSIS CHART STYLES
	// ==========================================================================

	ChartTitle  lipgloss.Style
	ChartValue  lipgloss.Style
	ChartAxis   lipgloss.Style
	ChartRMSD   lipgloss.Style
	ChartEnergy lipgloss.Style
	ChartTemp   lipgloss.Style
	LogLine     lipgloss.Style

	// ==========================================================================
	// EVALUATION TABLE STYLES
	// ==========================================================================

	TableHeader  lipgloss.Style
	TableRow     lipgloss.Style
	TableBestRow lipgloss.Style
	BarFill      lipgloss.Style
	BarEmpty     lipgloss.Style
	BarLabel     lipgloss.Style

	// ==========================================================================
	// PROJECT SIDEBAR STYLES
	// ==========================================================================

	ProjectList         lipgloss.Style
	ProjectItem         lipgloss.Style
	ProjectItemActive   lipgloss.Style
	ProjectItemSelected lipgloss.Style
	ProjectMeta         lipgloss.Style

	// ==========================================================================
	// LANDING SCREEN STYLES
	// ==========================================================================

	LandingBox     lipgloss.Style
	LandingLogo    lipgloss.Style
	LandingTagline lipgloss.Style
	LandingInfo    lipgloss.Style
	LandingKey     lipgloss.Style
	LandingHint    lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style

	// ==========================================================================
	// STATUS INDICATOR STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderProject = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	// Panel frames
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(FocusRing).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true)

	t.PanelTitleFocused = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StageIdle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StageRunning = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.StageDone = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ModeOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ModeOffline = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Completion popup
	t.CompletionPopup = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CompletionSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true)

	t.CompletionMatch = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ThinkingTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Viewer
	t.ViewerHeader = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ViewerMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ViewerFooter = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ViewerEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center)

	// Analysis charts
	t.ChartTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.ChartValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.ChartAxis = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ChartRMSD = lipgloss.NewStyle().
		Foreground(SeriesRMSD)

	t.ChartEnergy = lipgloss.NewStyle().
		Foreground(SeriesEnergy)

	t.ChartTemp = lipgloss.NewStyle().
		Foreground(SeriesTemperature)

	t.LogLine = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Evaluation table
	t.TableHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TableBestRow = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.BarFill = lipgloss.NewStyle().
		Foreground(Purple)

	t.BarEmpty = lipgloss.NewStyle().
		Foreground(OverlayDim)

	t.BarLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Project sidebar
	t.ProjectList = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ProjectItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ProjectItemActive = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true).
		Padding(0, 1)

	t.ProjectItemSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.ProjectMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Landing screen
	t.LandingBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.LandingLogo = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.LandingTagline = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.LandingInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LandingKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.LandingHint = lipgloss.NewStyle().
		Foreground(Purple).
		Blink(true)

	// Toasts
	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(CyanDeep).
		Padding(0, 2)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(EmeraldDeep).
		Padding(0, 2)

	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(RoseDeep).
		Padding(0, 2)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	// Status indicators
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
