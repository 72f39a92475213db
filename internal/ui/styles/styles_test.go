// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"LineSpinner", LineSpinner},
		{"DotsSpinner", DotsSpinner},
		{"PulseSpinner", PulseSpinner},
		{"MoleculeSpinner", MoleculeSpinner},
		{"ProgressSpinner", ProgressSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	config := SpinnerConfig{FPS: 10}
	if got := config.Duration(); got != time.Second/10 {
		t.Errorf("Duration() = %v, want %v", got, time.Second/10)
	}
}

func TestSpinnerFrame(t *testing.T) {
	if got := LineSpinner.Frame(0); got != "|" {
		t.Errorf("Frame(0) = %q", got)
	}
	if got := LineSpinner.Frame(4); got != "|" {
		t.Errorf("Frame(4) should wrap, got %q", got)
	}
	if got := LineSpinner.Frame(-1); got == "" {
		t.Error("negative tick should still yield a frame")
	}
	empty := SpinnerConfig{}
	if got := empty.Frame(3); got != "" {
		t.Errorf("empty spinner Frame = %q", got)
	}
}

func TestSpinnersAreASCII(t *testing.T) {
	spinners := []SpinnerConfig{LineSpinner, DotsSpinner, PulseSpinner, MoleculeSpinner, ProgressSpinner}
	for _, s := range spinners {
		for _, frame := range s.Frames {
			for _, r := range frame {
				if r > 127 {
					t.Errorf("frame %q contains non-ASCII rune %q", frame, r)
				}
			}
		}
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		width   int
		percent float64
	}{
		{10, 0.0},
		{10, 25.0},
		{10, 50.0},
		{10, 100.0},
		{20, 75.0},
	}

	for _, tc := range tests {
		bar := RenderProgressBar(tc.width, tc.percent)
		if len([]rune(bar)) != tc.width {
			t.Errorf("RenderProgressBar(%d, %.0f) width = %d, want %d",
				tc.width, tc.percent, len([]rune(bar)), tc.width)
		}
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	full := RenderProgressBar(10, 150)
	if full != strings.Repeat(ProgressFull, 10) {
		t.Errorf("over-100 percent should render full: %q", full)
	}
	empty := RenderProgressBar(10, -5)
	if empty != strings.Repeat(ProgressEmpty, 10) {
		t.Errorf("negative percent should render empty: %q", empty)
	}
	if RenderProgressBar(0, 50) != "" {
		t.Error("zero width should render nothing")
	}
}

// =============================================================================
// SPARKLINE TESTS
// =============================================================================

func TestRenderSparkline(t *testing.T) {
	line := RenderSparkline([]float64{0, 1, 2, 3, 4}, 10)
	if len(line) != 5 {
		t.Fatalf("sparkline length = %d, want 5", len(line))
	}
	if string(line[0]) != SparkRamp[0] {
		t.Errorf("lowest value should map to bottom of ramp, got %q", line[0])
	}
	if string(line[4]) != SparkRamp[len(SparkRamp)-1] {
		t.Errorf("highest value should map to top of ramp, got %q", line[4])
	}
}

func TestRenderSparklineFlatSeries(t *testing.T) {
	line := RenderSparkline([]float64{2.5, 2.5, 2.5}, 10)
	mid := SparkRamp[len(SparkRamp)/2]
	if line != strings.Repeat(mid, 3) {
		t.Errorf("flat series should render mid-ramp: %q", line)
	}
}

func TestRenderSparklineTruncatesToWidth(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}
	line := RenderSparkline(values, 20)
	if len(line) != 20 {
		t.Errorf("sparkline length = %d, want 20", len(line))
	}
	// Most recent points survive, so the last rune is the ramp top.
	if string(line[len(line)-1]) != SparkRamp[len(SparkRamp)-1] {
		t.Errorf("last point should be ramp top, got %q", line[len(line)-1])
	}
}

func TestRenderSparklineEmpty(t *testing.T) {
	if RenderSparkline(nil, 10) != "" {
		t.Error("nil series should render nothing")
	}
	if RenderSparkline([]float64{1}, 0) != "" {
		t.Error("zero width should render nothing")
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
}

func TestThemeLayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	for _, tc := range tests {
		theme.SetSize(tc.width, 40)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tc.width, got, tc.want)
		}
	}
}

// =============================================================================
// COLOR TESTS
// =============================================================================

func TestElementColor(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"C", ElementCarbon.Dark},
		{"N", ElementNitrogen.Dark},
		{"O", ElementOxygen.Dark},
		{"S", ElementSulfur.Dark},
		{"P", ElementPhosphorus.Dark},
		{"H", ElementHydrogen.Dark},
		{"FE", ElementOther.Dark},
		{"", ElementOther.Dark},
	}

	for _, tc := range tests {
		if got := ElementColor(tc.symbol); got.Dark != tc.want {
			t.Errorf("ElementColor(%q).Dark = %q, want %q", tc.symbol, got.Dark, tc.want)
		}
	}
}

func TestChainColorCycles(t *testing.T) {
	first := ChainColor(0)
	wrapped := ChainColor(len(ChainPalette))
	if first.Dark != wrapped.Dark {
		t.Error("chain palette should wrap around")
	}
	// Negative indexes must not panic.
	_ = ChainColor(-3)
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}
	for _, ind := range indicators {
		if ind == "" {
			t.Error("indicator should not be empty")
		}
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune", ind)
			}
		}
	}
}

func TestRenderStatus(t *testing.T) {
	success := RenderStatus(true, "saved")
	if !strings.Contains(success, StatusIndicators.Success) {
		t.Errorf("success render missing indicator: %q", success)
	}
	failure := RenderStatus(false, "failed")
	if !strings.Contains(failure, StatusIndicators.Error) {
		t.Errorf("failure render missing indicator: %q", failure)
	}
}

func TestRenderTreeLine(t *testing.T) {
	if got := RenderTreeLine(false); got != "+- " {
		t.Errorf("RenderTreeLine(false) = %q", got)
	}
	if got := RenderTreeLine(true); got != "`- " {
		t.Errorf("RenderTreeLine(true) = %q", got)
	}
}
