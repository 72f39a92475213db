// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the molesim TUI.
package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinner - Simple line rotation
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Classic three-dot animation
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// PulseSpinner - Pulsing indicator
var PulseSpinner = SpinnerConfig{
	Frames: []string{"( )", "(.)", "(o)", "(O)", "(o)", "(.)", "( )", "   "},
	FPS:    8,
}

// MoleculeSpinner - Orbiting atom (ASCII-safe)
var MoleculeSpinner = SpinnerConfig{
	Frames: []string{"(o )", "( o)", "(. )", "( .)"},
	FPS:    6,
}

// ProgressSpinner - Progress dots for long fetches
var ProgressSpinner = SpinnerConfig{
	Frames: []string{"[    ]", "[=   ]", "[==  ]", "[=== ]", "[====]", "[ ===]", "[  ==]", "[   =]"},
	FPS:    4,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame to display at tick t.
func (s SpinnerConfig) Frame(t int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if t < 0 {
		t = -t
	}
	return s.Frames[t%len(s.Frames)]
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

// ProgressBar characters, ASCII only.
var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+", "#", "#", "#", "#"}
)

// RenderProgressBar creates a progress bar string.
// width: total width of the bar in characters
// percent: 0-100 percentage complete
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filledWidth := float64(width) * percent / 100
	fullBlocks := int(filledWidth)
	partialIndex := int((filledWidth - float64(fullBlocks)) * float64(len(ProgressPartial)))

	var sb strings.Builder
	sb.Grow(width)

	for i := 0; i < fullBlocks && i < width; i++ {
		sb.WriteString(ProgressFull)
	}

	if fullBlocks < width && partialIndex > 0 {
		sb.WriteString(ProgressPartial[partialIndex-1])
		fullBlocks++
	}

	for i := fullBlocks; i < width; i++ {
		sb.WriteString(ProgressEmpty)
	}

	return sb.String()
}

// =============================================================================
// SPARKLINES
// =============================================================================

// SparkRamp is the intensity ramp for chart sparklines, lowest to highest.
// ASCII only, like the rest of the animation set.
var SparkRamp = []string{"_", ".", ":", "-", "=", "+", "*", "#", "%", "@"}

// RenderSparkline maps a series of values onto the spark ramp. Values are
// scaled to the min/max of the series; a flat series renders at mid-ramp.
// When the series is longer than width only the most recent points show.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(values))
	span := max - min
	for _, v := range values {
		idx := len(SparkRamp) / 2
		if span > 0 {
			idx = int((v - min) / span * float64(len(SparkRamp)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(SparkRamp) {
			idx = len(SparkRamp) - 1
		}
		sb.WriteString(SparkRamp[idx])
	}
	return sb.String()
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// AnimationStatusIndicators for various states (ASCII-only for compatibility).
// StatusIndicators in colors.go provides the primary shape indicators.
var AnimationStatusIndicators = struct {
	Success   string
	Error     string
	Warning   string
	Info      string
	Loading   string
	Paused    string
	Connected string
	Offline   string
}{
	Success:   "[OK]",
	Error:     "[X]",
	Warning:   "[!]",
	Info:      "[i]",
	Loading:   "[.]",
	Paused:    "||",
	Connected: "(+)",
	Offline:   "(-)",
}

// =============================================================================
// TREE CONNECTORS
// =============================================================================

// TreeChars for rendering tree structures (like project listings).
var TreeChars = struct {
	Pipe   string
	Tee    string
	Corner string
	Dash   string
}{
	Pipe:   "|",
	Tee:    "+",
	Corner: "`",
	Dash:   "-",
}

// RenderTreeLine creates a tree line prefix.
// isLast: true if this is the last item in the list
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Corner + TreeChars.Dash + " "
	}
	return TreeChars.Tee + TreeChars.Dash + " "
}
