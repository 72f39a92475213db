// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/sim"
	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/ui/styles"
)

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastManagerAddAndExpire(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("network unreachable")
	if id == 0 {
		t.Error("AddError should assign a non-zero ID")
	}
	if !m.HasToasts() {
		t.Fatal("manager should have toasts")
	}

	toasts := m.GetToasts()
	if len(toasts) != 1 {
		t.Fatalf("toasts = %d, want 1", len(toasts))
	}
	if toasts[0].Kind != ToastKindError {
		t.Error("kind should be error")
	}
	if toasts[0].Duration != ErrorToastDuration {
		t.Errorf("error duration = %v", toasts[0].Duration)
	}
}

func TestToastManagerNewestFirst(t *testing.T) {
	m := NewToastManager()
	m.AddStatus("first")
	m.AddStatus("second")

	toasts := m.GetToasts()
	if toasts[0].Message != "second" {
		t.Errorf("newest toast should be first, got %q", toasts[0].Message)
	}
}

func TestToastManagerMaxToasts(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 10; i++ {
		m.AddStatus("toast")
	}
	if got := len(m.GetToasts()); got > 5 {
		t.Errorf("toasts = %d, want at most 5", got)
	}
}

func TestToastManagerTickExpires(t *testing.T) {
	m := NewToastManager()
	expired := Toast{
		Message:   "old",
		Kind:      ToastKindStatus,
		CreatedAt: time.Now().Add(-time.Minute),
		Duration:  time.Second,
	}
	m.AddToast(expired)
	m.AddStatus("fresh")

	remaining := m.TickToasts()
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("surviving toast = %q", remaining[0].Message)
	}
}

func TestToastManagerRemove(t *testing.T) {
	m := NewToastManager()
	id := m.AddStatus("bye")
	m.RemoveToast(id)
	if m.HasToasts() {
		t.Error("toast should be removed")
	}
}

func TestRenderToastContainsMessage(t *testing.T) {
	out := RenderToast(NewSuccessToast("Report exported"), 80)
	if !strings.Contains(out, "Report exported") {
		t.Errorf("render missing message: %q", out)
	}
	if !strings.Contains(out, styles.StatusIndicators.Success) {
		t.Error("success toast should carry the success indicator")
	}
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five", 9)
	lines := strings.Split(wrapped, "\n")
	for _, line := range lines {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if wrapText("short", 80) != "short" {
		t.Error("short text should pass through")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Ready"},
		{StatusThinking, "Thinking..."},
		{StatusFetching, "Fetching..."},
		{StatusSimulating, "Simulating..."},
		{StatusError, "Error"},
	}
	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestStatusBarView(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(120)
	bar.SetProject("Lysozyme Run")
	bar.SetStructure("1AKI")
	bar.SetStage(sim.StageProduction, 0.5)
	bar.SetOnline(true)

	out := bar.View()
	for _, want := range []string{"Lysozyme Run", "1AKI", "Production", "ONLINE"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}

func TestStatusBarNarrow(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(50)
	bar.SetOnline(false)

	out := bar.View()
	if !strings.Contains(out, "OFF") {
		t.Errorf("narrow offline bar missing OFF: %q", out)
	}
}

func TestStatusBarIdleStageHidden(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(120)
	bar.SetStage(sim.StageIdle, 0)

	if strings.Contains(bar.View(), "Idle") {
		t.Error("idle stage should not render a stage badge")
	}
}

// =============================================================================
// LANDING TESTS
// =============================================================================

func TestLandingView(t *testing.T) {
	l := NewLanding(styles.NewTheme())
	l.SetVersion("1.0.0")
	l.SetModelName("gemini-1.5-pro")
	l.SetOnline(true)
	l.SetProjectCount(3)
	l.SetSize(100, 40)

	out := l.View()
	for _, want := range []string{"1.0.0", "gemini-1.5-pro", "online", "3", "Press Enter"} {
		if !strings.Contains(out, want) {
			t.Errorf("landing missing %q", want)
		}
	}
}

func TestLandingOffline(t *testing.T) {
	l := NewLanding(styles.NewTheme())
	l.SetSize(100, 40)

	out := l.View()
	if !strings.Contains(out, "offline") {
		t.Error("landing should indicate offline mode")
	}
	if !strings.Contains(out, "not configured") {
		t.Error("landing should show missing model as not configured")
	}
}

func TestLandingFramesSameSize(t *testing.T) {
	height := strings.Count(moleculeFrames[0], "\n")
	for i, frame := range moleculeFrames {
		if strings.Count(frame, "\n") != height {
			t.Errorf("frame %d has different height", i)
		}
		for _, r := range frame {
			if r > 127 {
				t.Errorf("frame %d contains non-ASCII rune %q", i, r)
			}
		}
	}
}

func TestLandingAdvanceWraps(t *testing.T) {
	l := NewLanding(styles.NewTheme())
	l.SetSize(100, 40)
	for i := 0; i < len(moleculeFrames)*2+1; i++ {
		l.Advance()
	}
	// Should render without panicking past the frame count.
	if l.View() == "" {
		t.Error("landing view should not be empty")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "none"},
		{1, "1"},
		{42, "42"},
		{-5, "none"},
	}
	for _, tc := range tests {
		if got := formatCount(tc.n); got != tc.want {
			t.Errorf("formatCount(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinnerLifecycle(t *testing.T) {
	s := NewThinkingSpinner()
	if s.IsActive() {
		t.Error("spinner should start inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}
	if !strings.Contains(s.View(), "Thinking") {
		t.Errorf("spinner view missing message: %q", s.View())
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestFetchSpinnerMessage(t *testing.T) {
	s := NewFetchSpinner("6LU7")
	s.Start()
	if !strings.Contains(s.View(), "Fetching 6LU7") {
		t.Errorf("fetch spinner view = %q", s.View())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{65 * time.Second, "1m 5s"},
		{130 * time.Second, "2m 10s"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

// =============================================================================
// CODE BLOCK TESTS
// =============================================================================

func TestCodeBlockRender(t *testing.T) {
	cb := NewCodeBlock("json", `{"command": "load_structure"}`)
	out := cb.Render()
	if out == "" {
		t.Fatal("code block render should not be empty")
	}
	if !strings.Contains(out, "json") {
		t.Error("code block should show the language badge")
	}
}

func TestHighlightJSONFallback(t *testing.T) {
	// Malformed input must not panic and must return something.
	if HighlightJSON("not-json {]") == "" {
		t.Error("highlight should fall back to input text")
	}
}
