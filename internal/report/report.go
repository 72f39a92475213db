// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report generates evaluation reports for the workbench.
// Supports standalone HTML with a print stylesheet and plain Markdown.
package report

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Nicholasboy71901/https-github.com-Nicholasboy71901-Molesim/internal/eval"
)

// =============================================================================
// REPORT DATA
// =============================================================================

// Report is the material an exporter renders. Project and Structure are
// blank when nothing is loaded.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Project     string
	Structure   string
	Stage       string
	Data        eval.Dataset
}

// New assembles a report around the benchmark snapshot.
func New(project, structure, stage string) *Report {
	title := "Model Evaluation Report"
	if project != "" {
		title = fmt.Sprintf("Model Evaluation Report: %s", project)
	}
	return &Report{
		Title:       title,
		GeneratedAt: time.Now(),
		Project:     project,
		Structure:   structure,
		Stage:       stage,
		Data:        eval.Metrics(),
	}
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for report exporters.
type Exporter interface {
	// Export renders the report and returns the document bytes.
	Export(rep *Report) ([]byte, error)

	// FileExtension returns the output extension (e.g., ".html").
	FileExtension() string

	// MimeType returns the MIME type of the exported format.
	MimeType() string
}

// ForFormat returns the exporter for a config format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch format {
	case "", "html":
		return NewHTMLExporter(opts), nil
	case "markdown":
		return NewMarkdownExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where the file lands. Default: current directory.
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Theme for HTML export ("light" or "dark").
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		OpenAfterExport: true,
		Theme:           "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders the report and writes it to a timestamped file.
// Returns the output path.
func ExportToFile(rep *Report, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(rep)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	stem := "evaluation"
	if rep.Project != "" {
		stem = fmt.Sprintf("evaluation_%s", sanitizeFilename(rep.Project))
	}
	timestamp := rep.GeneratedAt.Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s%s", stem, timestamp, exporter.FileExtension())

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		// Non-fatal, the file was still created.
		_ = openFile(outputPath)
	}

	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "report"
	}
	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatLatency renders model latency for display.
func formatLatency(ms int) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	remaining := int(seconds) % 60
	return fmt.Sprintf("%dm %ds", minutes, remaining)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatScore renders a 0..1 score with three decimals.
func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
