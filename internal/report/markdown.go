// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"strings"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders the report as GitHub-flavored Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a report to Markdown.
func (e *MarkdownExporter) Export(rep *Report) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("report is nil")
	}
	if len(rep.Data.Models) == 0 {
		return nil, fmt.Errorf("report has no model metrics")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", rep.Title))

	if rep.Project != "" {
		sb.WriteString(fmt.Sprintf("> **Project:** %s  \n", rep.Project))
	}
	if rep.Structure != "" {
		sb.WriteString(fmt.Sprintf("> **Structure:** %s  \n", rep.Structure))
	}
	if rep.Stage != "" {
		sb.WriteString(fmt.Sprintf("> **Simulation:** %s  \n", rep.Stage))
	}
	sb.WriteString(fmt.Sprintf("> **Generated:** %s  \n", formatTimestamp(rep.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("> **Models:** %d\n\n", len(rep.Data.Models)))

	sb.WriteString("---\n\n")

	sb.WriteString("## Leaderboard\n\n")
	sb.WriteString("| # | Model | Version | Accuracy | Precision | Recall | F1 | Latency |\n")
	sb.WriteString("|---|-------|---------|----------|-----------|--------|----|---------|\n")
	for i, m := range rep.Data.Ranked() {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			i+1, m.Name, m.Version,
			formatScore(m.Accuracy), formatScore(m.Precision), formatScore(m.Recall),
			formatScore(m.F1), formatLatency(m.LatencyMs)))
	}
	sb.WriteString("\n")

	sb.WriteString("## F1 Comparison\n\n")
	sb.WriteString("```\n")
	for _, m := range rep.Data.Ranked() {
		sb.WriteString(fmt.Sprintf("%-14s %s %s\n", m.Name, textBar(m.F1, 40), formatScore(m.F1)))
	}
	sb.WriteString("```\n\n")

	if len(rep.Data.Targets) > 0 {
		sb.WriteString("## Per-Target TM-Scores\n\n")
		sb.WriteString("| Target | Description |")
		for _, m := range rep.Data.Models {
			sb.WriteString(fmt.Sprintf(" %s |", m.Name))
		}
		sb.WriteString("\n|--------|-------------|")
		for range rep.Data.Models {
			sb.WriteString("---|")
		}
		sb.WriteString("\n")

		for _, target := range rep.Data.Targets {
			best := -1.0
			for _, s := range target.Scores {
				if s > best {
					best = s
				}
			}
			sb.WriteString(fmt.Sprintf("| %s | %s |", target.Target, target.Description))
			for _, s := range target.Scores {
				cell := formatScore(s)
				if s == best {
					cell = "**" + cell + "**"
				}
				sb.WriteString(fmt.Sprintf(" %s |", cell))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from molesim on %s*\n",
		rep.GeneratedAt.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// textBar renders a 0..1 value as a fixed-width block bar.
func textBar(value float64, width int) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
