// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a standalone HTML report with embedded CSS. The
// stylesheet includes print rules so the browser's print-to-PDF path
// produces a clean document.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a report to HTML.
func (e *HTMLExporter) Export(rep *Report) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("report is nil")
	}
	if len(rep.Data.Models) == 0 {
		return nil, fmt.Errorf("report has no model metrics")
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(rep.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"molesim\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", rep.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString(e.renderHeader(rep))

	sb.WriteString("        <main class=\"report\">\n")
	sb.WriteString(e.renderLeaderboard(rep))
	sb.WriteString(e.renderBars(rep))
	sb.WriteString(e.renderTargets(rep))
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>molesim</strong> on %s</p>\n",
		rep.GeneratedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")

	sb.WriteString("    </div>\n")
	sb.WriteString(e.getScript())
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// renderHeader renders the title block with run metadata.
func (e *HTMLExporter) renderHeader(rep *Report) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(rep.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	if rep.Project != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Project:</strong> %s</span>\n", html.EscapeString(rep.Project)))
	}
	if rep.Structure != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Structure:</strong> %s</span>\n", html.EscapeString(rep.Structure)))
	}
	if rep.Stage != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Simulation:</strong> %s</span>\n", html.EscapeString(rep.Stage)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Generated:</strong> %s</span>\n", formatTimestamp(rep.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Models:</strong> %d</span>\n", len(rep.Data.Models)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Toggle theme\">[Theme]</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

// renderLeaderboard renders the ranked model table.
func (e *HTMLExporter) renderLeaderboard(rep *Report) string {
	var sb strings.Builder

	sb.WriteString("            <section class=\"section\">\n")
	sb.WriteString("                <h2>Leaderboard</h2>\n")
	sb.WriteString("                <table class=\"metrics-table\">\n")
	sb.WriteString("                    <thead><tr><th>#</th><th>Model</th><th>Version</th><th>Accuracy</th><th>Precision</th><th>Recall</th><th>F1</th><th>Latency</th></tr></thead>\n")
	sb.WriteString("                    <tbody>\n")

	for i, m := range rep.Data.Ranked() {
		rowClass := ""
		if i == 0 {
			rowClass = " class=\"best-row\""
		}
		sb.WriteString(fmt.Sprintf("                        <tr%s><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			rowClass, i+1,
			html.EscapeString(m.Name), html.EscapeString(m.Version),
			formatScore(m.Accuracy), formatScore(m.Precision), formatScore(m.Recall),
			formatScore(m.F1), formatLatency(m.LatencyMs)))
	}

	sb.WriteString("                    </tbody>\n")
	sb.WriteString("                </table>\n")
	sb.WriteString("            </section>\n")

	return sb.String()
}

// renderBars renders the F1 comparison as horizontal bars.
func (e *HTMLExporter) renderBars(rep *Report) string {
	var sb strings.Builder

	sb.WriteString("            <section class=\"section\">\n")
	sb.WriteString("                <h2>F1 Comparison</h2>\n")
	sb.WriteString("                <div class=\"bars\">\n")

	for _, m := range rep.Data.Ranked() {
		width := m.F1 * 100
		sb.WriteString("                    <div class=\"bar-row\">\n")
		sb.WriteString(fmt.Sprintf("                        <span class=\"bar-label\">%s</span>\n", html.EscapeString(m.Name)))
		sb.WriteString(fmt.Sprintf("                        <div class=\"bar-track\"><div class=\"bar-fill\" style=\"width: %.1f%%\"></div></div>\n", width))
		sb.WriteString(fmt.Sprintf("                        <span class=\"bar-value\">%s</span>\n", formatScore(m.F1)))
		sb.WriteString("                    </div>\n")
	}

	sb.WriteString("                </div>\n")
	sb.WriteString("            </section>\n")

	return sb.String()
}

// renderTargets renders the per-target TM-score table. The best score in
// each row is highlighted.
func (e *HTMLExporter) renderTargets(rep *Report) string {
	if len(rep.Data.Targets) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("            <section class=\"section\">\n")
	sb.WriteString("                <h2>Per-Target TM-Scores</h2>\n")
	sb.WriteString("                <table class=\"metrics-table\">\n")
	sb.WriteString("                    <thead><tr><th>Target</th><th>Description</th>")
	for _, m := range rep.Data.Models {
		sb.WriteString(fmt.Sprintf("<th>%s</th>", html.EscapeString(m.Name)))
	}
	sb.WriteString("</tr></thead>\n")
	sb.WriteString("                    <tbody>\n")

	for _, target := range rep.Data.Targets {
		best := -1.0
		for _, s := range target.Scores {
			if s > best {
				best = s
			}
		}

		sb.WriteString(fmt.Sprintf("                        <tr><td>%s</td><td>%s</td>",
			html.EscapeString(target.Target), html.EscapeString(target.Description)))
		for _, s := range target.Scores {
			cell := formatScore(s)
			if s == best {
				sb.WriteString(fmt.Sprintf("<td class=\"best\">%s</td>", cell))
			} else {
				sb.WriteString(fmt.Sprintf("<td>%s</td>", cell))
			}
		}
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("                    </tbody>\n")
	sb.WriteString("                </table>\n")
	sb.WriteString("            </section>\n")

	return sb.String()
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded stylesheet, including print rules.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        /* Dark theme (default) */
        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-secondary: #a9b1d6;
            --text-muted: #565f89;
            --border-color: #414868;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-purple: #bb9af7;
            --bar-bg: #1f2335;
        }

        /* Light theme */
        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-secondary: #586069;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --accent-blue: #0366d6;
            --accent-green: #22863a;
            --accent-purple: #6f42c1;
            --bar-bg: #f6f8fa;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
            transition: background 0.3s ease, color 0.3s ease;
        }

        .container {
            max-width: 960px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }

        .header {
            padding: 32px;
            background: var(--bg-tertiary);
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 {
            font-size: 28px;
            font-weight: 700;
            margin-bottom: 16px;
        }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-secondary);
            align-items: center;
        }

        .meta-item {
            display: inline-flex;
            align-items: center;
            gap: 4px;
        }

        .theme-toggle {
            margin-left: auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 6px 12px;
            cursor: pointer;
            color: var(--text-secondary);
            transition: all 0.2s ease;
        }

        .theme-toggle:hover {
            background: var(--bg-primary);
        }

        .report {
            padding: 24px 32px;
        }

        .section {
            margin-bottom: 32px;
        }

        .section h2 {
            font-size: 20px;
            margin-bottom: 16px;
            color: var(--accent-blue);
        }

        .metrics-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 14px;
        }

        .metrics-table th {
            text-align: left;
            padding: 10px 12px;
            background: var(--bg-tertiary);
            color: var(--text-secondary);
            font-weight: 600;
            border-bottom: 2px solid var(--border-color);
        }

        .metrics-table td {
            padding: 10px 12px;
            border-bottom: 1px solid var(--border-color);
            font-family: var(--font-mono);
        }

        .metrics-table td:first-child,
        .metrics-table td:nth-child(2) {
            font-family: var(--font-sans);
        }

        .best-row td {
            color: var(--accent-green);
            font-weight: 600;
        }

        .best {
            color: var(--accent-green);
            font-weight: 600;
        }

        .bars {
            display: flex;
            flex-direction: column;
            gap: 12px;
        }

        .bar-row {
            display: flex;
            align-items: center;
            gap: 12px;
        }

        .bar-label {
            flex: 0 0 120px;
            font-size: 14px;
            text-align: right;
        }

        .bar-track {
            flex: 1;
            height: 18px;
            background: var(--bar-bg);
            border: 1px solid var(--border-color);
            border-radius: 4px;
            overflow: hidden;
        }

        .bar-fill {
            height: 100%;
            background: var(--accent-purple);
        }

        .bar-value {
            flex: 0 0 56px;
            font-family: var(--font-mono);
            font-size: 13px;
            color: var(--text-secondary);
        }

        .footer {
            padding: 20px 32px;
            text-align: center;
            font-size: 14px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        /* Print styles: flatten chrome so print-to-PDF reads cleanly */
        @media print {
            body {
                padding: 0;
                background: #ffffff;
                color: #24292e;
            }

            .container {
                box-shadow: none;
                border-radius: 0;
                background: #ffffff;
            }

            .theme-toggle {
                display: none;
            }

            .section {
                page-break-inside: avoid;
            }

            .bar-fill {
                background: #6f42c1 !important;
                print-color-adjust: exact;
                -webkit-print-color-adjust: exact;
            }
        }

        @media (max-width: 768px) {
            body {
                padding: 10px;
            }

            .header, .report, .footer {
                padding: 16px;
            }

            .bar-label {
                flex-basis: 80px;
            }
        }
    </style>
`
}

// =============================================================================
// EMBEDDED JAVASCRIPT
// =============================================================================

// getScript returns the theme toggle script.
func (e *HTMLExporter) getScript() string {
	return `    <script>
        function toggleTheme() {
            const body = document.body;
            if (body.classList.contains('dark-theme')) {
                body.classList.remove('dark-theme');
                body.classList.add('light-theme');
                localStorage.setItem('theme', 'light');
            } else {
                body.classList.remove('light-theme');
                body.classList.add('dark-theme');
                localStorage.setItem('theme', 'dark');
            }
        }

        document.addEventListener('DOMContentLoaded', function() {
            const savedTheme = localStorage.getItem('theme');
            if (savedTheme) {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(savedTheme + '-theme');
            }
        });
    </script>
`
}
