// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// OFFLINE RULE-BASED PARSING
// =============================================================================

var (
	// Accession codes are one digit followed by three alphanumerics.
	accessionRegex = regexp.MustCompile(`\b[0-9][A-Za-z0-9]{3}\b`)

	// Amino acid sequences are long unbroken runs of uppercase residue
	// letters, as typed. Lowercase prose never matches.
	sequenceRegex = regexp.MustCompile(`\b[ACDEFGHIKLMNPQRSTVWY]{10,}\b`)

	// Project names follow "project" in phrases like `new project "lysozyme run"`.
	projectNameRegex = regexp.MustCompile(`(?i)project\s+(?:named\s+|called\s+)?"?([\w][\w .-]*?)"?\s*$`)
)

// ParseOffline interprets a message with keyword rules instead of the
// model. It keeps the workbench usable without an API key.
//
// Matching rules (in order of priority):
//  1. Project verbs ("new project", "delete project", "open project", "projects")
//  2. Load: fetch/load/open/show + an accession code in the text
//  3. Predict: predict/fold, optionally with a residue sequence
//  4. Viewer style and color keywords
//  5. Spin on/off
//  6. Simulation start/stop
//  7. Panel switches (viewer, analysis, evaluation) and report export
//  8. Help
//  9. Everything else degrades to chat
func ParseOffline(text string) Command {
	q := strings.ToLower(strings.TrimSpace(text))

	// Project management first: "open project" must not be swallowed by
	// the load_structure rule below.
	if strings.Contains(q, "project") {
		name := extractProjectName(text)
		switch {
		case containsAny(q, "new ", "create ", "start a", "make "):
			return projectCommand(CommandNewProject, name, "Creating project %q.")
		case containsAny(q, "delete ", "remove ", "drop "):
			return projectCommand(CommandDeleteProject, name, "Deleting project %q.")
		case containsAny(q, "open ", "switch ", "load ", "activate "):
			return projectCommand(CommandOpenProject, name, "Opening project %q.")
		case containsAny(q, "list", "show", "what", "my projects"):
			return Command{Type: CommandListProjects, Explanation: "Listing your projects."}
		}
	}

	// Structure loading needs both a verb and an accession code.
	if id := accessionRegex.FindString(text); id != "" &&
		containsAny(q, "load", "fetch", "open", "show", "pull", "get", "view") {
		id = strings.ToUpper(id)
		return Command{
			Type:        CommandLoadStructure,
			Params:      map[string]string{"structure_id": id},
			Explanation: fmt.Sprintf("Loading %s from the Protein Data Bank.", id),
		}
	}

	if containsAny(q, "predict", "fold") {
		params := map[string]string{"sequence": sequenceRegex.FindString(text)}
		return Command{
			Type:        CommandPredictStructure,
			Params:      params,
			Explanation: "Running structure prediction.",
		}
	}

	// Viewer styling. Longest alias wins so "ball and stick" is not
	// shadowed by "stick".
	if canon, ok := matchAlias(q, repAliases); ok {
		return Command{
			Type:        CommandSetRepresentation,
			Params:      map[string]string{"style": canon},
			Explanation: fmt.Sprintf("Switching the viewer to %s.", canon),
		}
	}
	if containsAny(q, "color", "colour") {
		if canon, ok := matchAlias(q, colorAliases); ok {
			return Command{
				Type:        CommandSetColor,
				Params:      map[string]string{"scheme": canon},
				Explanation: fmt.Sprintf("Coloring by %s.", canon),
			}
		}
	}

	if containsAny(q, "spin", "rotate", "rotation") {
		enabled := "on"
		explanation := "Spinning the structure."
		if containsAny(q, "stop", "off", "don't", "halt", "freeze") {
			enabled = "off"
			explanation = "Stopping the spin."
		}
		return Command{
			Type:        CommandSetSpin,
			Params:      map[string]string{"enabled": enabled},
			Explanation: explanation,
		}
	}

	// Simulation control.
	if containsAny(q, "simulat", "md run", "dynamics", "minimiz", "equilibrat") {
		if containsAny(q, "stop", "halt", "cancel", "abort", "pause") {
			return Command{Type: CommandStopSimulation, Explanation: "Stopping the simulation."}
		}
		return Command{Type: CommandRunSimulation, Explanation: "Starting the simulation run."}
	}

	// Panel switches and export.
	switch {
	case containsAny(q, "analysis", "chart", "plot", "rmsd", "energy", "temperature", "graph"):
		return Command{Type: CommandShowAnalysis, Explanation: "Opening the analysis panel."}
	case containsAny(q, "evaluat", "metric", "benchmark", "leaderboard", "compare models"):
		return Command{Type: CommandShowEvaluation, Explanation: "Opening the evaluation panel."}
	case containsAny(q, "export", "report", "pdf"):
		return Command{Type: CommandExportReport, Explanation: "Exporting the evaluation report."}
	case containsAny(q, "viewer", "structure view", "3d"):
		return Command{Type: CommandShowViewer, Explanation: "Opening the structure viewer."}
	case containsAny(q, "help", "what can you"):
		return Command{Type: CommandHelp, Explanation: "Here is what I can do."}
	}

	return Command{
		Type:        CommandChat,
		Explanation: "I could not map that to an action. Try /help for the command list, or configure an API key for free-form requests.",
	}
}

// containsAny reports whether s contains at least one of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// matchAlias returns the canonical value of the longest alias contained
// in q. Length then lexical order keeps the match deterministic.
func matchAlias(q string, aliases map[string]string) (string, bool) {
	best, canon := "", ""
	for alias, c := range aliases {
		if !strings.Contains(q, alias) {
			continue
		}
		if len(alias) > len(best) || (len(alias) == len(best) && alias < best) {
			best, canon = alias, c
		}
	}
	return canon, best != ""
}

// extractProjectName pulls the name that follows "project" in the text.
func extractProjectName(text string) string {
	if m := projectNameRegex.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// projectCommand builds a project command, degrading to chat when the
// name could not be extracted.
func projectCommand(t CommandType, name, explanationFmt string) Command {
	if name == "" && t != CommandListProjects {
		return Command{
			Type:        CommandChat,
			Explanation: "Which project? Try `" + strings.ReplaceAll(string(t), "_", " ") + " <name>`.",
		}
	}
	return Command{
		Type:        t,
		Params:      map[string]string{"name": name},
		Explanation: fmt.Sprintf(explanationFmt, name),
	}
}
