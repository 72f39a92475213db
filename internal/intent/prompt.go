// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intent

import (
	"fmt"
	"strings"
)

// =============================================================================
// PARSER CONTEXT
// =============================================================================

// Context carries the workbench state the model needs to resolve
// references like "the current structure" or "that project".
type Context struct {
	ActiveStructure   string   // accession code of the loaded structure, "" if none
	ActiveProject     string   // name of the active project, "" if none
	Representation    string   // current viewer style
	ColorScheme       string   // current viewer color scheme
	SpinEnabled       bool     // whether the viewer is spinning
	SimulationRunning bool     // whether the fake run loop is active
	Stage             string   // current simulation stage display name
	ProjectNames      []string // all known project names
}

// describe renders the context as compact key: value lines for the prompt.
func (c Context) describe() string {
	var b strings.Builder
	writeLine := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	writeLine("loaded_structure", c.ActiveStructure)
	writeLine("active_project", c.ActiveProject)
	writeLine("representation", c.Representation)
	writeLine("color_scheme", c.ColorScheme)
	if c.SpinEnabled {
		writeLine("spin", "on")
	}
	if c.SimulationRunning {
		writeLine("simulation", "running ("+c.Stage+")")
	}
	if len(c.ProjectNames) > 0 {
		writeLine("projects", strings.Join(c.ProjectNames, ", "))
	}
	if b.Len() == 0 {
		return "(fresh session, nothing loaded)"
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// INSTRUCTION PROMPT
// =============================================================================

// systemInstructions is the fixed instruction set sent ahead of every
// user message. The model must answer with a single JSON object; prose
// replies are routed through the "chat" command type.
const systemInstructions = `You are the command parser for Molesim, a terminal workbench for
molecular visualization and simulation. Convert the user's message into
exactly one JSON object with this shape:

{"command": "<type>", "params": {...}, "explanation": "<one short sentence>"}

Command types and their params:
  load_structure      {"structure_id": "<4-char PDB accession, e.g. 1CRN>"}
  predict_structure   {"sequence": "<one-letter amino acid sequence>"}
  set_representation  {"style": "cartoon|ball+stick|surface|spacefill|licorice"}
  set_color           {"scheme": "chain|element|residue|bfactor"}
  set_spin            {"enabled": "on|off"}
  run_simulation      {}
  stop_simulation     {}
  show_viewer         {}
  show_analysis       {}
  show_evaluation     {}
  export_report       {}
  new_project         {"name": "<project name>"}
  open_project        {"name": "<existing project name>"}
  delete_project      {"name": "<existing project name>"}
  list_projects       {}
  help                {}
  chat                {}

Rules:
- Answer with the JSON object only. No prose outside it.
- The explanation is shown to the user; write it as a friendly past or
  present tense sentence ("Loading 1CRN from the Protein Data Bank.").
- If the message is conversation, a question, or anything that maps to
  no command, use "chat" and put your reply in the explanation.
- Resolve pronouns against the session state below.`

// buildPrompt assembles instructions, session state, and the user
// message into the single-turn prompt sent to the model.
func buildPrompt(text string, ctx Context) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nSession state:\n")
	b.WriteString(ctx.describe())
	b.WriteString("\n\nUser message:\n")
	b.WriteString(text)
	return b.String()
}
