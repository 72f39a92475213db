// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package intent turns free-text chat input into structured workbench
// commands, via the hosted language model when configured and a rule-based
// fallback when not.
package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// COMMAND TYPES
// =============================================================================

// CommandType enumerates every command the workbench dispatches.
type CommandType string

const (
	CommandLoadStructure     CommandType = "load_structure"
	CommandPredictStructure  CommandType = "predict_structure"
	CommandSetRepresentation CommandType = "set_representation"
	CommandSetColor          CommandType = "set_color"
	CommandSetSpin           CommandType = "set_spin"
	CommandRunSimulation     CommandType = "run_simulation"
	CommandStopSimulation    CommandType = "stop_simulation"
	CommandShowViewer        CommandType = "show_viewer"
	CommandShowAnalysis      CommandType = "show_analysis"
	CommandShowEvaluation    CommandType = "show_evaluation"
	CommandExportReport      CommandType = "export_report"
	CommandNewProject        CommandType = "new_project"
	CommandOpenProject       CommandType = "open_project"
	CommandDeleteProject     CommandType = "delete_project"
	CommandListProjects      CommandType = "list_projects"
	CommandHelp              CommandType = "help"
	CommandChat              CommandType = "chat"
)

// validTypes is the set of recognized command types.
var validTypes = map[CommandType]bool{
	CommandLoadStructure:     true,
	CommandPredictStructure:  true,
	CommandSetRepresentation: true,
	CommandSetColor:          true,
	CommandSetSpin:           true,
	CommandRunSimulation:     true,
	CommandStopSimulation:    true,
	CommandShowViewer:        true,
	CommandShowAnalysis:      true,
	CommandShowEvaluation:    true,
	CommandExportReport:      true,
	CommandNewProject:        true,
	CommandOpenProject:       true,
	CommandDeleteProject:     true,
	CommandListProjects:      true,
	CommandHelp:              true,
	CommandChat:              true,
}

// Valid reports whether the command type is recognized.
func (t CommandType) Valid() bool {
	return validTypes[t]
}

// Command is the structured result of parsing one chat input: an
// enumerated type, optional parameters, and an explanation shown to the
// user.
type Command struct {
	Type        CommandType       `json:"command"`
	Params      map[string]string `json:"params,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
}

// Param returns a named parameter, checking aliases in order.
func (c Command) Param(names ...string) string {
	for _, n := range names {
		if v, ok := c.Params[n]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// JSON renders the command object for the /inspect view.
func (c Command) JSON() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// =============================================================================
// VOCABULARIES
// =============================================================================

// Representation styles the viewer accepts.
const (
	RepCartoon   = "cartoon"
	RepBallStick = "ball+stick"
	RepSurface   = "surface"
	RepSpacefill = "spacefill"
	RepLicorice  = "licorice"
)

// Representations lists the canonical representation styles.
var Representations = []string{RepCartoon, RepBallStick, RepSurface, RepSpacefill, RepLicorice}

// repAliases maps loose names to canonical representation styles.
var repAliases = map[string]string{
	"cartoon":        RepCartoon,
	"ribbon":         RepCartoon,
	"ribbons":        RepCartoon,
	"ball+stick":     RepBallStick,
	"ball-and-stick": RepBallStick,
	"ball and stick": RepBallStick,
	"ballstick":      RepBallStick,
	"surface":        RepSurface,
	"spacefill":      RepSpacefill,
	"space-fill":     RepSpacefill,
	"spheres":        RepSpacefill,
	"cpk":            RepSpacefill,
	"vdw":            RepSpacefill,
	"licorice":       RepLicorice,
	"sticks":         RepLicorice,
	"stick":          RepLicorice,
}

// NormalizeRepresentation maps a loose style name to its canonical form.
func NormalizeRepresentation(s string) (string, bool) {
	canon, ok := repAliases[strings.ToLower(strings.TrimSpace(s))]
	return canon, ok
}

// Color schemes the viewer accepts.
const (
	ColorChain   = "chain"
	ColorElement = "element"
	ColorResidue = "residue"
	ColorBFactor = "bfactor"
)

// ColorSchemes lists the canonical color schemes.
var ColorSchemes = []string{ColorChain, ColorElement, ColorResidue, ColorBFactor}

// colorAliases maps loose names to canonical color schemes.
var colorAliases = map[string]string{
	"chain":       ColorChain,
	"chainname":   ColorChain,
	"chains":      ColorChain,
	"by chain":    ColorChain,
	"element":     ColorElement,
	"atom":        ColorElement,
	"atoms":       ColorElement,
	"residue":     ColorResidue,
	"residues":    ColorResidue,
	"amino acid":  ColorResidue,
	"bfactor":     ColorBFactor,
	"b-factor":    ColorBFactor,
	"temperature": ColorBFactor,
	"plddt":       ColorBFactor,
}

// NormalizeColorScheme maps a loose scheme name to its canonical form.
func NormalizeColorScheme(s string) (string, bool) {
	canon, ok := colorAliases[strings.ToLower(strings.TrimSpace(s))]
	return canon, ok
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// ErrUnknownCommand indicates the model produced a type outside the enum.
var ErrUnknownCommand = errors.New("unknown command type")

// Normalize validates the command type and canonicalizes its parameters.
// Representation and color values are mapped through their alias tables;
// boolean-ish spin values collapse to "on"/"off".
func Normalize(cmd Command) (Command, error) {
	if !cmd.Type.Valid() {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	switch cmd.Type {
	case CommandSetRepresentation:
		style := cmd.Param("style", "representation", "rep")
		canon, ok := NormalizeRepresentation(style)
		if !ok {
			return Command{}, fmt.Errorf("unknown representation %q", style)
		}
		cmd.Params = map[string]string{"style": canon}

	case CommandSetColor:
		scheme := cmd.Param("scheme", "color", "colour")
		canon, ok := NormalizeColorScheme(scheme)
		if !ok {
			return Command{}, fmt.Errorf("unknown color scheme %q", scheme)
		}
		cmd.Params = map[string]string{"scheme": canon}

	case CommandSetSpin:
		cmd.Params = map[string]string{"enabled": normalizeToggle(cmd.Param("enabled", "spin", "state"))}

	case CommandLoadStructure:
		id := cmd.Param("structure_id", "id", "pdb_id")
		if id == "" {
			return Command{}, errors.New("load_structure requires a structure_id")
		}
		cmd.Params = map[string]string{"structure_id": strings.ToUpper(id)}

	case CommandPredictStructure:
		cmd.Params = map[string]string{"sequence": cmd.Param("sequence", "seq")}

	case CommandNewProject, CommandOpenProject, CommandDeleteProject:
		cmd.Params = map[string]string{"name": cmd.Param("name", "project", "id")}
	}

	return cmd, nil
}

// normalizeToggle collapses boolean-ish strings to "on"/"off".
// Unrecognized values read as "on" since the command itself expressed
// intent to spin.
func normalizeToggle(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "false", "no", "stop", "0":
		return "off"
	default:
		return "on"
	}
}
