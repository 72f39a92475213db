// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// REPLY EXTRACTION
// =============================================================================

func TestCommandFromReplyFencedBlock(t *testing.T) {
	reply := "Sure, here you go:\n```json\n{\"command\": \"load_structure\", \"params\": {\"structure_id\": \"1crn\"}, \"explanation\": \"Loading 1CRN.\"}\n```"

	cmd := CommandFromReply(reply)

	if cmd.Type != CommandLoadStructure {
		t.Fatalf("Type = %q, want load_structure", cmd.Type)
	}
	if got := cmd.Params["structure_id"]; got != "1CRN" {
		t.Errorf("structure_id = %q, want 1CRN (uppercased)", got)
	}
	if cmd.Explanation != "Loading 1CRN." {
		t.Errorf("Explanation = %q", cmd.Explanation)
	}
}

func TestCommandFromReplyBareJSON(t *testing.T) {
	reply := `{"command": "run_simulation", "explanation": "Starting the run."}`

	cmd := CommandFromReply(reply)

	if cmd.Type != CommandRunSimulation {
		t.Fatalf("Type = %q, want run_simulation", cmd.Type)
	}
}

func TestCommandFromReplyJSONWithSurroundingProse(t *testing.T) {
	reply := `I think you want the analysis panel. {"command": "show_analysis", "explanation": "Opening analysis."} Let me know!`

	cmd := CommandFromReply(reply)

	if cmd.Type != CommandShowAnalysis {
		t.Fatalf("Type = %q, want show_analysis", cmd.Type)
	}
}

func TestCommandFromReplyNestedBraces(t *testing.T) {
	reply := `{"command": "new_project", "params": {"name": "lysozyme"}, "explanation": "Created."}`

	cmd := CommandFromReply(reply)

	if cmd.Type != CommandNewProject {
		t.Fatalf("Type = %q, want new_project", cmd.Type)
	}
	if cmd.Params["name"] != "lysozyme" {
		t.Errorf("name = %q, want lysozyme", cmd.Params["name"])
	}
}

func TestCommandFromReplyBracesInsideStrings(t *testing.T) {
	reply := `{"command": "chat", "explanation": "Braces like { and } are fine in text."}`

	cmd := CommandFromReply(reply)

	if cmd.Type != CommandChat {
		t.Fatalf("Type = %q, want chat", cmd.Type)
	}
	if !strings.Contains(cmd.Explanation, "{ and }") {
		t.Errorf("Explanation mangled: %q", cmd.Explanation)
	}
}

func TestCommandFromReplyDegradesToChat(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain prose", "Proteins are chains of amino acids."},
		{"malformed json", `{"command": "load_structure", "params": `},
		{"unknown type", `{"command": "launch_rocket", "explanation": "3..2..1"}`},
		{"unknown representation", `{"command": "set_representation", "params": {"style": "wireframe-deluxe"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := CommandFromReply(tt.reply)
			if cmd.Type != CommandChat {
				t.Errorf("Type = %q, want chat", cmd.Type)
			}
			if cmd.Explanation == "" {
				t.Error("chat fallback should carry the reply text")
			}
		})
	}
}

// =============================================================================
// NORMALIZATION
// =============================================================================

func TestNormalizeRepresentationAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ribbon", RepCartoon},
		{"Cartoon", RepCartoon},
		{"ball and stick", RepBallStick},
		{"spheres", RepSpacefill},
		{"CPK", RepSpacefill},
		{"sticks", RepLicorice},
		{"surface", RepSurface},
	}

	for _, tt := range tests {
		canon, ok := NormalizeRepresentation(tt.in)
		if !ok {
			t.Errorf("NormalizeRepresentation(%q) not recognized", tt.in)
			continue
		}
		if canon != tt.want {
			t.Errorf("NormalizeRepresentation(%q) = %q, want %q", tt.in, canon, tt.want)
		}
	}

	if _, ok := NormalizeRepresentation("hologram"); ok {
		t.Error("hologram should not normalize")
	}
}

func TestNormalizeColorSchemeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chainname", ColorChain},
		{"atom", ColorElement},
		{"temperature", ColorBFactor},
		{"b-factor", ColorBFactor},
		{"amino acid", ColorResidue},
	}

	for _, tt := range tests {
		canon, ok := NormalizeColorScheme(tt.in)
		if !ok {
			t.Errorf("NormalizeColorScheme(%q) not recognized", tt.in)
			continue
		}
		if canon != tt.want {
			t.Errorf("NormalizeColorScheme(%q) = %q, want %q", tt.in, canon, tt.want)
		}
	}
}

func TestNormalizeSpinToggle(t *testing.T) {
	on, err := Normalize(Command{Type: CommandSetSpin, Params: map[string]string{"enabled": "true"}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if on.Params["enabled"] != "on" {
		t.Errorf("enabled = %q, want on", on.Params["enabled"])
	}

	off, err := Normalize(Command{Type: CommandSetSpin, Params: map[string]string{"enabled": "false"}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if off.Params["enabled"] != "off" {
		t.Errorf("enabled = %q, want off", off.Params["enabled"])
	}
}

func TestNormalizeLoadRequiresID(t *testing.T) {
	if _, err := Normalize(Command{Type: CommandLoadStructure}); err == nil {
		t.Error("load without structure_id should error")
	}

	cmd, err := Normalize(Command{Type: CommandLoadStructure, Params: map[string]string{"pdb_id": "6lu7"}})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cmd.Params["structure_id"] != "6LU7" {
		t.Errorf("structure_id = %q, want 6LU7", cmd.Params["structure_id"])
	}
}

func TestNormalizeRejectsUnknownType(t *testing.T) {
	_, err := Normalize(Command{Type: "teleport"})
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
}

// =============================================================================
// OFFLINE RULES
// =============================================================================

func TestParseOffline(t *testing.T) {
	tests := []struct {
		text string
		want CommandType
	}{
		{"load 1CRN", CommandLoadStructure},
		{"can you fetch 6lu7 for me", CommandLoadStructure},
		{"show me the structure viewer", CommandShowViewer},
		{"make it a surface", CommandSetRepresentation},
		{"switch to ball and stick", CommandSetRepresentation},
		{"color by element", CommandSetColor},
		{"colour it by chain please", CommandSetColor},
		{"spin the molecule", CommandSetSpin},
		{"stop spinning", CommandSetSpin},
		{"run a simulation", CommandRunSimulation},
		{"start minimization", CommandRunSimulation},
		{"stop the simulation", CommandStopSimulation},
		{"show the rmsd chart", CommandShowAnalysis},
		{"how do the models compare? show metrics", CommandShowEvaluation},
		{"export the report", CommandExportReport},
		{"new project alpha", CommandNewProject},
		{"delete project alpha", CommandDeleteProject},
		{"open project alpha", CommandOpenProject},
		{"list my projects", CommandListProjects},
		{"help", CommandHelp},
		{"tell me a joke", CommandChat},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd := ParseOffline(tt.text)
			if cmd.Type != tt.want {
				t.Errorf("ParseOffline(%q).Type = %q, want %q", tt.text, cmd.Type, tt.want)
			}
			if cmd.Explanation == "" {
				t.Error("every offline command carries an explanation")
			}
		})
	}
}

func TestParseOfflineExtractsAccession(t *testing.T) {
	cmd := ParseOffline("please load 1crn")
	if cmd.Params["structure_id"] != "1CRN" {
		t.Errorf("structure_id = %q, want 1CRN", cmd.Params["structure_id"])
	}
}

func TestParseOfflineExtractsProjectName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"new project alpha", "alpha"},
		{`create a project called "Lysozyme Run"`, "Lysozyme Run"},
		{"delete project old-stuff", "old-stuff"},
	}

	for _, tt := range tests {
		cmd := ParseOffline(tt.text)
		if cmd.Params["name"] != tt.want {
			t.Errorf("ParseOffline(%q) name = %q, want %q", tt.text, cmd.Params["name"], tt.want)
		}
	}
}

func TestParseOfflineProjectWithoutName(t *testing.T) {
	cmd := ParseOffline("delete the project")
	if cmd.Type != CommandChat {
		t.Errorf("Type = %q, want chat when no name given", cmd.Type)
	}
}

func TestParseOfflineExtractsSequence(t *testing.T) {
	cmd := ParseOffline("predict MKTAYIAKQRQISFVKSHFSRQ")
	if cmd.Type != CommandPredictStructure {
		t.Fatalf("Type = %q, want predict_structure", cmd.Type)
	}
	if cmd.Params["sequence"] != "MKTAYIAKQRQISFVKSHFSRQ" {
		t.Errorf("sequence = %q", cmd.Params["sequence"])
	}
}

// =============================================================================
// PARSER
// =============================================================================

// fakeGenerator scripts one reply or error for Parser tests.
type fakeGenerator struct {
	reply      string
	err        error
	configured bool
	prompts    []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func TestParserUsesModelWhenConfigured(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		reply:      `{"command": "set_spin", "params": {"enabled": "on"}, "explanation": "Spinning."}`,
	}
	p := NewParser(gen)

	cmd, err := p.Parse(context.Background(), "give it a spin", Context{ActiveStructure: "1CRN"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != CommandSetSpin {
		t.Fatalf("Type = %q, want set_spin", cmd.Type)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("want 1 generate call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "1CRN") {
		t.Error("prompt should carry the session state")
	}
	if !strings.Contains(gen.prompts[0], "give it a spin") {
		t.Error("prompt should carry the user message")
	}
}

func TestParserPropagatesModelError(t *testing.T) {
	wantErr := errors.New("upstream down")
	p := NewParser(&fakeGenerator{configured: true, err: wantErr})

	_, err := p.Parse(context.Background(), "load 1CRN", Context{})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want passthrough", err)
	}
}

func TestParserFallsBackOffline(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	p := NewParser(gen)

	cmd, err := p.Parse(context.Background(), "load 1CRN", Context{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != CommandLoadStructure {
		t.Errorf("Type = %q, want load_structure via offline rules", cmd.Type)
	}
	if len(gen.prompts) != 0 {
		t.Error("unconfigured generator must not be called")
	}
}

func TestParserNilGenerator(t *testing.T) {
	p := NewParser(nil)

	cmd, err := p.Parse(context.Background(), "help", Context{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != CommandHelp {
		t.Errorf("Type = %q, want help", cmd.Type)
	}
}

func TestParserEmptyInput(t *testing.T) {
	p := NewParser(&fakeGenerator{configured: true})

	cmd, err := p.Parse(context.Background(), "   ", Context{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Type != CommandChat {
		t.Errorf("Type = %q, want chat for empty input", cmd.Type)
	}
}

func TestContextDescribe(t *testing.T) {
	ctx := Context{
		ActiveStructure:   "1CRN",
		Representation:    "cartoon",
		SimulationRunning: true,
		Stage:             "Equilibration",
		ProjectNames:      []string{"alpha", "beta"},
	}

	desc := ctx.describe()
	for _, want := range []string{"1CRN", "cartoon", "Equilibration", "alpha, beta"} {
		if !strings.Contains(desc, want) {
			t.Errorf("describe() missing %q:\n%s", want, desc)
		}
	}

	empty := Context{}.describe()
	if !strings.Contains(empty, "fresh session") {
		t.Errorf("empty describe = %q", empty)
	}
}

func TestCommandJSON(t *testing.T) {
	cmd := Command{Type: CommandLoadStructure, Params: map[string]string{"structure_id": "1CRN"}}
	got := cmd.JSON()
	if !strings.Contains(got, `"command": "load_structure"`) {
		t.Errorf("JSON() = %s", got)
	}
}
