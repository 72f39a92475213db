// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mol

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// samplePDB is a two-residue fragment with a heteroatom and header records.
const samplePDB = `HEADER    PLANT PROTEIN                           30-APR-81   1CRN
TITLE     WATER STRUCTURE OF A HYDROPHOBIC PROTEIN AT ATOMIC RESOLUTION:
TITLE    2 PENTAGON RINGS OF WATER MOLECULES IN CRYSTALS OF CRAMBIN
ATOM      1  N   THR A   1      17.047  14.099   3.625  1.00 13.79           N
ATOM      2  CA  THR A   1      16.967  12.784   4.338  1.00 10.80           C
ATOM      3  C   THR A   1      15.685  12.755   5.133  1.00  9.19           C
ATOM      4  O   THR A   1      15.268  13.825   5.594  1.00  9.85           O
ATOM      5  N   THR A   2      15.115  11.555   5.265  1.00  7.81           N
ATOM      6  CA  THR A   2      13.856  11.469   6.066  1.00  8.31           C
HETATM    7  O   HOH A 101       9.231   5.120   8.950  1.00 20.31           O
END
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(samplePDB))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.ID != "1CRN" {
		t.Errorf("ID = %q, want %q", s.ID, "1CRN")
	}
	if s.Classification != "PLANT PROTEIN" {
		t.Errorf("Classification = %q, want %q", s.Classification, "PLANT PROTEIN")
	}
	if !strings.Contains(s.Title, "HYDROPHOBIC PROTEIN") {
		t.Errorf("Title missing first record: %q", s.Title)
	}
	if !strings.Contains(s.Title, "CRAMBIN") {
		t.Errorf("Title missing continuation record: %q", s.Title)
	}
	if len(s.Atoms) != 7 {
		t.Fatalf("atom count = %d, want 7", len(s.Atoms))
	}

	first := s.Atoms[0]
	if first.Name != "N" || first.Element != "N" || first.Chain != "A" {
		t.Errorf("first atom = %+v", first)
	}
	if first.Residue != "THR" || first.ResidueSeq != 1 {
		t.Errorf("first atom residue = %s %d", first.Residue, first.ResidueSeq)
	}
	if math.Abs(first.X-17.047) > 1e-9 || math.Abs(first.Z-3.625) > 1e-9 {
		t.Errorf("first atom coords = (%f, %f, %f)", first.X, first.Y, first.Z)
	}
	if math.Abs(first.BFactor-13.79) > 1e-9 {
		t.Errorf("first atom bfactor = %f", first.BFactor)
	}

	het := s.Atoms[6]
	if !het.Hetero {
		t.Error("HETATM record should be marked Hetero")
	}
	if het.Residue != "HOH" {
		t.Errorf("heteroatom residue = %q, want HOH", het.Residue)
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	input := `ATOM      1  N   THR A   1      17.047  14.099   3.625  1.00 13.79           N
ATOM      2  CA  THR A   1      garbage  here  nocoords
REMARK    this is ignored entirely
ATOM      3  C   THR A   1      15.685  12.755   5.133  1.00  9.19           C
`
	s, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(s.Atoms) != 2 {
		t.Errorf("atom count = %d, want 2 (malformed line skipped)", len(s.Atoms))
	}
}

func TestParse_NoAtoms(t *testing.T) {
	_, err := Parse(strings.NewReader("REMARK nothing here\nEND\n"))
	if !errors.Is(err, ErrNoAtoms) {
		t.Errorf("expected ErrNoAtoms, got %v", err)
	}
}

func TestParse_ElementGuessedFromName(t *testing.T) {
	// Truncated line without the element columns.
	input := "ATOM      2  CA  THR A   1      16.967  12.784   4.338\n"
	s, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Atoms[0].Element != "C" {
		t.Errorf("Element = %q, want C (guessed from CA)", s.Atoms[0].Element)
	}
}

func TestParse_StopsAtEndmdl(t *testing.T) {
	input := `ATOM      1  N   THR A   1      17.047  14.099   3.625  1.00 13.79           N
ENDMDL
ATOM      1  N   THR A   1      18.000  14.099   3.625  1.00 13.79           N
`
	s, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(s.Atoms) != 1 {
		t.Errorf("atom count = %d, want 1 (second model ignored)", len(s.Atoms))
	}
}

func TestGeometry(t *testing.T) {
	s := &Structure{Atoms: []Atom{
		{X: 0, Y: 0, Z: 0, Chain: "A", Name: "CA", Element: "C", ResidueSeq: 1},
		{X: 2, Y: 4, Z: 6, Chain: "B", Name: "CA", Element: "C", ResidueSeq: 2},
	}}

	c := s.Center()
	if c.X != 1 || c.Y != 2 || c.Z != 3 {
		t.Errorf("Center = %+v", c)
	}

	min, max := s.Bounds()
	if min.X != 0 || max.Z != 6 {
		t.Errorf("Bounds = %+v %+v", min, max)
	}

	chains := s.Chains()
	if len(chains) != 2 || chains[0] != "A" || chains[1] != "B" {
		t.Errorf("Chains = %v", chains)
	}

	if n := s.ResidueCount(); n != 2 {
		t.Errorf("ResidueCount = %d, want 2", n)
	}
}

func TestDemo(t *testing.T) {
	s := Demo()
	if s.ID != "DEMO" {
		t.Errorf("ID = %q", s.ID)
	}
	if len(s.Atoms) != 18*4 {
		t.Errorf("atom count = %d, want %d", len(s.Atoms), 18*4)
	}
	if len(s.BackboneAtoms()) != len(s.Atoms) {
		t.Error("demo should be all backbone atoms")
	}
	// Helix must actually rise along Z.
	min, max := s.Bounds()
	if max.Z-min.Z < 10 {
		t.Errorf("helix span = %f, unexpectedly flat", max.Z-min.Z)
	}
}

func TestGuessElement(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"CA", "C"},
		{"N", "N"},
		{"OXT", "O"},
		{"1HB", "H"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := guessElement(tt.name); got != tt.want {
			t.Errorf("guessElement(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
