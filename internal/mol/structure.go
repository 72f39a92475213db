// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mol provides molecular structure types and PDB-format parsing
// for the molesim viewer.
package mol

import (
	"sort"
	"strings"
)

// =============================================================================
// STRUCTURE TYPES
// =============================================================================

// Atom is a single atom record from a structure file.
type Atom struct {
	Serial     int     // Atom serial number
	Name       string  // Atom name, e.g. "CA"
	Element    string  // Element symbol, e.g. "C"
	Chain      string  // Chain identifier, e.g. "A"
	Residue    string  // Residue name, e.g. "GLY"
	ResidueSeq int     // Residue sequence number
	X, Y, Z    float64 // Orthogonal coordinates in angstroms
	BFactor    float64 // Temperature factor
	Hetero     bool    // True for HETATM records (ligands, waters)
}

// Structure is a parsed molecular structure.
type Structure struct {
	ID             string // Accession code, e.g. "1CRN"
	Title          string
	Classification string
	Atoms          []Atom
}

// Vec3 is a point in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// =============================================================================
// GEOMETRY
// =============================================================================

// Center returns the geometric center of all atoms.
func (s *Structure) Center() Vec3 {
	if len(s.Atoms) == 0 {
		return Vec3{}
	}
	var c Vec3
	for _, a := range s.Atoms {
		c.X += a.X
		c.Y += a.Y
		c.Z += a.Z
	}
	n := float64(len(s.Atoms))
	return Vec3{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// Bounds returns the minimum and maximum corners of the bounding box.
func (s *Structure) Bounds() (min, max Vec3) {
	if len(s.Atoms) == 0 {
		return Vec3{}, Vec3{}
	}
	first := s.Atoms[0]
	min = Vec3{first.X, first.Y, first.Z}
	max = min
	for _, a := range s.Atoms[1:] {
		if a.X < min.X {
			min.X = a.X
		}
		if a.Y < min.Y {
			min.Y = a.Y
		}
		if a.Z < min.Z {
			min.Z = a.Z
		}
		if a.X > max.X {
			max.X = a.X
		}
		if a.Y > max.Y {
			max.Y = a.Y
		}
		if a.Z > max.Z {
			max.Z = a.Z
		}
	}
	return min, max
}

// Chains returns the sorted list of distinct chain identifiers.
func (s *Structure) Chains() []string {
	seen := make(map[string]bool)
	for _, a := range s.Atoms {
		if a.Chain != "" {
			seen[a.Chain] = true
		}
	}
	chains := make([]string, 0, len(seen))
	for c := range seen {
		chains = append(chains, c)
	}
	sort.Strings(chains)
	return chains
}

// ResidueCount returns the number of distinct residues across all chains.
func (s *Structure) ResidueCount() int {
	type key struct {
		chain string
		seq   int
	}
	seen := make(map[key]bool)
	for _, a := range s.Atoms {
		if !a.Hetero {
			seen[key{a.Chain, a.ResidueSeq}] = true
		}
	}
	return len(seen)
}

// ElementCounts returns atom counts per element symbol.
func (s *Structure) ElementCounts() map[string]int {
	counts := make(map[string]int)
	for _, a := range s.Atoms {
		el := a.Element
		if el == "" {
			el = "?"
		}
		counts[el]++
	}
	return counts
}

// BFactorRange returns the minimum and maximum temperature factors.
func (s *Structure) BFactorRange() (min, max float64) {
	if len(s.Atoms) == 0 {
		return 0, 0
	}
	min = s.Atoms[0].BFactor
	max = min
	for _, a := range s.Atoms[1:] {
		if a.BFactor < min {
			min = a.BFactor
		}
		if a.BFactor > max {
			max = a.BFactor
		}
	}
	return min, max
}

// BackboneAtoms returns only the protein backbone atoms (N, CA, C, O).
// Used by the cartoon representation.
func (s *Structure) BackboneAtoms() []Atom {
	backbone := make([]Atom, 0, len(s.Atoms)/2)
	for _, a := range s.Atoms {
		if a.Hetero {
			continue
		}
		switch a.Name {
		case "N", "CA", "C", "O":
			backbone = append(backbone, a)
		}
	}
	return backbone
}

// guessElement derives an element symbol from an atom name when the element
// column is blank. PDB atom names lead with the element, e.g. "CA" is a
// carbon (alpha carbon), "OXT" an oxygen.
func guessElement(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	// Strip leading digits used for hydrogen naming like "1HB"
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1])
}
