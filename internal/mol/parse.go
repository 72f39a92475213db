// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mol

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// =============================================================================
// PDB PARSER
// =============================================================================

// ErrNoAtoms indicates the input contained no parseable atom records.
var ErrNoAtoms = errors.New("no atom records found")

// MaxAtoms caps how many atoms are retained from a single file. Oversized
// entries (ribosomes, capsids) are truncated rather than rejected since the
// terminal renderer cannot usefully display millions of atoms anyway.
const MaxAtoms = 100000

// Parse reads a PDB-format structure file. Malformed lines are skipped;
// the parse only fails when the input yields no atoms at all.
//
// PDB is a fixed-column format. The relevant record layouts (1-based
// columns) are:
//
//	ATOM/HETATM: serial 7-11, name 13-16, resName 18-20, chainID 22,
//	             resSeq 23-26, x 31-38, y 39-46, z 47-54, tempFactor 61-66,
//	             element 77-78
//	HEADER:      classification 11-50, idCode 63-66
//	TITLE:       continuation 9-10, title 11-80
func Parse(r io.Reader) (*Structure, error) {
	s := &Structure{}
	var titleParts []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}
		record := strings.TrimSpace(line[:6])

		switch record {
		case "ATOM", "HETATM":
			if len(s.Atoms) >= MaxAtoms {
				continue
			}
			atom, ok := parseAtomLine(line, record == "HETATM")
			if ok {
				s.Atoms = append(s.Atoms, atom)
			}

		case "HEADER":
			s.Classification = strings.TrimSpace(columns(line, 11, 50))
			if id := strings.TrimSpace(columns(line, 63, 66)); id != "" {
				s.ID = strings.ToUpper(id)
			}

		case "TITLE":
			if part := strings.TrimSpace(columns(line, 11, 80)); part != "" {
				titleParts = append(titleParts, part)
			}

		case "END", "ENDMDL":
			// First model only; NMR ensembles repeat the whole atom set
			// per MODEL block and the viewer draws a single conformer.
			if len(s.Atoms) > 0 {
				s.Title = strings.Join(titleParts, " ")
				return s, scanner.Err()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(s.Atoms) == 0 {
		return nil, ErrNoAtoms
	}
	s.Title = strings.Join(titleParts, " ")
	return s, nil
}

// ParseString is a convenience wrapper over Parse.
func ParseString(data string) (*Structure, error) {
	return Parse(strings.NewReader(data))
}

// parseAtomLine decodes one ATOM/HETATM record. Returns ok=false when the
// coordinate fields do not parse; other fields degrade to zero values.
func parseAtomLine(line string, hetero bool) (Atom, bool) {
	x, errX := parseCoord(columns(line, 31, 38))
	y, errY := parseCoord(columns(line, 39, 46))
	z, errZ := parseCoord(columns(line, 47, 54))
	if errX != nil || errY != nil || errZ != nil {
		return Atom{}, false
	}

	atom := Atom{
		Name:    strings.TrimSpace(columns(line, 13, 16)),
		Chain:   strings.TrimSpace(columns(line, 22, 22)),
		Residue: strings.TrimSpace(columns(line, 18, 20)),
		X:       x,
		Y:       y,
		Z:       z,
		Hetero:  hetero,
	}
	atom.Serial, _ = strconv.Atoi(strings.TrimSpace(columns(line, 7, 11)))
	atom.ResidueSeq, _ = strconv.Atoi(strings.TrimSpace(columns(line, 23, 26)))
	atom.BFactor, _ = strconv.ParseFloat(strings.TrimSpace(columns(line, 61, 66)), 64)

	atom.Element = strings.ToUpper(strings.TrimSpace(columns(line, 77, 78)))
	if atom.Element == "" {
		atom.Element = guessElement(atom.Name)
	}
	return atom, true
}

func parseCoord(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}

// columns extracts an inclusive 1-based column range, tolerating short lines.
func columns(line string, from, to int) string {
	if from < 1 || from > len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return line[from-1 : to]
}
