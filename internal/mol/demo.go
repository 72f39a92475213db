// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mol

import "math"

// Demo returns a small built-in structure so the viewer has something to
// render before any entry is fetched (and when running offline). The atoms
// trace an idealized alpha helix: 1.5 angstrom rise and 100 degree turn per
// residue, backbone atoms offset around the helical axis.
func Demo() *Structure {
	const (
		residues  = 18
		rise      = 1.5
		turnDeg   = 100.0
		caRadius  = 2.3
		demoChain = "A"
	)

	names := []string{"ALA", "GLY", "LEU", "SER", "VAL", "THR"}

	s := &Structure{
		ID:             "DEMO",
		Title:          "IDEALIZED ALPHA HELIX (BUILT-IN DEMO)",
		Classification: "DE NOVO PROTEIN",
	}

	serial := 1
	for i := 0; i < residues; i++ {
		theta := float64(i) * turnDeg * math.Pi / 180
		zBase := float64(i) * rise

		ca := Vec3{
			X: caRadius * math.Cos(theta),
			Y: caRadius * math.Sin(theta),
			Z: zBase,
		}
		// Offset N back along the helix and C forward; carbonyl O sits
		// outward from C. Rough geometry, fine for a character display.
		nTheta := theta - 0.45
		cTheta := theta + 0.45

		residue := names[i%len(names)]
		add := func(name, element string, v Vec3) {
			s.Atoms = append(s.Atoms, Atom{
				Serial:     serial,
				Name:       name,
				Element:    element,
				Chain:      demoChain,
				Residue:    residue,
				ResidueSeq: i + 1,
				X:          v.X,
				Y:          v.Y,
				Z:          v.Z,
				BFactor:    10 + 2*math.Sin(theta),
			})
			serial++
		}

		add("N", "N", Vec3{1.8 * math.Cos(nTheta), 1.8 * math.Sin(nTheta), zBase - 0.6})
		add("CA", "C", ca)
		add("C", "C", Vec3{1.9 * math.Cos(cTheta), 1.9 * math.Sin(cTheta), zBase + 0.55})
		add("O", "O", Vec3{2.9 * math.Cos(cTheta), 2.9 * math.Sin(cTheta), zBase + 0.7})
	}
	return s
}
