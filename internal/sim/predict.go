// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"math/rand"
	"strings"
)

// =============================================================================
// FAKE STRUCTURE PREDICTION
// =============================================================================

// PredictStages are the cosmetic phases shown while a fake prediction runs.
// The shell advances through them on a timer before delivering the result.
var PredictStages = []string{
	"Searching sequence databases",
	"Building multiple sequence alignment",
	"Running structure inference",
	"Relaxing predicted model",
}

// PredictionResult is a fabricated confidence summary. No folding happens;
// per-residue confidence values are sampled around a random baseline.
type PredictionResult struct {
	Sequence   string
	Residues   int
	MeanPLDDT  float64
	PerResidue []float64
}

// ConfidenceLabel buckets the mean confidence the way folding servers
// present it.
func (r PredictionResult) ConfidenceLabel() string {
	switch {
	case r.MeanPLDDT >= 90:
		return "very high"
	case r.MeanPLDDT >= 70:
		return "confident"
	case r.MeanPLDDT >= 50:
		return "low"
	default:
		return "very low"
	}
}

// Predict fabricates a prediction for the given one-letter sequence.
// Whitespace is stripped; an empty sequence gets a short placeholder length.
func Predict(rng *rand.Rand, sequence string) PredictionResult {
	seq := sanitizeSequence(sequence)
	n := len(seq)
	if n == 0 {
		n = 64
	}

	base := 62 + rng.Float64()*28 // per-run baseline in the 62-90 band
	per := make([]float64, n)
	var sum float64
	for i := range per {
		// Termini score lower, the way real pLDDT profiles sag at the ends.
		edge := 0.0
		if i < 5 {
			edge = float64(5-i) * 3
		} else if i >= n-5 {
			edge = float64(i-(n-6)) * 3
		}
		v := clamp(base-edge+rng.NormFloat64()*6, 25, 98)
		per[i] = v
		sum += v
	}

	return PredictionResult{
		Sequence:   seq,
		Residues:   n,
		MeanPLDDT:  sum / float64(n),
		PerResidue: per,
	}
}

// sanitizeSequence keeps only plausible one-letter amino acid codes.
func sanitizeSequence(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
