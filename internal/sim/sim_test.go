// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"math/rand"
	"testing"
)

func newTestEngine(cfg Config) *Engine {
	return NewWithRand(cfg, rand.New(rand.NewSource(42)))
}

// =============================================================================
// ENGINE TESTS
// =============================================================================

func TestEngine_StartsIdle(t *testing.T) {
	e := newTestEngine(Config{})
	if e.Stage() != StageIdle {
		t.Errorf("initial stage = %v, want idle", e.Stage())
	}
	if e.Running() {
		t.Error("engine should not be running before Start")
	}
	// Advance before Start must be a no-op.
	e.Advance()
	if e.Tick() != 0 || len(e.Points()) != 0 {
		t.Error("Advance before Start mutated state")
	}
}

func TestEngine_StageProgression(t *testing.T) {
	e := newTestEngine(Config{})
	e.Start()

	if e.Stage() != StageMinimization {
		t.Fatalf("stage after Start = %v, want minimization", e.Stage())
	}

	seen := map[Stage]bool{StageMinimization: true}
	for i := 0; i < 500 && e.Running(); i++ {
		e.Advance()
		seen[e.Stage()] = true
	}

	if e.Running() {
		t.Fatal("run did not complete within 500 ticks")
	}
	if e.Stage() != StageComplete {
		t.Errorf("final stage = %v, want complete", e.Stage())
	}
	for _, st := range []Stage{StageMinimization, StageEquilibration, StageProduction} {
		if !seen[st] {
			t.Errorf("stage %v never reached", st)
		}
	}
}

func TestEngine_ProgressResetsPerStage(t *testing.T) {
	e := newTestEngine(Config{StepMin: 60, StepMax: 61})
	e.Start()

	// First tick: 60-61% progress, still minimization.
	e.Advance()
	if e.Stage() != StageMinimization {
		t.Fatalf("stage = %v after one tick", e.Stage())
	}
	// Second tick crosses 100%: stage advances, progress resets.
	e.Advance()
	if e.Stage() != StageEquilibration {
		t.Fatalf("stage = %v, want equilibration", e.Stage())
	}
	if e.Progress() != 0 {
		t.Errorf("progress = %f after stage change, want 0", e.Progress())
	}
}

func TestEngine_StopsAfterLastStage(t *testing.T) {
	e := newTestEngine(Config{StepMin: 150, StepMax: 151})
	e.Start()

	// Each tick completes one stage.
	e.Advance()
	e.Advance()
	e.Advance()

	if e.Running() {
		t.Error("engine still running after final stage")
	}
	if e.Progress() != 100 {
		t.Errorf("final progress = %f, want 100", e.Progress())
	}

	ticksAtEnd := e.Tick()
	pointsAtEnd := len(e.Points())
	e.Advance()
	if e.Tick() != ticksAtEnd || len(e.Points()) != pointsAtEnd {
		t.Error("Advance after completion mutated state")
	}
}

func TestEngine_DataPointsPerturbPrevious(t *testing.T) {
	e := newTestEngine(Config{})
	e.Start()
	for i := 0; i < 20; i++ {
		e.Advance()
	}

	points := e.Points()
	if len(points) != 20 {
		t.Fatalf("point count = %d, want 20", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time <= points[i-1].Time {
			t.Fatalf("time not monotonic at %d: %f then %f", i, points[i-1].Time, points[i].Time)
		}
		if points[i].RMSD < 0.2 || points[i].RMSD > 4.5 {
			t.Errorf("RMSD out of range at %d: %f", i, points[i].RMSD)
		}
	}
}

func TestEngine_MaxPointsCap(t *testing.T) {
	e := newTestEngine(Config{MaxPoints: 10, StepMin: 0.01, StepMax: 0.02})
	e.Start()
	for i := 0; i < 50; i++ {
		e.Advance()
	}
	if len(e.Points()) != 10 {
		t.Errorf("point count = %d, want cap of 10", len(e.Points()))
	}
	// Oldest points were dropped, so the series starts late.
	if e.Points()[0].Time == 0 {
		t.Error("cap did not drop the oldest points")
	}
}

func TestEngine_StopHaltsRun(t *testing.T) {
	e := newTestEngine(Config{})
	e.Start()
	e.Advance()
	e.Stop()

	if e.Running() {
		t.Error("engine running after Stop")
	}
	ticks := e.Tick()
	e.Advance()
	if e.Tick() != ticks {
		t.Error("Advance after Stop mutated state")
	}
}

func TestEngine_StageIndex(t *testing.T) {
	e := newTestEngine(Config{StepMin: 150, StepMax: 151})

	cur, total := e.StageIndex()
	if cur != 0 || total != 3 {
		t.Errorf("idle StageIndex = %d/%d, want 0/3", cur, total)
	}

	e.Start()
	cur, _ = e.StageIndex()
	if cur != 1 {
		t.Errorf("StageIndex after Start = %d, want 1", cur)
	}

	e.Advance()
	e.Advance()
	e.Advance()
	cur, total = e.StageIndex()
	if cur != 3 || total != 3 {
		t.Errorf("complete StageIndex = %d/%d, want 3/3", cur, total)
	}
}

func TestEngine_RestartResets(t *testing.T) {
	e := newTestEngine(Config{})
	e.Start()
	for i := 0; i < 30; i++ {
		e.Advance()
	}
	e.Start()

	if e.Tick() != 0 || len(e.Points()) != 0 {
		t.Error("Start did not reset tick/points")
	}
	if e.Stage() != StageMinimization {
		t.Errorf("stage after restart = %v", e.Stage())
	}
	// Restart logs exactly the opening line.
	if n := len(e.LogLines()); n != 1 {
		t.Errorf("log lines after restart = %d, want 1", n)
	}
}

// =============================================================================
// LOG BUFFER TESTS
// =============================================================================

func TestLogBuffer_RollsOver(t *testing.T) {
	b := NewLogBuffer(3)
	b.Append("one")
	b.Append("two")
	b.Append("three")
	b.Append("four")

	lines := b.Lines()
	want := []string{"two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("len = %d, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
	if b.Len() != 3 || b.Cap() != 3 {
		t.Errorf("Len/Cap = %d/%d", b.Len(), b.Cap())
	}
}

func TestLogBuffer_Clear(t *testing.T) {
	b := NewLogBuffer(4)
	b.Append("x")
	b.Clear()
	if b.Len() != 0 || len(b.Lines()) != 0 {
		t.Error("Clear left lines behind")
	}
	b.Append("y")
	if got := b.Lines(); len(got) != 1 || got[0] != "y" {
		t.Errorf("Lines after Clear+Append = %v", got)
	}
}

func TestLogBuffer_MinimumCapacity(t *testing.T) {
	b := NewLogBuffer(0)
	b.Append("only")
	if b.Cap() != 1 || b.Lines()[0] != "only" {
		t.Errorf("zero-capacity buffer not clamped: cap=%d", b.Cap())
	}
}

// =============================================================================
// ENGINE LOG TESTS
// =============================================================================

func TestEngine_LogCapHolds(t *testing.T) {
	e := newTestEngine(Config{LogCapacity: 5, LogChance: 1.0, StepMin: 0.01, StepMax: 0.02})
	e.Start()
	for i := 0; i < 40; i++ {
		e.Advance()
	}
	if n := len(e.LogLines()); n != 5 {
		t.Errorf("log lines = %d, want cap of 5", n)
	}
}

// =============================================================================
// PREDICTION TESTS
// =============================================================================

func TestPredict(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	res := Predict(rng, "MKV LAG\nWQE")

	if res.Sequence != "MKVLAGWQE" {
		t.Errorf("Sequence = %q", res.Sequence)
	}
	if res.Residues != 9 || len(res.PerResidue) != 9 {
		t.Errorf("Residues = %d, per-residue = %d", res.Residues, len(res.PerResidue))
	}
	if res.MeanPLDDT < 25 || res.MeanPLDDT > 98 {
		t.Errorf("MeanPLDDT = %f out of range", res.MeanPLDDT)
	}
	for i, v := range res.PerResidue {
		if v < 25 || v > 98 {
			t.Errorf("PerResidue[%d] = %f out of range", i, v)
		}
	}
}

func TestPredict_EmptySequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	res := Predict(rng, "  \n ")
	if res.Residues != 64 {
		t.Errorf("empty sequence Residues = %d, want placeholder 64", res.Residues)
	}
}

func TestPredictionResult_ConfidenceLabel(t *testing.T) {
	tests := []struct {
		mean float64
		want string
	}{
		{95, "very high"},
		{75, "confident"},
		{55, "low"},
		{30, "very low"},
	}
	for _, tt := range tests {
		r := PredictionResult{MeanPLDDT: tt.mean}
		if got := r.ConfidenceLabel(); got != tt.want {
			t.Errorf("ConfidenceLabel(%f) = %q, want %q", tt.mean, got, tt.want)
		}
	}
}
