// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package eval

import "testing"

func TestMetricsShape(t *testing.T) {
	d := Metrics()

	if len(d.Models) == 0 {
		t.Fatal("dataset should have models")
	}
	if len(d.Targets) == 0 {
		t.Fatal("dataset should have targets")
	}
	for _, target := range d.Targets {
		if len(target.Scores) != len(d.Models) {
			t.Errorf("target %s has %d scores for %d models", target.Target, len(target.Scores), len(d.Models))
		}
	}
	for _, m := range d.Models {
		for name, v := range map[string]float64{
			"accuracy": m.Accuracy, "precision": m.Precision, "recall": m.Recall, "f1": m.F1,
		} {
			if v <= 0 || v > 1 {
				t.Errorf("%s %s = %v, want (0,1]", m.Name, name, v)
			}
		}
		if m.LatencyMs <= 0 {
			t.Errorf("%s latency = %d", m.Name, m.LatencyMs)
		}
	}
}

func TestMetricsStable(t *testing.T) {
	a, b := Metrics(), Metrics()
	if a.GeneratedAt != b.GeneratedAt {
		t.Error("snapshot timestamp should be fixed")
	}
	if len(a.Models) != len(b.Models) {
		t.Error("snapshot should not vary between calls")
	}
	for i := range a.Models {
		if a.Models[i] != b.Models[i] {
			t.Errorf("model %d differs between calls", i)
		}
	}
}

func TestRanked(t *testing.T) {
	d := Metrics()
	ranked := d.Ranked()

	if len(ranked) != len(d.Models) {
		t.Fatalf("ranked has %d models, want %d", len(ranked), len(d.Models))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].F1 < ranked[i].F1 {
			t.Errorf("ranking out of order at %d: %v < %v", i, ranked[i-1].F1, ranked[i].F1)
		}
	}
	if best := d.Best(); best.Name != ranked[0].Name {
		t.Errorf("Best() = %s, want %s", best.Name, ranked[0].Name)
	}
	// Ranked must not mutate the dataset order.
	if d.Models[0].Name != Metrics().Models[0].Name {
		t.Error("Ranked should copy, not sort in place")
	}
}

func TestBestEmptyDataset(t *testing.T) {
	var d Dataset
	if best := d.Best(); best.Name != "" {
		t.Errorf("empty dataset Best() = %+v", best)
	}
}

func TestModelIndex(t *testing.T) {
	d := Metrics()
	if idx := d.ModelIndex(d.Models[0].Name); idx != 0 {
		t.Errorf("ModelIndex = %d, want 0", idx)
	}
	if idx := d.ModelIndex("NoSuchModel"); idx != -1 {
		t.Errorf("ModelIndex for unknown = %d, want -1", idx)
	}
}

func TestTargetMean(t *testing.T) {
	d := Dataset{
		Models: []ModelMetrics{{Name: "A"}, {Name: "B"}},
		Targets: []TargetScore{
			{Target: "t1", Scores: []float64{0.8, 0.6}},
			{Target: "t2", Scores: []float64{0.9, 0.7}},
		},
	}

	got := d.TargetMean(0)
	if got < 0.8499 || got > 0.8501 {
		t.Errorf("TargetMean(0) = %v, want 0.85", got)
	}
	if d.TargetMean(-1) != 0 {
		t.Error("out-of-range index should return 0")
	}
	if (Dataset{}).TargetMean(0) != 0 {
		t.Error("no targets should return 0")
	}
}
