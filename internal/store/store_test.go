package store

import (
	"strings"
	"testing"

	"github.com/shadyrajab/chaos/internal/analysis"
	"github.com/shadyrajab/chaos/internal/dynamo"
	"github.com/shadyrajab/chaos/internal/pendulum"
)

func sampleComparison() *analysis.Comparison {
	base := &dynamo.Trajectory{
		States: []dynamo.State{
			{0.5, 0, 0.25, 0},
			{0.4987, -0.12, 0.2531, 0.031},
			{0.4951, -0.24, 0.2623, 0.061},
		},
		Times: []float64{0, 0.05, 0.1},
	}
	pert := &dynamo.Trajectory{
		States: []dynamo.State{
			{0.5, 0, 0.25 + 1e-9, 0},
			{0.4987, -0.12, 0.2531 + 2e-9, 0.031},
			{0.4951, -0.24, 0.2623 + 5e-9, 0.061},
		},
		Times: []float64{0, 0.05, 0.1},
	}
	return &analysis.Comparison{
		Baseline:     base,
		Perturbed:    pert,
		PerturbIndex: pendulum.Theta2,
		Epsilon:      1e-9,
	}
}

func TestSaveLoadComparison(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cmp := sampleComparison()
	meta := RunMetadata{
		Params:     pendulum.DefaultParams(),
		InitState:  []float64{0.5, 0, 0.25, 0},
		Epsilon:    1e-9,
		Integrator: "rk4",
		Metrics:    map[string]float64{"max_separation": 5e-9},
	}

	runID, err := s.Save(meta, cmp)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "chaos_") {
		t.Errorf("unexpected run id: %s", runID)
	}

	loaded, loadedMeta, err := s.LoadComparison(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loadedMeta.Integrator != "rk4" {
		t.Errorf("integrator lost: %s", loadedMeta.Integrator)
	}
	if loadedMeta.Epsilon != 1e-9 {
		t.Errorf("epsilon lost: %g", loadedMeta.Epsilon)
	}
	if loadedMeta.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", loadedMeta.Samples)
	}
	if loadedMeta.Metrics["max_separation"] != 5e-9 {
		t.Errorf("metrics lost: %v", loadedMeta.Metrics)
	}

	if loaded.Baseline.Len() != cmp.Baseline.Len() {
		t.Fatalf("baseline length mismatch: %d", loaded.Baseline.Len())
	}
	for i := range cmp.Baseline.States {
		if loaded.Baseline.Times[i] != cmp.Baseline.Times[i] {
			t.Errorf("time %d not exact after roundtrip", i)
		}
		for j := range cmp.Baseline.States[i] {
			if loaded.Baseline.States[i][j] != cmp.Baseline.States[i][j] {
				t.Errorf("baseline state [%d][%d] not exact after roundtrip", i, j)
			}
			if loaded.Perturbed.States[i][j] != cmp.Perturbed.States[i][j] {
				t.Errorf("perturbed state [%d][%d] not exact after roundtrip", i, j)
			}
		}
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	runID, err := s.Save(RunMetadata{Integrator: "euler"}, sampleComparison())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != runID {
		t.Errorf("listed id %s, want %s", runs[0].ID, runID)
	}
}

func TestSaveBackToBackGetsDistinctIDs(t *testing.T) {
	s := New(t.TempDir())

	a, err := s.Save(RunMetadata{Integrator: "rk4"}, sampleComparison())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	b, err := s.Save(RunMetadata{Integrator: "rk4"}, sampleComparison())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if a == b {
		t.Fatalf("consecutive saves reused run id %s", a)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	s := New(t.TempDir() + "/never-created")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list on missing dir should not fail: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadTrajectoryUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.LoadTrajectory("chaos_0", BaselineFile); err == nil {
		t.Error("expected error for unknown run")
	}
}
