package model

import (
	"bytes"
	"testing"
)

func TestBaseEstimatorState(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Error("new estimator should not be fitted")
	}

	e.SetFitted()
	if !e.IsFitted() {
		t.Error("estimator should be fitted after SetFitted")
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("estimator should not be fitted after Reset")
	}
}

type dummyModel struct {
	Name  string
	Sims  []float64
	Users []string
}

func TestModelRoundTrip(t *testing.T) {
	src := dummyModel{
		Name:  "Predictor",
		Sims:  []float64{1, 0.5, 0.25},
		Users: []string{"u1", "u2"},
	}

	var buf bytes.Buffer
	if err := SaveModelToWriter(&src, &buf); err != nil {
		t.Fatalf("SaveModelToWriter failed: %v", err)
	}

	var dst dummyModel
	if err := LoadModelFromReader(&dst, &buf); err != nil {
		t.Fatalf("LoadModelFromReader failed: %v", err)
	}

	if dst.Name != src.Name || len(dst.Sims) != len(src.Sims) || len(dst.Users) != len(src.Users) {
		t.Errorf("round trip mismatch: got %+v, want %+v", dst, src)
	}
}
