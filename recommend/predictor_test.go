package recommend

import (
	"bytes"
	"math"
	"testing"

	"github.com/recsys-go/memrec/core/model"
	"github.com/recsys-go/memrec/dataset"
	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/similarity"
)

const tol = 1e-9

func silenceWarnings(t *testing.T) {
	t.Helper()
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
}

// Column vectors: beatles=(2,1,0), cure=(4,0,2), doors=(0,3,1).
// cos(beatles, doors) = 3/(5√2), cos(cure, doors) = 1/(5√2),
// cos(beatles, cure) = 0.8.
func fixtureInteractions(t *testing.T) *dataset.Interactions {
	t.Helper()
	table := dataset.PlayTable{
		{UserID: "u1", ArtistName: "beatles", Plays: 2},
		{UserID: "u1", ArtistName: "cure", Plays: 4},
		{UserID: "u2", ArtistName: "beatles", Plays: 1},
		{UserID: "u2", ArtistName: "doors", Plays: 3},
		{UserID: "u3", ArtistName: "cure", Plays: 2},
		{UserID: "u3", ArtistName: "doors", Plays: 1},
	}
	ia, err := dataset.Pivot(table)
	if err != nil {
		t.Fatalf("Pivot failed: %v", err)
	}
	return ia
}

func TestPredictorFitPredict(t *testing.T) {
	p := NewPredictor()
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// pred(u1, doors) = (2·3/(5√2) + 4·1/(5√2)) / (3/(5√2) + 1/(5√2))
	//                 = √2 / (4/(5√2)) = 2.5
	got, err := p.Predict("u1", "doors")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(got-2.5) > tol {
		t.Errorf("Predict(u1, doors) = %v, want 2.5", got)
	}
}

func TestPredictorNotFitted(t *testing.T) {
	p := NewPredictor()
	_, err := p.Predict("u1", "beatles")
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFittedError", err)
	}
	if _, err := p.TopN("u1", 3); !errors.As(err, &nf) {
		t.Fatalf("TopN error = %v, want NotFittedError", err)
	}
}

func TestPredictorUnknownIDs(t *testing.T) {
	p := NewPredictor()
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	var unknown *errors.UnknownIDError
	if _, err := p.Predict("nobody", "beatles"); !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownIDError", err)
	}
	if unknown.Kind != "user" {
		t.Errorf("Kind = %q, want user", unknown.Kind)
	}
	if _, err := p.Predict("u1", "the knife"); !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownIDError", err)
	}
	if unknown.Kind != "artist" {
		t.Errorf("Kind = %q, want artist", unknown.Kind)
	}
}

func TestPredictorTopNExcludesPlayed(t *testing.T) {
	p := NewPredictor()
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	recs, err := p.TopN("u1", 5)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	// u1 already played beatles and cure; only doors is left.
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if recs[0].ID != "doors" {
		t.Errorf("recs[0].ID = %q, want doors", recs[0].ID)
	}
	if math.Abs(recs[0].Score-2.5) > tol {
		t.Errorf("recs[0].Score = %v, want 2.5", recs[0].Score)
	}

	if _, err := p.TopN("u1", 0); err == nil {
		t.Error("expected error for n = 0")
	}
}

func TestPredictorColdStartFallback(t *testing.T) {
	var captured error
	errors.SetWarningHandler(func(w error) { captured = w })
	t.Cleanup(func() { errors.SetWarningHandler(nil) })

	// x1 only played p, x2 only played q. The columns have disjoint
	// support, so cos(p, q) = 0 and x1's prediction for q has no
	// similarity mass to draw on.
	table := dataset.PlayTable{
		{UserID: "x1", ArtistName: "p", Plays: 7},
		{UserID: "x2", ArtistName: "q", Plays: 3},
	}
	ia, err := dataset.Pivot(table)
	if err != nil {
		t.Fatalf("Pivot failed: %v", err)
	}

	p := NewPredictor()
	if err := p.Fit(ia); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	got, err := p.Predict("x1", "q")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	// Falls back to x1's observed mean.
	if math.Abs(got-7) > tol {
		t.Errorf("Predict(x1, q) = %v, want fallback 7", got)
	}

	var cold *errors.ColdStartWarning
	if !errors.As(captured, &cold) {
		t.Fatalf("captured warning = %v, want ColdStartWarning", captured)
	}
	if cold.User != "x1" || cold.Item != "q" {
		t.Errorf("warning = %+v, want user x1 artist q", cold)
	}
}

func TestPredictorPredictAll(t *testing.T) {
	silenceWarnings(t)

	p := NewPredictor()
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := p.PredictAll()
	if err != nil {
		t.Fatalf("PredictAll failed: %v", err)
	}
	r, c := preds.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("shape = (%d, %d), want (3, 3)", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := preds.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("preds(%d, %d) = %v", i, j, v)
			}
		}
	}
}

func TestPredictorSimilarArtists(t *testing.T) {
	p := NewPredictor()
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	sims, err := p.SimilarArtists("beatles", 2)
	if err != nil {
		t.Fatalf("SimilarArtists failed: %v", err)
	}
	if sims[0].ID != "cure" {
		t.Errorf("most similar to beatles = %q, want cure", sims[0].ID)
	}
	if math.Abs(sims[0].Score-0.8) > tol {
		t.Errorf("similarity = %v, want 0.8", sims[0].Score)
	}

	// Item-based model exposes artist neighborhoods only.
	if _, err := p.SimilarUsers("u1", 2); err == nil {
		t.Error("expected error for SimilarUsers on item-based model")
	}
}

func TestPredictorUserBased(t *testing.T) {
	silenceWarnings(t)

	p := NewPredictor(WithUserBased(true), WithMetric(similarity.MetricCosine))
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	got, err := p.Predict("u1", "doors")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.IsNaN(got) || got < 0 {
		t.Errorf("Predict(u1, doors) = %v, want finite nonnegative", got)
	}

	if _, err := p.SimilarUsers("u1", 2); err != nil {
		t.Errorf("SimilarUsers failed: %v", err)
	}
	if _, err := p.SimilarArtists("beatles", 2); err == nil {
		t.Error("expected error for SimilarArtists on user-based model")
	}
}

func TestPredictorNormalize(t *testing.T) {
	silenceWarnings(t)

	p := NewPredictor(WithNormalize(true), WithMetric(similarity.MetricCosine))
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := p.Predict("u1", "doors"); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
}

func TestPredictorGobRoundTrip(t *testing.T) {
	p := NewPredictor()
	if err := p.Fit(fixtureInteractions(t)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	want, err := p.Predict("u1", "doors")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(p, &buf); err != nil {
		t.Fatalf("SaveModelToWriter failed: %v", err)
	}

	restored := NewPredictor()
	if err := model.LoadModelFromReader(restored, &buf); err != nil {
		t.Fatalf("LoadModelFromReader failed: %v", err)
	}
	if !restored.IsFitted() {
		t.Fatal("restored model is not fitted")
	}
	got, err := restored.Predict("u1", "doors")
	if err != nil {
		t.Fatalf("Predict after restore failed: %v", err)
	}
	if math.Abs(got-want) > tol {
		t.Errorf("restored Predict = %v, want %v", got, want)
	}
}

func TestPredictorGetParams(t *testing.T) {
	p := NewPredictor(WithMetric(similarity.MetricPearson), WithUserBased(true))
	params := p.GetParams()
	if params["metric"] != "pearson" {
		t.Errorf("metric = %v, want pearson", params["metric"])
	}
	if params["user_based"] != true {
		t.Errorf("user_based = %v, want true", params["user_based"])
	}
}
