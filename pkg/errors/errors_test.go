package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "memrec: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "memrec: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 7, 0)

	want := "memrec: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 7"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("KNNRecommender", "Predict")

	want := "memrec: KNNRecommender: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewUnknownIDError(t *testing.T) {
	err := NewUnknownIDError("Predictor.Predict", "artist", "the beatles")

	want := `memrec: Predictor.Predict: unknown artist "the beatles"`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var idErr *UnknownIDError
	if !As(err, &idErr) {
		t.Error("Error should be castable to *UnknownIDError")
	}
	if idErr.Kind != "artist" || idErr.ID != "the beatles" {
		t.Errorf("unexpected fields: %+v", idErr)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("k", "must be positive", -3)

	want := "memrec: validation failed for parameter 'k': must be positive (got: -3)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) {
		captured = w
	})
	defer SetWarningHandler(nil)

	w := NewColdStartWarning("Predictor", "u1", "radiohead", 12.5)
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "radiohead") {
		t.Errorf("unexpected warning message: %v", captured)
	}
}

func TestColdStartWarningMessage(t *testing.T) {
	w := NewColdStartWarning("KNNRecommender", "u42", "boards of canada", 3.0)
	msg := w.Error()
	for _, part := range []string{"KNNRecommender", "u42", "boards of canada", "3.0000"} {
		if !strings.Contains(msg, part) {
			t.Errorf("warning message %q missing %q", msg, part)
		}
	}
}

func TestDataQualityWarningMessage(t *testing.T) {
	w := NewDataQualityWarning("plays.tsv", 7, "unparsable play count")
	want := "skipped 7 malformed rows while reading plays.tsv: unparsable play count"
	if w.Error() != want {
		t.Errorf("Error() = %v, want %v", w.Error(), want)
	}
}

func TestSentinelErrors(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "loading plays")
	if !Is(wrapped, ErrEmptyData) {
		t.Error("wrapped error should match ErrEmptyData")
	}
}
