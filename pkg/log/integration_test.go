package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	merrors "github.com/recsys-go/memrec/pkg/errors"
)

// TestLoggerInterface tests the Logger interface implementation
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")

	testErr := fmt.Errorf("test error")
	testLogger.Error("error message", ErrAttrKey, testErr)

	output := buffer.String()
	if output == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}

	// JSON unmarshaling converts numbers to float64.
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "KNNRecommender",
		ComponentKey, "neighbors",
		EstimatorIDKey, "knn-001",
	)

	contextLogger.Info("contextual message", OperationKey, OperationFit)

	if !testLogger.ContainsField(ModelNameKey, "KNNRecommender") {
		t.Error("Model name context not found")
	}

	if !testLogger.ContainsField(ComponentKey, "neighbors") {
		t.Error("Component context not found")
	}

	if !testLogger.ContainsField(OperationKey, OperationFit) {
		t.Error("Operation field not found")
	}
}

// TestLoggerEnabled tests the Enabled method
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}

	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}

	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}

	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

// TestZerologLogger tests the zerolog-backed implementation end to end.
func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Info("pivot complete",
		UsersKey, 411,
		ArtistsKey, 300,
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if entry["message"] != "pivot complete" {
		t.Errorf("message = %v, want 'pivot complete'", entry["message"])
	}
	if entry[UsersKey] != 411.0 {
		t.Errorf("%s = %v, want 411", UsersKey, entry[UsersKey])
	}
}

// TestZerologLoggerWarningObject verifies warning types are marshalled
// with their structured fields.
func TestZerologLoggerWarningObject(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	w := merrors.NewColdStartWarning("Predictor", "u1", "aphex twin", 2.5)
	logger.Warn("recommender warning", "warning", w)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	obj, ok := entry["warning"].(map[string]interface{})
	if !ok {
		t.Fatalf("warning field is not an object: %v", entry["warning"])
	}
	if obj["artist"] != "aphex twin" {
		t.Errorf("warning.artist = %v, want 'aphex twin'", obj["artist"])
	}
	if obj["type"] != "ColdStartWarning" {
		t.Errorf("warning.type = %v, want ColdStartWarning", obj["type"])
	}
}

// TestZerologLoggerWith tests field chaining on the zerolog implementation.
func TestZerologLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ComponentKey, "dataset")

	logger.Info("load complete", RowsKey, 3000)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry[ComponentKey] != "dataset" {
		t.Errorf("%s = %v, want 'dataset'", ComponentKey, entry[ComponentKey])
	}
}
