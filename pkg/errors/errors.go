// Package errors provides the structured error and warning system used
// across memrec. It is inspired by scikit-learn's warning/exception
// hierarchy and is built on top of cockroachdb/errors so that every
// error carries a stack trace and can be rendered as a structured
// zerolog object.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex sync.Mutex
	// explicit handler installed via SetWarningHandler, nil by default.
	warningHandler func(w error)
	// zerolog sink, installed lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler sets the warning handler for the whole library.
// It controls how non-fatal conditions such as ColdStartWarning are
// reported and takes precedence over the structured-log sink. Passing
// nil restores the default behavior.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // silence warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. pkg/log
// calls this during setup so warnings are emitted as structured logs.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn raises a warning. An explicitly installed handler wins over the
// structured-log sink; without either, the warning goes to standard
// error.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if warningHandler != nil {
		warningHandler(w)
		return
	}
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	log.Printf("memrec-warning: %v\n", w)
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// ColdStartWarning is raised when a prediction cannot be supported by
// any neighbor (no similar user/artist has an observed interaction with
// the target) and the predictor falls back to a mean value.
type ColdStartWarning struct {
	Model    string
	User     string
	Item     string
	Fallback float64
}

func (w *ColdStartWarning) Error() string {
	return fmt.Sprintf("%s: no usable neighbors for (user=%q, artist=%q); falling back to mean %.4f",
		w.Model, w.User, w.Item, w.Fallback)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ColdStartWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("model", w.Model).
		Str("user", w.User).
		Str("artist", w.Item).
		Float64("fallback", w.Fallback).
		Str("type", "ColdStartWarning")
}

// NewColdStartWarning creates a new ColdStartWarning.
func NewColdStartWarning(model, user, item string, fallback float64) *ColdStartWarning {
	return &ColdStartWarning{Model: model, User: user, Item: item, Fallback: fallback}
}

// DataQualityWarning is raised when rows of an input table are skipped
// during loading because they are malformed (wrong field count,
// unparsable play count, empty identifiers).
type DataQualityWarning struct {
	Source  string
	Skipped int
	Reason  string
}

func (w *DataQualityWarning) Error() string {
	return fmt.Sprintf("skipped %d malformed rows while reading %s: %s", w.Skipped, w.Source, w.Reason)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *DataQualityWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("source", w.Source).
		Int("skipped", w.Skipped).
		Str("reason", w.Reason).
		Str("type", "DataQualityWarning")
}

// NewDataQualityWarning creates a new DataQualityWarning.
func NewDataQualityWarning(source string, skipped int, reason string) *DataQualityWarning {
	return &DataQualityWarning{Source: source, Skipped: skipped, Reason: reason}
}

// UndefinedMetricWarning is raised when an evaluation metric is
// ill-defined for the given input, e.g. NDCG over all-zero relevance
// or precision at k with an empty recommendation list.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // value returned under this condition
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict, TopN or Transform is called
// on a model before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("memrec: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input data does not have the expected
// shape.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows/users, 1 for columns/artists
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("memrec: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// UnknownIDError is returned when a user or artist identifier is not
// part of the index a model or interaction matrix was built over.
type UnknownIDError struct {
	Op   string
	Kind string // "user" or "artist"
	ID   string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("memrec: %s: unknown %s %q", e.Op, e.Kind, e.ID)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *UnknownIDError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("kind", e.Kind).
		Str("id", e.ID).
		Str("type", "UnknownIDError")
}

// NewUnknownIDError creates an UnknownIDError with a stack trace attached.
func NewUnknownIDError(op, kind, id string) error {
	err := &UnknownIDError{Op: op, Kind: kind, ID: id}
	return errors.WithStack(err)
}

// ValidationError is returned when a parameter fails validation. It is
// more specific than ValueError about which parameter is at fault.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("memrec: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace attached.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned for otherwise invalid argument values.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("memrec: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised by a model operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("memrec: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("memrec: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrNotImplemented indicates an unimplemented feature.
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData indicates an empty table or matrix was supplied.
	ErrEmptyData = New("empty data")

	// ErrNoOverlap indicates two vectors share no co-observed entries.
	ErrNoOverlap = New("no overlapping observations")
)
