// Package errors provides the error and warning types used across modelselect.
// Every constructor attaches a stack trace via cockroachdb/errors so that a
// failure inside a cross-validation round can be traced back to the exact
// configuration and fold that produced it.
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
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("modelselect-warning: %v\n", w)
	}
)

// SetWarningHandler replaces the process-wide warning handler. Warnings are
// advisory (for example a coordinate-descent run that hit its iteration cap);
// they never abort a fit.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn raises a warning through the configured handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning is raised when an iterative solver stops at its
// iteration cap before reaching the requested tolerance.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Tolerance  float64
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge within %d iterations (tol=%g). Consider increasing max iterations.",
		w.Algorithm, w.Iterations, w.Tolerance)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Float64("tolerance", w.Tolerance).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, tolerance float64) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Tolerance: tolerance}
}

// ===========================================================================
//
//	Pipeline errors
//
// ===========================================================================

// InvalidFractionError reports a train fraction outside the open interval (0,1).
type InvalidFractionError struct {
	Op       string
	Fraction float64
}

func (e *InvalidFractionError) Error() string {
	return fmt.Sprintf("modelselect: %s: train fraction must be in (0,1), got %v", e.Op, e.Fraction)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *InvalidFractionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Float64("fraction", e.Fraction).
		Str("type", "InvalidFractionError")
}

// NewInvalidFractionError creates an InvalidFractionError with a stack trace.
func NewInvalidFractionError(op string, fraction float64) error {
	return errors.WithStack(&InvalidFractionError{Op: op, Fraction: fraction})
}

// EmptyDatasetError reports an operation on a dataset with zero records.
type EmptyDatasetError struct {
	Op string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("modelselect: %s: dataset has no records", e.Op)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *EmptyDatasetError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).Str("type", "EmptyDatasetError")
}

// NewEmptyDatasetError creates an EmptyDatasetError with a stack trace.
func NewEmptyDatasetError(op string) error {
	return errors.WithStack(&EmptyDatasetError{Op: op})
}

// InsufficientDataError reports more requested folds than available records.
type InsufficientDataError struct {
	Op      string
	Needed  int
	Records int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("modelselect: %s: need at least %d records, got %d", e.Op, e.Needed, e.Records)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *InsufficientDataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("needed", e.Needed).
		Int("records", e.Records).
		Str("type", "InsufficientDataError")
}

// NewInsufficientDataError creates an InsufficientDataError with a stack trace.
func NewInsufficientDataError(op string, needed, records int) error {
	return errors.WithStack(&InsufficientDataError{Op: op, Needed: needed, Records: records})
}

// SingularMatrixError reports a rank-deficient design matrix for which
// ordinary least squares has no unique solution. The fitter refuses rather
// than silently regularizing.
type SingularMatrixError struct {
	Op   string
	Rows int
	Cols int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("modelselect: %s: design matrix (%dx%d) is singular, no unique least-squares solution", e.Op, e.Rows, e.Cols)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *SingularMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("rows", e.Rows).
		Int("cols", e.Cols).
		Str("type", "SingularMatrixError")
}

// NewSingularMatrixError creates a SingularMatrixError with a stack trace.
func NewSingularMatrixError(op string, rows, cols int) error {
	return errors.WithStack(&SingularMatrixError{Op: op, Rows: rows, Cols: cols})
}

// MissingValueError reports a missing cell in data handed to a fitter.
// No implicit imputation is performed at the fitting layer; callers drop or
// impute incomplete records beforehand.
type MissingValueError struct {
	Op    string
	Field string
	Row   int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("modelselect: %s: missing value in field %q at row %d", e.Op, e.Field, e.Row)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *MissingValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("field", e.Field).
		Int("row", e.Row).
		Str("type", "MissingValueError")
}

// NewMissingValueError creates a MissingValueError with a stack trace.
func NewMissingValueError(op, field string, row int) error {
	return errors.WithStack(&MissingValueError{Op: op, Field: field, Row: row})
}

// ===========================================================================
//
//	Estimator errors
//
// ===========================================================================

// NotFittedError reports Predict or Transform on a model that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("modelselect: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError reports input whose shape differs from what was expected.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("modelselect: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("modelselect: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
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

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}
