package errors

import (
	"math"
	"strings"
	"testing"
)

func TestInvalidFractionError(t *testing.T) {
	err := NewInvalidFractionError("Partition", 1.5)
	if err == nil {
		t.Fatal("NewInvalidFractionError() returned nil")
	}

	var fracErr *InvalidFractionError
	if !As(err, &fracErr) {
		t.Fatalf("As() failed to extract *InvalidFractionError from %v", err)
	}
	if fracErr.Fraction != 1.5 {
		t.Errorf("Fraction = %v, want 1.5", fracErr.Fraction)
	}
	if !strings.Contains(err.Error(), "(0,1)") {
		t.Errorf("Error() = %q, want mention of valid range", err.Error())
	}
}

func TestErrorTypesSurviveWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		as   func(error) bool
	}{
		{
			name: "EmptyDatasetError",
			err:  NewEmptyDatasetError("Partition"),
			as: func(err error) bool {
				var e *EmptyDatasetError
				return As(err, &e)
			},
		},
		{
			name: "InsufficientDataError",
			err:  NewInsufficientDataError("MakeFolds", 5, 3),
			as: func(err error) bool {
				var e *InsufficientDataError
				return As(err, &e)
			},
		},
		{
			name: "SingularMatrixError",
			err:  NewSingularMatrixError("OLS.Fit", 10, 12),
			as: func(err error) bool {
				var e *SingularMatrixError
				return As(err, &e)
			},
		},
		{
			name: "MissingValueError",
			err:  NewMissingValueError("Matrix", "temp", 7),
			as: func(err error) bool {
				var e *MissingValueError
				return As(err, &e)
			},
		},
		{
			name: "NotFittedError",
			err:  NewNotFittedError("OLS", "Predict"),
			as: func(err error) bool {
				var e *NotFittedError
				return As(err, &e)
			},
		},
		{
			name: "DimensionError",
			err:  NewDimensionError("OLS.Predict", 3, 4, 1),
			as: func(err error) bool {
				var e *DimensionError
				return As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrapf(tt.err, "configuration %d fold %d", 2, 4)
			if !tt.as(wrapped) {
				t.Errorf("type lost after Wrapf: %v", wrapped)
			}
			if !strings.Contains(wrapped.Error(), "fold 4") {
				t.Errorf("wrap context missing: %q", wrapped.Error())
			}
		})
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewConvergenceWarning("Lasso", 1000, 1e-7)
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !strings.Contains(captured.Error(), "Lasso") {
		t.Errorf("warning = %q, want algorithm name", captured.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("cd_update", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("stable values flagged: %v", err)
	}
	if err := CheckNumericalStability("cd_update", []float64{1, math.NaN()}, 3); err == nil {
		t.Error("NaN not detected")
	}
	if err := CheckScalar("loss", math.Inf(1), 1); err == nil {
		t.Error("Inf not detected")
	}
}
