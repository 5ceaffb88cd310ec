// Package linear implements the model fitters of the pipeline: ordinary
// least squares, the ridge and lasso shrinkage paths, and a binary logistic
// classifier. All fitters satisfy the interfaces in core/model, take a gonum
// design matrix, and report coefficients on the original feature scale.
package linear

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/core/parallel"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// OLS is an ordinary least squares regressor solved by the normal equations.
// A rank-deficient design matrix is refused with SingularMatrixError rather
// than silently regularized.
type OLS struct {
	state     *model.StateManager
	coefs     []float64
	intercept float64
}

// NewOLS creates an unfitted OLS regressor.
func NewOLS() *OLS {
	return &OLS{state: model.NewStateManager()}
}

// Fit solves w = (X'X)^-1 X'y with an implicit intercept column.
func (o *OLS) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewEmptyDatasetError("OLS.Fit")
	}
	if y.Len() != r {
		return errors.NewDimensionError("OLS.Fit", r, y.Len(), 0)
	}
	if err := checkComplete("OLS.Fit", X, y); err != nil {
		return err
	}

	// Augment with the intercept column.
	XI := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, 1000, func(start, end int) {
		for i := start; i < end; i++ {
			XI.Set(i, 0, 1)
			for j := 0; j < c; j++ {
				XI.Set(i, j+1, X.At(i, j))
			}
		}
	})

	var xtx mat.Dense
	xtx.Mul(XI.T(), XI)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return errors.NewSingularMatrixError("OLS.Fit", r, c)
	}

	var xty mat.VecDense
	xty.MulVec(XI.T(), y)

	w := mat.NewVecDense(c+1, nil)
	w.MulVec(&inv, &xty)

	o.intercept = w.AtVec(0)
	o.coefs = make([]float64, c)
	for j := 0; j < c; j++ {
		o.coefs[j] = w.AtVec(j + 1)
	}

	o.state.SetFitted(c, r)
	return nil
}

// Predict returns one fitted value per row of X.
func (o *OLS) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !o.state.IsFitted() {
		return nil, errors.NewNotFittedError("OLS", "Predict")
	}
	return predictLinear("OLS.Predict", o.state, X, o.coefs, o.intercept)
}

// Coefficients returns the fitted weights, one per design-matrix column.
func (o *OLS) Coefficients() []float64 {
	return append([]float64(nil), o.coefs...)
}

// Intercept returns the fitted intercept.
func (o *OLS) Intercept() float64 {
	return o.intercept
}

// predictLinear is shared by every linear fitter.
func predictLinear(op string, state *model.StateManager, X mat.Matrix, coefs []float64, intercept float64) (*mat.VecDense, error) {
	r, c := X.Dims()
	if nFeatures, _ := state.Dims(); c != nFeatures {
		return nil, errors.NewDimensionError(op, nFeatures, c, 1)
	}

	pred := mat.NewVecDense(r, nil)
	parallel.ParallelizeWithThreshold(r, 1000, func(start, end int) {
		for i := start; i < end; i++ {
			v := intercept
			for j := 0; j < c; j++ {
				v += X.At(i, j) * coefs[j]
			}
			pred.SetVec(i, v)
		}
	})
	return pred, nil
}

// checkComplete rejects NaN cells: imputation never happens at this layer.
func checkComplete(op string, X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(X.At(i, j)) {
				return errors.NewMissingValueError(op, "column "+strconv.Itoa(j), i)
			}
		}
		if y != nil && math.IsNaN(y.AtVec(i)) {
			return errors.NewMissingValueError(op, "target", i)
		}
	}
	return nil
}
