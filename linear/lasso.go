package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Default stopping criteria for coordinate descent.
const (
	DefaultLassoMaxIter = 1000
	DefaultLassoTol     = 1e-7
)

// Lasso is a linear regressor with an L1 penalty, solved by cyclic
// coordinate descent with exact soft-thresholding. Sufficiently penalized
// coefficients are exactly zero, which is what makes the lasso perform
// implicit variable exclusion. Features are standardized internally and
// coefficients reported on the original scale.
type Lasso struct {
	state     *model.StateManager
	Lambda    float64
	MaxIter   int
	Tol       float64
	coefs     []float64
	intercept float64
	iterRun   int
}

// NewLasso creates an unfitted lasso regressor with the given penalty and
// default stopping criteria.
func NewLasso(lambda float64) *Lasso {
	return &Lasso{
		state:   model.NewStateManager(),
		Lambda:  lambda,
		MaxIter: DefaultLassoMaxIter,
		Tol:     DefaultLassoTol,
	}
}

// Fit minimizes (1/2n)||yc - Zb||^2 + lambda*sum|b_j| on the standardized
// problem. Raises a ConvergenceWarning when the iteration cap is reached
// before the coefficient updates fall below Tol.
func (l *Lasso) Fit(X mat.Matrix, y *mat.VecDense) error {
	if l.Lambda < 0 {
		return errors.NewValueError("Lasso.Fit", "lambda must be non-negative")
	}
	Z, yc, scaler, yMean, err := standardized("Lasso.Fit", X, y)
	if err != nil {
		return err
	}

	b, iters, err := coordinateDescent(Z, yc, l.Lambda, nil, l.maxIter(), l.tol())
	if err != nil {
		return err
	}
	l.iterRun = iters

	r, c := Z.Dims()
	l.coefs, l.intercept = unscale(b, scaler, yMean)
	l.state.SetFitted(c, r)
	return nil
}

func (l *Lasso) maxIter() int {
	if l.MaxIter > 0 {
		return l.MaxIter
	}
	return DefaultLassoMaxIter
}

func (l *Lasso) tol() float64 {
	if l.Tol > 0 {
		return l.Tol
	}
	return DefaultLassoTol
}

// Predict returns one fitted value per row of X.
func (l *Lasso) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("Lasso", "Predict")
	}
	return predictLinear("Lasso.Predict", l.state, X, l.coefs, l.intercept)
}

// Coefficients returns the fitted weights on the original feature scale.
// Excluded variables have exactly zero weight.
func (l *Lasso) Coefficients() []float64 {
	return append([]float64(nil), l.coefs...)
}

// Intercept returns the fitted intercept.
func (l *Lasso) Intercept() float64 {
	return l.intercept
}

// Iterations returns the number of coordinate-descent sweeps of the last fit.
func (l *Lasso) Iterations() int {
	return l.iterRun
}

// LassoPath fits the lasso at every lambda of the grid. The grid is walked
// from its largest to its smallest value with warm starts, the usual
// pathwise trick, and the entries are returned in the caller's order.
func LassoPath(X mat.Matrix, y *mat.VecDense, lambdas []float64) ([]PathEntry, error) {
	if len(lambdas) == 0 {
		return nil, errors.NewValueError("LassoPath", "empty lambda grid")
	}
	for _, lambda := range lambdas {
		if lambda < 0 {
			return nil, errors.NewValueError("LassoPath", "lambda must be non-negative")
		}
	}

	Z, yc, scaler, yMean, err := standardized("LassoPath", X, y)
	if err != nil {
		return nil, err
	}

	// Descending-lambda visit order over the caller's grid.
	order := make([]int, len(lambdas))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if lambdas[order[j]] > lambdas[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	_, c := Z.Dims()
	path := make([]PathEntry, len(lambdas))
	warm := make([]float64, c)
	for _, idx := range order {
		b, _, err := coordinateDescent(Z, yc, lambdas[idx], warm, DefaultLassoMaxIter, DefaultLassoTol)
		if err != nil {
			return nil, err
		}
		copy(warm, b)
		coefs, intercept := unscale(b, scaler, yMean)
		path[idx] = PathEntry{Lambda: lambdas[idx], Coefficients: coefs, Intercept: intercept}
	}
	return path, nil
}

// coordinateDescent runs cyclic coordinate descent on the standardized,
// centered problem. start may be nil or a warm-start coefficient vector.
func coordinateDescent(Z *mat.Dense, yc *mat.VecDense, lambda float64, start []float64, maxIter int, tol float64) ([]float64, int, error) {
	n, c := Z.Dims()

	b := make([]float64, c)
	if start != nil {
		copy(b, start)
	}

	// Per-column second moments; exactly 1 for standardized non-constant
	// columns, 0 for constant ones (which then stay excluded).
	denom := make([]float64, c)
	cols := make([][]float64, c)
	for j := 0; j < c; j++ {
		col := make([]float64, n)
		mat.Col(col, j, Z)
		cols[j] = col
		var ss float64
		for _, v := range col {
			ss += v * v
		}
		denom[j] = ss / float64(n)
	}

	// Residual r = yc - Z b.
	resid := make([]float64, n)
	for i := 0; i < n; i++ {
		resid[i] = yc.AtVec(i)
		for j := 0; j < c; j++ {
			resid[i] -= cols[j][i] * b[j]
		}
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < c; j++ {
			if denom[j] == 0 {
				continue
			}
			// rho_j = (1/n) z_j . (r + z_j b_j)
			var rho float64
			for i := 0; i < n; i++ {
				rho += cols[j][i] * (resid[i] + cols[j][i]*b[j])
			}
			rho /= float64(n)

			next := softThreshold(rho, lambda) / denom[j]
			if delta := next - b[j]; delta != 0 {
				for i := 0; i < n; i++ {
					resid[i] -= cols[j][i] * delta
				}
				if ad := math.Abs(delta); ad > maxDelta {
					maxDelta = ad
				}
				b[j] = next
			}
		}

		if err := errors.CheckNumericalStability("coordinate_descent", b, iter); err != nil {
			return nil, iter, err
		}
		if maxDelta < tol {
			return b, iter + 1, nil
		}
	}

	errors.Warn(errors.NewConvergenceWarning("Lasso", maxIter, tol))
	return b, iter, nil
}

// softThreshold is the proximal operator of the L1 penalty. It returns an
// exact zero whenever |z| <= lambda.
func softThreshold(z, lambda float64) float64 {
	switch {
	case z > lambda:
		return z - lambda
	case z < -lambda:
		return z + lambda
	default:
		return 0
	}
}
