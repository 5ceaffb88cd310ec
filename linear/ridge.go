package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/preprocessing"
)

// Ridge is a linear regressor with an L2 penalty on the coefficients.
// Features are standardized internally before solving, the intercept is
// never penalized, and coefficients are reported back on the original scale,
// so Lambda = 0 reproduces OLS exactly.
type Ridge struct {
	state     *model.StateManager
	Lambda    float64
	coefs     []float64
	intercept float64
}

// NewRidge creates an unfitted ridge regressor with the given penalty.
func NewRidge(lambda float64) *Ridge {
	return &Ridge{state: model.NewStateManager(), Lambda: lambda}
}

// Fit solves b = (Z'Z + lambda*n*I)^-1 Z'yc on the standardized, centered
// problem and maps the solution back to the original scale.
func (rg *Ridge) Fit(X mat.Matrix, y *mat.VecDense) error {
	if rg.Lambda < 0 {
		return errors.NewValueError("Ridge.Fit", "lambda must be non-negative")
	}
	coefs, intercept, err := solveRidge("Ridge.Fit", X, y, rg.Lambda)
	if err != nil {
		return err
	}
	r, c := X.Dims()
	rg.coefs = coefs
	rg.intercept = intercept
	rg.state.SetFitted(c, r)
	return nil
}

// Predict returns one fitted value per row of X.
func (rg *Ridge) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if !rg.state.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}
	return predictLinear("Ridge.Predict", rg.state, X, rg.coefs, rg.intercept)
}

// Coefficients returns the fitted weights on the original feature scale.
func (rg *Ridge) Coefficients() []float64 {
	return append([]float64(nil), rg.coefs...)
}

// Intercept returns the fitted intercept.
func (rg *Ridge) Intercept() float64 {
	return rg.intercept
}

// PathEntry is one point of a shrinkage path: the coefficient vector obtained
// at a single regularization strength.
type PathEntry struct {
	Lambda       float64
	Coefficients []float64
	Intercept    float64
}

// RidgePath fits the ridge solution at every lambda of the grid, in the
// order given, and returns one path entry per lambda.
func RidgePath(X mat.Matrix, y *mat.VecDense, lambdas []float64) ([]PathEntry, error) {
	if len(lambdas) == 0 {
		return nil, errors.NewValueError("RidgePath", "empty lambda grid")
	}
	path := make([]PathEntry, len(lambdas))
	for i, lambda := range lambdas {
		if lambda < 0 {
			return nil, errors.NewValueError("RidgePath", "lambda must be non-negative")
		}
		coefs, intercept, err := solveRidge("RidgePath", X, y, lambda)
		if err != nil {
			return nil, err
		}
		path[i] = PathEntry{Lambda: lambda, Coefficients: coefs, Intercept: intercept}
	}
	return path, nil
}

// standardized centers and scales X and centers y, returning the transform
// statistics needed to map coefficients back.
func standardized(op string, X mat.Matrix, y *mat.VecDense) (Z *mat.Dense, yc *mat.VecDense, scaler *preprocessing.StandardScaler, yMean float64, err error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, nil, 0, errors.NewEmptyDatasetError(op)
	}
	if y.Len() != r {
		return nil, nil, nil, 0, errors.NewDimensionError(op, r, y.Len(), 0)
	}
	if err := checkComplete(op, X, y); err != nil {
		return nil, nil, nil, 0, err
	}

	scaler = preprocessing.NewStandardScaler(true, true)
	Z, err = scaler.FitTransform(X)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	for i := 0; i < r; i++ {
		yMean += y.AtVec(i)
	}
	yMean /= float64(r)
	yc = mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yc.SetVec(i, y.AtVec(i)-yMean)
	}
	return Z, yc, scaler, yMean, nil
}

// unscale maps standardized-space coefficients back to the original feature
// scale and recovers the intercept from the column means.
func unscale(b []float64, scaler *preprocessing.StandardScaler, yMean float64) (coefs []float64, intercept float64) {
	coefs = make([]float64, len(b))
	intercept = yMean
	for j, v := range b {
		coefs[j] = v / scaler.Scale[j]
		intercept -= coefs[j] * scaler.Mean[j]
	}
	return coefs, intercept
}

func solveRidge(op string, X mat.Matrix, y *mat.VecDense, lambda float64) ([]float64, float64, error) {
	Z, yc, scaler, yMean, err := standardized(op, X, y)
	if err != nil {
		return nil, 0, err
	}
	r, c := Z.Dims()

	var ztz mat.Dense
	ztz.Mul(Z.T(), Z)
	for j := 0; j < c; j++ {
		ztz.Set(j, j, ztz.At(j, j)+lambda*float64(r))
	}

	var inv mat.Dense
	if err := inv.Inverse(&ztz); err != nil {
		// Only reachable at lambda == 0; any positive penalty makes the
		// system positive definite.
		return nil, 0, errors.NewSingularMatrixError(op, r, c)
	}

	var zty mat.VecDense
	zty.MulVec(Z.T(), yc)

	b := mat.NewVecDense(c, nil)
	b.MulVec(&inv, &zty)

	coefs, intercept := unscale(b.RawVector().Data, scaler, yMean)
	return coefs, intercept, nil
}
