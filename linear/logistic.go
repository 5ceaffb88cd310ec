package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Default stopping criteria for logistic gradient descent.
const (
	DefaultLogisticMaxIter = 500
	DefaultLogisticTol     = 1e-6
)

// Logistic is a binary classifier fitted by batch gradient descent on the
// log-likelihood, with an optional L2 penalty (the intercept is never
// penalized). Targets must be encoded 0/1; Predict thresholds the positive
// probability at 0.5.
type Logistic struct {
	state     *model.StateManager
	Lambda    float64
	MaxIter   int
	Tol       float64
	coefs     []float64
	intercept float64
}

// NewLogistic creates an unfitted logistic classifier. lambda is the L2
// penalty; zero means unpenalized maximum likelihood.
func NewLogistic(lambda float64) *Logistic {
	return &Logistic{
		state:   model.NewStateManager(),
		Lambda:  lambda,
		MaxIter: DefaultLogisticMaxIter,
		Tol:     DefaultLogisticTol,
	}
}

// Fit runs gradient descent with a decaying step size until the largest
// gradient component falls below Tol or the iteration cap is reached.
func (lg *Logistic) Fit(X mat.Matrix, y *mat.VecDense) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewEmptyDatasetError("Logistic.Fit")
	}
	if y.Len() != r {
		return errors.NewDimensionError("Logistic.Fit", r, y.Len(), 0)
	}
	if err := checkComplete("Logistic.Fit", X, y); err != nil {
		return err
	}
	for i := 0; i < r; i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError("Logistic.Fit", "target labels must be 0 or 1")
		}
	}

	maxIter := lg.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultLogisticMaxIter
	}
	tol := lg.Tol
	if tol <= 0 {
		tol = DefaultLogisticTol
	}

	w := make([]float64, c)
	b := 0.0
	grad := make([]float64, c)

	converged := false
	for iter := 0; iter < maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0

		for i := 0; i < r; i++ {
			z := b
			for j := 0; j < c; j++ {
				z += X.At(i, j) * w[j]
			}
			e := sigmoid(z) - y.AtVec(i)
			gradB += e
			for j := 0; j < c; j++ {
				grad[j] += e * X.At(i, j)
			}
		}

		for j := range grad {
			grad[j] /= float64(r)
			if lg.Lambda > 0 {
				grad[j] += lg.Lambda * w[j]
			}
		}
		gradB /= float64(r)

		step := 1.0 / (1.0 + 0.01*float64(iter))
		for j := range w {
			w[j] -= step * grad[j]
		}
		b -= step * gradB

		if err := errors.CheckNumericalStability("logistic_update", w, iter); err != nil {
			return err
		}

		maxGrad := math.Abs(gradB)
		for _, g := range grad {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("Logistic", maxIter, tol))
	}

	lg.coefs = w
	lg.intercept = b
	lg.state.SetFitted(c, r)
	return nil
}

// PredictProba returns the positive-class probability per row.
func (lg *Logistic) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	if !lg.state.IsFitted() {
		return nil, errors.NewNotFittedError("Logistic", "PredictProba")
	}
	scores, err := predictLinear("Logistic.PredictProba", lg.state, X, lg.coefs, lg.intercept)
	if err != nil {
		return nil, err
	}
	for i := 0; i < scores.Len(); i++ {
		scores.SetVec(i, sigmoid(scores.AtVec(i)))
	}
	return scores, nil
}

// Predict returns hard 0/1 labels at the 0.5 probability threshold.
func (lg *Logistic) Predict(X mat.Matrix) (*mat.VecDense, error) {
	proba, err := lg.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i := 0; i < proba.Len(); i++ {
		if proba.AtVec(i) >= 0.5 {
			proba.SetVec(i, 1)
		} else {
			proba.SetVec(i, 0)
		}
	}
	return proba, nil
}

// Coefficients returns the fitted weights.
func (lg *Logistic) Coefficients() []float64 {
	return append([]float64(nil), lg.coefs...)
}

// Intercept returns the fitted intercept.
func (lg *Logistic) Intercept() float64 {
	return lg.intercept
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
