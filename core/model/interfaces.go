package model

import "gonum.org/v1/gonum/mat"

// Fitter estimates model parameters from a design matrix and target vector.
type Fitter interface {
	Fit(X mat.Matrix, y *mat.VecDense) error
}

// Predictor produces one prediction per row of X.
type Predictor interface {
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Linear exposes the estimated linear parameters of a fitted model.
// Coefficients returns one weight per design-matrix column; the intercept is
// reported separately and is never penalized by the shrinkage fitters.
type Linear interface {
	Coefficients() []float64
	Intercept() float64
}

// Regressor is a continuous-target model.
type Regressor interface {
	Fitter
	Predictor
	Linear
}

// Classifier is a binary-target model. Predict returns hard 0/1 labels;
// PredictProba returns the positive-class probability per row.
type Classifier interface {
	Fitter
	Predictor
	Linear
	PredictProba(X mat.Matrix) (*mat.VecDense, error)
}
