package selection

import (
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/core/model"
	"github.com/YuminosukeSato/modelselect/dataset"
	"github.com/YuminosukeSato/modelselect/linear"
	"github.com/YuminosukeSato/modelselect/metrics"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/preprocessing"
)

// fittedRegression bundles a fitted regressor with the scaler (if any) that
// its design matrix was passed through, so prediction applies the same
// transform.
type fittedRegression struct {
	reg    model.Regressor
	scaler *preprocessing.StandardScaler
}

func (f *fittedRegression) predict(X mat.Matrix) (*mat.VecDense, error) {
	if f.scaler != nil {
		Z, err := f.scaler.Transform(X)
		if err != nil {
			return nil, err
		}
		return f.reg.Predict(Z)
	}
	return f.reg.Predict(X)
}

// coefficients reports the fitted weights and intercept on the original
// feature scale, folding a scaler's centering and scaling back in.
func (f *fittedRegression) coefficients() ([]float64, float64) {
	return unscaleParams(f.reg, f.scaler)
}

func (f *fittedClassifier) coefficients() ([]float64, float64) {
	return unscaleParams(f.clf, f.scaler)
}

func unscaleParams(m model.Linear, scaler *preprocessing.StandardScaler) ([]float64, float64) {
	coefs := append([]float64{}, m.Coefficients()...)
	intercept := m.Intercept()
	if scaler == nil {
		return coefs, intercept
	}
	for j := range coefs {
		coefs[j] /= scaler.Scale[j]
		intercept -= coefs[j] * scaler.Mean[j]
	}
	return coefs, intercept
}

func newRegressor(method Method, lambda float64) model.Regressor {
	switch method {
	case MethodRidge:
		return linear.NewRidge(lambda)
	case MethodLasso:
		return linear.NewLasso(lambda)
	default:
		return linear.NewOLS()
	}
}

// fitRegression fits one regressor on the given rows. center/scale are
// ignored for shrinkage methods, which standardize internally.
func fitRegression(ds *dataset.Dataset, features []string, rows []int, method Method, lambda float64, center, scale bool) (*fittedRegression, error) {
	X, err := ds.Matrix(features, rows)
	if err != nil {
		return nil, err
	}
	y, err := ds.TargetVec(rows)
	if err != nil {
		return nil, err
	}

	out := &fittedRegression{reg: newRegressor(method, lambda)}
	design := mat.Matrix(X)
	if (center || scale) && !method.shrinkage() {
		out.scaler = preprocessing.NewStandardScaler(center, scale)
		Z, err := out.scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		design = Z
	}
	if err := out.reg.Fit(design, y); err != nil {
		return nil, err
	}
	return out, nil
}

// scoreRegression computes RMSE of a fitted regressor over the given rows.
func scoreRegression(f *fittedRegression, ds *dataset.Dataset, features []string, rows []int) (float64, error) {
	X, err := ds.Matrix(features, rows)
	if err != nil {
		return 0, err
	}
	y, err := ds.TargetVec(rows)
	if err != nil {
		return 0, err
	}
	pred, err := f.predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.RMSE(y, pred)
}

// runFolds evaluates one metric value per fold. Rounds are independent, so
// they run concurrently and join on a WaitGroup barrier; the first failing
// fold's error is reported with its index.
func runFolds(folds []dataset.Fold, score func(fold dataset.Fold) (float64, error)) ([]float64, error) {
	scores := make([]float64, len(folds))
	errs := make([]error, len(folds))

	var wg sync.WaitGroup
	for idx := range folds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scores[i], errs[i] = score(folds[i])
		}(idx)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
	}
	return scores, nil
}

// crossValRMSE returns the per-fold validation RMSE of a regression method.
func crossValRMSE(ds *dataset.Dataset, folds []dataset.Fold, features []string, method Method, lambda float64, center, scale bool) ([]float64, error) {
	return runFolds(folds, func(fold dataset.Fold) (float64, error) {
		f, err := fitRegression(ds, features, fold.Train, method, lambda, center, scale)
		if err != nil {
			return 0, err
		}
		return scoreRegression(f, ds, features, fold.Validation)
	})
}

// fittedClassifier is the classification counterpart of fittedRegression.
type fittedClassifier struct {
	clf    model.Classifier
	scaler *preprocessing.StandardScaler
}

func (f *fittedClassifier) predict(X mat.Matrix) (*mat.VecDense, error) {
	if f.scaler != nil {
		Z, err := f.scaler.Transform(X)
		if err != nil {
			return nil, err
		}
		return f.clf.Predict(Z)
	}
	return f.clf.Predict(X)
}

func fitClassification(ds *dataset.Dataset, features []string, rows []int, lambda float64, center, scale bool) (*fittedClassifier, error) {
	X, err := ds.Matrix(features, rows)
	if err != nil {
		return nil, err
	}
	y, err := ds.TargetBinary(rows)
	if err != nil {
		return nil, err
	}

	out := &fittedClassifier{clf: linear.NewLogistic(lambda)}
	design := mat.Matrix(X)
	if center || scale {
		out.scaler = preprocessing.NewStandardScaler(center, scale)
		Z, err := out.scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		design = Z
	}
	if err := out.clf.Fit(design, y); err != nil {
		return nil, err
	}
	return out, nil
}

func scoreClassification(f *fittedClassifier, ds *dataset.Dataset, features []string, rows []int) (float64, error) {
	X, err := ds.Matrix(features, rows)
	if err != nil {
		return 0, err
	}
	y, err := ds.TargetBinary(rows)
	if err != nil {
		return 0, err
	}
	pred, err := f.predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, pred)
}

// holdoutClassification scores a fitted classifier once on the holdout rows,
// returning accuracy and Cohen's kappa.
func holdoutClassification(f *fittedClassifier, ds *dataset.Dataset, features []string, rows []int) (acc, kappa float64, err error) {
	X, err := ds.Matrix(features, rows)
	if err != nil {
		return 0, 0, err
	}
	y, err := ds.TargetBinary(rows)
	if err != nil {
		return 0, 0, err
	}
	pred, err := f.predict(X)
	if err != nil {
		return 0, 0, err
	}
	cm, err := metrics.NewConfusionMatrix(y, pred)
	if err != nil {
		return 0, 0, err
	}
	return cm.Accuracy(), cm.Kappa(), nil
}

// crossValAccuracy returns the per-fold validation accuracy of the logistic
// classifier.
func crossValAccuracy(ds *dataset.Dataset, folds []dataset.Fold, features []string, lambda float64, center, scale bool) ([]float64, error) {
	return runFolds(folds, func(fold dataset.Fold) (float64, error) {
		f, err := fitClassification(ds, features, fold.Train, lambda, center, scale)
		if err != nil {
			return 0, err
		}
		return scoreClassification(f, ds, features, fold.Validation)
	})
}

// meanStd aggregates fold scores into mean and sample standard deviation.
func meanStd(scores []float64) (mean, std float64) {
	mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		std = stat.StdDev(scores, nil)
	}
	return mean, std
}
