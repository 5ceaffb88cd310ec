// Package metrics implements the scoring functions of the pipeline: RMSE and
// friends for continuous targets, accuracy and Cohen's kappa for binary ones.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// MSE returns the mean squared error. Rows whose observed value is NaN are
// excluded from the mean, not treated as zero error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	scored := 0
	for i := 0; i < n; i++ {
		obs := yTrue.AtVec(i)
		if math.IsNaN(obs) {
			continue
		}
		diff := obs - yPred.AtVec(i)
		sum += diff * diff
		scored++
	}
	if scored == 0 {
		return 0, errors.NewValueError("MSE", "no observed values to score")
	}
	return sum / float64(scored), nil
}

// RMSE returns the root mean squared error, sqrt(MSE).
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error over observed rows.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	scored := 0
	for i := 0; i < n; i++ {
		obs := yTrue.AtVec(i)
		if math.IsNaN(obs) {
			continue
		}
		sum += math.Abs(obs - yPred.AtVec(i))
		scored++
	}
	if scored == 0 {
		return 0, errors.NewValueError("MAE", "no observed values to score")
	}
	return sum / float64(scored), nil
}

// R2 returns the coefficient of determination, 1 - RSS/TSS.
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2", n, yPred.Len(), 0)
	}

	obs := make([]float64, 0, n)
	pred := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(yTrue.AtVec(i)) {
			continue
		}
		obs = append(obs, yTrue.AtVec(i))
		pred = append(pred, yPred.AtVec(i))
	}
	if len(obs) == 0 {
		return 0, errors.NewValueError("R2", "no observed values to score")
	}

	mean := stat.Mean(obs, nil)
	var tss, rss float64
	for i := range obs {
		tss += (obs[i] - mean) * (obs[i] - mean)
		rss += (obs[i] - pred[i]) * (obs[i] - pred[i])
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2", "no variance in observed values")
	}
	return 1 - rss/tss, nil
}
