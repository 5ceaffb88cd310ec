package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// separableData draws two well-separated gaussian clusters labeled 0 and 1.
func separableData(n int, seed uint64) (*mat.Dense, *mat.VecDense) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			X.Set(i, 0, rng.NormFloat64()-3)
			X.Set(i, 1, rng.NormFloat64()-3)
			y.SetVec(i, 0)
		} else {
			X.Set(i, 0, rng.NormFloat64()+3)
			X.Set(i, 1, rng.NormFloat64()+3)
			y.SetVec(i, 1)
		}
	}
	return X, y
}

func TestLogisticSeparatesClusters(t *testing.T) {
	X, y := separableData(100, 31)

	clf := NewLogistic(0)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	correct := 0
	for i := 0; i < y.Len(); i++ {
		if pred.AtVec(i) == y.AtVec(i) {
			correct++
		}
	}
	if acc := float64(correct) / float64(y.Len()); acc < 0.95 {
		t.Errorf("training accuracy = %v on separable clusters, want >= 0.95", acc)
	}
}

func TestLogisticProbabilitiesBounded(t *testing.T) {
	X, y := separableData(60, 32)

	clf := NewLogistic(0.01)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	for i := 0; i < proba.Len(); i++ {
		p := proba.AtVec(i)
		if p < 0 || p > 1 {
			t.Errorf("proba[%d] = %v, want within [0,1]", i, p)
		}
	}
}

func TestLogisticRejectsNonBinaryTarget(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{0, 1, 2})

	err := NewLogistic(0).Fit(X, y)
	var valueErr *errors.ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("Fit() error = %v, want ValueError for non-binary labels", err)
	}
}

func TestLogisticNotFitted(t *testing.T) {
	_, err := NewLogistic(0).Predict(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("Predict() error = %v, want NotFittedError", err)
	}
}
