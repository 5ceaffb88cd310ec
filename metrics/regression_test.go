package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRMSE(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     []float64
		yPred     []float64
		want      float64
		tolerance float64
		wantErr   bool
	}{
		{
			name:      "perfect prediction",
			yTrue:     []float64{1, 2, 3, 4},
			yPred:     []float64{1, 2, 3, 4},
			want:      0,
			tolerance: 1e-12,
		},
		{
			name:      "constant error of 2",
			yTrue:     []float64{1, 2, 3},
			yPred:     []float64{3, 4, 5},
			want:      2,
			tolerance: 1e-12,
		},
		{
			name:      "missing observed rows are excluded, not zero",
			yTrue:     []float64{1, math.NaN(), 3},
			yPred:     []float64{2, 100, 4},
			want:      1,
			tolerance: 1e-12,
		},
		{
			name:    "all observations missing",
			yTrue:   []float64{math.NaN(), math.NaN()},
			yPred:   []float64{1, 2},
			wantErr: true,
		},
		{
			name:    "dimension mismatch",
			yTrue:   []float64{1, 2},
			yPred:   []float64{1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RMSE(
				mat.NewVecDense(len(tt.yTrue), tt.yTrue),
				mat.NewVecDense(len(tt.yPred), tt.yPred),
			)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RMSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("RMSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Predicting the sample mean for every row must score exactly the population
// standard deviation of the target.
func TestRMSEOfMeanPredictorIsPopulationStdDev(t *testing.T) {
	obs := []float64{4, 8, 15, 16, 23, 42}

	var mean float64
	for _, v := range obs {
		mean += v
	}
	mean /= float64(len(obs))

	var ss float64
	for _, v := range obs {
		ss += (v - mean) * (v - mean)
	}
	popStd := math.Sqrt(ss / float64(len(obs)))

	pred := make([]float64, len(obs))
	for i := range pred {
		pred[i] = mean
	}

	got, err := RMSE(mat.NewVecDense(len(obs), obs), mat.NewVecDense(len(pred), pred))
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if math.Abs(got-popStd) > 1e-12 {
		t.Errorf("RMSE(mean predictor) = %v, want population std %v", got, popStd)
	}
}

func TestMAE(t *testing.T) {
	got, err := MAE(
		mat.NewVecDense(4, []float64{1, 2, 3, 4}),
		mat.NewVecDense(4, []float64{2, 1, 5, 4}),
	)
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("MAE() = %v, want 1.0", got)
	}
}

func TestR2(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	if got, err := R2(yTrue, yTrue); err != nil || math.Abs(got-1) > 1e-12 {
		t.Errorf("R2(perfect) = %v, %v, want 1", got, err)
	}

	mean := mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5})
	if got, err := R2(yTrue, mean); err != nil || math.Abs(got) > 1e-12 {
		t.Errorf("R2(mean predictor) = %v, %v, want 0", got, err)
	}

	constant := mat.NewVecDense(2, []float64{3, 3})
	if _, err := R2(constant, constant); err == nil {
		t.Error("R2() with zero target variance should fail")
	}
}
