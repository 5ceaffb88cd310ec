package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func vec(vals ...float64) *mat.VecDense {
	return mat.NewVecDense(len(vals), vals)
}

func TestConfusionMatrix(t *testing.T) {
	cm, err := NewConfusionMatrix(
		vec(1, 1, 0, 0, 1, 0),
		vec(1, 0, 0, 1, 1, 0),
	)
	if err != nil {
		t.Fatalf("NewConfusionMatrix() error = %v", err)
	}

	if cm.TruePositive != 2 || cm.TrueNegative != 2 || cm.FalsePositive != 1 || cm.FalseNegative != 1 {
		t.Errorf("confusion matrix = %+v, want TP=2 TN=2 FP=1 FN=1", cm)
	}
	if got := cm.Accuracy(); math.Abs(got-4.0/6.0) > 1e-12 {
		t.Errorf("Accuracy() = %v, want %v", got, 4.0/6.0)
	}
}

func TestConfusionMatrixRejectsNonBinary(t *testing.T) {
	if _, err := NewConfusionMatrix(vec(0, 2), vec(0, 1)); err == nil {
		t.Error("NewConfusionMatrix() accepted label 2")
	}
	if _, err := NewConfusionMatrix(vec(0, 1), vec(0.5, 1)); err == nil {
		t.Error("NewConfusionMatrix() accepted label 0.5")
	}
}

func TestCohenKappa(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     *mat.VecDense
		yPred     *mat.VecDense
		want      float64
		tolerance float64
	}{
		{
			name:      "perfect agreement",
			yTrue:     vec(1, 0, 1, 0, 1),
			yPred:     vec(1, 0, 1, 0, 1),
			want:      1.0,
			tolerance: 1e-12,
		},
		{
			name: "chance-level agreement scores zero",
			// Predictions split each observed class in the same 50/50
			// proportion, exactly what marginal chance predicts.
			yTrue:     vec(1, 1, 0, 0),
			yPred:     vec(1, 0, 1, 0),
			want:      0.0,
			tolerance: 1e-12,
		},
		{
			name:      "total disagreement",
			yTrue:     vec(1, 1, 0, 0),
			yPred:     vec(0, 0, 1, 1),
			want:      -1.0,
			tolerance: 1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CohenKappa(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("CohenKappa() error = %v", err)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("CohenKappa() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCohenKappaDegenerateTable(t *testing.T) {
	// Single observed and predicted class: expected agreement is 1,
	// kappa is defined to 0 rather than dividing by zero.
	got, err := CohenKappa(vec(1, 1, 1), vec(1, 1, 1))
	if err != nil {
		t.Fatalf("CohenKappa() error = %v", err)
	}
	if got != 0 {
		t.Errorf("CohenKappa(degenerate) = %v, want 0", got)
	}
}

func TestAccuracy(t *testing.T) {
	got, err := Accuracy(vec(1, 0, 1, 0), vec(1, 0, 0, 0))
	if err != nil {
		t.Fatalf("Accuracy() error = %v", err)
	}
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("Accuracy() = %v, want 0.75", got)
	}
}
