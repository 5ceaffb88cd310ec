package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// ConfusionMatrix is the 2x2 contingency table of predicted vs observed
// binary labels.
type ConfusionMatrix struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// Total returns the number of scored rows.
func (cm ConfusionMatrix) Total() int {
	return cm.TruePositive + cm.TrueNegative + cm.FalsePositive + cm.FalseNegative
}

// NewConfusionMatrix tabulates 0/1 labels. Non-binary values are rejected.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (ConfusionMatrix, error) {
	n := yTrue.Len()
	if n == 0 {
		return ConfusionMatrix{}, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return ConfusionMatrix{}, errors.NewDimensionError("NewConfusionMatrix", n, yPred.Len(), 0)
	}

	var cm ConfusionMatrix
	for i := 0; i < n; i++ {
		obs, pred := yTrue.AtVec(i), yPred.AtVec(i)
		if (obs != 0 && obs != 1) || (pred != 0 && pred != 1) {
			return ConfusionMatrix{}, errors.NewValueError("NewConfusionMatrix", "labels must be 0 or 1")
		}
		switch {
		case obs == 1 && pred == 1:
			cm.TruePositive++
		case obs == 0 && pred == 0:
			cm.TrueNegative++
		case obs == 0 && pred == 1:
			cm.FalsePositive++
		default:
			cm.FalseNegative++
		}
	}
	return cm, nil
}

// Accuracy returns the fraction of exact label matches.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Accuracy(), nil
}

// Accuracy returns the fraction of agreeing cells in the table.
func (cm ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	return float64(cm.TruePositive+cm.TrueNegative) / float64(total)
}

// CohenKappa returns the chance-corrected agreement
// (observed - expected) / (1 - expected), where expected agreement is
// computed from the marginal class rates of the table. A degenerate table
// with expected agreement 1 scores 0.
func CohenKappa(yTrue, yPred *mat.VecDense) (float64, error) {
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return cm.Kappa(), nil
}

// Kappa computes Cohen's kappa from the table.
func (cm ConfusionMatrix) Kappa() float64 {
	total := float64(cm.Total())
	if total == 0 {
		return 0
	}

	observed := float64(cm.TruePositive+cm.TrueNegative) / total

	predPos := float64(cm.TruePositive+cm.FalsePositive) / total
	predNeg := float64(cm.TrueNegative+cm.FalseNegative) / total
	obsPos := float64(cm.TruePositive+cm.FalseNegative) / total
	obsNeg := float64(cm.TrueNegative+cm.FalsePositive) / total
	expected := predPos*obsPos + predNeg*obsNeg

	if expected == 1 {
		return 0
	}
	return (observed - expected) / (1 - expected)
}
