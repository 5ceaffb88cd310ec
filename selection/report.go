package selection

import (
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Score is one aggregated row of the experiment table: a candidate
// configuration (and, for shrinkage methods, one point of its lambda grid)
// with its cross-validated metric.
type Score struct {
	Config   string    `json:"config"`
	Method   string    `json:"method"`
	Lambda   float64   `json:"lambda,omitempty"`
	Features []string  `json:"features"`
	Metric   string    `json:"metric"`
	Mean     float64   `json:"mean"`
	Std      float64   `json:"std"`
	Folds    []float64 `json:"folds"`
}

// Winner describes the best candidate after refitting on the full training
// partition, along with its single holdout evaluation.
type Winner struct {
	Config       string             `json:"config"`
	Method       string             `json:"method"`
	Lambda       float64            `json:"lambda,omitempty"`
	Features     []string           `json:"features"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	Metric       string             `json:"metric"`
	CVMean       float64            `json:"cv_mean"`
	HoldoutScore float64            `json:"holdout_score"`
	// HoldoutKappa is Cohen's kappa on the holdout set, classification only.
	HoldoutKappa float64 `json:"holdout_kappa,omitempty"`
}

// Failure records a configuration whose evaluation aborted. One failing fold
// stops its configuration but not the rest of the experiment.
type Failure struct {
	Config string `json:"config"`
	Error  string `json:"error"`
}

// Report is the full outcome of one experiment run.
type Report struct {
	TrainRows   int       `json:"train_rows"`
	HoldoutRows int       `json:"holdout_rows"`
	Scores      []Score   `json:"scores"`
	Failures    []Failure `json:"failures,omitempty"`
	Best        Winner    `json:"best"`
}

// WriteJSON exports the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return nil
}
