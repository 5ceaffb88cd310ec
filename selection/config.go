// Package selection drives the model-selection experiment: it evaluates a
// grid of candidate configurations by k-fold cross-validation on the training
// partition, picks the winner, refits it on the full training set and scores
// it once against the holdout set.
package selection

import (
	"fmt"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Method enumerates the closed set of fitting procedures. New procedures are
// added as new variants with their own fit path, not parsed out of strings.
type Method int

const (
	// MethodOLS fits ordinary least squares on the configured features.
	MethodOLS Method = iota
	// MethodRidge evaluates an L2 shrinkage path over the lambda grid.
	MethodRidge
	// MethodLasso evaluates an L1 shrinkage path over the lambda grid.
	MethodLasso
	// MethodForward grows the feature subset greedily from empty.
	MethodForward
	// MethodBackward prunes the feature subset greedily from full.
	MethodBackward
	// MethodStepwise interleaves greedy additions and removals.
	MethodStepwise
	// MethodLogistic fits the binary classifier; requires a categorical
	// target and scores by accuracy instead of RMSE.
	MethodLogistic
)

var methodNames = map[Method]string{
	MethodOLS:      "ols",
	MethodRidge:    "ridge",
	MethodLasso:    "lasso",
	MethodForward:  "forward",
	MethodBackward: "backward",
	MethodStepwise: "stepwise",
	MethodLogistic: "logistic",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod maps a method name to its variant.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, errors.NewValueError("ParseMethod", "unknown method "+name)
}

// shrinkage reports whether the method walks a lambda grid.
func (m Method) shrinkage() bool {
	return m == MethodRidge || m == MethodLasso
}

// subsetSearch reports whether the method chooses its own feature subset.
func (m Method) subsetSearch() bool {
	return m == MethodForward || m == MethodBackward || m == MethodStepwise
}

// Config is an immutable description of one candidate fitting procedure.
type Config struct {
	// Name labels the configuration in scores, logs and errors.
	Name string
	// Method selects the fitting procedure.
	Method Method
	// Features are the candidate predictors, by schema name. Subset-search
	// methods choose among them; the other methods use all of them.
	Features []string
	// Center and Scale standardize the design matrix before OLS or
	// logistic fitting. The shrinkage fitters always standardize
	// internally, so the flags are implied for them.
	Center bool
	Scale  bool
	// Lambdas is the regularization grid for shrinkage methods, and the
	// optional L2 grid for the logistic method.
	Lambdas []float64
	// MaxVars caps how many predictors a subset-search method may retain.
	// Zero means no cap.
	MaxVars int
	// CVFolds is the number of cross-validation folds, at least 2.
	CVFolds int
	// Seed drives fold assignment for this configuration.
	Seed uint64
}

// Validate checks the configuration surface before any data is touched.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.NewValueError("Config.Validate", "configuration needs a name")
	}
	if len(c.Features) == 0 {
		return errors.NewValueError("Config.Validate", c.Name+": no candidate features")
	}
	if c.CVFolds < 2 {
		return errors.NewValueError("Config.Validate", c.Name+": cv_folds must be at least 2")
	}
	if c.Method.shrinkage() && len(c.Lambdas) == 0 {
		return errors.NewValueError("Config.Validate", c.Name+": shrinkage method needs a lambda grid")
	}
	for _, l := range c.Lambdas {
		if l < 0 {
			return errors.NewValueError("Config.Validate", c.Name+": negative lambda in grid")
		}
	}
	if c.MaxVars < 0 {
		return errors.NewValueError("Config.Validate", c.Name+": max_vars must not be negative")
	}
	return nil
}
