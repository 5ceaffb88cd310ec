package selection

import (
	"github.com/YuminosukeSato/modelselect/dataset"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// subsetResult is the outcome of a greedy subset search: the retained
// features and the fold RMSEs of the final subset.
type subsetResult struct {
	features []string
	scores   []float64
}

// subsetScore cross-validates an OLS fit on one candidate subset and returns
// its mean RMSE together with the raw fold scores.
func subsetScore(ds *dataset.Dataset, folds []dataset.Fold, features []string, center, scale bool) (float64, []float64, error) {
	scores, err := crossValRMSE(ds, folds, features, MethodOLS, 0, center, scale)
	if err != nil {
		return 0, nil, err
	}
	mean, _ := meanStd(scores)
	return mean, scores, nil
}

// bestAddition tries every feature not yet in the subset and returns the one
// whose addition gives the lowest mean RMSE.
func bestAddition(ds *dataset.Dataset, folds []dataset.Fold, current, candidates []string, center, scale bool) (string, float64, []float64, error) {
	in := make(map[string]bool, len(current))
	for _, f := range current {
		in[f] = true
	}

	best := ""
	bestMean := 0.0
	var bestScores []float64
	for _, cand := range candidates {
		if in[cand] {
			continue
		}
		trial := append(append([]string{}, current...), cand)
		mean, scores, err := subsetScore(ds, folds, trial, center, scale)
		if err != nil {
			return "", 0, nil, errors.Wrapf(err, "adding %s", cand)
		}
		if best == "" || mean < bestMean {
			best, bestMean, bestScores = cand, mean, scores
		}
	}
	return best, bestMean, bestScores, nil
}

// bestRemoval tries dropping each retained feature and returns the drop that
// gives the lowest mean RMSE.
func bestRemoval(ds *dataset.Dataset, folds []dataset.Fold, current []string, center, scale bool) (string, float64, []float64, error) {
	best := ""
	bestMean := 0.0
	var bestScores []float64
	for _, drop := range current {
		trial := make([]string, 0, len(current)-1)
		for _, f := range current {
			if f != drop {
				trial = append(trial, f)
			}
		}
		mean, scores, err := subsetScore(ds, folds, trial, center, scale)
		if err != nil {
			return "", 0, nil, errors.Wrapf(err, "dropping %s", drop)
		}
		if best == "" || mean < bestMean {
			best, bestMean, bestScores = drop, mean, scores
		}
	}
	return best, bestMean, bestScores, nil
}

func without(features []string, drop string) []string {
	out := make([]string, 0, len(features)-1)
	for _, f := range features {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}

// forwardSearch grows the subset from empty, one feature per step, keeping
// each addition only while it lowers the cross-validated RMSE.
func forwardSearch(ds *dataset.Dataset, folds []dataset.Fold, candidates []string, maxVars int, center, scale bool) (subsetResult, error) {
	limit := len(candidates)
	if maxVars > 0 && maxVars < limit {
		limit = maxVars
	}

	// The first feature is always accepted; an empty subset has no model
	// to compare against.
	first, curMean, curScores, err := bestAddition(ds, folds, nil, candidates, center, scale)
	if err != nil {
		return subsetResult{}, err
	}
	if first == "" {
		return subsetResult{}, errors.NewValueError("forwardSearch", "no candidate features")
	}
	current := []string{first}

	for len(current) < limit {
		add, mean, scores, err := bestAddition(ds, folds, current, candidates, center, scale)
		if err != nil {
			return subsetResult{}, err
		}
		if mean >= curMean {
			break
		}
		current = append(current, add)
		curMean, curScores = mean, scores
	}
	return subsetResult{features: current, scores: curScores}, nil
}

// backwardSearch starts from the full candidate set and drops features while
// a drop lowers the cross-validated RMSE (or while the cap is exceeded).
func backwardSearch(ds *dataset.Dataset, folds []dataset.Fold, candidates []string, maxVars int, center, scale bool) (subsetResult, error) {
	current := append([]string{}, candidates...)
	curMean, curScores, err := subsetScore(ds, folds, current, center, scale)
	if err != nil {
		return subsetResult{}, err
	}

	for len(current) > 1 {
		drop, mean, scores, err := bestRemoval(ds, folds, current, center, scale)
		if err != nil {
			return subsetResult{}, err
		}
		over := maxVars > 0 && len(current) > maxVars
		if mean >= curMean && !over {
			break
		}
		current = without(current, drop)
		curMean, curScores = mean, scores
	}
	return subsetResult{features: current, scores: curScores}, nil
}

// stepwiseSearch interleaves forward additions with backward removals: after
// each accepted addition it checks whether dropping any earlier feature now
// improves the score.
func stepwiseSearch(ds *dataset.Dataset, folds []dataset.Fold, candidates []string, maxVars int, center, scale bool) (subsetResult, error) {
	res, err := forwardSearch(ds, folds, candidates, 1, center, scale)
	if err != nil {
		return subsetResult{}, err
	}
	current := res.features
	curScores := res.scores
	curMean, _ := meanStd(curScores)

	limit := len(candidates)
	if maxVars > 0 && maxVars < limit {
		limit = maxVars
	}

	for {
		improved := false

		if len(current) < limit {
			add, mean, scores, err := bestAddition(ds, folds, current, candidates, center, scale)
			if err != nil {
				return subsetResult{}, err
			}
			if add != "" && mean < curMean {
				current = append(current, add)
				curMean, curScores = mean, scores
				improved = true
			}
		}

		if len(current) > 1 {
			drop, mean, scores, err := bestRemoval(ds, folds, current, center, scale)
			if err != nil {
				return subsetResult{}, err
			}
			if mean < curMean {
				current = without(current, drop)
				curMean, curScores = mean, scores
				improved = true
			}
		}

		if !improved {
			break
		}
	}
	return subsetResult{features: current, scores: curScores}, nil
}

// searchSubset dispatches to the greedy search matching the method.
func searchSubset(ds *dataset.Dataset, folds []dataset.Fold, method Method, candidates []string, maxVars int, center, scale bool) (subsetResult, error) {
	switch method {
	case MethodForward:
		return forwardSearch(ds, folds, candidates, maxVars, center, scale)
	case MethodBackward:
		return backwardSearch(ds, folds, candidates, maxVars, center, scale)
	case MethodStepwise:
		return stepwiseSearch(ds, folds, candidates, maxVars, center, scale)
	default:
		return subsetResult{}, errors.NewValueError("searchSubset", method.String()+" is not a subset-search method")
	}
}
