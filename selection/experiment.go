package selection

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/modelselect/dataset"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/pkg/log"
)

// tieEps is the tolerance under which two candidate means count as tied.
const tieEps = 1e-12

// candidate is one scored model: a configuration and, for shrinkage methods,
// one point of its lambda grid.
type candidate struct {
	cfg      Config
	lambda   float64
	features []string
	scores   []float64
	mean     float64
	std      float64
}

// Experiment runs the full selection pipeline over one dataset: partition,
// per-configuration cross-validation, winner selection, refit, holdout score.
type Experiment struct {
	// TrainFraction is the share of records assigned to the training
	// partition, strictly between 0 and 1.
	TrainFraction float64
	// Seed drives the train/holdout partition.
	Seed uint64
	// Configs are the candidate configurations to evaluate.
	Configs []Config
	// Logger receives progress events. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// NewExperiment builds an experiment with a disabled logger.
func NewExperiment(trainFraction float64, seed uint64, configs ...Config) *Experiment {
	return &Experiment{
		TrainFraction: trainFraction,
		Seed:          seed,
		Configs:       configs,
		Logger:        log.Nop(),
	}
}

// classification reports whether the experiment scores by accuracy.
func (e *Experiment) classification() bool {
	return len(e.Configs) > 0 && e.Configs[0].Method == MethodLogistic
}

func (e *Experiment) validate() error {
	if len(e.Configs) == 0 {
		return errors.NewValueError("Experiment.Run", "no configurations")
	}
	classify := e.classification()
	for _, cfg := range e.Configs {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if (cfg.Method == MethodLogistic) != classify {
			return errors.NewValueError("Experiment.Run",
				cfg.Name+": cannot mix regression and classification configurations")
		}
	}
	return nil
}

// Run executes the experiment. Configurations are isolated from each other: a
// fold failure aborts its configuration, lands in Report.Failures and the
// remaining configurations still run. Run itself fails only when the data
// cannot be partitioned or every configuration failed.
func (e *Experiment) Run(ds *dataset.Dataset) (*Report, error) {
	start := time.Now()
	if err := e.validate(); err != nil {
		return nil, err
	}

	complete := ds.DropIncomplete()
	if dropped := ds.Len() - complete.Len(); dropped > 0 {
		e.Logger.Info().Int("dropped_rows", dropped).Msg("dropped incomplete records")
	}

	split, err := dataset.Partition(complete, e.TrainFraction, e.Seed)
	if err != nil {
		return nil, err
	}
	e.Logger.Info().
		Int(log.SamplesKey, complete.Len()).
		Int("train", len(split.Train)).
		Int("holdout", len(split.Holdout)).
		Uint64(log.SeedKey, e.Seed).
		Msg("partitioned dataset")

	metric := "rmse"
	if e.classification() {
		metric = "accuracy"
	}

	report := &Report{
		TrainRows:   len(split.Train),
		HoldoutRows: len(split.Holdout),
	}

	var candidates []candidate
	for _, cfg := range e.Configs {
		cands, err := e.evaluate(complete, split.Train, cfg)
		if err != nil {
			e.Logger.Error().
				Str(log.ConfigKey, cfg.Name).
				Err(err).
				Msg("configuration failed")
			report.Failures = append(report.Failures, Failure{Config: cfg.Name, Error: err.Error()})
			continue
		}
		for _, c := range cands {
			report.Scores = append(report.Scores, Score{
				Config:   c.cfg.Name,
				Method:   c.cfg.Method.String(),
				Lambda:   c.lambda,
				Features: c.features,
				Metric:   metric,
				Mean:     c.mean,
				Std:      c.std,
				Folds:    c.scores,
			})
			e.Logger.Info().
				Str(log.ConfigKey, c.cfg.Name).
				Str(log.MethodKey, c.cfg.Method.String()).
				Float64("lambda", c.lambda).
				Str(log.MetricKey, metric).
				Float64("mean", c.mean).
				Float64("std", c.std).
				Msg("scored candidate")
		}
		candidates = append(candidates, cands...)
	}
	if len(candidates) == 0 {
		return nil, errors.New("every configuration failed")
	}

	best := selectBest(candidates, e.classification())
	winner, err := e.refit(complete, split, best, metric)
	if err != nil {
		return nil, errors.Wrapf(err, "refitting %s", best.cfg.Name)
	}
	report.Best = winner

	e.Logger.Info().
		Str(log.ConfigKey, winner.Config).
		Str(log.MetricKey, metric).
		Float64("holdout", winner.HoldoutScore).
		Int64(log.DurationKey, time.Since(start).Milliseconds()).
		Msg("experiment finished")
	return report, nil
}

// evaluate cross-validates one configuration and returns its candidates.
func (e *Experiment) evaluate(ds *dataset.Dataset, train []int, cfg Config) ([]candidate, error) {
	folds, err := dataset.MakeFolds(train, cfg.CVFolds, cfg.Seed)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Method == MethodLogistic:
		lambdas := cfg.Lambdas
		if len(lambdas) == 0 {
			lambdas = []float64{0}
		}
		cands := make([]candidate, 0, len(lambdas))
		for _, lambda := range lambdas {
			scores, err := crossValAccuracy(ds, folds, cfg.Features, lambda, cfg.Center, cfg.Scale)
			if err != nil {
				return nil, err
			}
			cands = append(cands, newCandidate(cfg, lambda, cfg.Features, scores))
		}
		return cands, nil

	case cfg.Method.shrinkage():
		cands := make([]candidate, 0, len(cfg.Lambdas))
		for _, lambda := range cfg.Lambdas {
			scores, err := crossValRMSE(ds, folds, cfg.Features, cfg.Method, lambda, cfg.Center, cfg.Scale)
			if err != nil {
				return nil, err
			}
			cands = append(cands, newCandidate(cfg, lambda, cfg.Features, scores))
		}
		return cands, nil

	case cfg.Method.subsetSearch():
		res, err := searchSubset(ds, folds, cfg.Method, cfg.Features, cfg.MaxVars, cfg.Center, cfg.Scale)
		if err != nil {
			return nil, err
		}
		return []candidate{newCandidate(cfg, 0, res.features, res.scores)}, nil

	default:
		scores, err := crossValRMSE(ds, folds, cfg.Features, MethodOLS, 0, cfg.Center, cfg.Scale)
		if err != nil {
			return nil, err
		}
		return []candidate{newCandidate(cfg, 0, cfg.Features, scores)}, nil
	}
}

func newCandidate(cfg Config, lambda float64, features []string, scores []float64) candidate {
	mean, std := meanStd(scores)
	return candidate{cfg: cfg, lambda: lambda, features: features, scores: scores, mean: mean, std: std}
}

// selectBest picks the candidate with the lowest mean RMSE (regression) or
// highest mean accuracy (classification). Ties go to the simpler model:
// fewer retained features first, then the larger lambda.
func selectBest(candidates []candidate, classify bool) candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best, classify) {
			best = c
		}
	}
	return best
}

func better(a, b candidate, classify bool) bool {
	diff := a.mean - b.mean
	if classify {
		diff = -diff
	}
	if diff < -tieEps {
		return true
	}
	if diff > tieEps {
		return false
	}
	if len(a.features) != len(b.features) {
		return len(a.features) < len(b.features)
	}
	return a.lambda > b.lambda
}

// refit fits the winning candidate on the full training partition and scores
// it once against the holdout partition.
func (e *Experiment) refit(ds *dataset.Dataset, split dataset.Split, best candidate, metric string) (Winner, error) {
	winner := Winner{
		Config:   best.cfg.Name,
		Method:   best.cfg.Method.String(),
		Lambda:   best.lambda,
		Features: best.features,
		Metric:   metric,
		CVMean:   best.mean,
	}

	cols, err := ds.DesignColumns(best.features)
	if err != nil {
		return Winner{}, err
	}

	var coefs []float64
	if best.cfg.Method == MethodLogistic {
		f, err := fitClassification(ds, best.features, split.Train, best.lambda, best.cfg.Center, best.cfg.Scale)
		if err != nil {
			return Winner{}, err
		}
		score, kappa, err := holdoutClassification(f, ds, best.features, split.Holdout)
		if err != nil {
			return Winner{}, err
		}
		coefs, winner.Intercept = f.coefficients()
		winner.HoldoutScore = score
		winner.HoldoutKappa = kappa
	} else {
		method := best.cfg.Method
		if method.subsetSearch() {
			method = MethodOLS
		}
		f, err := fitRegression(ds, best.features, split.Train, method, best.lambda, best.cfg.Center, best.cfg.Scale)
		if err != nil {
			return Winner{}, err
		}
		score, err := scoreRegression(f, ds, best.features, split.Holdout)
		if err != nil {
			return Winner{}, err
		}
		coefs, winner.Intercept = f.coefficients()
		winner.HoldoutScore = score
	}

	if len(coefs) != len(cols) {
		return Winner{}, errors.NewDimensionError("Experiment.refit", len(cols), len(coefs), 1)
	}
	winner.Coefficients = make(map[string]float64, len(cols))
	for j, name := range cols {
		winner.Coefficients[name] = coefs[j]
	}
	return winner, nil
}
