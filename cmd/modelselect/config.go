package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/modelselect/dataset"
	"github.com/YuminosukeSato/modelselect/pkg/errors"
	"github.com/YuminosukeSato/modelselect/selection"
)

// featureSpec declares one column of the input file. Types are declared, not
// inferred, and categorical levels are listed in reference-first order.
type featureSpec struct {
	Name   string   `yaml:"name"`
	Kind   string   `yaml:"kind"`
	Levels []string `yaml:"levels,omitempty"`
}

type candidateSpec struct {
	Name     string    `yaml:"name"`
	Method   string    `yaml:"method"`
	Features []string  `yaml:"features"`
	Center   bool      `yaml:"center"`
	Scale    bool      `yaml:"scale"`
	Lambdas  []float64 `yaml:"lambdas"`
	MaxVars  int       `yaml:"max_vars"`
	CVFolds  int       `yaml:"cv_folds"`
	Seed     uint64    `yaml:"seed"`
}

// experimentSpec is the YAML experiment file.
type experimentSpec struct {
	Dataset       string          `yaml:"dataset"`
	Target        featureSpec     `yaml:"target"`
	Features      []featureSpec   `yaml:"features"`
	TrainFraction float64         `yaml:"train_fraction"`
	Seed          uint64          `yaml:"seed"`
	LogLevel      string          `yaml:"log_level"`
	Output        string          `yaml:"output"`
	Configs       []candidateSpec `yaml:"configs"`
}

func readSpec(path string) (*experimentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var spec experimentSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	spec.setDefaults()
	return &spec, nil
}

func (s *experimentSpec) setDefaults() {
	if s.TrainFraction == 0 {
		s.TrainFraction = 0.75
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	for i := range s.Configs {
		c := &s.Configs[i]
		if c.CVFolds == 0 {
			c.CVFolds = 5
		}
		if c.Seed == 0 {
			c.Seed = s.Seed
		}
		if len(c.Features) == 0 {
			for _, f := range s.Features {
				c.Features = append(c.Features, f.Name)
			}
		}
	}
}

func parseFeature(f featureSpec) (dataset.Feature, error) {
	switch f.Kind {
	case "continuous":
		return dataset.Feature{Name: f.Name, Kind: dataset.Continuous}, nil
	case "categorical":
		if len(f.Levels) == 0 {
			return dataset.Feature{}, errors.NewValueError("config",
				f.Name+": categorical feature needs an explicit level ordering")
		}
		return dataset.Feature{Name: f.Name, Kind: dataset.Categorical, Levels: f.Levels}, nil
	default:
		return dataset.Feature{}, errors.NewValueError("config",
			f.Name+": kind must be continuous or categorical, got "+f.Kind)
	}
}

// schema builds the dataset schema from the declared columns.
func (s *experimentSpec) schema() (dataset.Schema, error) {
	target, err := parseFeature(s.Target)
	if err != nil {
		return dataset.Schema{}, err
	}
	schema := dataset.Schema{Target: target}
	for _, f := range s.Features {
		feat, err := parseFeature(f)
		if err != nil {
			return dataset.Schema{}, err
		}
		schema.Features = append(schema.Features, feat)
	}
	return schema, nil
}

// configs maps the candidate specs onto selection configurations.
func (s *experimentSpec) configs() ([]selection.Config, error) {
	out := make([]selection.Config, 0, len(s.Configs))
	for _, c := range s.Configs {
		method, err := selection.ParseMethod(c.Method)
		if err != nil {
			return nil, errors.Wrapf(err, "config %s", c.Name)
		}
		out = append(out, selection.Config{
			Name:     c.Name,
			Method:   method,
			Features: c.Features,
			Center:   c.Center,
			Scale:    c.Scale,
			Lambdas:  c.Lambdas,
			MaxVars:  c.MaxVars,
			CVFolds:  c.CVFolds,
			Seed:     c.Seed,
		})
	}
	return out, nil
}
