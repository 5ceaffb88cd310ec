package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/modelselect/selection"
)

const sampleSpec = `
dataset: housing.csv
target:
  name: price
  kind: continuous
features:
  - name: area
    kind: continuous
  - name: region
    kind: categorical
    levels: [north, south, east]
seed: 42
configs:
  - name: ols-all
    method: ols
  - name: lasso-path
    method: lasso
    features: [area]
    lambdas: [0.01, 0.1, 1]
    cv_folds: 10
    seed: 7
`

func writeSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing spec file: %v", err)
	}
	return path
}

func TestReadSpecDefaults(t *testing.T) {
	spec, err := readSpec(writeSpec(t, sampleSpec))
	if err != nil {
		t.Fatalf("readSpec() error = %v", err)
	}

	if spec.TrainFraction != 0.75 {
		t.Errorf("TrainFraction = %v, want default 0.75", spec.TrainFraction)
	}
	if spec.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", spec.LogLevel)
	}

	ols := spec.Configs[0]
	if ols.CVFolds != 5 {
		t.Errorf("ols cv_folds = %d, want default 5", ols.CVFolds)
	}
	if ols.Seed != 42 {
		t.Errorf("ols seed = %d, want experiment seed 42", ols.Seed)
	}
	if len(ols.Features) != 2 {
		t.Errorf("ols features = %v, want every declared feature", ols.Features)
	}

	lasso := spec.Configs[1]
	if lasso.CVFolds != 10 || lasso.Seed != 7 {
		t.Errorf("lasso overrides lost: folds %d seed %d", lasso.CVFolds, lasso.Seed)
	}
}

func TestSpecSchemaAndConfigs(t *testing.T) {
	spec, err := readSpec(writeSpec(t, sampleSpec))
	if err != nil {
		t.Fatalf("readSpec() error = %v", err)
	}

	schema, err := spec.schema()
	if err != nil {
		t.Fatalf("schema() error = %v", err)
	}
	if schema.Target.Name != "price" {
		t.Errorf("target = %q, want price", schema.Target.Name)
	}
	if len(schema.Features[1].Levels) != 3 {
		t.Errorf("region levels = %v, want the declared ordering", schema.Features[1].Levels)
	}

	configs, err := spec.configs()
	if err != nil {
		t.Fatalf("configs() error = %v", err)
	}
	if configs[0].Method != selection.MethodOLS || configs[1].Method != selection.MethodLasso {
		t.Errorf("methods = %v/%v, want ols/lasso", configs[0].Method, configs[1].Method)
	}
}

func TestSpecRejectsCategoricalWithoutLevels(t *testing.T) {
	spec, err := readSpec(writeSpec(t, `
dataset: d.csv
target:
  name: y
  kind: continuous
features:
  - name: region
    kind: categorical
`))
	if err != nil {
		t.Fatalf("readSpec() error = %v", err)
	}
	if _, err := spec.schema(); err == nil {
		t.Fatal("schema() expected error for categorical feature without levels")
	}
}
