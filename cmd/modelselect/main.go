// Command modelselect runs a model-selection experiment described by a YAML
// file: it loads a delimited dataset, cross-validates every candidate
// configuration, and writes a JSON report with the per-candidate scores and
// the winning model's holdout evaluation.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/modelselect/dataset"
	"github.com/YuminosukeSato/modelselect/pkg/log"
	"github.com/YuminosukeSato/modelselect/selection"
)

func main() {
	configPath := flag.String("config", "experiment.yaml", "path to the experiment file")
	outPath := flag.String("out", "", "report path, overrides the experiment file (default stdout)")
	logLevel := flag.String("log-level", "", "log level, overrides the experiment file")
	flag.Parse()

	logger := log.NewConsole("info")

	spec, err := readSpec(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot load experiment file")
	}
	if *logLevel != "" {
		spec.LogLevel = *logLevel
	}
	logger = log.NewConsole(spec.LogLevel)

	if err := run(spec, *outPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("experiment failed")
	}
}

func run(spec *experimentSpec, outPath string, logger zerolog.Logger) error {
	schema, err := spec.schema()
	if err != nil {
		return err
	}
	configs, err := spec.configs()
	if err != nil {
		return err
	}

	ds, err := dataset.ReadCSVFile(spec.Dataset, schema)
	if err != nil {
		return err
	}
	logger.Info().
		Str("dataset", spec.Dataset).
		Int(log.SamplesKey, ds.Len()).
		Int(log.FeaturesKey, len(schema.Features)).
		Msg("loaded dataset")

	exp := selection.NewExperiment(spec.TrainFraction, spec.Seed, configs...)
	exp.Logger = logger

	report, err := exp.Run(ds)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = spec.Output
	}
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return report.WriteJSON(out)
}
