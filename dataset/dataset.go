// Package dataset holds the rectangular, immutable data model that the
// fitting pipeline consumes: a typed column store plus the partitioning and
// resampling operations that slice it into train, holdout and fold views.
//
// Columns are typed by explicit declaration, never inferred. Continuous
// columns use NaN for missing cells, categorical columns use the empty
// string. Derived columns are added by constructing a new Dataset; records
// are never edited in place.
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Kind declares how a feature is typed.
type Kind int

const (
	// Continuous features enter the design matrix as-is.
	Continuous Kind = iota
	// Categorical features expand to indicator columns, dropping the
	// reference level.
	Categorical
)

// Feature describes one column. For categorical features, Levels is the
// caller-supplied level ordering and its first entry is the dummy-coding
// reference level. The ordering is part of the model specification: changing
// it changes which coefficient is the baseline.
type Feature struct {
	Name   string
	Kind   Kind
	Levels []string
}

// Schema declares the columns of a dataset and designates the target.
type Schema struct {
	Features []Feature
	Target   Feature
}

// FeatureNames returns the predictor names in schema order.
func (s Schema) FeatureNames() []string {
	names := make([]string, len(s.Features))
	for i, f := range s.Features {
		names[i] = f.Name
	}
	return names
}

// feature looks up a feature (or the target) by name.
func (s Schema) feature(name string) (Feature, bool) {
	if s.Target.Name == name {
		return s.Target, true
	}
	for _, f := range s.Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Dataset is an immutable column store. All columns have the same length.
type Dataset struct {
	schema  Schema
	n       int
	numeric map[string][]float64
	labels  map[string][]string
}

// FromColumns builds a Dataset from pre-assembled columns. Every feature in
// the schema (and the target) must be present in the map matching its kind,
// and all columns must share one length.
func FromColumns(schema Schema, numeric map[string][]float64, labels map[string][]string) (*Dataset, error) {
	ds := &Dataset{
		schema:  schema,
		n:       -1,
		numeric: make(map[string][]float64, len(numeric)),
		labels:  make(map[string][]string, len(labels)),
	}

	columns := append([]Feature{schema.Target}, schema.Features...)
	for _, f := range columns {
		switch f.Kind {
		case Continuous:
			col, ok := numeric[f.Name]
			if !ok {
				return nil, errors.NewValueError("dataset.FromColumns", "no continuous column for feature "+f.Name)
			}
			if err := ds.checkLen(f.Name, len(col)); err != nil {
				return nil, err
			}
			ds.numeric[f.Name] = append([]float64(nil), col...)
		case Categorical:
			col, ok := labels[f.Name]
			if !ok {
				return nil, errors.NewValueError("dataset.FromColumns", "no categorical column for feature "+f.Name)
			}
			if err := ds.checkLen(f.Name, len(col)); err != nil {
				return nil, err
			}
			if len(f.Levels) == 0 {
				return nil, errors.NewValueError("dataset.FromColumns", "categorical feature "+f.Name+" declares no level ordering")
			}
			ds.labels[f.Name] = append([]string(nil), col...)
		default:
			return nil, errors.NewValueError("dataset.FromColumns", "unknown kind for feature "+f.Name)
		}
	}

	if ds.n < 0 {
		ds.n = 0
	}
	return ds, nil
}

func (ds *Dataset) checkLen(name string, l int) error {
	if ds.n < 0 {
		ds.n = l
		return nil
	}
	if l != ds.n {
		return errors.NewDimensionError("dataset.FromColumns", ds.n, l, 0)
	}
	return nil
}

// Len returns the number of records.
func (ds *Dataset) Len() int { return ds.n }

// Schema returns the dataset's schema.
func (ds *Dataset) Schema() Schema { return ds.schema }

// WithColumn returns a new Dataset extended by a derived feature column.
// The receiver is left untouched.
func (ds *Dataset) WithColumn(f Feature, numeric []float64, labels []string) (*Dataset, error) {
	if _, exists := ds.schema.feature(f.Name); exists {
		return nil, errors.NewValueError("Dataset.WithColumn", "feature "+f.Name+" already exists")
	}

	schema := ds.schema
	schema.Features = append(append([]Feature(nil), ds.schema.Features...), f)

	out := &Dataset{schema: schema, n: ds.n, numeric: ds.numeric, labels: ds.labels}
	switch f.Kind {
	case Continuous:
		if len(numeric) != ds.n {
			return nil, errors.NewDimensionError("Dataset.WithColumn", ds.n, len(numeric), 0)
		}
		out.numeric = copyNumeric(ds.numeric)
		out.numeric[f.Name] = append([]float64(nil), numeric...)
	case Categorical:
		if len(labels) != ds.n {
			return nil, errors.NewDimensionError("Dataset.WithColumn", ds.n, len(labels), 0)
		}
		if len(f.Levels) == 0 {
			return nil, errors.NewValueError("Dataset.WithColumn", "categorical feature "+f.Name+" declares no level ordering")
		}
		out.labels = copyLabels(ds.labels)
		out.labels[f.Name] = append([]string(nil), labels...)
	default:
		return nil, errors.NewValueError("Dataset.WithColumn", "unknown kind for feature "+f.Name)
	}
	return out, nil
}

func copyNumeric(m map[string][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyLabels(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// rowComplete reports whether row i has no missing cell.
func (ds *Dataset) rowComplete(i int) bool {
	for _, col := range ds.numeric {
		if math.IsNaN(col[i]) {
			return false
		}
	}
	for _, col := range ds.labels {
		if col[i] == "" {
			return false
		}
	}
	return true
}

// DropIncomplete returns a new Dataset containing only the records without
// missing values, mirroring the clean-before-model reference behavior.
func (ds *Dataset) DropIncomplete() *Dataset {
	keep := make([]int, 0, ds.n)
	for i := 0; i < ds.n; i++ {
		if ds.rowComplete(i) {
			keep = append(keep, i)
		}
	}
	return ds.Subset(keep)
}

// Subset returns a new Dataset with the given rows, in the given order.
func (ds *Dataset) Subset(indices []int) *Dataset {
	out := &Dataset{
		schema:  ds.schema,
		n:       len(indices),
		numeric: make(map[string][]float64, len(ds.numeric)),
		labels:  make(map[string][]string, len(ds.labels)),
	}
	for name, col := range ds.numeric {
		sub := make([]float64, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		out.numeric[name] = sub
	}
	for name, col := range ds.labels {
		sub := make([]string, len(indices))
		for i, idx := range indices {
			sub[i] = col[idx]
		}
		out.labels[name] = sub
	}
	return out
}

// DesignColumns returns the design-matrix column names produced by the given
// features: the feature name itself for continuous features, and
// "name=level" for each non-reference level of a categorical feature.
func (ds *Dataset) DesignColumns(features []string) ([]string, error) {
	var cols []string
	for _, name := range features {
		f, ok := ds.schema.feature(name)
		if !ok {
			return nil, errors.NewValueError("Dataset.DesignColumns", "unknown feature "+name)
		}
		switch f.Kind {
		case Continuous:
			cols = append(cols, f.Name)
		case Categorical:
			for _, level := range f.Levels[1:] {
				cols = append(cols, f.Name+"="+level)
			}
		}
	}
	return cols, nil
}

// Matrix materializes the design matrix for the given features over the given
// rows. Categorical features are expanded to indicator columns with the first
// declared level dropped as the reference. A missing cell raises
// MissingValueError: no implicit imputation happens here.
func (ds *Dataset) Matrix(features []string, indices []int) (*mat.Dense, error) {
	cols, err := ds.DesignColumns(features)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, errors.NewEmptyDatasetError("Dataset.Matrix")
	}

	X := mat.NewDense(len(indices), len(cols), nil)
	for i, idx := range indices {
		j := 0
		for _, name := range features {
			f, _ := ds.schema.feature(name)
			switch f.Kind {
			case Continuous:
				v := ds.numeric[name][idx]
				if math.IsNaN(v) {
					return nil, errors.NewMissingValueError("Dataset.Matrix", name, idx)
				}
				X.Set(i, j, v)
				j++
			case Categorical:
				label := ds.labels[name][idx]
				if label == "" {
					return nil, errors.NewMissingValueError("Dataset.Matrix", name, idx)
				}
				for _, level := range f.Levels[1:] {
					if label == level {
						X.Set(i, j, 1)
					}
					j++
				}
			}
		}
	}
	return X, nil
}

// TargetVec returns the continuous target over the given rows. Missing
// observations stay NaN so that scoring can exclude them; fitting paths are
// expected to run on complete records.
func (ds *Dataset) TargetVec(indices []int) (*mat.VecDense, error) {
	if ds.schema.Target.Kind != Continuous {
		return nil, errors.NewValueError("Dataset.TargetVec", "target "+ds.schema.Target.Name+" is not continuous")
	}
	col := ds.numeric[ds.schema.Target.Name]
	y := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		y.SetVec(i, col[idx])
	}
	return y, nil
}

// TargetBinary returns the categorical target encoded 0/1 by its declared
// level ordering (first level is 0). The target must declare exactly two
// levels.
func (ds *Dataset) TargetBinary(indices []int) (*mat.VecDense, error) {
	t := ds.schema.Target
	if t.Kind != Categorical {
		return nil, errors.NewValueError("Dataset.TargetBinary", "target "+t.Name+" is not categorical")
	}
	if len(t.Levels) != 2 {
		return nil, errors.NewValueError("Dataset.TargetBinary", "binary target must declare exactly two levels")
	}
	col := ds.labels[t.Name]
	y := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		switch col[idx] {
		case t.Levels[0]:
			y.SetVec(i, 0)
		case t.Levels[1]:
			y.SetVec(i, 1)
		case "":
			return nil, errors.NewMissingValueError("Dataset.TargetBinary", t.Name, idx)
		default:
			return nil, errors.NewValueError("Dataset.TargetBinary", "label "+col[idx]+" not in declared levels")
		}
	}
	return y, nil
}

// targetLabelAt is used by the stratified partitioner.
func (ds *Dataset) targetLabelAt(i int) string {
	return ds.labels[ds.schema.Target.Name][i]
}
