package dataset

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func continuousTargetDataset(t *testing.T, n int) *Dataset {
	t.Helper()
	schema := Schema{
		Features: []Feature{{Name: "x", Kind: Continuous}},
		Target:   Feature{Name: "y", Kind: Continuous},
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = float64(2 * i)
	}
	ds, err := FromColumns(schema, map[string][]float64{"x": xs, "y": ys}, nil)
	if err != nil {
		t.Fatalf("FromColumns() error = %v", err)
	}
	return ds
}

func TestPartitionErrors(t *testing.T) {
	ds := continuousTargetDataset(t, 10)

	tests := []struct {
		name     string
		fraction float64
	}{
		{"zero fraction", 0},
		{"negative fraction", -0.5},
		{"one", 1},
		{"above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(ds, tt.fraction, 1)
			var fracErr *errors.InvalidFractionError
			if !errors.As(err, &fracErr) {
				t.Errorf("Partition() error = %v, want InvalidFractionError", err)
			}
		})
	}

	empty := &Dataset{schema: ds.Schema()}
	_, err := Partition(empty, 0.75, 1)
	var emptyErr *errors.EmptyDatasetError
	if !errors.As(err, &emptyErr) {
		t.Errorf("Partition() on empty dataset error = %v, want EmptyDatasetError", err)
	}
}

func TestPartitionDeterministic(t *testing.T) {
	ds := continuousTargetDataset(t, 100)

	first, err := Partition(ds, 0.75, 42)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	second, err := Partition(ds, 0.75, 42)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}

	if !equalInts(first.Train, second.Train) || !equalInts(first.Holdout, second.Holdout) {
		t.Error("same seed produced different splits")
	}

	other, err := Partition(ds, 0.75, 43)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if equalInts(first.Train, other.Train) {
		t.Error("different seeds produced identical train sets")
	}
}

func TestPartitionDisjointExhaustive(t *testing.T) {
	for _, frac := range []float64{0.1, 0.5, 0.75, 0.9} {
		ds := continuousTargetDataset(t, 97)
		split, err := Partition(ds, frac, 7)
		if err != nil {
			t.Fatalf("Partition(frac=%v) error = %v", frac, err)
		}
		if len(split.Train)+len(split.Holdout) != ds.Len() {
			t.Errorf("frac=%v: train+holdout = %d, want %d", frac, len(split.Train)+len(split.Holdout), ds.Len())
		}
		seen := make(map[int]bool, ds.Len())
		for _, idx := range append(append([]int(nil), split.Train...), split.Holdout...) {
			if seen[idx] {
				t.Fatalf("frac=%v: index %d appears twice", frac, idx)
			}
			seen[idx] = true
		}
	}
}

func TestPartitionStratified(t *testing.T) {
	schema := Schema{
		Features: []Feature{{Name: "followers", Kind: Continuous}},
		Target:   Feature{Name: "class", Kind: Categorical, Levels: []string{"human", "bot"}},
	}
	const n = 200
	followers := make([]float64, n)
	classes := make([]string, n)
	for i := 0; i < n; i++ {
		followers[i] = float64(i)
		if i%4 == 0 { // 25% bots
			classes[i] = "bot"
		} else {
			classes[i] = "human"
		}
	}
	ds, err := FromColumns(schema,
		map[string][]float64{"followers": followers},
		map[string][]string{"class": classes},
	)
	if err != nil {
		t.Fatalf("FromColumns() error = %v", err)
	}

	split, err := Partition(ds, 0.75, 42)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}

	countBots := func(indices []int) int {
		bots := 0
		for _, idx := range indices {
			if classes[idx] == "bot" {
				bots++
			}
		}
		return bots
	}

	trainRate := float64(countBots(split.Train)) / float64(len(split.Train))
	holdoutRate := float64(countBots(split.Holdout)) / float64(len(split.Holdout))
	if math.Abs(trainRate-0.25) > 0.02 {
		t.Errorf("train bot rate = %v, want ~0.25", trainRate)
	}
	if math.Abs(holdoutRate-0.25) > 0.02 {
		t.Errorf("holdout bot rate = %v, want ~0.25", holdoutRate)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
