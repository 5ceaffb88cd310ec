package dataset

import (
	"sort"
	"testing"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

func TestMakeFoldsErrors(t *testing.T) {
	indices := []int{0, 1, 2}

	if _, err := MakeFolds(indices, 1, 0); err == nil {
		t.Error("MakeFolds(k=1) expected error, got nil")
	}

	_, err := MakeFolds(indices, 5, 0)
	var insufficient *errors.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("MakeFolds() error = %v, want InsufficientDataError", err)
	}
	if insufficient.Needed != 5 || insufficient.Records != 3 {
		t.Errorf("InsufficientDataError = %+v, want needed 5, records 3", insufficient)
	}
}

func TestMakeFoldsPartition(t *testing.T) {
	tests := []struct {
		name string
		n    int
		k    int
	}{
		{"even split", 20, 5},
		{"remainder spread", 23, 5},
		{"k equals n", 7, 7},
		{"two folds", 11, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indices := make([]int, tt.n)
			for i := range indices {
				indices[i] = i * 3 // arbitrary non-contiguous ids
			}

			folds, err := MakeFolds(indices, tt.k, 42)
			if err != nil {
				t.Fatalf("MakeFolds() error = %v", err)
			}
			if len(folds) != tt.k {
				t.Fatalf("len(folds) = %d, want %d", len(folds), tt.k)
			}

			var all []int
			minSize, maxSize := tt.n, 0
			for i, fold := range folds {
				all = append(all, fold.Validation...)
				if len(fold.Validation) < minSize {
					minSize = len(fold.Validation)
				}
				if len(fold.Validation) > maxSize {
					maxSize = len(fold.Validation)
				}
				if len(fold.Train)+len(fold.Validation) != tt.n {
					t.Errorf("fold %d: train+validation = %d, want %d", i, len(fold.Train)+len(fold.Validation), tt.n)
				}
				inValidation := make(map[int]bool, len(fold.Validation))
				for _, idx := range fold.Validation {
					inValidation[idx] = true
				}
				for _, idx := range fold.Train {
					if inValidation[idx] {
						t.Errorf("fold %d: index %d in both train and validation", i, idx)
					}
				}
			}

			if maxSize-minSize > 1 {
				t.Errorf("fold sizes range [%d,%d], want spread <= 1", minSize, maxSize)
			}

			sort.Ints(all)
			want := append([]int(nil), indices...)
			sort.Ints(want)
			if !equalInts(all, want) {
				t.Error("validation folds do not cover the input indices exactly once")
			}
		})
	}
}

func TestMakeFoldsDeterministic(t *testing.T) {
	indices := make([]int, 50)
	for i := range indices {
		indices[i] = i
	}

	a, err := MakeFolds(indices, 5, 99)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}
	b, err := MakeFolds(indices, 5, 99)
	if err != nil {
		t.Fatalf("MakeFolds() error = %v", err)
	}
	for i := range a {
		if !equalInts(a[i].Validation, b[i].Validation) {
			t.Fatalf("fold %d differs across identical seeds", i)
		}
	}
}
