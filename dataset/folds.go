package dataset

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Fold is one cross-validation round: Validation holds the fold's own
// indices and Train the union of every other fold.
type Fold struct {
	Train      []int
	Validation []int
}

// MakeFolds partitions the given indices into k folds for cross-validation.
// Fold sizes differ by at most one: the remainder after integer division is
// spread one extra element per fold from the front. The assignment is driven
// by the explicit seed only.
func MakeFolds(indices []int, k int, seed uint64) ([]Fold, error) {
	if k < 2 {
		return nil, errors.NewValueError("MakeFolds", "k must be at least 2")
	}
	if len(indices) < k {
		return nil, errors.NewInsufficientDataError("MakeFolds", k, len(indices))
	}

	shuffled := append([]int(nil), indices...)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	base := n / k
	remainder := n % k

	folds := make([]Fold, k)
	cursor := 0
	for i := 0; i < k; i++ {
		size := base
		if i < remainder {
			size++
		}
		validation := append([]int(nil), shuffled[cursor:cursor+size]...)
		train := make([]int, 0, n-size)
		train = append(train, shuffled[:cursor]...)
		train = append(train, shuffled[cursor+size:]...)
		folds[i] = Fold{Train: train, Validation: validation}
		cursor += size
	}
	return folds, nil
}
