package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// Split is the train/holdout partition of a dataset's record indices.
// The two index sets are disjoint and together cover every record.
type Split struct {
	Train   []int
	Holdout []int
}

// Partition splits the dataset's records into train and holdout sets.
// The split is driven entirely by the explicit seed: the same seed on the
// same dataset yields the identical split, and no global random state is
// touched. When the target is categorical the split is stratified so each
// level keeps its proportion in both sets; a continuous target is sampled
// uniformly at random.
func Partition(ds *Dataset, trainFraction float64, seed uint64) (Split, error) {
	if ds == nil || ds.Len() == 0 {
		return Split{}, errors.NewEmptyDatasetError("Partition")
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return Split{}, errors.NewInvalidFractionError("Partition", trainFraction)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	if ds.schema.Target.Kind == Categorical {
		return stratifiedPartition(ds, trainFraction, rng), nil
	}

	indices := shuffledIndices(ds.Len(), rng)
	nTrain := int(math.Round(trainFraction * float64(ds.Len())))
	// Keep both sides non-degenerate when rounding would empty one.
	if nTrain == 0 {
		nTrain = 1
	}
	if nTrain == ds.Len() {
		nTrain = ds.Len() - 1
	}

	split := Split{
		Train:   append([]int(nil), indices[:nTrain]...),
		Holdout: append([]int(nil), indices[nTrain:]...),
	}
	sort.Ints(split.Train)
	sort.Ints(split.Holdout)
	return split, nil
}

// stratifiedPartition samples the train fraction independently within each
// target level so class proportions carry over to both sets.
func stratifiedPartition(ds *Dataset, trainFraction float64, rng *rand.Rand) Split {
	byLevel := make(map[string][]int)
	var levelOrder []string
	for i := 0; i < ds.Len(); i++ {
		label := ds.targetLabelAt(i)
		if _, seen := byLevel[label]; !seen {
			levelOrder = append(levelOrder, label)
		}
		byLevel[label] = append(byLevel[label], i)
	}
	// Deterministic iteration order regardless of map layout.
	sort.Strings(levelOrder)

	var split Split
	for _, label := range levelOrder {
		group := byLevel[label]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		nTrain := int(math.Round(trainFraction * float64(len(group))))
		if nTrain == len(group) && len(group) > 1 {
			nTrain--
		}
		split.Train = append(split.Train, group[:nTrain]...)
		split.Holdout = append(split.Holdout, group[nTrain:]...)
	}
	sort.Ints(split.Train)
	sort.Ints(split.Holdout)
	return split
}

func shuffledIndices(n int, rng *rand.Rand) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}
