package loader

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"wrangle/pkg/data"
	"wrangle/pkg/stats"
)

// Ratios used by TrainValidateTestSplit.
const (
	TestRatio     = 0.2
	ValidateRatio = 0.3
)

// NewRand returns the generator behind every split: PCG seeded with
// (seed, seed), so a seed always yields the same permutations.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// TrainTestSplit permutes the rows of ds with rng and assigns the first
// ceil(testRatio * n) permuted rows to test and the rest to train. Each side
// keeps the input row order.
func TrainTestSplit(ds *data.Dataset, testRatio float64, rng *rand.Rand) (train, test *data.Dataset, err error) {
	if math.IsNaN(testRatio) || testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio %v outside (0, 1): %w", testRatio, stats.ErrInvalidInput)
	}
	n := ds.Len()
	nTest := int(math.Ceil(testRatio * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, fmt.Errorf("cannot split %d rows with test ratio %v: %w", n, testRatio, stats.ErrInvalidInput)
	}
	indices := rng.Perm(n)
	testPos := append([]int(nil), indices[:nTest]...)
	trainPos := append([]int(nil), indices[nTest:]...)
	sort.Ints(testPos)
	sort.Ints(trainPos)
	return ds.Take(trainPos), ds.Take(testPos), nil
}

// TrainValidateTestSplit splits ds into train/validate/test in two stages:
// 20% of the rows go to test, then 30% of the remainder go to validate,
// giving roughly 56/24/20. The same dataset and seed always produce the same
// partitions.
func TrainValidateTestSplit(ds *data.Dataset, seed uint64) (train, validate, test *data.Dataset, err error) {
	rng := NewRand(seed)
	trainValidate, test, err := TrainTestSplit(ds, TestRatio, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	train, validate, err = TrainTestSplit(trainValidate, ValidateRatio, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	return train, validate, test, nil
}

// ShuffleRows returns ds with its rows in a seeded random order.
func ShuffleRows(ds *data.Dataset, seed uint64) *data.Dataset {
	return ds.Take(NewRand(seed).Perm(ds.Len()))
}

// KFoldSplit deals n row positions into k folds after a seeded shuffle.
func KFoldSplit(n, k int, seed uint64) ([][]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("%d folds over %d rows: %w", k, n, stats.ErrInvalidInput)
	}
	indices := NewRand(seed).Perm(n)
	folds := make([][]int, k)
	for i := range n {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds, nil
}
