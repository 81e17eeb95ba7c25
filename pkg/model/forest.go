// Package model implements the random forest regressor behind the accident predictions.
package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmptyInput   = errors.New("empty training input")
	ErrShapeInput   = errors.New("inconsistent training input shape")
	ErrInvalidParam = errors.New("invalid forest parameter")
	ErrNotFitted    = errors.New("forest is not fitted")
)

// Params configures the forest
type Params struct {
	NEstimators     int   `mapstructure:"n_estimators"`
	MaxDepth        int   `mapstructure:"max_depth"` // 0 grows trees until leaves are pure
	MinSamplesSplit int   `mapstructure:"min_samples_split"`
	MinSamplesLeaf  int   `mapstructure:"min_samples_leaf"`
	MaxFeatures     int   `mapstructure:"max_features"` // 0 uses every feature at each split
	Seed            int64 `mapstructure:"seed"`
	Parallelism     int   `mapstructure:"parallelism"` // 0 uses GOMAXPROCS
}

// DefaultParams returns the parameters used by the prediction view
func DefaultParams() Params {
	return Params{
		NEstimators:     150,
		MaxDepth:        5,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Validate checks the parameters are usable
func (p Params) Validate() error {
	switch {
	case p.NEstimators <= 0:
		return fmt.Errorf("%w: n_estimators must be positive", ErrInvalidParam)
	case p.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must not be negative", ErrInvalidParam)
	case p.MinSamplesSplit < 2:
		return fmt.Errorf("%w: min_samples_split must be at least 2", ErrInvalidParam)
	case p.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf must be at least 1", ErrInvalidParam)
	case p.MaxFeatures < 0:
		return fmt.Errorf("%w: max_features must not be negative", ErrInvalidParam)
	}
	return nil
}

// Forest is a bagged ensemble of regression trees
type Forest struct {
	params      Params
	trees       []*tree
	inBag       [][]bool
	importances []float64
	oob         []float64
	features    int
}

// NewForest creates an unfitted forest
func NewForest(params Params) *Forest {
	return &Forest{params: params}
}

// Params returns the configuration of the forest
func (f *Forest) Params() Params {
	return f.params
}

// Fit trains the forest on rows x and targets y.
// Every tree draws its bootstrap sample from its own seed, so the result
// does not depend on how many trees are built concurrently.
func (f *Forest) Fit(ctx context.Context, x [][]float64, y []float64) error {
	if err := f.params.Validate(); err != nil {
		return err
	}
	if err := checkShape(x, y); err != nil {
		return err
	}

	n, p := len(x), len(x[0])
	master := rand.New(rand.NewSource(f.params.Seed))
	seeds := make([]int64, f.params.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*tree, len(seeds))
	inBag := make([][]bool, len(seeds))
	importances := make([][]float64, len(seeds))

	parallelism := f.params.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(seed))
			samples := make([]int, n)
			bag := make([]bool, n)
			for j := range samples {
				samples[j] = rng.Intn(n)
				bag[samples[j]] = true
			}

			builder := &treeBuilder{
				x:           x,
				y:           y,
				params:      f.params,
				rng:         rng,
				importances: make([]float64, p),
			}
			trees[i] = builder.build(samples)
			inBag[i] = bag
			importances[i] = normalize(builder.importances)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}

	f.trees = trees
	f.inBag = inBag
	f.features = p
	f.importances = averageImportances(importances, p)
	f.oob = f.outOfBag(x)
	return nil
}

// Predict returns the mean tree prediction for every row
func (f *Forest) Predict(x [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.features {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeInput, i, len(row), f.features)
		}
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// FeatureImportances returns the impurity-based importance of each feature, summing to one
func (f *Forest) FeatureImportances() []float64 {
	return append([]float64(nil), f.importances...)
}

// OOBPredictions returns, for every training row, the mean prediction of the
// trees that did not see it. Rows drawn by every tree are NaN.
func (f *Forest) OOBPredictions() []float64 {
	return append([]float64(nil), f.oob...)
}

func (f *Forest) outOfBag(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		var count int
		for t, tr := range f.trees {
			if f.inBag[t][i] {
				continue
			}
			sum += tr.predict(row)
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

func checkShape(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return ErrEmptyInput
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows for %d targets", ErrShapeInput, len(x), len(y))
	}

	width := len(x[0])
	if _, ok := lo.Find(x, func(row []float64) bool { return len(row) != width }); ok {
		return fmt.Errorf("%w: ragged rows", ErrShapeInput)
	}
	return nil
}

func normalize(values []float64) []float64 {
	total := floats.Sum(values)
	if total > 0 {
		floats.Scale(1/total, values)
	}
	return values
}

func averageImportances(perTree [][]float64, features int) []float64 {
	avg := make([]float64, features)
	for _, imp := range perTree {
		floats.Add(avg, imp)
	}
	return normalize(avg)
}
