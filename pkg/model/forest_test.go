package model

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearData() ([][]float64, []float64) {
	x := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range x {
		a := float64(i)
		b := float64((i * 7) % 11)
		x[i] = []float64{a, b}
		y[i] = 3*a + 0.1*b
	}
	return x, y
}

func TestForestFitPredict(t *testing.T) {
	x, y := linearData()

	forest := NewForest(DefaultParams())
	require.NoError(t, forest.Fit(context.Background(), x, y))

	pred, err := forest.Predict(x)
	require.NoError(t, err)
	require.Len(t, pred, len(y))

	lo, hi := y[0], y[0]
	for _, v := range y {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	for _, p := range pred {
		assert.GreaterOrEqual(t, p, lo)
		assert.LessOrEqual(t, p, hi)
	}

	scores := Evaluate(y, pred)
	assert.Greater(t, scores.R2, 0.95)
	assert.Equal(t, len(y), scores.N)
}

func TestForestDeterministicAcrossParallelism(t *testing.T) {
	x, y := linearData()

	serial := DefaultParams()
	serial.Parallelism = 1
	parallel := DefaultParams()
	parallel.Parallelism = 8

	a := NewForest(serial)
	b := NewForest(parallel)
	require.NoError(t, a.Fit(context.Background(), x, y))
	require.NoError(t, b.Fit(context.Background(), x, y))

	pa, err := a.Predict(x)
	require.NoError(t, err)
	pb, err := b.Predict(x)
	require.NoError(t, err)

	assert.Equal(t, pa, pb)
	assert.Equal(t, a.FeatureImportances(), b.FeatureImportances())
}

func TestForestFeatureImportances(t *testing.T) {
	x, y := linearData()

	forest := NewForest(DefaultParams())
	require.NoError(t, forest.Fit(context.Background(), x, y))

	imp := forest.FeatureImportances()
	require.Len(t, imp, 2)
	assert.InDelta(t, 1, imp[0]+imp[1], 1e-9)
	assert.Greater(t, imp[0], imp[1])
}

func TestForestOOB(t *testing.T) {
	x, y := linearData()

	forest := NewForest(DefaultParams())
	require.NoError(t, forest.Fit(context.Background(), x, y))

	oob := forest.OOBPredictions()
	require.Len(t, oob, len(y))

	scores := Evaluate(y, oob)
	assert.Greater(t, scores.N, 0)
	assert.Greater(t, scores.R2, 0.8)
}

func TestForestErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, NewForest(DefaultParams()).Fit(ctx, nil, nil), ErrEmptyInput)
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := NewForest(DefaultParams()).Fit(ctx, [][]float64{{1}, {2}}, []float64{1})
		assert.ErrorIs(t, err, ErrShapeInput)
	})

	t.Run("ragged", func(t *testing.T) {
		err := NewForest(DefaultParams()).Fit(ctx, [][]float64{{1, 2}, {2}}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrShapeInput)
	})

	t.Run("params", func(t *testing.T) {
		params := DefaultParams()
		params.NEstimators = 0
		x, y := linearData()
		assert.ErrorIs(t, NewForest(params).Fit(ctx, x, y), ErrInvalidParam)
	})

	t.Run("not fitted", func(t *testing.T) {
		_, err := NewForest(DefaultParams()).Predict([][]float64{{1, 2}})
		assert.ErrorIs(t, err, ErrNotFitted)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		x, y := linearData()
		assert.ErrorIs(t, NewForest(DefaultParams()).Fit(cctx, x, y), context.Canceled)
	})
}

func TestEvaluate(t *testing.T) {
	scores := Evaluate([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 5})
	assert.InDelta(t, 0.25, scores.MSE, 1e-12)
	assert.InDelta(t, 0.8, scores.R2, 1e-12)

	skipped := Evaluate([]float64{1, 2, 3}, []float64{1, math.NaN(), 3})
	assert.Equal(t, 2, skipped.N)
	assert.Zero(t, skipped.MSE)
}
