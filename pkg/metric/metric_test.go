package metric

import (
	"math"
	"math/rand"
	"testing"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 1.6, Quantile(sorted, 0.2), 1e-12)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQCut(t *testing.T) {
	values := []float64{10, 1, 7, 3, 5, 9, 2, 8, 4, 6}

	buckets, err := QCut(values, 5)
	require.NoError(t, err)

	// edges 1, 2.8, 4.6, 6.4, 8.2, 10
	assert.Equal(t, []int{4, 0, 3, 1, 2, 4, 0, 3, 1, 2}, buckets)

	counts := make(map[int]int)
	for _, b := range buckets {
		counts[b]++
	}
	assert.Len(t, counts, 5)
	for _, c := range counts {
		assert.Equal(t, 2, c)
	}
}

func TestQCutDuplicateEdges(t *testing.T) {
	_, err := QCut([]float64{1, 1, 1, 1, 1, 2}, 5)
	assert.ErrorIs(t, err, ErrDuplicateEdges)

	_, err = QCut(nil, 5)
	assert.ErrorIs(t, err, ErrEmptySample)

	_, err = QCut([]float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidBuckets)
}

func TestRankCut(t *testing.T) {
	buckets, err := RankCut([]float64{1, 1, 1, 1, 1, 2, 2, 2, 2, 3}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}, buckets)
}

func TestRiskLevels(t *testing.T) {
	t.Run("quantile buckets", func(t *testing.T) {
		values := make([]float64, 37)
		for i := range values {
			values[i] = float64(500 + 50*i)
		}

		levels, fallback, err := RiskLevels(values)
		require.NoError(t, err)
		assert.False(t, fallback)
		require.Len(t, levels, len(values))

		seen := make(map[core.RiskLevel]int)
		for i, l := range levels {
			seen[l]++
			if i > 0 {
				assert.GreaterOrEqual(t, l, levels[i-1], "levels follow the value order")
			}
		}
		assert.Len(t, seen, 5)
		assert.Equal(t, core.RiskVeryLow, levels[0])
		assert.Equal(t, core.RiskVeryHigh, levels[36])
	})

	t.Run("fallback on ties", func(t *testing.T) {
		values := []float64{5, 5, 5, 5, 5, 5, 5, 5, 9, 10}
		levels, fallback, err := RiskLevels(values)
		require.NoError(t, err)
		assert.True(t, fallback)
		assert.Equal(t, core.RiskVeryLow, levels[0])
		assert.Equal(t, core.RiskVeryHigh, levels[9])
	})
}

func TestTrendline(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3, 5, 7, 9, 11}

	trend, err := Trendline(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2, trend.Slope, 1e-9)
	assert.InDelta(t, 1, trend.Intercept, 1e-9)
	assert.InDelta(t, 1, trend.R2, 1e-9)
	assert.InDelta(t, 21, trend.At(10), 1e-9)
}

func TestTrendlineDegenerate(t *testing.T) {
	tests := map[string]struct{ x, y []float64 }{
		"single point": {x: []float64{1}, y: []float64{2}},
		"mismatch":     {x: []float64{1, 2}, y: []float64{2}},
		"flat x":       {x: []float64{3, 3, 3}, y: []float64{1, 2, 3}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Trendline(tt.x, tt.y)
			assert.ErrorIs(t, err, ErrDegenerateTrend)
		})
	}
}

func TestBootstrap(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	rng := rand.New(rand.NewSource(42))

	interval := Bootstrap(values, Mean, 2000, 0.95, rng)
	assert.Less(t, interval.Lower, interval.Upper)
	assert.InDelta(t, 5.5, interval.Mean, 0.3)
	assert.GreaterOrEqual(t, interval.Lower, 1.0)
	assert.LessOrEqual(t, interval.Upper, 10.0)

	assert.Equal(t, BootstrapInterval{}, Bootstrap(nil, Mean, 10, 0.95, rng))
}

func TestMeanAbs(t *testing.T) {
	assert.Equal(t, 2.0, MeanAbs([]float64{-1, 3, -2, 2}))
	assert.Zero(t, MeanAbs(nil))
}
