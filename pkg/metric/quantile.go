package metric

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/raykavin/roadrisk/pkg/core"
)

var (
	ErrEmptySample    = errors.New("empty sample")
	ErrDuplicateEdges = errors.New("bin edges must be unique")
	ErrInvalidBuckets = errors.New("bucket count must be positive")
)

// Quantile returns the q-quantile of an ascending sample, interpolating
// linearly between the closest ranks at position q*(n-1).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}

	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Edges returns the k+1 quantile edges splitting values into k equal-frequency bins
func Edges(values []float64, k int) ([]float64, error) {
	if k <= 0 {
		return nil, ErrInvalidBuckets
	}
	if len(values) == 0 {
		return nil, ErrEmptySample
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, k+1)
	for i := range edges {
		edges[i] = Quantile(sorted, float64(i)/float64(k))
	}
	return edges, nil
}

// QCut assigns each value to one of k equal-frequency bins, numbered from 0.
// Bins are right-closed and the first bin includes the lowest edge.
func QCut(values []float64, k int) ([]int, error) {
	edges, err := Edges(values, k)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateEdges, edges)
		}
	}

	buckets := make([]int, len(values))
	for i, v := range values {
		// first edge index with v <= edge, shifted to a bin number
		bin := sort.SearchFloat64s(edges[1:], v)
		buckets[i] = min(bin, k-1)
	}
	return buckets, nil
}

// RankCut splits values into k groups of near-equal size by rank.
// Ties are broken by position.
func RankCut(values []float64, k int) ([]int, error) {
	if k <= 0 {
		return nil, ErrInvalidBuckets
	}
	if len(values) == 0 {
		return nil, ErrEmptySample
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	buckets := make([]int, len(values))
	for rank, idx := range order {
		buckets[idx] = rank * k / len(values)
	}
	return buckets, nil
}

// RiskLevels buckets predicted values into the five risk levels.
// When quantile edges collide it falls back to rank buckets and reports it.
func RiskLevels(values []float64) (levels []core.RiskLevel, fallback bool, err error) {
	ordered := core.RiskLevels()

	buckets, err := QCut(values, len(ordered))
	if errors.Is(err, ErrDuplicateEdges) {
		fallback = true
		buckets, err = RankCut(values, len(ordered))
	}
	if err != nil {
		return nil, fallback, err
	}

	levels = make([]core.RiskLevel, len(buckets))
	for i, b := range buckets {
		levels[i] = ordered[b]
	}
	return levels, fallback, nil
}
