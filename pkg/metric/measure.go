package metric

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// MeanAbs calculates the mean of the absolute values, e.g. residuals.
func MeanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Mean(lo.Map(values, func(v float64, _ int) float64 { return math.Abs(v) }))
}
