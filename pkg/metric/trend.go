package metric

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrTrendlineUnavailable = errors.New("trendline support is disabled")
	ErrDegenerateTrend      = errors.New("cannot fit trendline")
)

// Trend is an ordinary least squares line y = Intercept + Slope*x
type Trend struct {
	Intercept float64
	Slope     float64
	R2        float64
}

// At evaluates the line at x
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Trendline fits an OLS line through the points
func Trendline(x, y []float64) (Trend, error) {
	if len(x) != len(y) {
		return Trend{}, fmt.Errorf("%w: %d x values for %d y values", ErrDegenerateTrend, len(x), len(y))
	}
	if len(x) < 2 {
		return Trend{}, fmt.Errorf("%w: need at least two points", ErrDegenerateTrend)
	}
	if stat.Variance(x, nil) == 0 {
		return Trend{}, fmt.Errorf("%w: x has no variance", ErrDegenerateTrend)
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Trend{
		Intercept: alpha,
		Slope:     beta,
		R2:        stat.RSquared(x, y, nil, alpha, beta),
	}, nil
}
