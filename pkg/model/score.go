package model

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scores summarises how well predictions match the targets
type Scores struct {
	MSE float64 `json:"mse"`
	R2  float64 `json:"r2"`
	N   int     `json:"n"`
}

// Evaluate computes the mean squared error and R² of yhat against y.
// Pairs where the prediction is NaN are skipped.
func Evaluate(y, yhat []float64) Scores {
	var actual, predicted []float64
	for i := range y {
		if i >= len(yhat) || math.IsNaN(yhat[i]) {
			continue
		}
		actual = append(actual, y[i])
		predicted = append(predicted, yhat[i])
	}

	if len(actual) == 0 {
		return Scores{MSE: math.NaN(), R2: math.NaN()}
	}

	var sq float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sq += d * d
	}

	return Scores{
		MSE: sq / float64(len(actual)),
		R2:  stat.RSquaredFrom(predicted, actual, nil),
		N:   len(actual),
	}
}
