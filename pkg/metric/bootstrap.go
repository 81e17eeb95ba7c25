package metric

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BootstrapInterval represents the confidence interval calculated by the bootstrap method.
type BootstrapInterval struct {
	Lower  float64 // Lower bound of the confidence interval
	Upper  float64 // Upper bound of the confidence interval
	StdDev float64 // Standard deviation of the bootstrap samples
	Mean   float64 // Mean of the bootstrap samples
}

// Bootstrap calculates the confidence interval of a statistic by resampling with replacement.
// Parameters:
//   - values: The original sample data
//   - measure: The statistical function to apply to each bootstrap sample
//   - sampleSize: Number of bootstrap samples to generate
//   - confidence: Confidence level (e.g., 0.95 for 95% confidence)
//   - rng: Source of randomness, seeded by the caller for repeatable intervals
func Bootstrap(values []float64, measure func([]float64) float64, sampleSize int,
	confidence float64, rng *rand.Rand) BootstrapInterval {

	if len(values) == 0 || sampleSize <= 0 {
		return BootstrapInterval{}
	}

	data := generateBootstrapSamples(values, measure, sampleSize, rng)

	tail := 1 - confidence
	sort.Float64s(data)

	mean, stdDev := stat.MeanStdDev(data, nil)
	return BootstrapInterval{
		Lower:  Quantile(data, tail/2),
		Upper:  Quantile(data, 1-tail/2),
		StdDev: stdDev,
		Mean:   mean,
	}
}

func generateBootstrapSamples(values []float64, measure func([]float64) float64, sampleSize int,
	rng *rand.Rand) []float64 {

	data := make([]float64, 0, sampleSize)
	samples := make([]float64, len(values))

	for i := 0; i < sampleSize; i++ {
		for j := range samples {
			samples[j] = values[rng.Intn(len(values))]
		}
		data = append(data, measure(samples))
	}

	return data
}
