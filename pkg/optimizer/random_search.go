package optimizer

import (
	"context"
	"math/rand"
)

// RandomSearch implements a random search optimization algorithm
type RandomSearch struct {
	parameters    []Parameter
	maxIterations int
	runner        runner
	rng           *rand.Rand
}

// NewRandomSearch creates a new random search optimizer. Samples are drawn
// from the configured seed, so two searches with the same config agree.
func NewRandomSearch(config *Config) (*RandomSearch, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if len(config.Parameters) == 0 {
		return nil, ErrNoParameters
	}

	return &RandomSearch{
		parameters:    config.Parameters,
		maxIterations: config.MaxIterations,
		runner: runner{
			parallelism: config.Parallelism,
			logger:      config.Logger,
			progress:    config.Progress,
		},
		rng: rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// SetParameters sets the parameters to be optimized
func (r *RandomSearch) SetParameters(params []Parameter) error {
	if len(params) == 0 {
		return ErrNoParameters
	}
	r.parameters = params
	return nil
}

// SetMaxIterations sets the maximum number of iterations
func (r *RandomSearch) SetMaxIterations(iterations int) {
	r.maxIterations = iterations
}

// SetParallelism sets the number of parallel evaluations
func (r *RandomSearch) SetParallelism(n int) {
	r.runner.parallelism = n
}

// Optimize runs the random search optimization process
func (r *RandomSearch) Optimize(
	ctx context.Context,
	evaluator Evaluator,
	targetMetric MetricName,
	maximize bool,
) ([]*Result, error) {
	if evaluator == nil {
		return nil, ErrNilEvaluator
	}

	parameterSets := r.generateRandomParameterSets()
	r.runner.infof("Starting random search with %d iterations", len(parameterSets))

	results, err := r.runner.run(ctx, evaluator, parameterSets)
	if err != nil {
		return nil, err
	}

	sortResults(results, targetMetric, maximize)
	r.runner.infof("Random search completed with %d results", len(results))
	return results, nil
}

// generateRandomParameterSets creates random parameter sets for evaluation
func (r *RandomSearch) generateRandomParameterSets() []ParameterSet {
	parameterSets := make([]ParameterSet, r.maxIterations)

	for i := range parameterSets {
		paramSet := make(ParameterSet, len(r.parameters))
		for _, param := range r.parameters {
			paramSet[param.Name] = r.generateRandomInt(param)
		}
		parameterSets[i] = paramSet
	}

	return parameterSets
}

// generateRandomInt draws a grid value of the parameter
func (r *RandomSearch) generateRandomInt(param Parameter) int {
	values := param.Values()
	return values[r.rng.Intn(len(values))]
}
