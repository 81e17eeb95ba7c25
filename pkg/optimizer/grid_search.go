package optimizer

import (
	"context"
)

// GridSearch evaluates every combination of the parameter grid values
type GridSearch struct {
	parameters    []Parameter
	maxIterations int
	runner        runner
}

// NewGridSearch creates a new grid search optimizer
func NewGridSearch(config *Config) (*GridSearch, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if len(config.Parameters) == 0 {
		return nil, ErrNoParameters
	}

	return &GridSearch{
		parameters:    config.Parameters,
		maxIterations: config.MaxIterations,
		runner: runner{
			parallelism: config.Parallelism,
			logger:      config.Logger,
			progress:    config.Progress,
		},
	}, nil
}

// SetParameters sets the parameters to be optimized
func (g *GridSearch) SetParameters(params []Parameter) error {
	if len(params) == 0 {
		return ErrNoParameters
	}
	g.parameters = params
	return nil
}

// SetMaxIterations caps the number of combinations evaluated. Zero evaluates the full grid.
func (g *GridSearch) SetMaxIterations(iterations int) {
	g.maxIterations = iterations
}

// SetParallelism sets the number of parallel evaluations
func (g *GridSearch) SetParallelism(n int) {
	g.runner.parallelism = n
}

// Combinations returns the number of parameter sets the search would evaluate
func (g *GridSearch) Combinations() int {
	return len(g.parameterSets())
}

// Optimize runs the grid search optimization process
func (g *GridSearch) Optimize(
	ctx context.Context,
	evaluator Evaluator,
	targetMetric MetricName,
	maximize bool,
) ([]*Result, error) {
	if evaluator == nil {
		return nil, ErrNilEvaluator
	}

	parameterSets := g.parameterSets()
	g.runner.infof("Starting grid search with %d combinations", len(parameterSets))

	results, err := g.runner.run(ctx, evaluator, parameterSets)
	if err != nil {
		return nil, err
	}

	sortResults(results, targetMetric, maximize)
	g.runner.infof("Grid search completed with %d results", len(results))
	return results, nil
}

// parameterSets builds the cartesian product of the parameter values,
// varying the last parameter fastest
func (g *GridSearch) parameterSets() []ParameterSet {
	sets := []ParameterSet{{}}
	for _, param := range g.parameters {
		values := param.Values()
		next := make([]ParameterSet, 0, len(sets)*len(values))
		for _, set := range sets {
			for _, v := range values {
				combined := make(ParameterSet, len(set)+1)
				for name, value := range set {
					combined[name] = value
				}
				combined[param.Name] = v
				next = append(next, combined)
			}
		}
		sets = next
	}

	if g.maxIterations > 0 && len(sets) > g.maxIterations {
		g.runner.infof("Grid has %d combinations, evaluating the first %d", len(sets), g.maxIterations)
		sets = sets[:g.maxIterations]
	}
	return sets
}
