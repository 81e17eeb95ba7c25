// Package optimizer searches random forest parameters for the prediction model.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/roadrisk/pkg/logger"
)

var (
	ErrNoParameters = errors.New("at least one parameter must be provided")
	ErrNilEvaluator = errors.New("evaluator cannot be nil")
	ErrNilConfig    = errors.New("config cannot be nil")
)

// Parameter is an integer forest setting that can be searched
type Parameter struct {
	Name        string // Name of the parameter
	Description string // Description of what the parameter does
	Default     int    // Default value
	Min         int    // Minimum value
	Max         int    // Maximum value
	Step        int    // Step size for grid search; zero searches only Default
}

// Values returns the grid values of the parameter in ascending order
func (p Parameter) Values() []int {
	if p.Step <= 0 || p.Max < p.Min {
		return []int{p.Default}
	}

	values := make([]int, 0, (p.Max-p.Min)/p.Step+1)
	for v := p.Min; v <= p.Max; v += p.Step {
		values = append(values, v)
	}
	return values
}

// ParameterSet represents a collection of parameters with specific values
type ParameterSet map[string]int

// Result represents the outcome of a single optimization run
type Result struct {
	Parameters ParameterSet       // The parameter values used
	Metrics    map[string]float64 // Performance metrics
	Duration   time.Duration      // How long the evaluation took
}

// MetricName defines standard metric names for optimization
type MetricName string

const (
	// MetricOOBR2 is the out-of-bag coefficient of determination
	MetricOOBR2 MetricName = "oob_r2"
	// MetricOOBMSE is the out-of-bag mean squared error
	MetricOOBMSE MetricName = "oob_mse"
	// MetricR2 is the in-sample coefficient of determination
	MetricR2 MetricName = "r2"
	// MetricMSE is the in-sample mean squared error
	MetricMSE MetricName = "mse"
)

// Maximize reports whether larger values of the metric are better
func (m MetricName) Maximize() bool {
	return m == MetricOOBR2 || m == MetricR2
}

// Evaluator defines the interface for evaluating a parameter set
type Evaluator interface {
	// Evaluate fits a model with the given parameters and returns its scores
	Evaluate(ctx context.Context, params ParameterSet) (*Result, error)
}

// Optimizer defines the interface for optimization algorithms
type Optimizer interface {
	// Optimize runs the optimization process and returns results best first
	Optimize(ctx context.Context, evaluator Evaluator, targetMetric MetricName, maximize bool) ([]*Result, error)
	// SetParameters sets the parameters to be optimized
	SetParameters(params []Parameter) error
	// SetMaxIterations sets the maximum number of iterations for the optimization
	SetMaxIterations(iterations int)
	// SetParallelism sets the number of parallel evaluations
	SetParallelism(n int)
}

// Config holds configuration for the optimization process
type Config struct {
	// Parameters to optimize
	Parameters []Parameter
	// Maximum number of iterations
	MaxIterations int
	// Number of parallel evaluations
	Parallelism int
	// Logger instance
	Logger logger.Logger
	// Target metric to optimize
	TargetMetric MetricName
	// Whether to maximize (true) or minimize (false) the target metric
	Maximize bool
	// Top N results to return
	TopN int
	// Seed for random search sampling
	Seed int64
	// Progress is called after each finished evaluation
	Progress func()
}

// NewConfig creates a default configuration
func NewConfig() *Config {
	return &Config{
		Parameters:    []Parameter{},
		MaxIterations: 100,
		Parallelism:   1,
		TargetMetric:  MetricOOBR2,
		Maximize:      true,
		TopN:          5,
		Seed:          42,
	}
}

// WithParameters adds parameters to the configuration
func (c *Config) WithParameters(params ...Parameter) *Config {
	c.Parameters = append(c.Parameters, params...)
	return c
}

// WithMaxIterations sets the maximum number of iterations
func (c *Config) WithMaxIterations(iterations int) *Config {
	c.MaxIterations = iterations
	return c
}

// WithParallelism sets the number of parallel evaluations
func (c *Config) WithParallelism(n int) *Config {
	c.Parallelism = n
	return c
}

// WithLogger sets the logger
func (c *Config) WithLogger(logger logger.Logger) *Config {
	c.Logger = logger
	return c
}

// WithTargetMetric sets the target metric to optimize
func (c *Config) WithTargetMetric(metric MetricName, maximize bool) *Config {
	c.TargetMetric = metric
	c.Maximize = maximize
	return c
}

// WithTopN sets the number of top results to return
func (c *Config) WithTopN(n int) *Config {
	c.TopN = n
	return c
}

// WithSeed sets the seed random search samples from
func (c *Config) WithSeed(seed int64) *Config {
	c.Seed = seed
	return c
}

// WithProgress sets a callback run after each evaluation
func (c *Config) WithProgress(fn func()) *Config {
	c.Progress = fn
	return c
}

// ValidateParameterSet checks that a parameter set holds every defined
// parameter within its bounds
func ValidateParameterSet(params ParameterSet, definitions []Parameter) error {
	for _, def := range definitions {
		value, exists := params[def.Name]
		if !exists {
			return fmt.Errorf("missing parameter: %s", def.Name)
		}

		if def.Step > 0 && (value < def.Min || value > def.Max) {
			return fmt.Errorf("parameter %s=%d out of range [%d, %d]", def.Name, value, def.Min, def.Max)
		}
	}
	return nil
}

// ResultSorter sorts optimization results by a specific metric
type ResultSorter struct {
	Results    []*Result
	MetricName string
	Maximize   bool
}

// Len returns the number of results
func (s ResultSorter) Len() int {
	return len(s.Results)
}

// Swap swaps two results
func (s ResultSorter) Swap(i, j int) {
	s.Results[i], s.Results[j] = s.Results[j], s.Results[i]
}

// Less compares two results based on the target metric
func (s ResultSorter) Less(i, j int) bool {
	valueI := s.Results[i].Metrics[s.MetricName]
	valueJ := s.Results[j].Metrics[s.MetricName]

	if s.Maximize {
		return valueI > valueJ
	}
	return valueI < valueJ
}
