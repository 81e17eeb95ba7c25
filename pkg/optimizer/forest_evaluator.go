package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
	"github.com/raykavin/roadrisk/pkg/model"
)

// Names of the searchable forest parameters
const (
	ParamNEstimators     = "n_estimators"
	ParamMaxDepth        = "max_depth"
	ParamMinSamplesSplit = "min_samples_split"
	ParamMinSamplesLeaf  = "min_samples_leaf"
	ParamMaxFeatures     = "max_features"
)

// ForestParameters returns the default search grid around the dashboard model
func ForestParameters() []Parameter {
	defaults := model.DefaultParams()

	return []Parameter{
		{
			Name:        ParamNEstimators,
			Description: "Number of trees in the forest",
			Default:     defaults.NEstimators,
			Min:         50,
			Max:         200,
			Step:        50,
		},
		{
			Name:        ParamMaxDepth,
			Description: "Maximum depth of each tree",
			Default:     defaults.MaxDepth,
			Min:         2,
			Max:         8,
			Step:        1,
		},
	}
}

// ApplyParameters returns base with the values of params set
func ApplyParameters(base model.Params, params ParameterSet) (model.Params, error) {
	for name, value := range params {
		switch name {
		case ParamNEstimators:
			base.NEstimators = value
		case ParamMaxDepth:
			base.MaxDepth = value
		case ParamMinSamplesSplit:
			base.MinSamplesSplit = value
		case ParamMinSamplesLeaf:
			base.MinSamplesLeaf = value
		case ParamMaxFeatures:
			base.MaxFeatures = value
		default:
			return base, fmt.Errorf("%w: unknown parameter %s", model.ErrInvalidParam, name)
		}
	}
	return base, base.Validate()
}

// ForestEvaluator fits the prediction model for each parameter set and
// scores it in sample and out of bag
type ForestEvaluator struct {
	x    [][]float64
	y    []float64
	base model.Params
}

// NewForestEvaluator prepares the training set of table. Parameters not
// being searched keep their value from base.
func NewForestEvaluator(table core.Table, base model.Params) (*ForestEvaluator, error) {
	x, y, err := dashboard.TrainingSet(table)
	if err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return nil, core.ErrEmptyTable
	}

	return &ForestEvaluator{x: x, y: y, base: base}, nil
}

// Evaluate implements the Evaluator interface
func (e *ForestEvaluator) Evaluate(ctx context.Context, params ParameterSet) (*Result, error) {
	start := time.Now()

	forestParams, err := ApplyParameters(e.base, params)
	if err != nil {
		return nil, err
	}

	forest := model.NewForest(forestParams)
	if err := forest.Fit(ctx, e.x, e.y); err != nil {
		return nil, err
	}

	predictions, err := forest.Predict(e.x)
	if err != nil {
		return nil, err
	}

	scores := model.Evaluate(e.y, predictions)
	oob := model.Evaluate(e.y, forest.OOBPredictions())

	return &Result{
		Parameters: params,
		Metrics: map[string]float64{
			string(MetricMSE):    scores.MSE,
			string(MetricR2):     scores.R2,
			string(MetricOOBMSE): oob.MSE,
			string(MetricOOBR2):  oob.R2,
		},
		Duration: time.Since(start),
	}, nil
}
