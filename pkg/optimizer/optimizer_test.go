package optimizer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raykavin/roadrisk/pkg/dataset"
	"github.com/raykavin/roadrisk/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEvaluator scores parameter sets from a lookup table, falling back to
// a linear score of the parameter values
type mockEvaluator struct {
	resultMap map[string]map[string]float64
	fail      string
}

func (m *mockEvaluator) Evaluate(_ context.Context, params ParameterSet) (*Result, error) {
	key := FormatParameterSet(params)
	if key == m.fail {
		return nil, errors.New("broken fit")
	}

	metrics, exists := m.resultMap[key]
	if !exists {
		metrics = map[string]float64{
			string(MetricOOBR2): float64(params[ParamMaxDepth])/10 - float64(params[ParamNEstimators])/1000,
		}
	}

	return &Result{
		Parameters: params,
		Metrics:    metrics,
		Duration:   100 * time.Millisecond,
	}, nil
}

var testParameters = []Parameter{
	{Name: ParamNEstimators, Default: 50, Min: 50, Max: 100, Step: 50},
	{Name: ParamMaxDepth, Default: 3, Min: 3, Max: 5, Step: 2},
}

func TestParameterValues(t *testing.T) {
	assert.Equal(t, []int{50, 100, 150, 200}, ForestParameters()[0].Values())
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, ForestParameters()[1].Values())
	assert.Equal(t, []int{7}, Parameter{Default: 7}.Values())
	assert.Equal(t, []int{7}, Parameter{Default: 7, Min: 5, Max: 1, Step: 1}.Values())
}

func TestGridSearch(t *testing.T) {
	evaluator := &mockEvaluator{
		resultMap: map[string]map[string]float64{
			"{max_depth: 3, n_estimators: 50}":  {string(MetricOOBR2): 0.6},
			"{max_depth: 5, n_estimators: 100}": {string(MetricOOBR2): 0.9},
		},
	}

	var evaluated atomic.Int32
	config := NewConfig().
		WithParameters(testParameters...).
		WithMaxIterations(10).
		WithParallelism(2).
		WithProgress(func() { evaluated.Add(1) })

	gridSearch, err := NewGridSearch(config)
	require.NoError(t, err)
	assert.Equal(t, 4, gridSearch.Combinations())

	results, err := gridSearch.Optimize(context.Background(), evaluator, MetricOOBR2, true)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.EqualValues(t, 4, evaluated.Load())

	assert.Equal(t, 0.9, results[0].Metrics[string(MetricOOBR2)])
	assert.Equal(t, ParameterSet{ParamNEstimators: 100, ParamMaxDepth: 5}, results[0].Parameters)
	assert.Equal(t, 0.6, results[1].Metrics[string(MetricOOBR2)])
	assert.InDelta(t, 0.2, results[3].Metrics[string(MetricOOBR2)], 1e-9)
	assert.Equal(t, ParameterSet{ParamNEstimators: 100, ParamMaxDepth: 3}, results[3].Parameters)
}

func TestGridSearchMaxIterations(t *testing.T) {
	gridSearch, err := NewGridSearch(NewConfig().WithParameters(testParameters...).WithMaxIterations(3))
	require.NoError(t, err)
	assert.Equal(t, 3, gridSearch.Combinations())

	gridSearch.SetMaxIterations(0)
	assert.Equal(t, 4, gridSearch.Combinations())
}

func TestGridSearchErrors(t *testing.T) {
	_, err := NewGridSearch(nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	_, err = NewGridSearch(NewConfig())
	assert.ErrorIs(t, err, ErrNoParameters)

	gridSearch, err := NewGridSearch(NewConfig().WithParameters(testParameters...).WithParallelism(3))
	require.NoError(t, err)

	_, err = gridSearch.Optimize(context.Background(), nil, MetricOOBR2, true)
	assert.ErrorIs(t, err, ErrNilEvaluator)

	broken := &mockEvaluator{fail: "{max_depth: 5, n_estimators: 50}"}
	_, err = gridSearch.Optimize(context.Background(), broken, MetricOOBR2, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken fit")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gridSearch.Optimize(ctx, &mockEvaluator{}, MetricOOBR2, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomSearch(t *testing.T) {
	config := NewConfig().
		WithParameters(ForestParameters()...).
		WithMaxIterations(5).
		WithParallelism(2).
		WithSeed(7)

	randomSearch, err := NewRandomSearch(config)
	require.NoError(t, err)

	results, err := randomSearch.Optimize(context.Background(), &mockEvaluator{}, MetricOOBR2, true)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, result := range results {
		assert.NoError(t, ValidateParameterSet(result.Parameters, ForestParameters()))
	}
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t,
			results[i-1].Metrics[string(MetricOOBR2)], results[i].Metrics[string(MetricOOBR2)])
	}
}

func TestRandomSearchSeeded(t *testing.T) {
	config := NewConfig().
		WithParameters(ForestParameters()...).
		WithMaxIterations(6).
		WithSeed(7)

	first, err := NewRandomSearch(config)
	require.NoError(t, err)
	second, err := NewRandomSearch(config)
	require.NoError(t, err)
	assert.Equal(t, first.generateRandomParameterSets(), second.generateRandomParameterSets())

	a, err := NewRandomSearch(config)
	require.NoError(t, err)
	b, err := NewRandomSearch(config)
	require.NoError(t, err)

	resultsA, err := a.Optimize(context.Background(), &mockEvaluator{}, MetricOOBR2, true)
	require.NoError(t, err)
	resultsB, err := b.Optimize(context.Background(), &mockEvaluator{}, MetricOOBR2, true)
	require.NoError(t, err)

	require.Len(t, resultsB, len(resultsA))
	for i := range resultsA {
		assert.Equal(t, resultsA[i].Parameters, resultsB[i].Parameters)
	}
}

func TestParameterValidation(t *testing.T) {
	tt := []struct {
		name   string
		params ParameterSet
		valid  bool
	}{
		{"valid", ParameterSet{ParamNEstimators: 100, ParamMaxDepth: 5}, true},
		{"missing", ParameterSet{ParamNEstimators: 100}, false},
		{"out of range", ParameterSet{ParamNEstimators: 100, ParamMaxDepth: 9}, false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateParameterSet(tc.params, ForestParameters())
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestResultSorter(t *testing.T) {
	results := []*Result{
		{Parameters: ParameterSet{"param": 1}, Metrics: map[string]float64{"oob_r2": 0.5, "oob_mse": 40}},
		{Parameters: ParameterSet{"param": 2}, Metrics: map[string]float64{"oob_r2": 0.8, "oob_mse": 60}},
		{Parameters: ParameterSet{"param": 3}, Metrics: map[string]float64{"oob_r2": 0.7, "oob_mse": 20}},
	}

	r2 := ResultSorter{Results: results, MetricName: "oob_r2", Maximize: true}
	assert.True(t, r2.Less(1, 0), "higher score first when maximizing")
	assert.True(t, r2.Less(1, 2), "higher score first when maximizing")

	mse := ResultSorter{Results: results, MetricName: "oob_mse", Maximize: false}
	assert.True(t, mse.Less(2, 0), "lower error first when minimizing")
	assert.True(t, mse.Less(2, 1), "lower error first when minimizing")

	assert.True(t, MetricOOBR2.Maximize())
	assert.False(t, MetricOOBMSE.Maximize())
}

func TestForestEvaluator(t *testing.T) {
	base := model.DefaultParams()
	evaluator, err := NewForestEvaluator(dataset.Load(), base)
	require.NoError(t, err)

	result, err := evaluator.Evaluate(context.Background(), ParameterSet{ParamNEstimators: 20, ParamMaxDepth: 3})
	require.NoError(t, err)

	for _, name := range []MetricName{MetricMSE, MetricR2, MetricOOBMSE, MetricOOBR2} {
		assert.Contains(t, result.Metrics, string(name))
	}
	assert.Positive(t, result.Metrics[string(MetricOOBMSE)])
	assert.GreaterOrEqual(t, result.Metrics[string(MetricOOBMSE)], result.Metrics[string(MetricMSE)])

	_, err = evaluator.Evaluate(context.Background(), ParameterSet{"learning_rate": 1})
	assert.ErrorIs(t, err, model.ErrInvalidParam)

	_, err = evaluator.Evaluate(context.Background(), ParameterSet{ParamNEstimators: 0})
	assert.ErrorIs(t, err, model.ErrInvalidParam)
}

func TestApplyParameters(t *testing.T) {
	params, err := ApplyParameters(model.DefaultParams(), ParameterSet{
		ParamNEstimators:     10,
		ParamMaxDepth:        4,
		ParamMinSamplesSplit: 3,
		ParamMinSamplesLeaf:  2,
		ParamMaxFeatures:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, params.NEstimators)
	assert.Equal(t, 4, params.MaxDepth)
	assert.Equal(t, 3, params.MinSamplesSplit)
	assert.Equal(t, 2, params.MinSamplesLeaf)
	assert.Equal(t, 1, params.MaxFeatures)
	assert.Equal(t, model.DefaultParams().Seed, params.Seed)
}

func TestWriteResults(t *testing.T) {
	results := []*Result{
		{Parameters: ParameterSet{ParamMaxDepth: 2}, Metrics: map[string]float64{"oob_mse": 50, "oob_r2": 0.6}},
		{Parameters: ParameterSet{ParamMaxDepth: 4}, Metrics: map[string]float64{"oob_mse": 30, "oob_r2": 0.8}},
	}

	buffer := bytes.NewBuffer(nil)
	require.NoError(t, WriteResultsCSV(buffer, results, MetricOOBMSE))

	records, err := csv.NewReader(buffer).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Rank", "Duration", "max_depth", "oob_mse", "oob_r2"}, records[0])
	assert.Equal(t, "4", records[1][2], "lowest error ranks first")
	assert.Equal(t, "30.0000", records[1][3])

	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, SaveResultsToCSV(results, MetricOOBR2, path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "max_depth")

	table := bytes.NewBuffer(nil)
	WriteResultsTable(table, results, MetricOOBR2, 1)
	assert.Contains(t, table.String(), "Top 1 Results (by oob_r2)")
	assert.Contains(t, table.String(), "0.8000")
	assert.NotContains(t, table.String(), "0.6000")

	empty := bytes.NewBuffer(nil)
	WriteResultsTable(empty, nil, MetricOOBR2, 5)
	assert.Equal(t, "No results to display\n", empty.String())
}
