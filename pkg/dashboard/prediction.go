package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/raykavin/roadrisk/pkg/chart"
	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/metric"
	"github.com/raykavin/roadrisk/pkg/model"
)

// Features are the model inputs, in column order
var Features = []core.Column{core.ColAccidents2019, core.ColPopulation}

// Target is the column the model predicts
const Target = core.ColAccidents2020

const (
	maeBootstrapSamples = 1000
	maeConfidence       = 0.95
)

// Fit trains the forest on the table and returns it with its in-sample predictions
func Fit(ctx context.Context, table core.Table, params model.Params) (*model.Forest, []float64, error) {
	x, y, err := TrainingSet(table)
	if err != nil {
		return nil, nil, err
	}

	forest := model.NewForest(params)
	if err := forest.Fit(ctx, x, y); err != nil {
		return nil, nil, err
	}

	predictions, err := forest.Predict(x)
	if err != nil {
		return nil, nil, err
	}
	return forest, predictions, nil
}

// TrainingSet extracts feature rows and targets from the table
func TrainingSet(table core.Table) ([][]float64, []float64, error) {
	cols, err := columns(table, Features...)
	if err != nil {
		return nil, nil, err
	}
	target, err := table.Column(Target)
	if err != nil {
		return nil, nil, err
	}

	x := make([][]float64, len(table))
	for i := range x {
		x[i] = make([]float64, len(cols))
		for j := range cols {
			x[i][j] = cols[j][i]
		}
	}
	return x, target.Values(), nil
}

func (b *Builder) prediction(ctx context.Context, page *Page) error {
	page.Header = "Accident Risk Prediction Model"
	table := page.Table

	forest, predictions, err := Fit(ctx, table, b.params)
	if err != nil {
		return err
	}
	for i := range table {
		table[i].Predicted2020 = predictions[i]
	}

	_, y, err := TrainingSet(table)
	if err != nil {
		return err
	}

	scores := model.Evaluate(y, predictions)
	oob := model.Evaluate(y, forest.OOBPredictions())

	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - predictions[i]
	}
	mae := metric.Bootstrap(residuals, metric.MeanAbs, maeBootstrapSamples, maeConfidence,
		rand.New(rand.NewSource(b.params.Seed)))

	importances := forest.FeatureImportances()
	page.Scores = &ModelScores{
		MSE:         scores.MSE,
		R2:          scores.R2,
		OOBR2:       oob.R2,
		MAELower:    mae.Lower,
		MAEUpper:    mae.Upper,
		Importances: make(map[string]float64, len(Features)),
	}
	for i, f := range Features {
		page.Scores.Importances[string(f)] = importances[i]
	}

	page.Sections = append(page.Sections, Section{
		Subheader: "Random Forest Regression Model",
		Columns:   2,
		Metrics: []Metric{
			{Label: "Mean Squared Error", Value: fmt.Sprintf("%.2f", scores.MSE)},
			{Label: "R-squared Score", Value: fmt.Sprintf("%.2f", scores.R2)},
			{Label: "Out-of-bag R-squared", Value: fmt.Sprintf("%.2f", oob.R2)},
			{Label: "Mean Absolute Error (95% CI)", Value: fmt.Sprintf("%.1f ~ %.1f", mae.Lower, mae.Upper)},
		},
	})

	if err := b.actualVsPredicted(page, y, predictions); err != nil {
		return err
	}
	if err := b.featureImportance(page, importances); err != nil {
		return err
	}
	return b.riskCategories(page, predictions)
}

func (b *Builder) actualVsPredicted(page *Page, actual, predicted []float64) error {
	scatter, warning, err := b.scatterWithTrend("actual-vs-predicted",
		"Actual vs Predicted Accidents (2020)",
		"Actual vs Predicted Accidents (trendline disabled)",
		chart.ScatterSpec{
			X:      actual,
			Y:      predicted,
			Names:  page.Table.Names(),
			XTitle: string(core.ColAccidents2020),
			YTitle: string(core.ColPredicted2020),
		})
	if err != nil {
		return err
	}

	section := Section{
		Subheader: "Model Performance: Actual vs Predicted",
		Columns:   1,
		Charts:    []*chart.Figure{scatter},
	}
	if warning != "" {
		section.Warnings = []string{warning}
	}
	page.Sections = append(page.Sections, section)
	return nil
}

func (b *Builder) featureImportance(page *Page, importances []float64) error {
	order := make([]int, len(Features))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return importances[order[i]] > importances[order[j]]
	})

	names := make([]string, len(order))
	values := make([]float64, len(order))
	for i, idx := range order {
		names[i] = string(Features[idx])
		values[i] = importances[idx]
	}

	fig, err := chart.Bar("feature-importance", "Feature Importance in Accident Prediction",
		names, values, "Feature", "Importance", chart.Horizontal())
	if err != nil {
		return err
	}

	page.Sections = append(page.Sections, Section{
		Subheader: "Feature Importance",
		Columns:   1,
		Charts:    []*chart.Figure{fig},
	})
	return nil
}

func (b *Builder) riskCategories(page *Page, predictions []float64) error {
	levels, fallback, err := metric.RiskLevels(predictions)
	if err != nil {
		return err
	}
	if fallback {
		b.log.Warn("Predicted values repeat across quantile edges, using rank buckets")
		page.Scores.Fallback = true
	}
	for i := range page.Table {
		page.Table[i].Risk = levels[i]
	}

	sorted, err := page.Table.SortBy(core.ColPredicted2020)
	if err != nil {
		return err
	}
	values, err := sorted.Column(core.ColPredicted2020)
	if err != nil {
		return err
	}
	categories := make([]string, len(sorted))
	for i, d := range sorted {
		categories[i] = d.Risk.String()
	}

	fig, err := chart.BarByCategory("risk-levels", "Predicted Accident Risk by District",
		sorted.Names(), values, categories, core.RiskLabels(),
		"District", string(core.ColPredicted2020), "Risk_Level")
	if err != nil {
		return err
	}

	page.Sections = append(page.Sections, Section{
		Subheader: "District Risk Categorization",
		Columns:   1,
		Charts:    []*chart.Figure{fig},
	})
	return nil
}
