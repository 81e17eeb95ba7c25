// Package dashboard assembles the charts, metric cards and warnings for
// each analysis mode of the accident dashboard.
package dashboard

import (
	"context"
	"fmt"

	"github.com/raykavin/roadrisk/pkg/chart"
	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dataset"
	"github.com/raykavin/roadrisk/pkg/logger"
	"github.com/raykavin/roadrisk/pkg/metric"
	"github.com/raykavin/roadrisk/pkg/model"
)

// ReductionTopN is the fixed number of districts in the reduction ranking
const ReductionTopN = 10

// Builder renders dashboard pages from a fresh copy of the district table
type Builder struct {
	log       logger.Logger
	params    model.Params
	trendline bool
	load      func() core.Table
}

// Option defines a function type for configuring a Builder
type Option func(*Builder)

// WithModelParams sets the random forest parameters for prediction mode
func WithModelParams(params model.Params) Option {
	return func(b *Builder) {
		b.params = params
	}
}

// WithTrendline enables or disables OLS trendlines on scatter plots
func WithTrendline(enabled bool) Option {
	return func(b *Builder) {
		b.trendline = enabled
	}
}

// WithLoader replaces the table source
func WithLoader(load func() core.Table) Option {
	return func(b *Builder) {
		b.load = load
	}
}

// NewBuilder creates a builder over the static dataset
func NewBuilder(log logger.Logger, options ...Option) *Builder {
	b := &Builder{
		log:       log,
		params:    model.DefaultParams(),
		trendline: true,
		load:      dataset.Load,
	}

	for _, option := range options {
		option(b)
	}
	return b
}

// Build runs the whole pipeline for one mode: load the table, derive its
// columns and build every widget the mode shows. topN is clamped to the
// slider range.
func (b *Builder) Build(ctx context.Context, mode core.Mode, topN int) (*Page, error) {
	table := b.load()
	if len(table) == 0 {
		return nil, core.ErrEmptyTable
	}

	page := &Page{
		Title: Title,
		Mode:  mode,
		TopN:  core.ClampTopN(topN, len(table)),
		Table: table,
	}

	var err error
	switch mode {
	case core.ModeOverview:
		err = b.overview(page)
	case core.ModePrediction:
		err = b.prediction(ctx, page)
	case core.ModeGeospatial:
		err = b.geospatial(page)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownMode, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s page: %w", mode, err)
	}

	for _, s := range page.Sections {
		page.Warnings = append(page.Warnings, s.Warnings...)
	}

	b.log.WithFields(map[string]any{
		"mode":     mode,
		"top_n":    page.TopN,
		"charts":   len(page.Figures()),
		"warnings": len(page.Warnings),
	}).Debug("Dashboard page built")

	return page, nil
}

// scatterWithTrend draws a scatter with an OLS trendline. When the line
// cannot be fitted it draws the plain scatter and returns a warning.
func (b *Builder) scatterWithTrend(id, title, plainTitle string, spec chart.ScatterSpec) (*chart.Figure, string, error) {
	trend, err := b.fitTrend(spec.X, spec.Y)
	if err == nil {
		spec.Trend = trend
		fig, err := chart.Scatter(id, title, spec)
		return fig, "", err
	}

	warning := fmt.Sprintf("Trendline disabled: %v", err)
	b.log.WithField("chart", id).WithError(err).Warn("Trendline disabled")

	spec.Trend = nil
	fig, err := chart.Scatter(id, plainTitle, spec)
	return fig, warning, err
}

func (b *Builder) fitTrend(x, y []float64) (metric.Trend, error) {
	if !b.trendline {
		return metric.Trend{}, metric.ErrTrendlineUnavailable
	}
	return metric.Trendline(x, y)
}

func columns(table core.Table, cols ...core.Column) ([][]float64, error) {
	out := make([][]float64, len(cols))
	for i, c := range cols {
		series, err := table.Column(c)
		if err != nil {
			return nil, err
		}
		out[i] = series.Values()
	}
	return out, nil
}
