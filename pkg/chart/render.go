package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrUnsupportedKind = errors.New("figure kind cannot be rendered as an image")
	ErrMalformedTrace  = errors.New("malformed trace")
)

// DefaultImageWidth and DefaultImageHeight size PNG renders
const (
	DefaultImageWidth  = 8 * vg.Inch
	DefaultImageHeight = 5 * vg.Inch
)

// RenderPNG draws bar and scatter figures as a PNG image
func RenderPNG(fig *Figure, w io.Writer, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = fig.Title()
	if fig.Layout.XAxis != nil {
		p.X.Label.Text = fig.Layout.XAxis.Title.Text
	}
	if fig.Layout.YAxis != nil {
		p.Y.Label.Text = fig.Layout.YAxis.Title.Text
	}
	p.Add(plotter.NewGrid())

	var err error
	switch fig.Kind {
	case KindBar, KindHBar:
		err = addBars(p, fig)
	case KindScatter:
		err = addScatter(p, fig)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, fig.Kind)
	}
	if err != nil {
		return err
	}

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// addBars lays every trace over one shared category axis so per-category
// traces line up with their labels.
func addBars(p *plot.Plot, fig *Figure) error {
	horizontal := fig.Kind == KindHBar

	var categories []string
	for _, trace := range fig.Data {
		labels, _, err := barColumns(trace, horizontal)
		if err != nil {
			return err
		}
		for _, l := range labels {
			if !lo.Contains(categories, l) {
				categories = append(categories, l)
			}
		}
	}

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}

	for i, trace := range fig.Data {
		labels, values, _ := barColumns(trace, horizontal)
		column := make(plotter.Values, len(categories))
		for j, l := range labels {
			column[index[l]] = values[j]
		}

		bars, err := plotter.NewBarChart(column, vg.Points(12))
		if err != nil {
			return fmt.Errorf("failed to create bar chart: %w", err)
		}
		bars.Horizontal = horizontal
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)

		if trace.Name != "" {
			p.Legend.Add(trace.Name, bars)
		}
	}

	if horizontal {
		p.NominalY(categories...)
	} else {
		p.NominalX(categories...)
		p.X.Tick.Label.Rotation = 0.8
		p.X.Tick.Label.XAlign = draw.XRight
	}
	return nil
}

func barColumns(trace Trace, horizontal bool) ([]string, []float64, error) {
	labelsAny, valuesAny := trace.X, trace.Y
	if horizontal {
		labelsAny, valuesAny = trace.Y, trace.X
	}
	if labelsAny == nil && valuesAny == nil {
		return nil, nil, nil
	}

	labels, ok := labelsAny.([]string)
	if !ok {
		return nil, nil, fmt.Errorf("%w: bar labels must be strings", ErrMalformedTrace)
	}
	values, ok := valuesAny.([]float64)
	if !ok || len(values) != len(labels) {
		return nil, nil, fmt.Errorf("%w: bar values must match labels", ErrMalformedTrace)
	}
	return labels, values, nil
}

func addScatter(p *plot.Plot, fig *Figure) error {
	var points plotter.XYs
	for _, trace := range fig.Data {
		x, okX := trace.X.([]float64)
		y, okY := trace.Y.([]float64)
		if !okX || !okY || len(x) != len(y) {
			return fmt.Errorf("%w: scatter columns must be numeric", ErrMalformedTrace)
		}

		xys := make(plotter.XYs, len(x))
		for i := range x {
			xys[i] = plotter.XY{X: x[i], Y: y[i]}
		}

		if trace.Mode == "lines" {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("failed to create trend line: %w", err)
			}
			line.LineStyle.Width = vg.Points(1.5)
			line.LineStyle.Color = plotutil.Color(1)
			p.Add(line)
			continue
		}
		points = append(points, xys...)
	}

	if len(points) == 0 {
		return nil
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("failed to create scatter: %w", err)
	}
	scatter.GlyphStyle.Color = plotutil.Color(0)
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	return nil
}
