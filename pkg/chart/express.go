package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

var ErrLengthMismatch = errors.New("chart columns differ in length")

// BarOption customises a bar figure
type BarOption func(*Figure)

// WithContinuousColor colors bars by their value on the default scale
func WithContinuousColor(title string) BarOption {
	return func(f *Figure) {
		trace := &f.Data[0]
		values, _ := trace.Y.([]float64)
		if f.Kind == KindHBar {
			values, _ = trace.X.([]float64)
		}
		trace.Marker = &Marker{
			Color:      values,
			ColorScale: DefaultColorScale,
			ShowScale:  true,
			ColorBar:   &ColorBar{Title: Text{Text: title}},
		}
	}
}

// Horizontal turns the bars sideways, categories on the y axis
func Horizontal() BarOption {
	return func(f *Figure) {
		trace := &f.Data[0]
		trace.X, trace.Y = trace.Y, trace.X
		trace.Orientation = "h"
		f.Kind = KindHBar
		f.Layout.XAxis, f.Layout.YAxis = f.Layout.YAxis, f.Layout.XAxis
		// keep the first category at the top
		f.Layout.YAxis.CategoryOrder = "array"
		f.Layout.YAxis.CategoryArray = lo.Reverse(append([]string(nil), trace.Y.([]string)...))
	}
}

// Bar builds a vertical bar chart of values per label
func Bar(id, title string, labels []string, values []float64, xTitle, yTitle string,
	options ...BarOption) (*Figure, error) {

	if len(labels) != len(values) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrLengthMismatch, len(labels), len(values))
	}

	fig := &Figure{
		ID:   id,
		Kind: KindBar,
		Data: []Trace{{
			Type: "bar",
			X:    labels,
			Y:    values,
		}},
		Layout: Layout{
			Title: Text{Text: title},
			XAxis: &Axis{Title: Text{Text: xTitle}},
			YAxis: &Axis{Title: Text{Text: yTitle}},
		},
	}

	for _, option := range options {
		option(fig)
	}
	return fig, nil
}

// BarByCategory builds a bar chart with one trace per category so the legend
// lists categories in the given order. Bars keep the order of labels.
func BarByCategory(id, title string, labels []string, values []float64, categories []string,
	order []string, xTitle, yTitle, legendTitle string) (*Figure, error) {

	if len(labels) != len(values) || len(labels) != len(categories) {
		return nil, fmt.Errorf("%w: %d labels, %d values, %d categories",
			ErrLengthMismatch, len(labels), len(values), len(categories))
	}

	fig := &Figure{
		ID:   id,
		Kind: KindBar,
		Layout: Layout{
			Title:  Text{Text: title},
			XAxis:  &Axis{Title: Text{Text: xTitle}, CategoryOrder: "array", CategoryArray: labels},
			YAxis:  &Axis{Title: Text{Text: yTitle}},
			Legend: &Legend{Title: Text{Text: legendTitle}},
		},
	}

	for _, category := range order {
		var x []string
		var y []float64
		for i, c := range categories {
			if c == category {
				x = append(x, labels[i])
				y = append(y, values[i])
			}
		}
		if len(x) == 0 {
			continue
		}
		fig.Data = append(fig.Data, Trace{
			Type:        "bar",
			Name:        category,
			LegendGroup: category,
			X:           x,
			Y:           y,
		})
	}

	return fig, nil
}

// Pie builds a pie chart of values per label
func Pie(id, title string, labels []string, values []float64) (*Figure, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrLengthMismatch, len(labels), len(values))
	}

	return &Figure{
		ID:   id,
		Kind: KindPie,
		Data: []Trace{{
			Type:   "pie",
			Labels: labels,
			Values: values,
		}},
		Layout: Layout{Title: Text{Text: title}},
	}, nil
}

// TrendLine is the fitted line drawn over a scatter plot
type TrendLine interface {
	At(x float64) float64
}

// ScatterSpec describes a scatter plot
type ScatterSpec struct {
	X, Y        []float64
	Names       []string  // hover text, one per point
	GroupByName bool      // one trace and legend entry per name
	Sizes       []float64 // optional marker areas
	XTitle      string
	YTitle      string
	Trend       TrendLine // optional, drawn across the x range
}

// Scatter builds a scatter plot
func Scatter(id, title string, spec ScatterSpec) (*Figure, error) {
	n := len(spec.X)
	if len(spec.Y) != n || (spec.Names != nil && len(spec.Names) != n) ||
		(spec.Sizes != nil && len(spec.Sizes) != n) {
		return nil, fmt.Errorf("%w: scatter %s", ErrLengthMismatch, id)
	}

	fig := &Figure{
		ID:   id,
		Kind: KindScatter,
		Layout: Layout{
			Title: Text{Text: title},
			XAxis: &Axis{Title: Text{Text: spec.XTitle}},
			YAxis: &Axis{Title: Text{Text: spec.YTitle}},
		},
	}

	sizeRef := 0.0
	if len(spec.Sizes) > 0 {
		sizeRef = 2 * floats.Max(spec.Sizes) / (maxMarkerSize * maxMarkerSize)
	}

	template := fmt.Sprintf("<b>%%{hovertext}</b><br>%s=%%{x}<br>%s=%%{y}<extra></extra>", spec.XTitle, spec.YTitle)
	point := func(i int) Trace {
		trace := Trace{
			Type:          "scatter",
			Mode:          "markers",
			X:             []float64{spec.X[i]},
			Y:             []float64{spec.Y[i]},
			HoverTemplate: template,
		}
		if spec.Names != nil {
			trace.HoverText = []string{spec.Names[i]}
		}
		if len(spec.Sizes) > 0 {
			trace.Marker = &Marker{
				Size:     []float64{spec.Sizes[i]},
				SizeMode: "area",
				SizeRef:  sizeRef,
				SizeMin:  4,
			}
		}
		return trace
	}

	if spec.GroupByName && spec.Names != nil {
		fig.Layout.Legend = &Legend{Title: Text{Text: "District"}}
		for i := range spec.X {
			trace := point(i)
			trace.Name = spec.Names[i]
			trace.LegendGroup = spec.Names[i]
			fig.Data = append(fig.Data, trace)
		}
	} else {
		trace := Trace{
			Type:          "scatter",
			Mode:          "markers",
			X:             spec.X,
			Y:             spec.Y,
			HoverText:     spec.Names,
			HoverTemplate: template,
			ShowLegend:    boolPtr(false),
		}
		if len(spec.Sizes) > 0 {
			trace.Marker = &Marker{Size: spec.Sizes, SizeMode: "area", SizeRef: sizeRef, SizeMin: 4}
		}
		fig.Data = append(fig.Data, trace)
	}

	if spec.Trend != nil && n > 0 {
		x0, x1 := floats.Min(spec.X), floats.Max(spec.X)
		fig.Data = append(fig.Data, Trace{
			Type:       "scatter",
			Mode:       "lines",
			Name:       "OLS trendline",
			X:          []float64{x0, x1},
			Y:          []float64{spec.Trend.At(x0), spec.Trend.At(x1)},
			ShowLegend: boolPtr(false),
			Line:       &Line{Color: "#444", Width: 2},
		})
	}

	return fig, nil
}

// HoverColumn is an extra value shown when hovering a map point
type HoverColumn struct {
	Name   string
	Values []float64
}

// MapSpec describes a scatter plot on a tile map
type MapSpec struct {
	Lat, Lon   []float64
	Names      []string
	Sizes      []float64
	Colors     []float64
	ColorTitle string
	Hover      []HoverColumn
	Zoom       int
	Height     int
	Style      string
}

// ScatterMap builds a scatter plot over map tiles
func ScatterMap(id, title string, spec MapSpec) (*Figure, error) {
	n := len(spec.Lat)
	if n == 0 {
		return nil, fmt.Errorf("%w: map %s has no points", ErrLengthMismatch, id)
	}
	lengths := []int{len(spec.Lon), len(spec.Names), len(spec.Sizes), len(spec.Colors)}
	for _, h := range spec.Hover {
		lengths = append(lengths, len(h.Values))
	}
	if lo.ContainsBy(lengths, func(l int) bool { return l != n }) {
		return nil, fmt.Errorf("%w: map %s", ErrLengthMismatch, id)
	}

	lines := []string{"<b>%{hovertext}</b>"}
	custom := make([][]float64, n)
	for j, h := range spec.Hover {
		lines = append(lines, fmt.Sprintf("%s=%%{customdata[%d]}", h.Name, j))
		for i, v := range h.Values {
			custom[i] = append(custom[i], v)
		}
	}

	return &Figure{
		ID:   id,
		Kind: KindMap,
		Data: []Trace{{
			Type:          "scattermapbox",
			Mode:          "markers",
			Lat:           spec.Lat,
			Lon:           spec.Lon,
			HoverText:     spec.Names,
			HoverTemplate: strings.Join(lines, "<br>") + "<extra></extra>",
			CustomData:    custom,
			Marker: &Marker{
				Size:       spec.Sizes,
				SizeMode:   "area",
				SizeRef:    2 * floats.Max(spec.Sizes) / (maxMarkerSize * maxMarkerSize),
				Color:      spec.Colors,
				ColorScale: DefaultColorScale,
				ShowScale:  true,
				ColorBar:   &ColorBar{Title: Text{Text: spec.ColorTitle}},
			},
		}},
		Layout: Layout{
			Title:  Text{Text: title},
			Height: spec.Height,
			Map: &MapBox{
				Style:  spec.Style,
				Zoom:   spec.Zoom,
				Center: LatLon{Lat: mean(spec.Lat), Lon: mean(spec.Lon)},
			},
			Margin: &Margin{L: 0, R: 0, T: 40, B: 0},
		},
	}, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Sum(values) / float64(len(values))
}
