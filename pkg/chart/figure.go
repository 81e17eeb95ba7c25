// Package chart builds Plotly-compatible figures for the dashboard and
// renders the simpler ones to PNG on the server.
package chart

import "encoding/json"

// Kind identifies the chart type of a figure
type Kind string

const (
	KindBar     Kind = "bar"
	KindHBar    Kind = "hbar"
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
	KindMap     Kind = "map"
)

// DefaultColorScale is the continuous color scale used for numeric coloring
const DefaultColorScale = "Plasma"

// maxMarkerSize is the largest marker diameter in pixels for sized scatter plots
const maxMarkerSize = 20

// Figure is a chart ready to be handed to Plotly in the browser
type Figure struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Title returns the figure title
func (f *Figure) Title() string {
	return f.Layout.Title.Text
}

// Trace is a single Plotly trace. X and Y hold either []string or []float64.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Orientation   string      `json:"orientation,omitempty"`
	X             any         `json:"x,omitempty"`
	Y             any         `json:"y,omitempty"`
	Labels        []string    `json:"labels,omitempty"`
	Values        []float64   `json:"values,omitempty"`
	Lat           []float64   `json:"lat,omitempty"`
	Lon           []float64   `json:"lon,omitempty"`
	HoverText     []string    `json:"hovertext,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	CustomData    [][]float64 `json:"customdata,omitempty"`
	LegendGroup   string      `json:"legendgroup,omitempty"`
	ShowLegend    *bool       `json:"showlegend,omitempty"`
	Marker        *Marker     `json:"marker,omitempty"`
	Line          *Line       `json:"line,omitempty"`
}

// Marker styles the points or bars of a trace
type Marker struct {
	Color      any       `json:"color,omitempty"`
	ColorScale string    `json:"colorscale,omitempty"`
	ShowScale  bool      `json:"showscale,omitempty"`
	ColorBar   *ColorBar `json:"colorbar,omitempty"`
	Size       any       `json:"size,omitempty"`
	SizeMode   string    `json:"sizemode,omitempty"`
	SizeRef    float64   `json:"sizeref,omitempty"`
	SizeMin    float64   `json:"sizemin,omitempty"`
}

// ColorBar labels a continuous color scale
type ColorBar struct {
	Title Text `json:"title"`
}

// Line styles line traces
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Text is a Plotly title object
type Text struct {
	Text string `json:"text"`
}

// Layout holds the figure layout attributes the dashboard uses
type Layout struct {
	Title  Text    `json:"title"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	Legend *Legend `json:"legend,omitempty"`
	Height int     `json:"height,omitempty"`
	Map    *MapBox `json:"mapbox,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
}

// Axis configures an axis
type Axis struct {
	Title         Text     `json:"title"`
	CategoryOrder string   `json:"categoryorder,omitempty"`
	CategoryArray []string `json:"categoryarray,omitempty"`
}

// Legend configures the legend
type Legend struct {
	Title Text `json:"title"`
}

// MapBox configures a tile map
type MapBox struct {
	Style  string `json:"style"`
	Zoom   int    `json:"zoom"`
	Center LatLon `json:"center"`
}

// LatLon is a map coordinate
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Margin sets the plot margins in pixels
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// UnmarshalJSON restores X and Y as []float64 or []string so decoded
// figures can still be rendered.
func (t *Trace) UnmarshalJSON(data []byte) error {
	type plain Trace
	aux := struct {
		*plain
		X json.RawMessage `json:"x,omitempty"`
		Y json.RawMessage `json:"y,omitempty"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if t.X, err = decodeColumn(aux.X); err != nil {
		return err
	}
	t.Y, err = decodeColumn(aux.Y)
	return err
}

func decodeColumn(raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var numbers []float64
	if err := json.Unmarshal(raw, &numbers); err == nil {
		// an empty array carries no type, treat it as an absent column
		if len(numbers) == 0 {
			return nil, nil
		}
		return numbers, nil
	}

	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func boolPtr(v bool) *bool {
	return &v
}
