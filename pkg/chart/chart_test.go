package chart

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct{ a, b float64 }

func (l line) At(x float64) float64 { return l.a + l.b*x }

func TestBar(t *testing.T) {
	fig, err := Bar("top", "Top", []string{"A", "B"}, []float64{3, 1}, "District", "Accidents",
		WithContinuousColor("Accidents"))
	require.NoError(t, err)

	assert.Equal(t, KindBar, fig.Kind)
	assert.Equal(t, "Top", fig.Title())
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []float64{3, 1}, fig.Data[0].Marker.Color)
	assert.Equal(t, DefaultColorScale, fig.Data[0].Marker.ColorScale)

	_, err = Bar("bad", "Bad", []string{"A"}, nil, "", "")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestHorizontalBar(t *testing.T) {
	fig, err := Bar("imp", "Importance", []string{"Accidents_2019", "Population"}, []float64{0.9, 0.1},
		"Feature", "Importance", Horizontal())
	require.NoError(t, err)

	assert.Equal(t, KindHBar, fig.Kind)
	assert.Equal(t, "h", fig.Data[0].Orientation)
	assert.Equal(t, []float64{0.9, 0.1}, fig.Data[0].X)
	assert.Equal(t, []string{"Population", "Accidents_2019"}, fig.Layout.YAxis.CategoryArray)
	assert.Equal(t, "Importance", fig.Layout.XAxis.Title.Text)
}

func TestBarByCategory(t *testing.T) {
	fig, err := BarByCategory("risk", "Risk",
		[]string{"A", "B", "C"}, []float64{1, 2, 3}, []string{"Low", "High", "Low"},
		[]string{"Very Low", "Low", "High"}, "District", "Predicted", "Risk_Level")
	require.NoError(t, err)

	require.Len(t, fig.Data, 2, "empty categories are skipped")
	assert.Equal(t, "Low", fig.Data[0].Name)
	assert.Equal(t, []string{"A", "C"}, fig.Data[0].X)
	assert.Equal(t, "High", fig.Data[1].Name)
	assert.Equal(t, []string{"A", "B", "C"}, fig.Layout.XAxis.CategoryArray)
}

func TestScatter(t *testing.T) {
	spec := ScatterSpec{
		X:           []float64{1, 2, 3},
		Y:           []float64{2, 4, 6},
		Names:       []string{"A", "B", "C"},
		GroupByName: true,
		Sizes:       []float64{10, 20, 40},
		Trend:       line{a: 0, b: 2},
	}

	fig, err := Scatter("yoy", "YoY", spec)
	require.NoError(t, err)
	require.Len(t, fig.Data, 4)

	trend := fig.Data[3]
	assert.Equal(t, "lines", trend.Mode)
	assert.Equal(t, []float64{1, 3}, trend.X)
	assert.Equal(t, []float64{2, 6}, trend.Y)
	assert.InDelta(t, 2*40.0/400, fig.Data[0].Marker.SizeRef, 1e-12)

	spec.GroupByName = false
	spec.Trend = nil
	fig, err = Scatter("plain", "Plain", spec)
	require.NoError(t, err)
	assert.Len(t, fig.Data, 1)
}

func TestScatterMap(t *testing.T) {
	fig, err := ScatterMap("map", "Map", MapSpec{
		Lat:    []float64{10, 12},
		Lon:    []float64{78, 80},
		Names:  []string{"A", "B"},
		Sizes:  []float64{1, 2},
		Colors: []float64{1, 2},
		Hover:  []HoverColumn{{Name: "Population", Values: []float64{5, 6}}},
		Zoom:   6,
		Height: 600,
		Style:  "open-street-map",
	})
	require.NoError(t, err)

	assert.Equal(t, KindMap, fig.Kind)
	assert.Equal(t, LatLon{Lat: 11, Lon: 79}, fig.Layout.Map.Center)
	assert.Equal(t, [][]float64{{5}, {6}}, fig.Data[0].CustomData)
	assert.Contains(t, fig.Data[0].HoverTemplate, "Population=%{customdata[0]}")

	raw, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"scattermapbox"`)

	_, err = ScatterMap("bad", "Bad", MapSpec{Lat: []float64{1}, Lon: []float64{1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestRenderPNG(t *testing.T) {
	bar, err := Bar("top", "Top", []string{"A", "B"}, []float64{3, 1}, "District", "Accidents")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(bar, &buf, DefaultImageWidth, DefaultImageHeight))
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])

	scatter, err := Scatter("s", "S", ScatterSpec{X: []float64{1, 2}, Y: []float64{1, 2}, Trend: line{b: 1}})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, RenderPNG(scatter, &buf, DefaultImageWidth, DefaultImageHeight))
	assert.NotZero(t, buf.Len())

	pie, err := Pie("pie", "Pie", []string{"A"}, []float64{1})
	require.NoError(t, err)
	assert.ErrorIs(t, RenderPNG(pie, &buf, DefaultImageWidth, DefaultImageHeight), ErrUnsupportedKind)
}
