package dashboard

import (
	"github.com/raykavin/roadrisk/pkg/chart"
	"github.com/raykavin/roadrisk/pkg/core"
)

// Title is the heading shown above every mode
const Title = "Tamil Nadu Road Accident Analysis System"

// Page is one full render of the dashboard for a mode and slider value
type Page struct {
	Title    string       `json:"title"`
	Mode     core.Mode    `json:"mode"`
	Header   string       `json:"header"`
	TopN     int          `json:"top_n"`
	Sections []Section    `json:"sections"`
	Warnings []string     `json:"warnings,omitempty"`
	Table    core.Table   `json:"table"`
	Scores   *ModelScores `json:"scores,omitempty"`
}

// Section groups the widgets under one subheader
type Section struct {
	Subheader string          `json:"subheader"`
	Slider    bool            `json:"slider,omitempty"` // the top-N slider sits in this section
	Columns   int             `json:"columns"`
	Metrics   []Metric        `json:"metrics,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
	Charts    []*chart.Figure `json:"charts,omitempty"`
}

// Metric is a labelled value card
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ModelScores summarises the regression fit shown in prediction mode
type ModelScores struct {
	MSE         float64            `json:"mse"`
	R2          float64            `json:"r2"`
	OOBR2       float64            `json:"oob_r2"`
	MAELower    float64            `json:"mae_lower"`
	MAEUpper    float64            `json:"mae_upper"`
	Importances map[string]float64 `json:"importances"`
	Fallback    bool               `json:"risk_rank_fallback,omitempty"`
}

// Figure returns the chart with the given id, or nil
func (p *Page) Figure(id string) *chart.Figure {
	for _, s := range p.Sections {
		for _, f := range s.Charts {
			if f.ID == id {
				return f
			}
		}
	}
	return nil
}

// Figures returns every chart on the page in display order
func (p *Page) Figures() []*chart.Figure {
	var out []*chart.Figure
	for _, s := range p.Sections {
		out = append(out, s.Charts...)
	}
	return out
}
