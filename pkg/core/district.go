package core

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// District is a single row of the accident table
type District struct {
	Name              string    `json:"district"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Accidents2019     int       `json:"accidents_2019"`
	Accidents2020     int       `json:"accidents_2020"`
	Population        float64   `json:"population"`
	PopulationLakhs   float64   `json:"population_lakhs"`
	AccidentReduction int       `json:"accident_reduction"`
	AccidentRate2020  float64   `json:"accident_rate_2020"`
	Predicted2020     float64   `json:"predicted_2020,omitempty"`
	Risk              RiskLevel `json:"risk_level,omitempty"`
}

// Derive fills the columns computed from the static ones
func (d *District) Derive() {
	d.PopulationLakhs = d.Population / 10
	d.AccidentReduction = d.Accidents2019 - d.Accidents2020
	d.AccidentRate2020 = float64(d.Accidents2020) / d.PopulationLakhs
}

// Column names a numeric field of District
type Column string

const (
	ColLatitude          Column = "Latitude"
	ColLongitude         Column = "Longitude"
	ColAccidents2019     Column = "Accidents_2019"
	ColAccidents2020     Column = "Accidents_2020"
	ColPopulation        Column = "Population"
	ColPopulationLakhs   Column = "Population_Lakhs"
	ColAccidentReduction Column = "Accident_Reduction"
	ColAccidentRate2020  Column = "Accident_Rate_2020"
	ColPredicted2020     Column = "Predicted_2020"
)

// Value returns the numeric value of a column for the district
func (d District) Value(col Column) (float64, error) {
	switch col {
	case ColLatitude:
		return d.Latitude, nil
	case ColLongitude:
		return d.Longitude, nil
	case ColAccidents2019:
		return float64(d.Accidents2019), nil
	case ColAccidents2020:
		return float64(d.Accidents2020), nil
	case ColPopulation:
		return d.Population, nil
	case ColPopulationLakhs:
		return d.PopulationLakhs, nil
	case ColAccidentReduction:
		return float64(d.AccidentReduction), nil
	case ColAccidentRate2020:
		return d.AccidentRate2020, nil
	case ColPredicted2020:
		return d.Predicted2020, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
}

// Table is the full set of districts
type Table []District

// Clone returns a copy that can be mutated without touching the receiver
func (t Table) Clone() Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Names returns district names in table order
func (t Table) Names() []string {
	return lo.Map(t, func(d District, _ int) string { return d.Name })
}

// Column extracts a numeric column
func (t Table) Column(col Column) (Series[float64], error) {
	out := make(Series[float64], len(t))
	for i, d := range t {
		v, err := d.Value(col)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// NLargest returns the first n rows ordered by col descending.
// Ties keep their table order and n is clamped to the table size.
func (t Table) NLargest(n int, col Column) (Table, error) {
	if _, err := (District{}).Value(col); err != nil {
		return nil, err
	}

	n = max(0, min(n, len(t)))
	sorted := t.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := sorted[i].Value(col)
		b, _ := sorted[j].Value(col)
		return a > b
	})
	return sorted[:n], nil
}

// SortBy returns a copy ordered by col ascending, ties keep table order
func (t Table) SortBy(col Column) (Table, error) {
	if _, err := (District{}).Value(col); err != nil {
		return nil, err
	}

	sorted := t.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := sorted[i].Value(col)
		b, _ := sorted[j].Value(col)
		return a < b
	})
	return sorted, nil
}
