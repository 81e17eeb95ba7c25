package dashboard

import (
	"github.com/raykavin/roadrisk/pkg/chart"
	"github.com/raykavin/roadrisk/pkg/core"
)

const (
	mapZoom   = 6
	mapHeight = 600
)

func (b *Builder) geospatial(page *Page) error {
	page.Header = "Geospatial Accident Distribution"
	table := page.Table

	cols, err := columns(table,
		core.ColLatitude, core.ColLongitude,
		core.ColAccidents2019, core.ColAccidents2020,
		core.ColPopulation, core.ColAccidentRate2020)
	if err != nil {
		return err
	}
	lat, lon, acc2019, acc2020, population, rate := cols[0], cols[1], cols[2], cols[3], cols[4], cols[5]

	hotspots, err := chart.ScatterMap("accident-hotspots", "Geographical Distribution of Accidents", chart.MapSpec{
		Lat:        lat,
		Lon:        lon,
		Names:      table.Names(),
		Sizes:      acc2020,
		Colors:     acc2020,
		ColorTitle: string(core.ColAccidents2020),
		Hover: []chart.HoverColumn{
			{Name: string(core.ColAccidents2019), Values: acc2019},
			{Name: string(core.ColAccidents2020), Values: acc2020},
			{Name: string(core.ColPopulation), Values: population},
		},
		Zoom:   mapZoom,
		Height: mapHeight,
		Style:  "open-street-map",
	})
	if err != nil {
		return err
	}

	rates, err := chart.ScatterMap("accident-rate", "Accident Rate per Lakh Population", chart.MapSpec{
		Lat:        lat,
		Lon:        lon,
		Names:      table.Names(),
		Sizes:      rate,
		Colors:     rate,
		ColorTitle: string(core.ColAccidentRate2020),
		Hover: []chart.HoverColumn{
			{Name: string(core.ColAccidentRate2020), Values: rate},
			{Name: string(core.ColPopulation), Values: population},
		},
		Zoom:   mapZoom,
		Height: mapHeight,
		Style:  "carto-positron",
	})
	if err != nil {
		return err
	}

	page.Sections = append(page.Sections,
		Section{Subheader: "Accident Hotspots (2020)", Columns: 1, Charts: []*chart.Figure{hotspots}},
		Section{Subheader: "Accident Rate per Lakh Population", Columns: 1, Charts: []*chart.Figure{rates}},
	)
	return nil
}
