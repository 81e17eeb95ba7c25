package dashboard

import (
	"fmt"

	"github.com/raykavin/roadrisk/pkg/chart"
	"github.com/raykavin/roadrisk/pkg/core"
)

func (b *Builder) overview(page *Page) error {
	page.Header = "District-Level Accident Analysis"
	table := page.Table

	top, err := table.NLargest(page.TopN, core.ColAccidents2020)
	if err != nil {
		return err
	}
	topValues, err := top.Column(core.ColAccidents2020)
	if err != nil {
		return err
	}

	bar, err := chart.Bar("top-accidents",
		fmt.Sprintf("Top %d Districts by Accidents (2020)", page.TopN),
		top.Names(), topValues, "District", string(core.ColAccidents2020),
		chart.WithContinuousColor(string(core.ColAccidents2020)))
	if err != nil {
		return err
	}

	pie, err := chart.Pie("top-share",
		fmt.Sprintf("Accident Distribution - Top %d Districts", page.TopN),
		top.Names(), topValues)
	if err != nil {
		return err
	}

	page.Sections = append(page.Sections, Section{
		Subheader: "Top Districts by Accident Volume (2020)",
		Slider:    true,
		Columns:   2,
		Charts:    []*chart.Figure{bar, pie},
	})

	cols, err := columns(table, core.ColAccidents2019, core.ColAccidents2020, core.ColPopulation)
	if err != nil {
		return err
	}

	scatter, warning, err := b.scatterWithTrend("year-over-year",
		"2019 vs 2020 Accidents with Population Size",
		"2019 vs 2020 Accidents (trendline disabled)",
		chart.ScatterSpec{
			X:           cols[0],
			Y:           cols[1],
			Names:       table.Names(),
			GroupByName: true,
			Sizes:       cols[2],
			XTitle:      string(core.ColAccidents2019),
			YTitle:      string(core.ColAccidents2020),
		})
	if err != nil {
		return err
	}

	section := Section{
		Subheader: "Year-over-Year Comparison (2019 vs 2020)",
		Columns:   1,
		Charts:    []*chart.Figure{scatter},
	}
	if warning != "" {
		section.Warnings = []string{warning}
	}
	page.Sections = append(page.Sections, section)

	reduction, err := table.NLargest(ReductionTopN, core.ColAccidentReduction)
	if err != nil {
		return err
	}
	reductionValues, err := reduction.Column(core.ColAccidentReduction)
	if err != nil {
		return err
	}

	reductionBar, err := chart.Bar("top-reduction",
		fmt.Sprintf("Top %d Districts Showing Accident Reduction (2019-2020)", ReductionTopN),
		reduction.Names(), reductionValues, "District", string(core.ColAccidentReduction),
		chart.WithContinuousColor(string(core.ColAccidentReduction)))
	if err != nil {
		return err
	}

	page.Sections = append(page.Sections, Section{
		Subheader: "Districts with Highest Accident Reduction",
		Columns:   1,
		Charts:    []*chart.Figure{reductionBar},
	})

	return nil
}
