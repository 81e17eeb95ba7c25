// Package report prints a dashboard page as plain text tables for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

// Write renders the page: its header, the tables of its mode, the accident
// rate histogram and any warnings
func Write(w io.Writer, page *dashboard.Page) error {
	fmt.Fprintf(w, "%s\n%s\n\n", page.Title, page.Header)

	var err error
	switch page.Mode {
	case core.ModeOverview:
		err = overview(w, page)
	case core.ModePrediction:
		err = prediction(w, page)
	case core.ModeGeospatial:
		err = geospatial(w, page)
	default:
		err = fmt.Errorf("%w: %q", core.ErrUnknownMode, page.Mode)
	}
	if err != nil {
		return err
	}

	if err := rateHistogram(w, page.Table); err != nil {
		return err
	}

	for _, warning := range page.Warnings {
		fmt.Fprintf(w, "WARNING: %s\n", warning)
	}
	return nil
}

func overview(w io.Writer, page *dashboard.Page) error {
	top, err := page.Table.NLargest(page.TopN, core.ColAccidents2020)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "------ TOP %d DISTRICTS BY ACCIDENTS (2020) -------\n", page.TopN)
	accidentTable(w, top)

	reduction, err := page.Table.NLargest(dashboard.ReductionTopN, core.ColAccidentReduction)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "------ TOP %d DISTRICTS BY ACCIDENT REDUCTION -------\n", dashboard.ReductionTopN)
	accidentTable(w, reduction)
	return nil
}

func prediction(w io.Writer, page *dashboard.Page) error {
	if page.Scores != nil {
		fmt.Fprintln(w, "------ RANDOM FOREST REGRESSION MODEL -------")
		fmt.Fprintln(w, scoreTable(page.Scores))
	}

	ranked, err := page.Table.NLargest(len(page.Table), core.ColPredicted2020)
	if err != nil {
		return err
	}

	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"District", "Actual 2020", "Predicted 2020", "Risk Level"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})
	for _, d := range ranked {
		table.Append([]string{
			d.Name,
			strconv.Itoa(d.Accidents2020),
			fmt.Sprintf("%.1f", d.Predicted2020),
			d.Risk.String(),
		})
	}

	counts := make(map[core.RiskLevel]int)
	for _, d := range ranked {
		counts[d.Risk]++
	}
	summary := make([]string, 0, len(core.RiskLevels()))
	for _, level := range core.RiskLevels() {
		summary = append(summary, fmt.Sprintf("%s: %d", level, counts[level]))
	}
	table.Render()

	fmt.Fprintln(w, "------ DISTRICT RISK CATEGORIZATION -------")
	fmt.Fprintln(w, buffer.String())
	fmt.Fprintf(w, "Districts per risk level: %s\n\n", strings.Join(summary, ", "))
	return nil
}

func geospatial(w io.Writer, page *dashboard.Page) error {
	top, err := page.Table.NLargest(page.TopN, core.ColAccidentRate2020)
	if err != nil {
		return err
	}

	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"District", "Latitude", "Longitude", "Accidents 2020", "Rate per Lakh"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, d := range top {
		table.Append([]string{
			d.Name,
			fmt.Sprintf("%.4f", d.Latitude),
			fmt.Sprintf("%.4f", d.Longitude),
			strconv.Itoa(d.Accidents2020),
			fmt.Sprintf("%.2f", d.AccidentRate2020),
		})
	}
	table.Render()

	fmt.Fprintf(w, "------ TOP %d DISTRICTS BY ACCIDENT RATE (2020) -------\n", page.TopN)
	fmt.Fprintln(w, buffer.String())
	return nil
}

// accidentTable prints the yearly counts of the districts with a total footer
func accidentTable(w io.Writer, districts core.Table) {
	var total2019, total2020, reduction int

	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"District", "2019", "2020", "Reduction", "Rate per Lakh"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	for _, d := range districts {
		table.Append([]string{
			d.Name,
			strconv.Itoa(d.Accidents2019),
			strconv.Itoa(d.Accidents2020),
			strconv.Itoa(d.AccidentReduction),
			fmt.Sprintf("%.2f", d.AccidentRate2020),
		})
		total2019 += d.Accidents2019
		total2020 += d.Accidents2020
		reduction += d.AccidentReduction
	}

	table.SetFooter([]string{
		"TOTAL",
		strconv.Itoa(total2019),
		strconv.Itoa(total2020),
		strconv.Itoa(reduction),
		"",
	})
	table.Render()

	fmt.Fprintln(w, buffer.String())
}

// scoreTable formats the model scores as a key/value table
func scoreTable(scores *dashboard.ModelScores) string {
	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)

	data := [][]string{
		{"Mean Squared Error", fmt.Sprintf("%.2f", scores.MSE)},
		{"R-squared Score", fmt.Sprintf("%.2f", scores.R2)},
		{"Out-of-bag R-squared", fmt.Sprintf("%.2f", scores.OOBR2)},
		{"Mean Absolute Error (95% CI)", fmt.Sprintf("%.1f ~ %.1f", scores.MAELower, scores.MAEUpper)},
	}
	for _, feature := range dashboard.Features {
		data = append(data, []string{
			fmt.Sprintf("Importance %s", feature),
			fmt.Sprintf("%.3f", scores.Importances[string(feature)]),
		})
	}
	if scores.Fallback {
		data = append(data, []string{"Risk buckets", "rank based"})
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	return buffer.String()
}

func rateHistogram(w io.Writer, table core.Table) error {
	rates, err := table.Column(core.ColAccidentRate2020)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "------ ACCIDENT RATE 2020 (per lakh) -------")
	hist := histogram.Hist(histogramBins, rates.Values())
	if err := histogram.Fprint(w, hist, histogram.Linear(histogramWidth)); err != nil {
		return fmt.Errorf("failed to print histogram: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}
