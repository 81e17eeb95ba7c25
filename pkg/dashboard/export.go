package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/raykavin/roadrisk/pkg/core"
)

var exportHeader = []string{
	"District", "Latitude", "Longitude", "Accidents_2019", "Accidents_2020",
	"Population", "Population_Lakhs", "Accident_Reduction", "Accident_Rate_2020",
}

// ExportHeader returns the CSV columns for the table of a page in mode
func ExportHeader(mode core.Mode) []string {
	header := append([]string(nil), exportHeader...)
	if mode == core.ModePrediction {
		header = append(header, string(core.ColPredicted2020), "Risk_Level")
	}
	return header
}

// WriteCSV writes the page table with the columns of its mode
func (p *Page) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader(p.Mode)); err != nil {
		return fmt.Errorf("failed writing CSV header: %w", err)
	}

	for _, d := range p.Table {
		row := []string{
			d.Name,
			formatFloat(d.Latitude),
			formatFloat(d.Longitude),
			strconv.Itoa(d.Accidents2019),
			strconv.Itoa(d.Accidents2020),
			formatFloat(d.Population),
			formatFloat(d.PopulationLakhs),
			strconv.Itoa(d.AccidentReduction),
			formatFloat(d.AccidentRate2020),
		}
		if p.Mode == core.ModePrediction {
			row = append(row, formatFloat(d.Predicted2020), d.Risk.String())
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed writing CSV row %s: %w", d.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
