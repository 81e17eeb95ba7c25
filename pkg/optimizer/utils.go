package optimizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// SaveResultsToCSV saves optimization results to a CSV file
func SaveResultsToCSV(results []*Result, targetMetric MetricName, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteResultsCSV(file, results, targetMetric)
}

// WriteResultsCSV writes results ranked by the target metric as CSV
func WriteResultsCSV(w io.Writer, results []*Result, targetMetric MetricName) error {
	writer := csv.NewWriter(w)

	sortResults(results, targetMetric, targetMetric.Maximize())
	paramNames, metricNames := columnNames(results)

	header := []string{"Rank", "Duration"}
	header = append(header, paramNames...)
	header = append(header, metricNames...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, result := range results {
		row := []string{
			strconv.Itoa(i + 1),
			result.Duration.String(),
		}
		row = append(row, resultCells(result, paramNames, metricNames)...)

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteResultsTable renders the top N results as a console table
func WriteResultsTable(w io.Writer, results []*Result, targetMetric MetricName, topN int) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results to display")
		return
	}

	sortResults(results, targetMetric, targetMetric.Maximize())
	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}
	paramNames, metricNames := columnNames(results)

	fmt.Fprintf(w, "\n=== Top %d Results (by %s) ===\n\n", len(results), targetMetric)

	table := tablewriter.NewWriter(w)
	header := []string{"#", "Duration"}
	header = append(header, paramNames...)
	header = append(header, metricNames...)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i, result := range results {
		row := []string{
			strconv.Itoa(i + 1),
			result.Duration.Round(time.Millisecond).String(),
		}
		table.Append(append(row, resultCells(result, paramNames, metricNames)...))
	}
	table.Render()
}

// FormatParameterSet formats a parameter set as a string
func FormatParameterSet(params ParameterSet) string {
	names := lo.Keys(params)
	sort.Strings(names)

	parts := lo.Map(names, func(name string, _ int) string {
		return fmt.Sprintf("%s: %d", name, params[name])
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// columnNames returns the sorted parameter and metric names across results
func columnNames(results []*Result) ([]string, []string) {
	paramNames := make(map[string]bool)
	metricNames := make(map[string]bool)

	for _, result := range results {
		for name := range result.Parameters {
			paramNames[name] = true
		}
		for name := range result.Metrics {
			metricNames[name] = true
		}
	}

	params := lo.Keys(paramNames)
	metrics := lo.Keys(metricNames)
	sort.Strings(params)
	sort.Strings(metrics)
	return params, metrics
}

func resultCells(result *Result, paramNames, metricNames []string) []string {
	cells := make([]string, 0, len(paramNames)+len(metricNames))
	for _, name := range paramNames {
		value, exists := result.Parameters[name]
		if !exists {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, strconv.Itoa(value))
	}

	for _, name := range metricNames {
		value, exists := result.Metrics[name]
		if !exists {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, strconv.FormatFloat(value, 'f', 4, 64))
	}
	return cells
}
