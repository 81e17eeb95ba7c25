package dashboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dataset"
	"github.com/raykavin/roadrisk/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	builder := NewBuilder(zerolog.Nop())

	tt := []struct {
		mode core.Mode
		last string
	}{
		{core.ModeOverview, "Accident_Rate_2020"},
		{core.ModeGeospatial, "Accident_Rate_2020"},
		{core.ModePrediction, "Risk_Level"},
	}

	for _, tc := range tt {
		t.Run(string(tc.mode), func(t *testing.T) {
			page, err := builder.Build(context.Background(), tc.mode, 10)
			require.NoError(t, err)

			buffer := bytes.NewBuffer(nil)
			require.NoError(t, page.WriteCSV(buffer))

			records, err := csv.NewReader(buffer).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, dataset.Rows+1)

			header := records[0]
			assert.Equal(t, "District", header[0])
			assert.Equal(t, tc.last, header[len(header)-1])
			assert.Equal(t, page.Table[0].Name, records[1][0])

			if tc.mode == core.ModePrediction {
				labels := core.RiskLabels()
				for _, row := range records[1:] {
					assert.Contains(t, labels, row[len(row)-1])
				}
			}
		})
	}
}
