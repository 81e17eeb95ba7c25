package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
	"github.com/raykavin/roadrisk/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	builder := dashboard.NewBuilder(zerolog.Nop())

	tt := []struct {
		mode     core.Mode
		expected []string
	}{
		{core.ModeOverview, []string{
			"District-Level Accident Analysis",
			"TOP 8 DISTRICTS BY ACCIDENTS (2020)",
			"TOP 10 DISTRICTS BY ACCIDENT REDUCTION",
			"Tiruchirappalli",
			"TOTAL",
		}},
		{core.ModePrediction, []string{
			"Accident Risk Prediction Model",
			"RANDOM FOREST REGRESSION MODEL",
			"Mean Squared Error",
			"Importance Accidents_2019",
			"DISTRICT RISK CATEGORIZATION",
			"Very High",
			"Districts per risk level: Very Low:",
		}},
		{core.ModeGeospatial, []string{
			"Geospatial",
			"TOP 8 DISTRICTS BY ACCIDENT RATE (2020)",
		}},
	}

	for _, tc := range tt {
		t.Run(string(tc.mode), func(t *testing.T) {
			page, err := builder.Build(context.Background(), tc.mode, 8)
			require.NoError(t, err)

			buffer := bytes.NewBuffer(nil)
			require.NoError(t, Write(buffer, page))

			out := buffer.String()
			assert.Contains(t, out, dashboard.Title)
			assert.Contains(t, out, "ACCIDENT RATE 2020 (per lakh)")
			for _, s := range tc.expected {
				assert.Contains(t, out, s)
			}
			assert.NotContains(t, out, "WARNING:")
		})
	}
}

func TestWriteWarnings(t *testing.T) {
	builder := dashboard.NewBuilder(zerolog.Nop(), dashboard.WithTrendline(false))
	page, err := builder.Build(context.Background(), core.ModeOverview, 10)
	require.NoError(t, err)

	buffer := bytes.NewBuffer(nil)
	require.NoError(t, Write(buffer, page))
	assert.Contains(t, buffer.String(), "WARNING: Trendline disabled: ")
}

func TestWriteUnknownMode(t *testing.T) {
	err := Write(bytes.NewBuffer(nil), &dashboard.Page{Mode: core.Mode("timeline")})
	assert.ErrorIs(t, err, core.ErrUnknownMode)
}
