package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	rows := Table{
		{Name: "A", Accidents2019: 100, Accidents2020: 90, Population: 20},
		{Name: "B", Accidents2019: 300, Accidents2020: 250, Population: 50},
		{Name: "C", Accidents2019: 200, Accidents2020: 250, Population: 10},
		{Name: "D", Accidents2019: 50, Accidents2020: 40, Population: 5},
	}
	for i := range rows {
		rows[i].Derive()
	}
	return rows
}

func TestDistrictDerive(t *testing.T) {
	d := District{Accidents2019: 1192, Accidents2020: 1179, Population: 80.1}
	d.Derive()

	assert.InDelta(t, 8.01, d.PopulationLakhs, 1e-9)
	assert.Equal(t, 13, d.AccidentReduction)
	assert.InDelta(t, 1179/8.01, d.AccidentRate2020, 1e-9)
}

func TestTableNLargest(t *testing.T) {
	table := sampleTable()

	t.Run("ties keep table order", func(t *testing.T) {
		top, err := table.NLargest(2, ColAccidents2020)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, top.Names())
	})

	t.Run("clamped to table size", func(t *testing.T) {
		top, err := table.NLargest(15, ColAccidents2020)
		require.NoError(t, err)
		assert.Len(t, top, len(table))
	})

	t.Run("negative reduction sorts last", func(t *testing.T) {
		top, err := table.NLargest(4, ColAccidentReduction)
		require.NoError(t, err)
		assert.Equal(t, "C", top[3].Name)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := table.NLargest(2, Column("nope"))
		assert.ErrorIs(t, err, ErrUnknownColumn)
	})

	t.Run("receiver untouched", func(t *testing.T) {
		_, err := table.NLargest(3, ColPopulation)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D"}, table.Names())
	})
}

func TestTableSortBy(t *testing.T) {
	sorted, err := sampleTable().SortBy(ColPopulation)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C", "A", "B"}, sorted.Names())
}

func TestTableColumn(t *testing.T) {
	col, err := sampleTable().Column(ColAccidents2019)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 300, 200, 50}, col.Values())
	assert.Equal(t, 50.0, col.Min())
	assert.Equal(t, 300.0, col.Max())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{in: "", want: ModeOverview},
		{in: "overview", want: ModeOverview},
		{in: "Accident Prediction Model", want: ModePrediction},
		{in: "GEOSPATIAL", want: ModeGeospatial},
		{in: "timeline", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClampTopN(t *testing.T) {
	assert.Equal(t, MinTopN, ClampTopN(0, 37))
	assert.Equal(t, 12, ClampTopN(12, 37))
	assert.Equal(t, MaxTopN, ClampTopN(100, 37))
	assert.Equal(t, 3, ClampTopN(10, 3))
	assert.Equal(t, 0, ClampTopN(10, 0))
}

func TestRiskLevelText(t *testing.T) {
	assert.Equal(t, []string{"Very Low", "Low", "Medium", "High", "Very High"}, RiskLabels())

	text, err := RiskVeryHigh.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Very High", string(text))

	var level RiskLevel
	require.NoError(t, level.UnmarshalText([]byte("medium")))
	assert.Equal(t, RiskMedium, level)
	assert.Error(t, level.UnmarshalText([]byte("extreme")))
}
