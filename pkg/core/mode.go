package core

import (
	"fmt"
	"strings"
)

// Mode selects which analysis the dashboard renders
type Mode string

const (
	ModeOverview   Mode = "overview"
	ModePrediction Mode = "prediction"
	ModeGeospatial Mode = "geospatial"
)

var modeLabels = map[Mode]string{
	ModeOverview:   "District Overview",
	ModePrediction: "Accident Prediction Model",
	ModeGeospatial: "Geospatial Analysis",
}

// Modes returns the selectable modes in menu order
func Modes() []Mode {
	return []Mode{ModeOverview, ModePrediction, ModeGeospatial}
}

// Label returns the human readable name shown in the mode selector
func (m Mode) Label() string {
	return modeLabels[m]
}

// ParseMode accepts a mode slug or its label, case-insensitively.
// An empty string selects the overview.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeOverview, nil
	}

	for mode, label := range modeLabels {
		if strings.EqualFold(s, string(mode)) || strings.EqualFold(s, label) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Slider bounds for the number of districts shown in the ranking charts
const (
	MinTopN     = 5
	MaxTopN     = 15
	DefaultTopN = 10
)

// ClampTopN bounds n to the slider range and then to the number of rows
func ClampTopN(n, rows int) int {
	n = max(MinTopN, min(n, MaxTopN))
	return max(0, min(n, rows))
}
