package core

import (
	"fmt"
	"strings"
)

// RiskLevel is the ordinal risk bucket of a district's predicted accidents
type RiskLevel int

const (
	RiskUnknown RiskLevel = iota
	RiskVeryLow
	RiskLow
	RiskMedium
	RiskHigh
	RiskVeryHigh
)

var riskLabels = map[RiskLevel]string{
	RiskVeryLow:  "Very Low",
	RiskLow:      "Low",
	RiskMedium:   "Medium",
	RiskHigh:     "High",
	RiskVeryHigh: "Very High",
}

// RiskLevels returns the five levels from lowest to highest
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}
}

// RiskLabels returns the level labels from lowest to highest
func RiskLabels() []string {
	levels := RiskLevels()
	labels := make([]string, len(levels))
	for i, l := range levels {
		labels[i] = l.String()
	}
	return labels
}

func (r RiskLevel) String() string {
	if label, ok := riskLabels[r]; ok {
		return label
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *RiskLevel) UnmarshalText(text []byte) error {
	for level, label := range riskLabels {
		if strings.EqualFold(label, string(text)) {
			*r = level
			return nil
		}
	}
	if string(text) == "Unknown" || len(text) == 0 {
		*r = RiskUnknown
		return nil
	}
	return fmt.Errorf("invalid risk level %q", text)
}
