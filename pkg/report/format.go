package report

import (
	"fmt"
	"math"

	"github.com/gocrane/insight-report/pkg/analysis"
)

const notAvailable = "N/A"

// FormatValue prints v with two decimals, or N/A when v is not a real number.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatValueUnit is FormatValue followed by the unit.
func FormatValueUnit(v float64, unit string) string {
	s := FormatValue(v)
	if s == notAvailable || unit == "" {
		return s
	}
	if unit == "%" {
		return s + unit
	}
	return s + " " + unit
}

// FormatChange prints a signed percent change. Changes against a zero previous value are N/A.
func FormatChange(c analysis.Change) string {
	if c.Undefined || math.IsNaN(c.Percent) || math.IsInf(c.Percent, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%+.2f%%", c.Percent)
}
