package report

import (
	"fmt"

	"portfolioRiskBot/internal/risk"
)

// NotAvailable is printed wherever a statistic is undefined.
const NotAvailable = "n/a"

// FormatPercent renders a fraction as a percentage with two decimals.
func FormatPercent(v float64) string {
	if !risk.Available(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func FormatRatio(v float64) string {
	if !risk.Available(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatCoefficient renders a correlation coefficient with three decimals.
func FormatCoefficient(v float64) string {
	if !risk.Available(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.3f", v)
}
