package report

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

// HoldingsCSV exports ticker, shares, purchase price and cost basis.
func HoldingsCSV(holdings []portfolio.Holding) ([]byte, error) {
	rows := [][]string{{"ticker", "shares", "purchase_price", "cost_basis"}}
	for _, h := range holdings {
		rows = append(rows, []string{h.Ticker, trimFloat(h.Shares), trimFloat(h.PurchasePrice), h.CostBasis().StringFixed(2)})
	}
	return writeCSV(rows)
}

// VaRCSV exports the per-ticker value at risk. Undefined values are n/a.
func VaRCSV(varByTicker map[string]float64, confidence float64) ([]byte, error) {
	rows := [][]string{{"ticker", "confidence", "value_at_risk"}}
	for _, t := range sortedKeys(varByTicker) {
		rows = append(rows, []string{t, FormatRatio(confidence), formatNumber(varByTicker[t])})
	}
	return writeCSV(rows)
}

// CorrelationCSV exports the matrix with labels on the first row and column.
func CorrelationCSV(m *risk.CorrelationMatrix) ([]byte, error) {
	n := m.Size()
	header := []string{""}
	if n > 0 {
		header = append(header, m.Labels...)
	}
	rows := [][]string{header}
	for i := 0; i < n; i++ {
		row := []string{m.Labels[i]}
		for j := 0; j < n; j++ {
			row = append(row, FormatCoefficient(m.At(i, j)))
		}
		rows = append(rows, row)
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// formatNumber keeps full precision for machine-readable exports.
func formatNumber(v float64) string {
	if !risk.Available(v) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
