package report

import (
	"github.com/xuri/excelize/v2"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

const (
	PortfolioSheet   = "Portfolio"
	VaRSheet         = "VaR"
	CorrelationSheet = "Correlation"
)

// Workbook exports holdings, per-ticker VaR and the correlation matrix as an
// xlsx file with one sheet each. Undefined values are written as n/a.
func Workbook(holdings []portfolio.Holding, m risk.PortfolioMetrics) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PortfolioSheet); err != nil {
		return nil, err
	}
	for _, name := range []string{VaRSheet, CorrelationSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	rows := [][]any{{"Ticker", "Shares", "Purchase Price", "Cost Basis"}}
	for _, h := range holdings {
		rows = append(rows, []any{h.Ticker, h.Shares, h.PurchasePrice, h.CostBasis().InexactFloat64()})
	}
	rows = append(rows, []any{"Total", nil, nil, portfolio.TotalCost(holdings).InexactFloat64()})
	if err := writeSheet(f, PortfolioSheet, rows, bold); err != nil {
		return nil, err
	}

	rows = [][]any{{"Ticker", "Confidence", "Value at Risk"}}
	for _, t := range sortedKeys(m.VaRByTicker) {
		rows = append(rows, []any{t, m.ConfidenceLevel, cellValue(m.VaRByTicker[t])})
	}
	if err := writeSheet(f, VaRSheet, rows, bold); err != nil {
		return nil, err
	}

	n := m.Correlation.Size()
	header := []any{""}
	for i := 0; i < n; i++ {
		header = append(header, m.Correlation.Labels[i])
	}
	rows = [][]any{header}
	for i := 0; i < n; i++ {
		row := []any{m.Correlation.Labels[i]}
		for j := 0; j < n; j++ {
			row = append(row, cellValue(m.Correlation.At(i, j)))
		}
		rows = append(rows, row)
	}
	if err := writeSheet(f, CorrelationSheet, rows, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetRowStyle(sheet, 1, 1, headerStyle)
}

func cellValue(v float64) any {
	if !risk.Available(v) {
		return NotAvailable
	}
	return v
}
