package report

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Table writes a bordered, left-aligned table to w.
func Table(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("│")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetTablePadding(" ")
	table.AppendBulk(rows)
	table.Render()
}

// Heading writes a styled section title.
func Heading(w io.Writer, title string) {
	_, _ = io.WriteString(w, HeaderStyle.Render(title)+"\n")
}

func RenderHoldings(w io.Writer, holdings []portfolio.Holding) {
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{h.Ticker, trimFloat(h.Shares), trimFloat(h.PurchasePrice), h.CostBasis().StringFixed(2)})
	}
	Heading(w, "Holdings")
	Table(w, []string{"Ticker", "Shares", "Price", "Cost basis"}, rows)
}

// RenderTicker prints the single-ticker metrics as key/value rows.
func RenderTicker(w io.Writer, m risk.RiskMetrics) {
	corr := NotAvailable
	if c, ok := m.MarketCorrelation(); ok {
		corr = FormatCoefficient(c)
	}
	Heading(w, m.Ticker)
	Table(w, []string{"Metric", "Value"}, [][]string{
		{"Observations", strconv.Itoa(m.Observations)},
		{"Mean daily return", FormatPercent(m.MeanReturn)},
		{"Volatility", FormatPercent(m.Volatility)},
		{"Sharpe ratio", FormatRatio(m.SharpeRatio)},
		{"VaR " + confidenceLabel(m.ConfidenceLevel), FormatPercent(m.ValueAtRisk)},
		{"Market correlation", corr},
	})
}

// RenderPerformance prints weights and the weighted-return summary.
func RenderPerformance(w io.Writer, perf risk.PortfolioPerformance) {
	rows := make([][]string, 0, len(perf.Weights)+3)
	for _, t := range sortedKeys(perf.Weights) {
		rows = append(rows, []string{t, FormatPercent(perf.Weights[t]), FormatPercent(perf.WeightedReturns[t])})
	}
	Heading(w, "Portfolio return")
	Table(w, []string{"Ticker", "Weight", "Weighted return"}, rows)
	Table(w, []string{"Expected return", "Volatility", "Sharpe"}, [][]string{{
		FormatPercent(perf.ExpectedReturn), FormatPercent(perf.Volatility), FormatRatio(perf.SharpeRatio),
	}})
}

func RenderVaR(w io.Writer, varByTicker map[string]float64, confidence float64) {
	rows := make([][]string, 0, len(varByTicker))
	for _, t := range sortedKeys(varByTicker) {
		rows = append(rows, []string{t, FormatPercent(varByTicker[t])})
	}
	Heading(w, "Value at Risk "+confidenceLabel(confidence))
	Table(w, []string{"Ticker", "VaR"}, rows)
}

func RenderCorrelation(w io.Writer, m *risk.CorrelationMatrix) {
	Heading(w, "Correlation")
	if m.Size() == 0 {
		_, _ = io.WriteString(w, MutedStyle.Render("no return series")+"\n")
		return
	}
	headers := append([]string{""}, m.Labels...)
	rows := make([][]string, 0, m.Size())
	for i, l := range m.Labels {
		row := []string{l}
		for j := range m.Labels {
			row = append(row, FormatCoefficient(m.At(i, j)))
		}
		rows = append(rows, row)
	}
	Table(w, headers, rows)
}

func RenderSectors(w io.Writer, alloc risk.SectorAllocation) {
	rows := make([][]string, 0, len(alloc))
	for _, s := range alloc {
		rows = append(rows, []string{s.Sector, strconv.Itoa(s.Count), FormatPercent(s.Share)})
	}
	Heading(w, "Sectors")
	Table(w, []string{"Sector", "Holdings", "Share"}, rows)
}
