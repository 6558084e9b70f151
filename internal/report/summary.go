package report

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

// TickerSummary renders one ticker's metrics as Telegram Markdown.
func TickerSummary(m risk.RiskMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s risk report*\n", EscapeMarkdown(m.Ticker))
	fmt.Fprintf(&b, "Observations: %d daily returns\n", m.Observations)
	fmt.Fprintf(&b, "Mean daily return: %s\n", FormatPercent(m.MeanReturn))
	fmt.Fprintf(&b, "Volatility: %s\n", FormatPercent(m.Volatility))
	fmt.Fprintf(&b, "Sharpe ratio: %s\n", FormatRatio(m.SharpeRatio))
	fmt.Fprintf(&b, "VaR (%s): %s\n", confidenceLabel(m.ConfidenceLevel), FormatPercent(m.ValueAtRisk))
	if c, ok := m.MarketCorrelation(); ok {
		fmt.Fprintf(&b, "Correlation with market: %s\n", FormatCoefficient(c))
	} else {
		fmt.Fprintf(&b, "Correlation with market: %s\n", NotAvailable)
	}
	return b.String()
}

// HoldingsSummary lists the stored holdings with their cost basis.
func HoldingsSummary(holdings []portfolio.Holding) string {
	if len(holdings) == 0 {
		return "Portfolio is empty. Add holdings with /add TICKER SHARES PRICE"
	}
	var b strings.Builder
	b.WriteString("*Portfolio*\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "`%-6s` %s @ %s = %s\n",
			h.Ticker, trimFloat(h.Shares), trimFloat(h.PurchasePrice), h.CostBasis().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total cost: %s", portfolio.TotalCost(holdings).StringFixed(2))
	return b.String()
}

// ReturnSummary renders the weighted-return view with per-ticker weights.
func ReturnSummary(perf risk.PortfolioPerformance) string {
	var b strings.Builder
	b.WriteString("*Portfolio return*\n")
	fmt.Fprintf(&b, "Expected daily return: %s\n", FormatPercent(perf.ExpectedReturn))
	fmt.Fprintf(&b, "Volatility: %s\n", FormatPercent(perf.Volatility))
	fmt.Fprintf(&b, "Sharpe ratio: %s\n", FormatRatio(perf.SharpeRatio))
	for _, t := range sortedKeys(perf.Weights) {
		fmt.Fprintf(&b, "`%-6s` weight %s, weighted return %s\n",
			t, FormatPercent(perf.Weights[t]), FormatPercent(perf.WeightedReturns[t]))
	}
	return b.String()
}

// PortfolioSummary renders the full portfolio risk report.
func PortfolioSummary(m risk.PortfolioMetrics) string {
	var b strings.Builder
	b.WriteString("*Portfolio risk report*\n")
	fmt.Fprintf(&b, "Expected daily return: %s\n", FormatPercent(m.ExpectedReturn))
	fmt.Fprintf(&b, "Volatility: %s\n", FormatPercent(m.Performance.Volatility))
	fmt.Fprintf(&b, "Sharpe ratio: %s\n", FormatRatio(m.SharpeRatio))

	fmt.Fprintf(&b, "\n*VaR (%s)*\n", confidenceLabel(m.ConfidenceLevel))
	for _, t := range sortedKeys(m.VaRByTicker) {
		fmt.Fprintf(&b, "`%-6s` %s\n", t, FormatPercent(m.VaRByTicker[t]))
	}

	if m.Correlation.Size() > 1 {
		b.WriteString("\n*Correlation*\n")
		for i, a := range m.Correlation.Labels {
			for j := i + 1; j < len(m.Correlation.Labels); j++ {
				fmt.Fprintf(&b, "%s / %s: %s\n", EscapeMarkdown(a), EscapeMarkdown(m.Correlation.Labels[j]), FormatCoefficient(m.Correlation.At(i, j)))
			}
		}
	}

	if len(m.Sectors) > 0 {
		b.WriteString("\n")
		b.WriteString(SectorSummary(m.Sectors))
	}
	return b.String()
}

// SectorSummary lists sector counts and shares.
func SectorSummary(alloc risk.SectorAllocation) string {
	if len(alloc) == 0 {
		return "No sector data."
	}
	var b strings.Builder
	b.WriteString("*Sectors*\n")
	for _, s := range alloc {
		fmt.Fprintf(&b, "%s: %d (%s)\n", EscapeMarkdown(s.Sector), s.Count, FormatPercent(s.Share))
	}
	return b.String()
}

// EscapeMarkdown escapes text placed outside code spans in legacy Telegram Markdown.
func EscapeMarkdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func confidenceLabel(c float64) string {
	if !risk.Available(c) || c <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%g%%", c*100)
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
