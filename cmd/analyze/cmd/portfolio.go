package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"portfolioRiskBot/internal/marketdata"
	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/report"
	"portfolioRiskBot/internal/risk"
)

var (
	holdingFlags []string
	withSectors  bool
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Aggregate return, VaR and correlation for a set of holdings",
	Example: `  analyze portfolio --holding AAPL:10:150 --holding GOOGL:5:2800
  analyze portfolio -H MSFT:3:410 -H NVDA:4:120 --sectors --output json
  analyze portfolio -H MSFT:3:410 -H NVDA:4:120 --sectors --output xlsx > portfolio.xlsx`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

func init() {
	portfolioCmd.Flags().StringArrayVarP(&holdingFlags, "holding", "H", nil, "holding as TICKER:SHARES:PRICE (repeatable)")
	portfolioCmd.Flags().BoolVar(&withSectors, "sectors", false, "look up sectors and include the allocation")
}

// parseHolding reads TICKER:SHARES:PRICE.
func parseHolding(s string) (string, float64, float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("holding %q: want TICKER:SHARES:PRICE", s)
	}
	shares, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("holding %q: invalid shares", s)
	}
	price, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("holding %q: invalid price", s)
	}
	return parts[0], shares, price, nil
}

func runPortfolio(cmd *cobra.Command, _ []string) error {
	store := portfolio.NewStore()
	for _, hf := range holdingFlags {
		t, shares, price, err := parseHolding(hf)
		if err != nil {
			return err
		}
		if store.Has(t) {
			warn(cmd.ErrOrStderr(), fmt.Sprintf("%s listed more than once, keeping the first entry", portfolio.NormalizeTicker(t)))
			continue
		}
		if _, err := store.Add(t, shares, price); err != nil {
			return err
		}
	}
	if store.Len() == 0 {
		return errors.New("no holdings given, use --holding TICKER:SHARES:PRICE")
	}

	provider := newProvider(settings)
	tickers := store.Tickers()
	res, err := marketdata.FetchAll(cmd.Context(), provider, tickers, settings.HistoryWindow)
	if err != nil {
		return err
	}
	for _, s := range res.Failed() {
		warn(cmd.ErrOrStderr(), fmt.Sprintf("no data for %s: %v", s, res.Errors[s]))
	}

	var sectors map[string]string
	if withSectors {
		sectors = marketdata.FetchSectors(cmd.Context(), provider, tickers)
	}

	holdings := store.Holdings()
	m, err := risk.AnalyzePortfolio(holdings, res.Series, sectors, options())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch output {
	case "json":
		return writeJSON(out, report.NewPortfolioView(holdings, m))
	case "csv":
		varCSV, err := report.VaRCSV(m.VaRByTicker, m.ConfidenceLevel)
		if err != nil {
			return err
		}
		corrCSV, err := report.CorrelationCSV(m.Correlation)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s\n%s", varCSV, corrCSV)
		return err
	case "xlsx", "pdf":
		var data []byte
		if output == "xlsx" {
			data, err = report.Workbook(holdings, m)
		} else {
			data, err = report.RiskReportPDF(holdings, m, time.Now())
		}
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		report.RenderHoldings(out, holdings)
		report.RenderPerformance(out, m.Performance)
		report.RenderVaR(out, m.VaRByTicker, m.ConfidenceLevel)
		report.RenderCorrelation(out, m.Correlation)
		if len(m.Sectors) > 0 {
			report.RenderSectors(out, m.Sectors)
		}
		return nil
	}
}
