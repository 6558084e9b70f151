package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolioRiskBot/internal/marketdata"
	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/report"
	"portfolioRiskBot/internal/risk"
)

var benchmark string

var tickerCmd = &cobra.Command{
	Use:   "ticker SYMBOL",
	Short: "Risk metrics for one ticker against the benchmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runTicker,
}

func init() {
	tickerCmd.Flags().StringVar(&benchmark, "benchmark", "", "benchmark symbol (default BENCHMARK_SYMBOL)")
}

func runTicker(cmd *cobra.Command, args []string) error {
	symbol := portfolio.NormalizeTicker(args[0])
	bench := settings.BenchmarkSymbol
	if benchmark != "" {
		bench = benchmark
	}
	bench = portfolio.NormalizeTicker(bench)

	res, err := marketdata.FetchAll(cmd.Context(), newProvider(settings), []string{symbol, bench}, settings.HistoryWindow)
	if err != nil {
		return err
	}
	for _, s := range res.Failed() {
		warn(cmd.ErrOrStderr(), fmt.Sprintf("no data for %s: %v", s, res.Errors[s]))
	}

	if output == "xlsx" || output == "pdf" {
		return fmt.Errorf("--output %s is only available for portfolio reports", output)
	}

	m := risk.AnalyzeTicker(symbol, res.Series[symbol], res.Series[bench], options())
	out := cmd.OutOrStdout()
	switch output {
	case "json":
		return writeJSON(out, report.NewTickerView(m))
	case "csv":
		data, err := report.TickerCSV(m)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		report.RenderTicker(out, m)
		return nil
	}
}
