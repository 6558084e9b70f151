package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"portfolioRiskBot/internal/config"
	"portfolioRiskBot/internal/logger"
	"portfolioRiskBot/internal/marketdata"
	"portfolioRiskBot/internal/report"
	"portfolioRiskBot/internal/risk"
)

var (
	output     string
	window     string
	riskFree   float64
	confidence float64

	settings config.Analysis

	// newProvider builds the market data source once logging is configured.
	newProvider = func(a config.Analysis) marketdata.Provider {
		return marketdata.NewCache(marketdata.NewYahoo(), a.CacheTTL)
	}

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Portfolio risk analytics from the terminal",
	Long: report.HeaderStyle.Render("analyze - portfolio risk analytics") + `

Fetches daily history from Yahoo Finance and reports returns, volatility,
Sharpe ratio, value at risk and correlations.

Examples:
  analyze ticker AAPL
  analyze portfolio --holding AAPL:10:150 --holding GOOGL:5:2800 --window 6m
  analyze portfolio --holding AAPL:10:150 --output json
  analyze portfolio --holding AAPL:10:150 --output pdf > risk_report.pdf`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table, json, csv, xlsx, pdf (portfolio only, redirect to a file)")
	rootCmd.PersistentFlags().StringVarP(&window, "window", "w", "", "history window, e.g. 3m, 1y (default HISTORY_WINDOW)")
	rootCmd.PersistentFlags().Float64Var(&riskFree, "risk-free", -1, "risk-free rate used by the Sharpe ratio (default RISK_FREE_RATE)")
	rootCmd.PersistentFlags().Float64Var(&confidence, "confidence", -1, "VaR confidence level in (0,1) (default VAR_CONFIDENCE)")

	rootCmd.AddCommand(tickerCmd, portfolioCmd)
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	a, err := config.LoadAnalysis()
	if err != nil {
		return err
	}
	logger.InitTo(cmd.ErrOrStderr(), "analyze", a.LogLevel, a.LogPretty)

	switch output {
	case "table", "json", "csv", "xlsx", "pdf":
	default:
		return fmt.Errorf("unknown output %q (use table, json, csv, xlsx or pdf)", output)
	}
	if cmd.Flags().Changed("risk-free") {
		a.RiskFreeRate = riskFree
	}
	if cmd.Flags().Changed("confidence") {
		if confidence <= 0 || confidence >= 1 {
			return fmt.Errorf("--confidence must be in (0,1), got %v", confidence)
		}
		a.ConfidenceLevel = confidence
	}
	if window != "" {
		a.HistoryWindow = window
	}
	if _, _, err := marketdata.ParseWindow(a.HistoryWindow); err != nil {
		return err
	}
	settings = a
	return nil
}

func options() risk.Options {
	return risk.Options{RiskFreeRate: settings.RiskFreeRate, ConfidenceLevel: settings.ConfidenceLevel}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func warn(w io.Writer, msg string) {
	fmt.Fprintln(w, report.WarningStyle.Render("⚠ ")+msg)
}
