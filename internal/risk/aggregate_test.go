package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioRiskBot/internal/portfolio"
)

// compounding builds n closes growing by a constant daily return.
func compounding(start, daily float64, n int) PriceSeries {
	closes := make([]float64, n)
	closes[0] = start
	for i := 1; i < n; i++ {
		closes[i] = closes[i-1] * (1 + daily)
	}
	return SeriesFromCloses(testEnd, closes...)
}

func TestPortfolioReturnScenario(t *testing.T) {
	holdings := []portfolio.Holding{
		{Ticker: "AAPL", Shares: 10, PurchasePrice: 150},
		{Ticker: "GOOGL", Shares: 5, PurchasePrice: 2800},
	}
	series := map[string]PriceSeries{
		"AAPL":  compounding(150, 0.001, 253),
		"GOOGL": compounding(2800, 0.0005, 253),
	}

	perf, err := PortfolioReturn(holdings, series)
	require.NoError(t, err)
	require.InDelta(t, 1500.0/15500.0, perf.Weights["AAPL"], 1e-12)
	require.InDelta(t, 14000.0/15500.0, perf.Weights["GOOGL"], 1e-12)
	require.InDelta(t, 0.0968, perf.Weights["AAPL"], 1e-4)
	require.InDelta(t, 0.9032, perf.Weights["GOOGL"], 1e-4)

	want := 1500.0/15500.0*0.001 + 14000.0/15500.0*0.0005
	require.InDelta(t, want, perf.ExpectedReturn, 1e-9)
	require.InDelta(t, 0.000549, perf.ExpectedReturn, 1e-6)

	// population std of the two weighted returns
	a, g := perf.WeightedReturns["AAPL"], perf.WeightedReturns["GOOGL"]
	require.InDelta(t, math.Abs(a-g)/2, perf.Volatility, 1e-12)
	require.InDelta(t, (perf.ExpectedReturn-DefaultRiskFreeRate)/perf.Volatility, perf.SharpeRatio, 1e-9)
}

func TestPortfolioReturnFlatTickerContributesHalf(t *testing.T) {
	holdings := []portfolio.Holding{
		{Ticker: "UP", Shares: 10, PurchasePrice: 100},
		{Ticker: "FLAT", Shares: 20, PurchasePrice: 50},
	}
	series := map[string]PriceSeries{
		"UP":   SeriesFromCloses(testEnd, 100, 102, 104.04),
		"FLAT": SeriesFromCloses(testEnd, 50, 50, 50),
	}
	perf, err := PortfolioReturn(holdings, series)
	require.NoError(t, err)
	require.InDelta(t, 0.5, perf.Weights["UP"], 1e-12)
	require.InDelta(t, Mean(DailyReturns(series["UP"]))/2, perf.ExpectedReturn, 1e-12)
}

func TestPortfolioReturnZeroVolatilityGuard(t *testing.T) {
	holdings := []portfolio.Holding{
		{Ticker: "A", Shares: 1, PurchasePrice: 100},
		{Ticker: "B", Shares: 2, PurchasePrice: 50},
	}
	s := SeriesFromCloses(testEnd, 10, 11, 10.5, 12)
	perf, err := PortfolioReturn(holdings, map[string]PriceSeries{"A": s, "B": s})
	require.NoError(t, err)
	require.Equal(t, 0.0, perf.Volatility)
	require.Equal(t, 0.0, perf.SharpeRatio)
}

func TestPortfolioReturnMissingSeriesIsZeroContribution(t *testing.T) {
	holdings := []portfolio.Holding{
		{Ticker: "A", Shares: 1, PurchasePrice: 100},
		{Ticker: "B", Shares: 1, PurchasePrice: 100},
	}
	perf, err := PortfolioReturn(holdings, map[string]PriceSeries{
		"A": SeriesFromCloses(testEnd, 100, 110),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, perf.WeightedReturns["B"])
	require.InDelta(t, 0.05, perf.ExpectedReturn, 1e-12)
	require.True(t, Available(perf.SharpeRatio))
}

func TestPortfolioReturnSingleHoldingHasZeroSharpe(t *testing.T) {
	perf, err := PortfolioReturn(
		[]portfolio.Holding{{Ticker: "A", Shares: 3, PurchasePrice: 10}},
		map[string]PriceSeries{"A": SeriesFromCloses(testEnd, 10, 11, 12)},
	)
	require.NoError(t, err)
	require.Equal(t, 1.0, perf.Weights["A"])
	require.Equal(t, 0.0, perf.SharpeRatio)
}

func TestPortfolioReturnEmptyPortfolio(t *testing.T) {
	_, err := PortfolioReturn(nil, nil)
	require.True(t, errors.Is(err, ErrZeroPortfolioValue))
}

func TestPortfolioReturnAtUsesGivenRate(t *testing.T) {
	holdings := []portfolio.Holding{
		{Ticker: "A", Shares: 1, PurchasePrice: 100},
		{Ticker: "B", Shares: 1, PurchasePrice: 100},
	}
	series := map[string]PriceSeries{"A": SeriesFromCloses(testEnd, 100, 110)}
	perf, err := PortfolioReturnAt(holdings, series, 0)
	require.NoError(t, err)
	require.InDelta(t, perf.ExpectedReturn/perf.Volatility, perf.SharpeRatio, 1e-12)
}
