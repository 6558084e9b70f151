package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioRiskBot/internal/portfolio"
)

func TestAnalyzeTicker(t *testing.T) {
	stock := SeriesFromCloses(testEnd, 100, 102, 98, 105, 107)
	market := SeriesFromCloses(testEnd, 4000, 4020, 3990, 4050, 4070)

	m := AnalyzeTicker("AAPL", stock, market, DefaultOptions())
	r := DailyReturns(stock)
	assert.Equal(t, "AAPL", m.Ticker)
	assert.Equal(t, 4, m.Observations)
	require.InDelta(t, Mean(r), m.MeanReturn, 1e-15)
	require.InDelta(t, Volatility(r), m.Volatility, 1e-15)
	require.InDelta(t, SharpeRatio(r, 0.02), m.SharpeRatio, 1e-12)
	require.InDelta(t, ValueAtRisk(r, 0.95), m.ValueAtRisk, 1e-15)
	assert.Equal(t, 0.95, m.ConfidenceLevel)

	c, ok := m.MarketCorrelation()
	require.True(t, ok)
	require.InDelta(t, m.CorrelationWithMarket.At(1, 0), c, 1e-12)
}

func TestAnalyzeTickerWithoutData(t *testing.T) {
	m := AnalyzeTicker("NODATA", nil, SeriesFromCloses(testEnd, 1, 2, 3), DefaultOptions())
	assert.Equal(t, 0, m.Observations)
	assert.True(t, math.IsNaN(m.MeanReturn))
	assert.True(t, math.IsNaN(m.Volatility))
	assert.True(t, math.IsNaN(m.SharpeRatio))
	assert.True(t, math.IsNaN(m.ValueAtRisk))
	assert.Nil(t, m.CorrelationWithMarket)
	_, ok := m.MarketCorrelation()
	assert.False(t, ok)
}

func TestAnalyzePortfolio(t *testing.T) {
	holdings := []portfolio.Holding{
		{Ticker: "AAPL", Shares: 10, PurchasePrice: 150},
		{Ticker: "GOOGL", Shares: 5, PurchasePrice: 2800},
		{Ticker: "XYZ", Shares: 1, PurchasePrice: 10},
	}
	series := map[string]PriceSeries{
		"AAPL":  SeriesFromCloses(testEnd, 150, 152, 149, 155, 158, 157),
		"GOOGL": SeriesFromCloses(testEnd, 2800, 2790, 2830, 2850, 2840, 2870),
		"SPY":   SeriesFromCloses(testEnd, 500, 501, 502, 503, 504, 505),
	}
	sectors := map[string]string{"AAPL": "Technology", "GOOGL": "Communication Services", "XYZ": ""}

	m, err := AnalyzePortfolio(holdings, series, sectors, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, m.Performance.ExpectedReturn, m.ExpectedReturn)
	assert.Equal(t, m.Performance.SharpeRatio, m.SharpeRatio)

	// only held tickers with data are correlated
	assert.Equal(t, []string{"AAPL", "GOOGL"}, m.Correlation.Labels)

	require.Len(t, m.VaRByTicker, 3)
	require.InDelta(t, ValueAtRisk(DailyReturns(series["AAPL"]), 0.95), m.VaRByTicker["AAPL"], 1e-15)
	assert.True(t, math.IsNaN(m.VaRByTicker["XYZ"]))

	require.Len(t, m.Sectors, 3)
	assert.Equal(t, 0.95, m.ConfidenceLevel)
}

func TestAnalyzePortfolioEmpty(t *testing.T) {
	_, err := AnalyzePortfolio(nil, nil, nil, DefaultOptions())
	require.ErrorIs(t, err, ErrZeroPortfolioValue)
}

func TestSectors(t *testing.T) {
	got := Sectors(map[string]string{
		"AAPL":  "Technology",
		"MSFT":  "Technology",
		"JPM":   "Financial Services",
		"WEIRD": " ",
	})
	require.Len(t, got, 3)
	assert.Equal(t, SectorShare{Sector: "Technology", Count: 2, Share: 0.5}, got[0])
	assert.Equal(t, "Financial Services", got[1].Sector)
	assert.Equal(t, UnknownSector, got[2].Sector)
	assert.InDelta(t, 0.25, got[2].Share, 1e-12)

	assert.Empty(t, Sectors(nil))
}
