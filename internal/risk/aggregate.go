package risk

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"portfolioRiskBot/internal/portfolio"
)

var ErrZeroPortfolioValue = errors.New("risk: portfolio has zero total value")

// PortfolioPerformance is the weighted-return view of a portfolio.
type PortfolioPerformance struct {
	ExpectedReturn  float64            `json:"expected_return"`
	Volatility      float64            `json:"volatility"`
	SharpeRatio     float64            `json:"sharpe_ratio"`
	Weights         map[string]float64 `json:"weights"`
	WeightedReturns map[string]float64 `json:"weighted_returns"`
}

// PortfolioReturn combines per-ticker mean daily returns under cost-basis
// weights (shares × purchase price), not current market value.
//
// Volatility is the population std-dev of the per-ticker weighted returns,
// not the variance of the combined daily return path. The Sharpe ratio is
// forced to 0 when that volatility is exactly zero. Callers must not pass an
// empty portfolio; a zero total value returns ErrZeroPortfolioValue.
func PortfolioReturn(holdings []portfolio.Holding, seriesByTicker map[string]PriceSeries) (PortfolioPerformance, error) {
	return portfolioReturn(holdings, seriesByTicker, DefaultRiskFreeRate)
}

// PortfolioReturnAt is PortfolioReturn with an explicit risk-free rate.
func PortfolioReturnAt(holdings []portfolio.Holding, seriesByTicker map[string]PriceSeries, riskFreeRate float64) (PortfolioPerformance, error) {
	return portfolioReturn(holdings, seriesByTicker, riskFreeRate)
}

func portfolioReturn(holdings []portfolio.Holding, seriesByTicker map[string]PriceSeries, riskFreeRate float64) (PortfolioPerformance, error) {
	total := portfolio.TotalCost(holdings)
	if total.IsZero() {
		return PortfolioPerformance{}, ErrZeroPortfolioValue
	}

	perf := PortfolioPerformance{
		Weights:         make(map[string]float64, len(holdings)),
		WeightedReturns: make(map[string]float64, len(holdings)),
	}
	weighted := make([]float64, 0, len(holdings))
	for _, h := range holdings {
		weight := h.CostBasis().Div(total).InexactFloat64()

		// no data counts as a zero contribution so the sum stays defined
		mean := 0.0
		if r := DailyReturns(seriesByTicker[h.Ticker]); len(r) > 0 {
			mean = stat.Mean(r, nil)
		}

		wr := mean * weight
		perf.Weights[h.Ticker] = weight
		perf.WeightedReturns[h.Ticker] = wr
		perf.ExpectedReturn += wr
		weighted = append(weighted, wr)
	}

	perf.Volatility = stat.PopStdDev(weighted, nil)
	if perf.Volatility != 0 {
		perf.SharpeRatio = (perf.ExpectedReturn - riskFreeRate) / perf.Volatility
	}
	return perf, nil
}
