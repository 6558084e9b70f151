package risk

import (
	"portfolioRiskBot/internal/portfolio"
)

// Options tune the statistics that take parameters.
type Options struct {
	RiskFreeRate    float64
	ConfidenceLevel float64
}

func DefaultOptions() Options {
	return Options{RiskFreeRate: DefaultRiskFreeRate, ConfidenceLevel: DefaultConfidenceLevel}
}

// RiskMetrics is the per-ticker bundle. Every scalar may be NaN and
// CorrelationWithMarket may be nil; consumers render those as not available.
type RiskMetrics struct {
	Ticker                string             `json:"ticker"`
	Observations          int                `json:"observations"`
	MeanReturn            float64            `json:"mean_return"`
	Volatility            float64            `json:"volatility"`
	SharpeRatio           float64            `json:"sharpe_ratio"`
	ValueAtRisk           float64            `json:"value_at_risk"`
	ConfidenceLevel       float64            `json:"confidence_level"`
	CorrelationWithMarket *CorrelationMatrix `json:"-"`
}

// MarketCorrelation is the off-diagonal stock/market coefficient.
func (m RiskMetrics) MarketCorrelation() (float64, bool) {
	if m.CorrelationWithMarket.Size() != 2 {
		return 0, false
	}
	v := m.CorrelationWithMarket.At(0, 1)
	return v, Available(v)
}

// AnalyzeTicker computes every per-ticker statistic. market may be empty.
func AnalyzeTicker(ticker string, series, market PriceSeries, opts Options) RiskMetrics {
	r := DailyReturns(series)
	return RiskMetrics{
		Ticker:                ticker,
		Observations:          len(r),
		MeanReturn:            Mean(r),
		Volatility:            Volatility(r),
		SharpeRatio:           SharpeRatio(r, opts.RiskFreeRate),
		ValueAtRisk:           ValueAtRisk(r, opts.ConfidenceLevel),
		ConfidenceLevel:       opts.ConfidenceLevel,
		CorrelationWithMarket: CompareWithMarket(series, market),
	}
}

// PortfolioMetrics is the aggregate bundle for a whole portfolio.
type PortfolioMetrics struct {
	Performance     PortfolioPerformance `json:"performance"`
	ExpectedReturn  float64              `json:"expected_return"`
	SharpeRatio     float64              `json:"sharpe_ratio"`
	Correlation     *CorrelationMatrix   `json:"-"`
	VaRByTicker     map[string]float64   `json:"var_by_ticker"`
	ConfidenceLevel float64              `json:"confidence_level"`
	Sectors         SectorAllocation     `json:"sectors,omitempty"`
}

// AnalyzePortfolio aggregates holdings with their fetched series. sectors may be nil.
func AnalyzePortfolio(holdings []portfolio.Holding, seriesByTicker map[string]PriceSeries, sectors map[string]string, opts Options) (PortfolioMetrics, error) {
	perf, err := portfolioReturn(holdings, seriesByTicker, opts.RiskFreeRate)
	if err != nil {
		return PortfolioMetrics{}, err
	}

	held := make(map[string]PriceSeries, len(holdings))
	vars := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		s := seriesByTicker[h.Ticker]
		held[h.Ticker] = s
		vars[h.Ticker] = ValueAtRisk(DailyReturns(s), opts.ConfidenceLevel)
	}

	m := PortfolioMetrics{
		Performance:     perf,
		ExpectedReturn:  perf.ExpectedReturn,
		SharpeRatio:     perf.SharpeRatio,
		Correlation:     PortfolioCorrelation(held),
		VaRByTicker:     vars,
		ConfidenceLevel: opts.ConfidenceLevel,
	}
	if sectors != nil {
		m.Sectors = Sectors(sectors)
	}
	return m, nil
}
