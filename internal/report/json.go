package report

import (
	"strconv"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

// Undefined statistics become null in JSON output.
func optional(v float64) *float64 {
	if !risk.Available(v) {
		return nil
	}
	return &v
}

type TickerView struct {
	Ticker            string   `json:"ticker"`
	Observations      int      `json:"observations"`
	MeanReturn        *float64 `json:"mean_return"`
	Volatility        *float64 `json:"volatility"`
	SharpeRatio       *float64 `json:"sharpe_ratio"`
	ValueAtRisk       *float64 `json:"value_at_risk"`
	ConfidenceLevel   float64  `json:"confidence_level"`
	MarketCorrelation *float64 `json:"market_correlation"`
}

func NewTickerView(m risk.RiskMetrics) TickerView {
	v := TickerView{
		Ticker:          m.Ticker,
		Observations:    m.Observations,
		MeanReturn:      optional(m.MeanReturn),
		Volatility:      optional(m.Volatility),
		SharpeRatio:     optional(m.SharpeRatio),
		ValueAtRisk:     optional(m.ValueAtRisk),
		ConfidenceLevel: m.ConfidenceLevel,
	}
	if c, ok := m.MarketCorrelation(); ok {
		v.MarketCorrelation = &c
	}
	return v
}

type HoldingView struct {
	Ticker         string   `json:"ticker"`
	Shares         float64  `json:"shares"`
	PurchasePrice  float64  `json:"purchase_price"`
	CostBasis      string   `json:"cost_basis"`
	Weight         *float64 `json:"weight"`
	WeightedReturn *float64 `json:"weighted_return"`
	ValueAtRisk    *float64 `json:"value_at_risk"`
}

type MatrixView struct {
	Labels []string     `json:"labels"`
	Rows   [][]*float64 `json:"rows"`
}

type PortfolioView struct {
	TotalCost       string                `json:"total_cost"`
	ExpectedReturn  *float64              `json:"expected_return"`
	Volatility      *float64              `json:"volatility"`
	SharpeRatio     *float64              `json:"sharpe_ratio"`
	ConfidenceLevel float64               `json:"confidence_level"`
	Holdings        []HoldingView         `json:"holdings"`
	Correlation     MatrixView            `json:"correlation"`
	Sectors         risk.SectorAllocation `json:"sectors,omitempty"`
}

func NewPortfolioView(holdings []portfolio.Holding, m risk.PortfolioMetrics) PortfolioView {
	v := PortfolioView{
		TotalCost:       portfolio.TotalCost(holdings).StringFixed(2),
		ExpectedReturn:  optional(m.ExpectedReturn),
		Volatility:      optional(m.Performance.Volatility),
		SharpeRatio:     optional(m.SharpeRatio),
		ConfidenceLevel: m.ConfidenceLevel,
		Holdings:        make([]HoldingView, 0, len(holdings)),
		Correlation:     NewMatrixView(m.Correlation),
		Sectors:         m.Sectors,
	}
	for _, h := range holdings {
		hv := HoldingView{
			Ticker:        h.Ticker,
			Shares:        h.Shares,
			PurchasePrice: h.PurchasePrice,
			CostBasis:     h.CostBasis().StringFixed(2),
		}
		if w, ok := m.Performance.Weights[h.Ticker]; ok {
			hv.Weight = optional(w)
		}
		if wr, ok := m.Performance.WeightedReturns[h.Ticker]; ok {
			hv.WeightedReturn = optional(wr)
		}
		if vr, ok := m.VaRByTicker[h.Ticker]; ok {
			hv.ValueAtRisk = optional(vr)
		}
		v.Holdings = append(v.Holdings, hv)
	}
	return v
}

func NewMatrixView(m *risk.CorrelationMatrix) MatrixView {
	n := m.Size()
	v := MatrixView{Labels: []string{}, Rows: make([][]*float64, 0, n)}
	if n == 0 {
		return v
	}
	v.Labels = append(v.Labels, m.Labels...)
	for i := 0; i < n; i++ {
		row := make([]*float64, n)
		for j := 0; j < n; j++ {
			row[j] = optional(m.At(i, j))
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// TickerCSV exports one ticker's metrics as metric,value rows.
func TickerCSV(m risk.RiskMetrics) ([]byte, error) {
	corr := NotAvailable
	if c, ok := m.MarketCorrelation(); ok {
		corr = FormatCoefficient(c)
	}
	return writeCSV([][]string{
		{"metric", "value"},
		{"ticker", m.Ticker},
		{"observations", strconv.Itoa(m.Observations)},
		{"mean_return", formatNumber(m.MeanReturn)},
		{"volatility", formatNumber(m.Volatility)},
		{"sharpe_ratio", FormatRatio(m.SharpeRatio)},
		{"value_at_risk", formatNumber(m.ValueAtRisk)},
		{"confidence", FormatRatio(m.ConfidenceLevel)},
		{"market_correlation", corr},
	})
}
