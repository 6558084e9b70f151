package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	StockReturnsLabel  = "Stock Returns"
	MarketReturnsLabel = "Market Returns"
)

// CorrelationMatrix is a labelled symmetric Pearson correlation matrix.
// An empty matrix has no labels.
type CorrelationMatrix struct {
	Labels []string
	values *mat.SymDense
}

func (m *CorrelationMatrix) Size() int {
	if m == nil {
		return 0
	}
	return len(m.Labels)
}

func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.values.At(i, j)
}

// Get looks up the coefficient between two labels.
func (m *CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.At(i, j), true
}

// Rows copies the matrix into row-major slices.
func (m *CorrelationMatrix) Rows() [][]float64 {
	n := m.Size()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func (m *CorrelationMatrix) index(label string) int {
	if m == nil {
		return -1
	}
	for i, l := range m.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// CompareWithMarket correlates a ticker's daily returns with the benchmark's.
// It returns nil when either side has no returns. Returns are paired by
// position, not by calendar date; series with different trading calendars
// are truncated to the shorter one and may be misaligned.
func CompareWithMarket(stock, market PriceSeries) *CorrelationMatrix {
	if len(stock) == 0 || len(market) == 0 {
		return nil
	}
	sr := DailyReturns(stock)
	mr := DailyReturns(market)
	if len(sr) == 0 || len(mr) == 0 {
		return nil
	}
	return correlate([]string{StockReturnsLabel, MarketReturnsLabel}, []ReturnSeries{sr, mr})
}

// PortfolioCorrelation builds the correlation matrix across tickers. Return
// series are aligned by index. Tickers without any returns are left out and
// rows with a missing or non-finite value are dropped.
func PortfolioCorrelation(seriesByTicker map[string]PriceSeries) *CorrelationMatrix {
	tickers := make([]string, 0, len(seriesByTicker))
	for t := range seriesByTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var labels []string
	var columns []ReturnSeries
	for _, t := range tickers {
		r := DailyReturns(seriesByTicker[t])
		if len(r) == 0 {
			continue
		}
		labels = append(labels, t)
		columns = append(columns, r)
	}
	if len(labels) == 0 {
		return &CorrelationMatrix{}
	}
	return correlate(labels, columns)
}

// correlate lays columns out as an observation table, drops incomplete rows
// and computes the Pearson matrix. Fewer than two complete rows give NaN everywhere.
func correlate(labels []string, columns []ReturnSeries) *CorrelationMatrix {
	n := len(columns)
	maxLen := 0
	for _, c := range columns {
		if len(c) > maxLen {
			maxLen = len(c)
		}
	}

	data := make([]float64, 0, maxLen*n)
	rows := 0
	for i := 0; i < maxLen; i++ {
		complete := true
		for _, c := range columns {
			if i >= len(c) || !Available(c[i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for _, c := range columns {
			data = append(data, c[i])
		}
		rows++
	}

	if rows < 2 {
		nan := make([]float64, n*n)
		for i := range nan {
			nan[i] = math.NaN()
		}
		return &CorrelationMatrix{Labels: labels, values: mat.NewSymDense(n, nan)}
	}
	table := mat.NewDense(rows, n, data)
	var sym mat.SymDense
	stat.CorrelationMatrix(&sym, table, nil)
	return &CorrelationMatrix{Labels: labels, values: &sym}
}
