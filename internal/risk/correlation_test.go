package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestCompareWithMarketAbsent(t *testing.T) {
	stock := SeriesFromCloses(testEnd, 100, 101, 103)
	require.Nil(t, CompareWithMarket(PriceSeries{}, stock))
	require.Nil(t, CompareWithMarket(stock, nil))
	// one bar has no returns
	require.Nil(t, CompareWithMarket(stock, SeriesFromCloses(testEnd, 10)))
}

func TestCompareWithMarket(t *testing.T) {
	stock := SeriesFromCloses(testEnd, 100, 101, 103, 102, 105)
	market := SeriesFromCloses(testEnd, 10, 10.2, 10.1, 10.4, 10.5)

	m := CompareWithMarket(stock, market)
	require.NotNil(t, m)
	require.Equal(t, 2, m.Size())
	require.Equal(t, []string{StockReturnsLabel, MarketReturnsLabel}, m.Labels)
	require.InDelta(t, 1.0, m.At(0, 0), 1e-9)
	require.InDelta(t, 1.0, m.At(1, 1), 1e-9)

	want := stat.Correlation(DailyReturns(stock), DailyReturns(market), nil)
	require.InDelta(t, want, m.At(0, 1), 1e-9)
	require.InDelta(t, m.At(0, 1), m.At(1, 0), 1e-12)

	v, ok := m.Get(MarketReturnsLabel, StockReturnsLabel)
	require.True(t, ok)
	require.InDelta(t, want, v, 1e-9)
}

// Series are paired by index, not by date: a shorter benchmark truncates
// the stock returns to its own length.
func TestCompareWithMarketPairsByIndex(t *testing.T) {
	stock := SeriesFromCloses(testEnd, 100, 110, 99, 120, 90)
	market := SeriesFromCloses(testEnd.AddDate(0, 0, -30), 50, 51, 53)

	m := CompareWithMarket(stock, market)
	require.NotNil(t, m)
	// two paired observations always correlate perfectly
	require.InDelta(t, 1.0, math.Abs(m.At(0, 1)), 1e-9)
}

func TestCompareWithMarketSinglePairIsUndefined(t *testing.T) {
	m := CompareWithMarket(SeriesFromCloses(testEnd, 100, 101), SeriesFromCloses(testEnd, 10, 11))
	require.NotNil(t, m)
	require.True(t, math.IsNaN(m.At(0, 1)))
}

func TestPortfolioCorrelation(t *testing.T) {
	m := PortfolioCorrelation(map[string]PriceSeries{
		"MSFT": SeriesFromCloses(testEnd, 300, 303, 306, 300, 310, 312),
		"AAPL": SeriesFromCloses(testEnd, 150, 151, 149, 153, 155),
		"NONE": {},
		"ONE":  SeriesFromCloses(testEnd, 42),
	})
	require.Equal(t, []string{"AAPL", "MSFT"}, m.Labels)
	require.InDelta(t, 1.0, m.At(0, 0), 1e-9)
	require.InDelta(t, 1.0, m.At(1, 1), 1e-9)

	aapl := DailyReturns(SeriesFromCloses(testEnd, 150, 151, 149, 153, 155))
	msft := DailyReturns(SeriesFromCloses(testEnd, 300, 303, 306, 300, 310, 312))[:len(aapl)]
	want := stat.Correlation(aapl, msft, nil)
	got, ok := m.Get("AAPL", "MSFT")
	require.True(t, ok)
	require.InDelta(t, want, got, 1e-9)

	_, ok = m.Get("AAPL", "NONE")
	assert.False(t, ok)
	assert.Len(t, m.Rows(), 2)
}

func TestPortfolioCorrelationDropsNonFiniteRows(t *testing.T) {
	// a zero close produces an infinite return on the following day
	m := PortfolioCorrelation(map[string]PriceSeries{
		"A": SeriesFromCloses(testEnd, 10, 0, 11, 12, 11, 13),
		"B": SeriesFromCloses(testEnd, 20, 21, 22, 21, 23, 22),
	})
	require.Equal(t, 2, m.Size())
	require.InDelta(t, 1.0, m.At(0, 0), 1e-9)
	require.True(t, Available(m.At(0, 1)))

	a := DailyReturns(SeriesFromCloses(testEnd, 10, 0, 11, 12, 11, 13))
	b := DailyReturns(SeriesFromCloses(testEnd, 20, 21, 22, 21, 23, 22))
	require.True(t, math.IsInf(a[1], 1))
	want := stat.Correlation(
		[]float64{a[0], a[2], a[3], a[4]},
		[]float64{b[0], b[2], b[3], b[4]}, nil)
	require.InDelta(t, want, m.At(0, 1), 1e-9)
}

func TestPortfolioCorrelationThreeTickers(t *testing.T) {
	up := SeriesFromCloses(testEnd, 100, 102, 101, 105, 104, 108)
	down := SeriesFromCloses(testEnd, 50, 49, 50.5, 48, 49, 47)
	mixed := SeriesFromCloses(testEnd, 20, 20.5, 20.2, 20.1, 21, 21.4)

	m := PortfolioCorrelation(map[string]PriceSeries{"UP": up, "DOWN": down, "MIX": mixed})
	require.Equal(t, []string{"DOWN", "MIX", "UP"}, m.Labels)

	series := map[string]ReturnSeries{
		"DOWN": DailyReturns(down),
		"MIX":  DailyReturns(mixed),
		"UP":   DailyReturns(up),
	}
	for i, a := range m.Labels {
		require.InDelta(t, 1.0, m.At(i, i), 1e-9, a)
		for j, b := range m.Labels {
			require.InDelta(t, m.At(i, j), m.At(j, i), 1e-12)
			if i != j {
				require.InDelta(t, stat.Correlation(series[a], series[b], nil), m.At(i, j), 1e-9, a+"/"+b)
			}
		}
	}
}

func TestPortfolioCorrelationEmpty(t *testing.T) {
	require.Equal(t, 0, PortfolioCorrelation(nil).Size())
	require.Equal(t, 0, PortfolioCorrelation(map[string]PriceSeries{"X": {}}).Size())
	require.Empty(t, PortfolioCorrelation(nil).Rows())
}
