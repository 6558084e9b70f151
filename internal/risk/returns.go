package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultRiskFreeRate    = 0.02
	DefaultConfidenceLevel = 0.95
)

// DailyReturns computes the percentage change between consecutive closes.
// The leading undefined value is dropped, so N bars yield N-1 returns.
func DailyReturns(series PriceSeries) ReturnSeries {
	if len(series) < 2 {
		return ReturnSeries{}
	}
	out := make(ReturnSeries, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		out[i-1] = (series[i].Close - prev) / prev
	}
	return out
}

// Mean is the arithmetic mean of returns, NaN when empty.
func Mean(returns ReturnSeries) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	return stat.Mean(returns, nil)
}

// Volatility is the sample standard deviation (N-1) of returns, NaN when empty.
// A single observation also yields NaN.
func Volatility(returns ReturnSeries) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	return stat.StdDev(returns, nil)
}

// SharpeRatio is (mean - riskFreeRate) / sample std. Zero volatility is not
// special-cased and yields ±Inf or NaN.
func SharpeRatio(returns ReturnSeries, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	mean, std := stat.MeanStdDev(returns, nil)
	return (mean - riskFreeRate) / std
}

// ValueAtRisk returns the loss magnitude at the given confidence level: the
// negated (1-confidence)*100 percentile of the return distribution.
func ValueAtRisk(returns ReturnSeries, confidence float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	return -Percentile(returns, (1-confidence)*100)
}

// Percentile interpolates linearly between order statistics at position
// p/100*(n-1). p is clamped to [0, 100].
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	sort.Float64s(vals)
	if p <= 0 {
		return vals[0]
	}
	if p >= 100 {
		return vals[len(vals)-1]
	}
	pos := p / 100 * float64(len(vals)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(vals) {
		return vals[lo]
	}
	frac := pos - float64(lo)
	return vals[lo]*(1-frac) + vals[hi]*frac
}
