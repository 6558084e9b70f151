package marketdata

import (
	"math"
	"sort"
	"time"

	"portfolioRiskBot/internal/risk"
)

// barsFromColumns zips Yahoo's columnar arrays into bars, keeping timestamps
// and values aligned. Missing OHLC columns fall back to the close.
func barsFromColumns(ts []int64, open, high, low, cl []float64) risk.PriceSeries {
	n := len(ts)
	if len(cl) < n {
		n = len(cl)
	}
	pick := func(col []float64, i int) float64 {
		if i < len(col) && col[i] > 0 {
			return col[i]
		}
		return cl[i]
	}
	out := make(risk.PriceSeries, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, risk.Bar{
			Date:  time.Unix(ts[i], 0).UTC(),
			Open:  pick(open, i),
			High:  pick(high, i),
			Low:   pick(low, i),
			Close: cl[i],
		})
	}
	return out
}

// filterNonPositive removes bars whose close is missing (decoded as 0),
// negative or not finite, then sorts by date ascending.
func filterNonPositive(series risk.PriceSeries) risk.PriceSeries {
	out := make(risk.PriceSeries, 0, len(series))
	for _, b := range series {
		if b.Close <= 0 || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
