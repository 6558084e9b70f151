package risk

import (
	"math"
	"time"
)

// Bar is one daily OHLC observation.
type Bar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// PriceSeries is ordered by date ascending. It may be empty.
type PriceSeries []Bar

// ReturnSeries holds fractional day-over-day returns.
type ReturnSeries []float64

// Closes extracts the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// SeriesFromCloses builds a daily series from close prices, dated backwards from end.
func SeriesFromCloses(end time.Time, closes ...float64) PriceSeries {
	out := make(PriceSeries, len(closes))
	start := end.AddDate(0, 0, -(len(closes) - 1))
	for i, c := range closes {
		out[i] = Bar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

// Available reports whether v is a usable number (not NaN or ±Inf).
func Available(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
