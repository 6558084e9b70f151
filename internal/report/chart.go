package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"portfolioRiskBot/internal/risk"
)

var ErrNotEnoughData = errors.New("report: not enough data points")

// PriceChart renders the close line of a daily series as PNG.
func PriceChart(ticker string, series risk.PriceSeries) ([]byte, error) {
	if len(series) < 2 {
		return nil, ErrNotEnoughData
	}
	cl := series.Closes()
	x := make([]string, len(series))
	yMin, yMax := cl[0], cl[0]
	for i, b := range series {
		x[i] = b.Date.Format("Jan 02")
		if cl[i] < yMin {
			yMin = cl[i]
		}
		if cl[i] > yMax {
			yMax = cl[i]
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	first := series[0].Date.Format("2006-01-02")
	last := series[len(series)-1].Date.Format("2006-01-02")
	painter, err := charts.LineRender([][]float64{cl},
		charts.TitleTextOptionFunc(strings.ToUpper(ticker)+" • 1D", first+" to "+last),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: 8}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// VaRChart renders per-ticker VaR as a bar chart in percent. Undefined
// values are drawn as zero and flagged in the axis label.
func VaRChart(varByTicker map[string]float64, confidence float64) ([]byte, error) {
	if len(varByTicker) == 0 {
		return nil, ErrNotEnoughData
	}
	tickers := sortedKeys(varByTicker)
	labels := make([]string, len(tickers))
	values := make([]float64, len(tickers))
	for i, t := range tickers {
		v := varByTicker[t]
		labels[i] = t
		if !risk.Available(v) {
			labels[i] = t + " (" + NotAvailable + ")"
			continue
		}
		values[i] = v * 100
	}

	painter, err := charts.BarRender([][]float64{values},
		charts.TitleTextOptionFunc(fmt.Sprintf("Value at Risk (%s)", confidenceLabel(confidence)), "daily loss threshold, %"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(500),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// SectorChart renders the sector allocation as a pie chart.
func SectorChart(alloc risk.SectorAllocation) ([]byte, error) {
	if len(alloc) == 0 {
		return nil, ErrNotEnoughData
	}
	values := make([]float64, len(alloc))
	labels := make([]string, len(alloc))
	for i, s := range alloc {
		values[i] = float64(s.Count)
		labels[i] = fmt.Sprintf("%s (%.1f%%)", s.Sector, s.Share*100)
	}

	painter, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Sector Allocation"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
