package marketdata

import (
	"context"
	"errors"

	"portfolioRiskBot/internal/risk"
)

var ErrNoData = errors.New("marketdata: no data")

// Provider supplies daily price history and sector metadata per ticker.
type Provider interface {
	History(ctx context.Context, symbol, window string) (risk.PriceSeries, error)
	Sector(ctx context.Context, symbol string) (string, error)
}

// yahooChartResp mirrors the Yahoo v8 chart response (trimmed to needed fields).
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Timezone string `json:"timezone"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []float64 `json:"open"`
					High  []float64 `json:"high"`
					Low   []float64 `json:"low"`
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// yahooSparkResp mirrors the Yahoo v7 spark fallback (close only).
type yahooSparkResp struct {
	Spark struct {
		Result []struct {
			Symbol   string `json:"symbol"`
			Response []struct {
				Timestamp []int64   `json:"timestamp"`
				Close     []float64 `json:"close"`
			} `json:"response"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"spark"`
}

// yahooProfileResp mirrors the v10 quoteSummary assetProfile module.
type yahooProfileResp struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}
