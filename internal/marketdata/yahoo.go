package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"portfolioRiskBot/internal/logger"
	"portfolioRiskBot/internal/metrics"
	"portfolioRiskBot/internal/risk"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// Yahoo fetches daily bars from Yahoo Finance with host failover, backoff
// and a spark fallback.
type Yahoo struct {
	cli      *http.Client
	hosts    []string
	backoffs []time.Duration
	log      zerolog.Logger
}

type YahooOption func(*Yahoo)

// WithHosts overrides the base URLs tried in order.
func WithHosts(hosts ...string) YahooOption {
	return func(y *Yahoo) { y.hosts = hosts }
}

func WithHTTPClient(cli *http.Client) YahooOption {
	return func(y *Yahoo) { y.cli = cli }
}

// WithBackoffs sets the pauses between retry rounds.
func WithBackoffs(b ...time.Duration) YahooOption {
	return func(y *Yahoo) { y.backoffs = b }
}

func NewYahoo(opts ...YahooOption) *Yahoo {
	y := &Yahoo{
		cli:      &http.Client{Timeout: 10 * time.Second},
		hosts:    []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"},
		backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
		log:      logger.Component("marketdata"),
	}
	for _, o := range opts {
		o(y)
	}
	return y
}

// History returns daily bars for symbol over window (default 1y).
func (y *Yahoo) History(ctx context.Context, symbol, window string) (series risk.PriceSeries, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFetch("history", start, err) }()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrNoData)
	}
	rng, days, err := ParseWindow(window)
	if err != nil {
		return nil, err
	}

	var yc yahooChartResp
	chartPath := fmt.Sprintf("/v8/finance/chart/%s?range=%s&interval=1d&events=div,splits", url.PathEscape(symbol), rng)
	chartErr := y.getJSON(ctx, symbol, chartPath, &yc)
	if chartErr == nil {
		if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
			return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
		}
		r := yc.Chart.Result[0]
		q := r.Indicators.Quote[0]
		series = filterNonPositive(barsFromColumns(r.Timestamp, q.Open, q.High, q.Low, q.Close))
		y.log.Debug().Str("symbol", symbol).Str("range", rng).Int("bars", len(series)).Msg("chart fetched")
		return trimToDays(series, days), nil
	}
	if errors.Is(chartErr, context.Canceled) || errors.Is(chartErr, context.DeadlineExceeded) {
		return nil, chartErr
	}

	y.log.Warn().Err(chartErr).Str("symbol", symbol).Msg("chart failed, trying spark")
	var sp yahooSparkResp
	sparkPath := fmt.Sprintf("/v7/finance/spark?symbols=%s&range=%s&interval=1d", url.QueryEscape(symbol), rng)
	if err := y.getJSON(ctx, symbol, sparkPath, &sp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, errors.Join(chartErr, err))
	}
	if len(sp.Spark.Result) == 0 || len(sp.Spark.Result[0].Response) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}
	resp := sp.Spark.Result[0].Response[0]
	series = filterNonPositive(barsFromColumns(resp.Timestamp, nil, nil, nil, resp.Close))
	return trimToDays(series, days), nil
}

// Sector returns the sector Yahoo reports for symbol, or UnknownSector when blank.
func (y *Yahoo) Sector(ctx context.Context, symbol string) (sector string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFetch("sector", start, err) }()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var pr yahooProfileResp
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s?modules=assetProfile", url.PathEscape(symbol))
	if err := y.getJSON(ctx, symbol, path, &pr); err != nil {
		return "", err
	}
	if len(pr.QuoteSummary.Result) == 0 {
		return risk.UnknownSector, nil
	}
	s := strings.TrimSpace(pr.QuoteSummary.Result[0].AssetProfile.Sector)
	if s == "" {
		return risk.UnknownSector, nil
	}
	return s, nil
}

// getJSON tries every host per round and sleeps between rounds. Rate limits,
// non-200 statuses and non-JSON bodies move on to the next host.
func (y *Yahoo) getJSON(ctx context.Context, symbol, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt < len(y.backoffs)+1; attempt++ {
		for _, host := range y.hosts {
			err := y.getOnce(ctx, host, symbol, path, out)
			if err == nil {
				return nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		if attempt < len(y.backoffs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(y.backoffs[attempt]):
			}
		}
	}
	return lastErr
}

func (y *Yahoo) getOnce(ctx context.Context, host, symbol, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", symbol))

	resp, err := y.cli.Do(req)
	if err != nil {
		return err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
	}
	return nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
