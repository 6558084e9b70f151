package marketdata

import (
	"context"
	"sort"
	"time"

	"portfolioRiskBot/internal/logger"
	"portfolioRiskBot/internal/risk"
)

// FetchPause spaces out sequential requests to stay under Yahoo's rate limit.
var FetchPause = 120 * time.Millisecond

// FetchResult holds the per-symbol outcome of FetchAll. Failed symbols map to
// an empty series and their error.
type FetchResult struct {
	Series map[string]risk.PriceSeries
	Errors map[string]error
}

// Failed lists the symbols whose fetch returned an error.
func (r FetchResult) Failed() []string {
	out := make([]string, 0, len(r.Errors))
	for s := range r.Errors {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// FetchAll loads history for every symbol one after another. Only context
// cancellation aborts the whole batch.
func FetchAll(ctx context.Context, p Provider, symbols []string, window string) (FetchResult, error) {
	log := logger.Component("marketdata")
	res := FetchResult{
		Series: make(map[string]risk.PriceSeries, len(symbols)),
		Errors: map[string]error{},
	}
	for i, sym := range symbols {
		if i > 0 && FetchPause > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(FetchPause):
			}
		}
		series, err := p.History(ctx, sym, window)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Warn().Err(err).Str("symbol", sym).Msg("history fetch failed")
			res.Series[sym] = risk.PriceSeries{}
			res.Errors[sym] = err
			continue
		}
		res.Series[sym] = series
	}
	return res, nil
}

// FetchSectors resolves a sector per symbol, using UnknownSector on failure.
func FetchSectors(ctx context.Context, p Provider, symbols []string) map[string]string {
	log := logger.Component("marketdata")
	out := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		if ctx.Err() != nil {
			out[sym] = risk.UnknownSector
			continue
		}
		sector, err := p.Sector(ctx, sym)
		if err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("sector lookup failed")
			sector = risk.UnknownSector
		}
		out[sym] = sector
	}
	return out
}
