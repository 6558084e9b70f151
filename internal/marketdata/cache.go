package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"portfolioRiskBot/internal/metrics"
	"portfolioRiskBot/internal/risk"
)

type cacheEntry struct {
	createdAt time.Time
	series    risk.PriceSeries
}

type sectorEntry struct {
	createdAt time.Time
	sector    string
}

// Cache memoizes a Provider's answers for ttl. Readers get a copy so the
// cached slice is never mutated through a caller.
type Cache struct {
	next Provider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	history map[string]cacheEntry
	sectors map[string]sectorEntry
}

func NewCache(next Provider, ttl time.Duration) *Cache {
	return &Cache{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		history: map[string]cacheEntry{},
		sectors: map[string]sectorEntry{},
	}
}

func (c *Cache) History(ctx context.Context, symbol, window string) (risk.PriceSeries, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol)) + "|" + strings.ToLower(strings.TrimSpace(window))
	c.mu.Lock()
	if e, ok := c.history[key]; ok && c.now().Before(e.createdAt.Add(c.ttl)) {
		out := make(risk.PriceSeries, len(e.series))
		copy(out, e.series)
		c.mu.Unlock()
		metrics.RecordCacheHit()
		return out, nil
	}
	c.mu.Unlock()

	series, err := c.next.History(ctx, symbol, window)
	if err != nil {
		return nil, err
	}
	stored := make(risk.PriceSeries, len(series))
	copy(stored, series)
	c.mu.Lock()
	c.history[key] = cacheEntry{createdAt: c.now(), series: stored}
	c.mu.Unlock()
	return series, nil
}

func (c *Cache) Sector(ctx context.Context, symbol string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	c.mu.Lock()
	if e, ok := c.sectors[key]; ok && c.now().Before(e.createdAt.Add(c.ttl)) {
		c.mu.Unlock()
		metrics.RecordCacheHit()
		return e.sector, nil
	}
	c.mu.Unlock()

	sector, err := c.next.Sector(ctx, symbol)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.sectors[key] = sectorEntry{createdAt: c.now(), sector: sector}
	c.mu.Unlock()
	return sector, nil
}
