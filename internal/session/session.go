package session

import (
	"sort"
	"sync"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

// Session is the in-memory state of one chat: its holdings plus the price
// history and sectors fetched so far.
type Session struct {
	Store *portfolio.Store

	mu      sync.RWMutex
	series  map[string]risk.PriceSeries
	sectors map[string]string
	window  string
}

func New() *Session {
	return &Session{
		Store:   portfolio.NewStore(),
		series:  map[string]risk.PriceSeries{},
		sectors: map[string]string{},
	}
}

// MergeSeries stores fetched series, replacing earlier fetches per ticker.
func (s *Session) MergeSeries(byTicker map[string]risk.PriceSeries, window string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, ser := range byTicker {
		s.series[portfolio.NormalizeTicker(t)] = ser
	}
	if window != "" {
		s.window = window
	}
}

// Series returns the fetched series for tickers. Tickers never fetched map
// to an empty series.
func (s *Session) Series(tickers ...string) map[string]risk.PriceSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]risk.PriceSeries, len(tickers))
	for _, t := range tickers {
		t = portfolio.NormalizeTicker(t)
		ser, ok := s.series[t]
		if !ok {
			out[t] = risk.PriceSeries{}
			continue
		}
		cp := make(risk.PriceSeries, len(ser))
		copy(cp, ser)
		out[t] = cp
	}
	return out
}

// Missing lists tickers with no fetched series, sorted.
func (s *Session) Missing(tickers ...string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, t := range tickers {
		t = portfolio.NormalizeTicker(t)
		if _, ok := s.series[t]; !ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Session) MergeSectors(byTicker map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, sec := range byTicker {
		s.sectors[portfolio.NormalizeTicker(t)] = sec
	}
}

// Sectors returns known sectors for tickers; unknown ones are omitted.
func (s *Session) Sectors(tickers ...string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(tickers))
	for _, t := range tickers {
		t = portfolio.NormalizeTicker(t)
		if sec, ok := s.sectors[t]; ok {
			out[t] = sec
		}
	}
	return out
}

// Forget drops cached data for a ticker removed from the portfolio.
func (s *Session) Forget(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := portfolio.NormalizeTicker(ticker)
	delete(s.series, t)
	delete(s.sectors, t)
}

// Window is the window used by the last fetch, or "" before any fetch.
func (s *Session) Window() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// Sessions maps chat IDs to their sessions.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: map[int64]*Session{}}
}

// Get returns the session for chatID, creating it on first use.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[chatID]
	if !ok {
		sess = New()
		s.m[chatID] = sess
	}
	return sess
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
