package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrHoldingNotFound = errors.New("portfolio: holding not found")
	ErrInvalidHolding  = errors.New("portfolio: invalid holding")
)

// Holding is one portfolio entry keyed by ticker.
type Holding struct {
	Ticker        string  `json:"ticker"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
}

// CostBasis returns shares × purchase price.
func (h Holding) CostBasis() decimal.Decimal {
	return decimal.NewFromFloat(h.Shares).Mul(decimal.NewFromFloat(h.PurchasePrice))
}

// NormalizeTicker trims and upper-cases a symbol the same way the store keys it.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Store holds the holdings of one session in memory.
type Store struct {
	mu       sync.RWMutex
	holdings map[string]Holding
}

func NewStore() *Store {
	return &Store{holdings: make(map[string]Holding)}
}

// Add inserts or replaces the holding for ticker. Callers that must not
// overwrite an existing position check Has first.
func (s *Store) Add(ticker string, shares, purchasePrice float64) (Holding, error) {
	t := NormalizeTicker(ticker)
	if t == "" {
		return Holding{}, fmt.Errorf("%w: empty ticker", ErrInvalidHolding)
	}
	if !(shares > 0) {
		return Holding{}, fmt.Errorf("%w: shares for %s must be positive, got %v", ErrInvalidHolding, t, shares)
	}
	if !(purchasePrice > 0) {
		return Holding{}, fmt.Errorf("%w: purchase price for %s must be positive, got %v", ErrInvalidHolding, t, purchasePrice)
	}
	h := Holding{Ticker: t, Shares: shares, PurchasePrice: purchasePrice}
	s.mu.Lock()
	s.holdings[t] = h
	s.mu.Unlock()
	return h, nil
}

func (s *Store) Remove(ticker string) error {
	t := NormalizeTicker(ticker)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holdings[t]; !ok {
		return fmt.Errorf("%w: %s", ErrHoldingNotFound, t)
	}
	delete(s.holdings, t)
	return nil
}

func (s *Store) Has(ticker string) bool {
	_, ok := s.Get(ticker)
	return ok
}

func (s *Store) Get(ticker string) (Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[NormalizeTicker(ticker)]
	return h, ok
}

// Holdings returns a snapshot sorted by ticker.
func (s *Store) Holdings() []Holding {
	s.mu.RLock()
	out := make([]Holding, 0, len(s.holdings))
	for _, h := range s.holdings {
		out = append(out, h)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

func (s *Store) Tickers() []string {
	hs := s.Holdings()
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Ticker
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holdings)
}

// TotalValue is the cost-basis value of every holding.
func (s *Store) TotalValue() decimal.Decimal {
	return TotalCost(s.Holdings())
}

// TotalCost sums the cost basis of holdings.
func TotalCost(holdings []Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.CostBasis())
	}
	return total
}
