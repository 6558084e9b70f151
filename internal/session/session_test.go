package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioRiskBot/internal/risk"
)

var sessionEnd = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

func TestSeriesMergeAndCopy(t *testing.T) {
	s := New()
	s.MergeSeries(map[string]risk.PriceSeries{"aapl": risk.SeriesFromCloses(sessionEnd, 1, 2)}, "6m")
	s.MergeSeries(map[string]risk.PriceSeries{"MSFT": risk.SeriesFromCloses(sessionEnd, 3, 4, 5)}, "")

	got := s.Series("AAPL", "MSFT", "TSLA")
	require.Len(t, got, 3)
	assert.Len(t, got["AAPL"], 2)
	assert.Len(t, got["MSFT"], 3)
	assert.Empty(t, got["TSLA"])
	assert.Equal(t, "6m", s.Window())

	got["AAPL"][0].Close = 100
	assert.Equal(t, 1.0, s.Series("AAPL")["AAPL"][0].Close)

	assert.Equal(t, []string{"NVDA", "TSLA"}, s.Missing("tsla", "AAPL", "nvda"))
}

func TestForgetDropsCachedData(t *testing.T) {
	s := New()
	s.MergeSeries(map[string]risk.PriceSeries{"AAPL": risk.SeriesFromCloses(sessionEnd, 1, 2)}, "")
	s.MergeSectors(map[string]string{"AAPL": "Technology"})
	assert.Equal(t, map[string]string{"AAPL": "Technology"}, s.Sectors("AAPL", "XOM"))

	s.Forget("aapl")
	assert.Equal(t, []string{"AAPL"}, s.Missing("AAPL"))
	assert.Empty(t, s.Sectors("AAPL"))
}

func TestSessionsArePerChat(t *testing.T) {
	all := NewSessions()
	a := all.Get(1)
	_, err := a.Store.Add("AAPL", 1, 100)
	require.NoError(t, err)

	assert.Same(t, a, all.Get(1))
	assert.Equal(t, 0, all.Get(2).Store.Len())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			all.Get(id % 4)
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, 4, all.Len())
}
