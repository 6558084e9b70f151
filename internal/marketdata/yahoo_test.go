package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"AAPL","timezone":"EST"},
"timestamp":[1700006400,1699920000,1700092800,1700179200],
"indicators":{"quote":[{"open":[101,99,0,103],"high":[102,100,0,104],"low":[100,98,0,102],"close":[101.5,99.5,null,103.5]}]}}],"error":null}}`

const sparkBody = `{"spark":{"result":[{"symbol":"MSFT","response":[{"timestamp":[1699920000,1700006400],"close":[300,303]}]}],"error":null}}`

const profileBody = `{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology","industry":"Consumer Electronics"}}],"error":null}}`

func newTestYahoo(urls ...string) *Yahoo {
	return NewYahoo(WithHosts(urls...), WithBackoffs(time.Millisecond))
}

func TestHistoryParsesChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	series, err := newTestYahoo(srv.URL).History(context.Background(), " aapl ", "")
	require.NoError(t, err)
	require.Len(t, series, 3)
	// sorted ascending, null close dropped
	assert.Equal(t, 99.5, series[0].Close)
	assert.Equal(t, 101.5, series[1].Close)
	assert.Equal(t, 103.5, series[2].Close)
	assert.Equal(t, 99.0, series[0].Open)
	assert.True(t, series[0].Date.Before(series[1].Date))
}

func TestHistoryFailsOverToSecondHost(t *testing.T) {
	var limited int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&limited, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("Edge: Too Many Requests"))
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartBody))
	}))
	defer good.Close()

	series, err := newTestYahoo(bad.URL, good.URL).History(context.Background(), "AAPL", "1y")
	require.NoError(t, err)
	assert.Len(t, series, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&limited))
}

func TestHistoryFallsBackToSpark(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v7/finance/spark") {
			assert.Equal(t, "MSFT", r.URL.Query().Get("symbols"))
			_, _ = w.Write([]byte(sparkBody))
			return
		}
		_, _ = w.Write([]byte("<html>blocked</html>"))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).History(context.Background(), "MSFT", "1mo")
	require.Error(t, err, "1mo is not a valid window")

	series, err := newTestYahoo(srv.URL).History(context.Background(), "MSFT", "1m")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 300.0, series[0].Close)
	assert.Equal(t, 300.0, series[0].Open)
}

func TestHistoryReportsBothFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).History(context.Background(), "ZZZZ", "5d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHistoryEmptyResultIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).History(context.Background(), "AAPL", "")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHistoryHonoursCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewYahoo(WithHosts(srv.URL), WithBackoffs(time.Second)).History(ctx, "AAPL", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "assetProfile", r.URL.Query().Get("modules"))
		if strings.HasSuffix(r.URL.Path, "/AAPL") {
			_, _ = w.Write([]byte(profileBody))
			return
		}
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"assetProfile":{"sector":" "}}],"error":null}}`))
	}))
	defer srv.Close()

	y := newTestYahoo(srv.URL)
	s, err := y.Sector(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Technology", s)

	s, err = y.Sector(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", s)
}
