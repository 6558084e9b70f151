package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTickers(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "GOOGL", "BRK.B"}, parseTickers(" aapl,GOOGL  brk.b,aapl "))
	assert.Empty(t, parseTickers(" , "))
}

func TestParseAdd(t *testing.T) {
	g := reAdd.FindStringSubmatch("/add AAPL,googl 10 150.5")
	require.NotNil(t, g)
	args, err := parseAdd(g)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "GOOGL"}, args.tickers)
	assert.Equal(t, 10.0, args.shares)
	assert.Equal(t, 150.5, args.price)

	g = reAdd.FindStringSubmatch("/add@mybot MSFT 1 x")
	require.NotNil(t, g)
	_, err = parseAdd(g)
	assert.ErrorContains(t, err, "invalid price")

	assert.Nil(t, reAdd.FindStringSubmatch("/add AAPL 10"))
}

func TestFetchRegexSplitsWindow(t *testing.T) {
	g := reFetch.FindStringSubmatch("/fetch AAPL MSFT 6m")
	require.NotNil(t, g)
	assert.Equal(t, []string{"AAPL", "MSFT"}, parseTickers(g[1]))
	assert.Equal(t, "6m", g[2])

	g = reFetch.FindStringSubmatch("/fetch")
	require.NotNil(t, g)
	assert.Empty(t, parseTickers(g[1]))
	assert.Empty(t, g[2])

	g = reFetch.FindStringSubmatch("/fetch ^GSPC")
	require.NotNil(t, g)
	assert.Equal(t, []string{"^GSPC"}, parseTickers(g[1]))
}

func TestCommandPatterns(t *testing.T) {
	assert.True(t, reRisk.MatchString("/risk"))
	assert.True(t, reRisk.MatchString("/risk@portfolio_bot"))
	assert.False(t, reRisk.MatchString("/risky"))
	assert.Equal(t, "var", reExport.FindStringSubmatch("/export var")[1])
	assert.Equal(t, "", reExport.FindStringSubmatch("/export")[1])
	assert.Equal(t, "pdf", reExport.FindStringSubmatch("/export pdf")[1])
	assert.Equal(t, "xlsx", reExport.FindStringSubmatch("/export@portfolio_bot xlsx")[1])
	assert.False(t, reExport.MatchString("/export docx"))
	assert.Equal(t, []string{"/chart TSLA 3m", "TSLA", "3m"}, reChart.FindStringSubmatch("/chart TSLA 3m"))
	assert.True(t, reHelp.MatchString("/start"))
}
