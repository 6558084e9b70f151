package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"portfolioRiskBot/internal/portfolio"
)

const tickerChars = `A-Za-z0-9\.^_=+-`

var (
	// /add T1,T2 SHARES PRICE
	reAdd = regexp.MustCompile(`^/add(?:@[\w_]+)?\s+([` + tickerChars + `,\s]+?)\s+(\S+)\s+(\S+)$`)
	// /remove TICKER
	reRemove    = regexp.MustCompile(`^/remove(?:@[\w_]+)?\s+([` + tickerChars + `]+)$`)
	rePortfolio = regexp.MustCompile(`^/portfolio(?:@[\w_]+)?$`)
	// /fetch [T1 T2 ...] [window]
	reFetch = regexp.MustCompile(`^/fetch(?:@[\w_]+)?((?:\s+[` + tickerChars + `,]+)*?)(?:\s+(\d+[dwmyDWMY]))?$`)
	// /analyze TICKER
	reAnalyze = regexp.MustCompile(`^/analyze(?:@[\w_]+)?\s+([` + tickerChars + `]+)$`)
	reRisk    = regexp.MustCompile(`^/risk(?:@[\w_]+)?$`)
	reSectors = regexp.MustCompile(`^/sectors(?:@[\w_]+)?$`)
	reReturn  = regexp.MustCompile(`^/return(?:@[\w_]+)?$`)
	// /export [csv|var|corr]
	reExport = regexp.MustCompile(`^/export(?:@[\w_]+)?(?:\s+(csv|var|corr|xlsx|pdf))?$`)
	// /chart TICKER [window]
	reChart   = regexp.MustCompile(`^/chart(?:@[\w_]+)?\s+([` + tickerChars + `]+)(?:\s+(\d+[dwmyDWMY]))?$`)
	reInsight = regexp.MustCompile(`^/insight(?:@[\w_]+)?$`)
	reHelp    = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

// parseTickers splits on commas and whitespace, normalizes and dedupes,
// keeping first-seen order.
func parseTickers(field string) []string {
	raw := strings.FieldsFunc(field, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	seen := map[string]struct{}{}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		su := portfolio.NormalizeTicker(s)
		if su == "" {
			continue
		}
		if _, ok := seen[su]; ok {
			continue
		}
		seen[su] = struct{}{}
		out = append(out, su)
	}
	return out
}

type addArgs struct {
	tickers []string
	shares  float64
	price   float64
}

func parseAdd(g []string) (addArgs, error) {
	if len(g) != 4 {
		return addArgs{}, fmt.Errorf("usage: /add T1,T2 SHARES PRICE")
	}
	tickers := parseTickers(g[1])
	if len(tickers) == 0 {
		return addArgs{}, fmt.Errorf("usage: /add T1,T2 SHARES PRICE")
	}
	shares, err := strconv.ParseFloat(g[2], 64)
	if err != nil {
		return addArgs{}, fmt.Errorf("invalid shares %q", g[2])
	}
	price, err := strconv.ParseFloat(g[3], 64)
	if err != nil {
		return addArgs{}, fmt.Errorf("invalid price %q", g[3])
	}
	return addArgs{tickers: tickers, shares: shares, price: price}, nil
}
