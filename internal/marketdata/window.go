package marketdata

import (
	"fmt"
	"strconv"
	"strings"

	"portfolioRiskBot/internal/risk"
)

// ParseWindow maps a user window (5d, 3w, 6m, 1y) to a Yahoo range parameter
// and the number of calendar days to keep.
func ParseWindow(window string) (string, int, error) {
	window = strings.ToLower(strings.TrimSpace(window))
	if window == "" {
		return "1y", 365, nil
	}

	unit := window[len(window)-1]
	n, err := strconv.Atoi(window[:len(window)-1])
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid window format: %s (use format like 5d, 2w, 6m, 1y)", window)
	}

	switch unit {
	case 'd':
		switch {
		case n <= 5:
			return "5d", n, nil
		case n <= 30:
			return "1mo", n, nil
		case n <= 90:
			return "3mo", n, nil
		default:
			return "1y", n, nil
		}
	case 'w':
		days := n * 7
		switch {
		case n <= 1:
			return "5d", days, nil
		case n <= 4:
			return "1mo", days, nil
		case n <= 12:
			return "3mo", days, nil
		case n <= 26:
			return "6mo", days, nil
		default:
			return "1y", days, nil
		}
	case 'm':
		days := n * 30
		switch {
		case n <= 1:
			return "1mo", days, nil
		case n <= 3:
			return "3mo", days, nil
		case n <= 6:
			return "6mo", days, nil
		case n <= 12:
			return "1y", days, nil
		case n <= 24:
			return "2y", days, nil
		default:
			return "5y", days, nil
		}
	case 'y':
		days := n * 365
		switch {
		case n <= 1:
			return "1y", days, nil
		case n <= 2:
			return "2y", days, nil
		case n <= 5:
			return "5y", days, nil
		case n <= 10:
			return "10y", days, nil
		default:
			return "max", days, nil
		}
	}
	return "", 0, fmt.Errorf("invalid window format: %s (use format like 5d, 2w, 6m, 1y)", window)
}

// trimToDays keeps the bars within targetDays of the most recent one.
func trimToDays(series risk.PriceSeries, targetDays int) risk.PriceSeries {
	if len(series) == 0 || targetDays <= 0 || len(series) <= targetDays {
		return series
	}
	cutoff := series[len(series)-1].Date.AddDate(0, 0, -targetDays)
	start := 0
	for i, b := range series {
		if !b.Date.Before(cutoff) {
			start = i
			break
		}
	}
	out := make(risk.PriceSeries, len(series)-start)
	copy(out, series[start:])
	return out
}
