package collector

import (
	"fmt"
	"time"
)

var intervals = map[string]time.Duration{
	"1m":  time.Minute,
	"3m":  3 * time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"2h":  2 * time.Hour,
	"4h":  4 * time.Hour,
	"6h":  6 * time.Hour,
	"8h":  8 * time.Hour,
	"12h": 12 * time.Hour,
	"1d":  24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1M":  30 * 24 * time.Hour,
}

// ParseInterval maps an exchange interval string to its candle duration.
// "1M" is approximated as 30 days.
func ParseInterval(s string) (time.Duration, error) {
	d, ok := intervals[s]
	if !ok {
		return 0, fmt.Errorf("unknown interval %q", s)
	}
	return d, nil
}

// PageBudget returns the request cap for a paged fetch:
// ceil(span / (pageLimit × step)) + 1.
func PageBudget(span time.Duration, pageLimit int, step time.Duration) int {
	if span <= 0 || pageLimit <= 0 || step <= 0 {
		return 1
	}
	perPage := time.Duration(pageLimit) * step
	pages := int(span / perPage)
	if span%perPage != 0 {
		pages++
	}
	return pages + 1
}
