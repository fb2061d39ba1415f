package model

import (
	"strconv"
	"strings"
	"time"
)

// SentimentPoint is one day of the Fear & Greed index, kept in the
// provider's string encoding.
type SentimentPoint struct {
	Timestamp      string // epoch seconds
	Value          string // 0-100
	Classification string // "Extreme Fear" .. "Extreme Greed"
}

// Time parses Timestamp. The zero time is returned on failure.
func (p SentimentPoint) Time() time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(p.Timestamp), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// Score parses Value, returning -1 when it is not an integer.
func (p SentimentPoint) Score() int {
	v, err := strconv.Atoi(strings.TrimSpace(p.Value))
	if err != nil {
		return -1
	}
	return v
}
