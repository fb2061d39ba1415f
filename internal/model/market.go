package model

import (
	"sort"
	"time"
)

// Candle represents a single OHLCV bar. Times are epoch milliseconds.
type Candle struct {
	OpenTime  int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	CloseTime int64 // 0 when the provider did not send one
}

// Time returns the candle open time in UTC.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.OpenTime).UTC()
}

// Series is an ascending-by-time candle sequence. It is built once per run
// and never mutated afterwards.
type Series struct {
	Symbol   string
	Interval string
	candles  []Candle
}

// NewSeries merges candles into a Series: stable sort by OpenTime ascending,
// then drop duplicate OpenTime values keeping the first occurrence.
func NewSeries(symbol, interval string, candles []Candle) *Series {
	merged := make([]Candle, len(candles))
	copy(merged, candles)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].OpenTime < merged[j].OpenTime })

	out := merged[:0]
	for i, c := range merged {
		if i > 0 && c.OpenTime == out[len(out)-1].OpenTime {
			continue
		}
		out = append(out, c)
	}
	return &Series{Symbol: symbol, Interval: interval, candles: out}
}

// Len returns the number of candles.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.candles)
}

// At returns the i-th candle.
func (s *Series) At(i int) Candle { return s.candles[i] }

// Candles returns a copy of the underlying candles.
func (s *Series) Candles() []Candle {
	if s == nil {
		return nil
	}
	out := make([]Candle, len(s.candles))
	copy(out, s.candles)
	return out
}

// Last returns the newest candle and false if the series is empty.
func (s *Series) Last() (Candle, bool) {
	if s.Len() == 0 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Tail returns a copy of the newest n candles (all of them when n <= 0 or n > Len).
func (s *Series) Tail(n int) []Candle {
	if n <= 0 || n > s.Len() {
		return s.Candles()
	}
	out := make([]Candle, n)
	copy(out, s.candles[len(s.candles)-n:])
	return out
}

func (s *Series) Closes() []float64  { return s.channel(func(c Candle) float64 { return c.Close }) }
func (s *Series) Volumes() []float64 { return s.channel(func(c Candle) float64 { return c.Volume }) }
func (s *Series) Highs() []float64   { return s.channel(func(c Candle) float64 { return c.High }) }
func (s *Series) Lows() []float64    { return s.channel(func(c Candle) float64 { return c.Low }) }

func (s *Series) channel(pick func(Candle) float64) []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = pick(s.candles[i])
	}
	return out
}

// FetchResult is the outcome of a paged series fetch.
type FetchResult struct {
	Series *Series
	Pages  int
	// Truncated is set when pagination stopped early: a later page failed
	// or the page cap was reached. TruncatedBy holds the cause.
	Truncated   bool
	TruncatedBy error
}
