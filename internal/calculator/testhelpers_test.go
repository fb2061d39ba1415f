package calculator

import (
	"math"

	"MarketBrief/internal/model"
)

// candlesFromCloses builds hourly candles whose open is the previous close
// and whose high/low bracket the body by one.
func candlesFromCloses(closes []float64, volumes []float64) []model.Candle {
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		vol := 1.0
		if volumes != nil {
			vol = volumes[i]
		}
		out[i] = model.Candle{
			OpenTime: int64(i) * 3_600_000,
			Open:     open,
			High:     math.Max(open, c) + 1,
			Low:      math.Min(open, c) - 1,
			Close:    c,
			Volume:   vol,
		}
	}
	return out
}

// wave is a deterministic non-trivial price path.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		out[i] = 100 + 10*math.Sin(x/7) + 4*math.Cos(x/3) + 0.05*x
	}
	return out
}

func relClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
