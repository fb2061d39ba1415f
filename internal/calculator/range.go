package calculator

import (
	"errors"
	"math"

	"MarketBrief/internal/model"
)

// SupportResistance returns the minimum and maximum close of the whole
// series. ok is false for an empty series.
func SupportResistance(closes []float64) (support, resistance float64, ok bool) {
	if len(closes) == 0 {
		return 0, 0, false
	}
	support = math.Inf(1)
	resistance = math.Inf(-1)
	for _, c := range closes {
		if c < support {
			support = c
		}
		if c > resistance {
			resistance = c
		}
	}
	return support, resistance, true
}

// RangePosition returns where the current price sits within [low, high] (0.0~1.0).
func RangePosition(current, low, high float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Summarize computes whole-series statistics in one pass over the candles.
// Returns are close-to-close percentage changes; their standard deviation is
// the population one.
func Summarize(s *model.Series) model.SummaryStats {
	n := s.Len()
	if n == 0 {
		return model.SummaryStats{}
	}
	first := s.At(0)
	last := s.At(n - 1)
	st := model.SummaryStats{
		Count:         n,
		FirstOpenTime: first.OpenTime,
		LastOpenTime:  last.OpenTime,
		FirstClose:    first.Close,
		LastClose:     last.Close,
		High:          math.Inf(-1),
		Low:           math.Inf(1),
	}

	var sumClose, sumRet, sumRetSq float64
	for i := 0; i < n; i++ {
		c := s.At(i)
		sumClose += c.Close
		st.TotalVolume += c.Volume
		st.High = math.Max(st.High, c.High)
		st.Low = math.Min(st.Low, c.Low)
		if i > 0 {
			r := safeDiv(c.Close-s.At(i-1).Close, s.At(i-1).Close) * 100
			sumRet += r
			sumRetSq += r * r
		}
	}
	st.MeanClose = sumClose / float64(n)
	st.AvgVolume = st.TotalVolume / float64(n)
	st.ChangePct = safeDiv(last.Close-first.Close, first.Close) * 100
	if n > 1 {
		m := float64(n - 1)
		mean := sumRet / m
		st.ReturnStdDevPct = math.Sqrt(math.Max(sumRetSq/m-mean*mean, 0))
	}
	return st
}
