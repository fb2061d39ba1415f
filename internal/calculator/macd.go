package calculator

import (
	"fmt"

	"MarketBrief/internal/model"
)

const (
	CrossoverBullish = "Bullish crossover"
	CrossoverBearish = "Bearish crossover"
)

// MACD tracks EMA(fast)-EMA(slow), its signal EMA and the histogram.
// The signal EMA is fed only once the slow EMA is warm, so the triple is
// Ready after slow+signal-1 candles.
type MACD struct {
	fast, slow, signal *EMA

	point     model.MACDPoint
	prevDiff  float64
	hasPrev   bool
	crossover string
}

func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{fast: NewEMA(fast), slow: NewEMA(slow), signal: NewEMA(signal)}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast.Period(), m.slow.Period(), m.signal.Period())
}

func (m *MACD) Periods() (fast, slow, signal int) {
	return m.fast.Period(), m.slow.Period(), m.signal.Period()
}

// Update returns the MACD line.
func (m *MACD) Update(c model.Candle) float64 {
	line := m.fast.Add(c.Close) - m.slow.Add(c.Close)
	m.point.MACD = line
	if !m.slow.Warm() {
		return line
	}

	m.point.Signal = m.signal.Add(line)
	m.point.Histogram = m.point.MACD - m.point.Signal
	if !m.signal.Warm() {
		return line
	}

	diff := m.point.Histogram
	m.crossover = ""
	if m.hasPrev {
		switch {
		case m.prevDiff <= 0 && diff > 0:
			m.crossover = CrossoverBullish
		case m.prevDiff >= 0 && diff < 0:
			m.crossover = CrossoverBearish
		}
	}
	m.prevDiff = diff
	m.hasPrev = true
	return line
}

func (m *MACD) Ready() bool { return m.signal.Warm() }

func (m *MACD) Value() float64 { return m.point.MACD }

// Point returns the latest line, signal and histogram.
func (m *MACD) Point() model.MACDPoint { return m.point }

// Crossover reports a sign change of macd-signal between the previous and
// the current period, or "" when there was none.
func (m *MACD) Crossover() string { return m.crossover }
