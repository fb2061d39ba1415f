package calculator

import (
	"strconv"

	"MarketBrief/internal/model"
)

// SMA is the simple moving average of closes over a trailing window.
type SMA struct {
	period int
	sums   rollingSum
}

func NewSMA(period int) *SMA {
	return &SMA{period: period, sums: newRollingSum(period)}
}

func (s *SMA) Name() string { return "SMA" + strconv.Itoa(s.period) }

func (s *SMA) Period() int { return s.period }

func (s *SMA) Update(c model.Candle) float64 { return s.Add(c.Close) }

// Add folds in a raw value.
func (s *SMA) Add(v float64) float64 {
	s.sums.push(v)
	return s.Value()
}

func (s *SMA) Ready() bool { return s.sums.window.Full() }

// Value returns the mean of the values seen so far, which is the SMA once
// Ready.
func (s *SMA) Value() float64 { return s.sums.mean() }
