package calculator

import (
	"strconv"

	"MarketBrief/internal/model"
)

// EMA is an exponential moving average with α = 2/(N+1).
//
// During warm-up the value is the running mean of the samples seen so far,
// so after N samples it equals SMA(N) and the recursive update takes over.
type EMA struct {
	period int
	alpha  float64
	count  int
	value  float64
}

func NewEMA(period int) *EMA {
	return &EMA{period: period, alpha: 2.0 / float64(period+1)}
}

func (e *EMA) Name() string { return "EMA" + strconv.Itoa(e.period) }

func (e *EMA) Period() int { return e.period }

func (e *EMA) Update(c model.Candle) float64 { return e.Add(c.Close) }

// Add folds in a raw value.
func (e *EMA) Add(v float64) float64 {
	e.count++
	if e.count <= e.period {
		e.value += (v - e.value) / float64(e.count)
	} else {
		e.value = e.alpha*v + (1-e.alpha)*e.value
	}
	return e.value
}

// Ready reports whether at least one sample was seen.
func (e *EMA) Ready() bool { return e.count > 0 }

// Warm reports whether the full seed window has been consumed.
func (e *EMA) Warm() bool { return e.count >= e.period }

func (e *EMA) Value() float64 { return e.value }
