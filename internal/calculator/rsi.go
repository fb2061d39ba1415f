package calculator

import (
	"strconv"

	"MarketBrief/internal/model"
)

// RSI is the Wilder-smoothed Relative Strength Index.
//
// The first candle has no previous close, so its open stands in: the first
// change is close-open. The seed averages are the plain mean of the first
// period changes; afterwards avg = (avg*(N-1) + x) / N.
type RSI struct {
	period    int
	count     int
	prevClose float64
	avgGain   float64
	avgLoss   float64
}

func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string { return "RSI" + strconv.Itoa(r.period) }

func (r *RSI) Period() int { return r.period }

func (r *RSI) Update(c model.Candle) float64 {
	if r.count == 0 {
		r.prevClose = c.Open
	}
	change := c.Close - r.prevClose
	r.prevClose = c.Close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	r.count++
	n := float64(r.period)
	if r.count <= r.period {
		r.avgGain += gain / n
		r.avgLoss += loss / n
	} else {
		r.avgGain = (r.avgGain*(n-1) + gain) / n
		r.avgLoss = (r.avgLoss*(n-1) + loss) / n
	}
	return r.Value()
}

func (r *RSI) Ready() bool { return r.count >= r.period }

// Value is 50 when there has been no movement at all and 100 when there were
// no losses.
func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 50
	}
	switch {
	case r.avgGain == 0 && r.avgLoss == 0:
		return 50
	case r.avgLoss == 0:
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
