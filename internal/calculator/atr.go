package calculator

import (
	"math"
	"strconv"

	"MarketBrief/internal/model"
)

// ATR is the Wilder-smoothed Average True Range. The first candle uses its
// open as the previous close, so its true range is high-low. The seed is the
// mean of the first period true ranges.
type ATR struct {
	period    int
	count     int
	prevClose float64
	value     float64
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string { return "ATR" + strconv.Itoa(a.period) }

func (a *ATR) Period() int { return a.period }

func (a *ATR) Update(c model.Candle) float64 {
	if a.count == 0 {
		a.prevClose = c.Open
	}
	tr := TrueRange(c, a.prevClose)
	a.prevClose = c.Close

	a.count++
	n := float64(a.period)
	if a.count <= a.period {
		a.value += (tr - a.value) / float64(a.count)
	} else {
		a.value = (a.value*(n-1) + tr) / n
	}
	return a.value
}

func (a *ATR) Ready() bool { return a.count >= a.period }

func (a *ATR) Value() float64 { return a.value }

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(c model.Candle, prevClose float64) float64 {
	return math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
}

// PercentOfPrice expresses v as a percentage of price.
func PercentOfPrice(v, price float64) float64 {
	return safeDiv(v, price) * 100
}
