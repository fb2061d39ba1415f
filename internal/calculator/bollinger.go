package calculator

import (
	"fmt"
	"math"

	"MarketBrief/internal/model"
)

// Bollinger computes Bollinger Bands: middle = SMA(period), upper/lower =
// middle ± k·σ with the population standard deviation of the same window.
type Bollinger struct {
	period int
	k      float64
	sums   rollingSum
	bands  model.BandPoint
}

func NewBollinger(period int, k float64) *Bollinger {
	return &Bollinger{period: period, k: k, sums: newRollingSum(period)}
}

func (b *Bollinger) Name() string { return fmt.Sprintf("BB(%d,%g)", b.period, b.k) }

func (b *Bollinger) Period() int { return b.period }

func (b *Bollinger) K() float64 { return b.k }

// Update returns the middle band.
func (b *Bollinger) Update(c model.Candle) float64 {
	b.sums.push(c.Close)
	mean := b.sums.mean()
	sd := math.Sqrt(b.sums.variance())
	b.bands = model.BandPoint{Upper: mean + b.k*sd, Middle: mean, Lower: mean - b.k*sd}
	return mean
}

func (b *Bollinger) Ready() bool { return b.sums.window.Full() }

func (b *Bollinger) Value() float64 { return b.bands.Middle }

func (b *Bollinger) Bands() model.BandPoint { return b.bands }

// Position returns where price sits in the band, 0 at the lower band and 100
// at the upper band. It can leave [0, 100] when price is outside the band.
func (b *Bollinger) Position(price float64) float64 {
	return safeDiv(price-b.bands.Lower, b.bands.Upper-b.bands.Lower) * 100
}
