package calculator

import (
	"math"

	"MarketBrief/internal/model"
)

// OBVChangeWindow is the number of OBV values the percent change spans.
const OBVChangeWindow = 5

// OBV is On-Balance Volume: a running sum that adds the volume when the
// close rose, subtracts it when the close fell, and starts at zero.
type OBV struct {
	count     int
	prevClose float64
	value     float64
	recent    *Window[float64]
}

func NewOBV() *OBV {
	return &OBV{recent: NewWindow[float64](OBVChangeWindow)}
}

func (o *OBV) Name() string { return "OBV" }

func (o *OBV) Update(c model.Candle) float64 {
	if o.count > 0 {
		switch {
		case c.Close > o.prevClose:
			o.value += c.Volume
		case c.Close < o.prevClose:
			o.value -= c.Volume
		}
	}
	o.prevClose = c.Close
	o.count++
	o.recent.Push(o.value)
	return o.value
}

func (o *OBV) Ready() bool { return o.count > 0 }

func (o *OBV) Value() float64 { return o.value }

// ChangePct is the percent change from the oldest to the newest of the last
// five OBV values, relative to max(|oldest|, 1). Zero before five values.
func (o *OBV) ChangePct() float64 {
	if !o.recent.Full() {
		return 0
	}
	first := o.recent.First()
	return (o.recent.Last() - first) / math.Max(math.Abs(first), 1.0) * 100
}
