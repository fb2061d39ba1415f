// Package strategy turns a candle series into indicator results. All
// indicators are driven through one forward pass and gated by series length.
package strategy

import (
	"MarketBrief/internal/calculator"
	"MarketBrief/internal/model"
)

// Mode selects whether results carry only the latest value or also a trail
// of the last few periods.
type Mode string

const (
	ModeLatest   Mode = "latest"
	ModeTrailing Mode = "trailing"
)

// DefaultTrail is the number of periods kept in trailing mode.
const DefaultTrail = 5

// Minimum series lengths. Windows are fixed.
const (
	MinShortAverages = 20
	MinLongAverages  = 200
	MinRSI           = 14
	MinMACD          = 35
	MinBollinger     = 20
	MinOBV           = 2
	MinATR           = 14
	MinLevels        = 1
)

var (
	smaShort = []int{7, 20}
	emaShort = []int{12, 26}
	longAvgs = []int{50, 200}
)

const (
	rsiPeriod  = 14
	atrPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	bbPeriod   = 20
	bbK        = 2.0
)

// Engine computes indicator results for a series.
type Engine struct {
	Mode  Mode
	Trail int
}

// NewEngine creates an engine. An unknown mode falls back to latest and a
// non-positive trail to DefaultTrail.
func NewEngine(mode Mode, trail int) *Engine {
	if mode != ModeTrailing {
		mode = ModeLatest
	}
	if trail <= 0 {
		trail = DefaultTrail
	}
	return &Engine{Mode: mode, Trail: trail}
}

// Analyze computes the summary statistics and every indicator the series is
// long enough for.
func (e *Engine) Analyze(s *model.Series) model.Analysis {
	return model.Analysis{
		Summary: calculator.Summarize(s),
		Results: e.Compute(s),
	}
}

// Compute returns results in a fixed order: SMA, EMA, RSI, MACD, Bollinger,
// OBV, ATR, support/resistance. Indicators the series is too short for are
// omitted.
func (e *Engine) Compute(s *model.Series) []model.IndicatorResult {
	if s.Len() < MinLevels {
		return nil
	}
	p := e.newPass(s)
	for _, c := range s.Candles() {
		p.update(c)
	}

	last, _ := s.Last()
	out := make([]model.IndicatorResult, 0, len(p.project))
	for _, project := range p.project {
		out = append(out, project(last.Close))
	}
	return out
}

// track is one indicator instance driven by the pass. trail stores its
// current output once the indicator is ready.
type track struct {
	ind   calculator.Indicator
	trail func()
}

// pass drives every indicator the series is long enough for through one
// forward pass. project holds one projection per result kind, in output
// order, each turning the final indicator state into a result.
type pass struct {
	trailing bool
	trailLen int
	tracks   []track
	project  []func(price float64) model.IndicatorResult
}

func (e *Engine) newPass(s *model.Series) *pass {
	n := s.Len()
	p := &pass{trailing: e.Mode == ModeTrailing, trailLen: e.Trail}

	if n >= MinShortAverages {
		p.addAverages(model.KindSMA, averagePeriods(smaShort, n),
			func(period int) calculator.Indicator { return calculator.NewSMA(period) }, smaLabels)
		p.addAverages(model.KindEMA, averagePeriods(emaShort, n),
			func(period int) calculator.Indicator { return calculator.NewEMA(period) },
			func(avgs []model.AverageValue, _ float64) []model.Label { return emaLabels(avgs) })
	}
	if n >= MinRSI {
		p.addRSI()
	}
	if n >= MinMACD {
		p.addMACD()
	}
	if n >= MinBollinger {
		p.addBollinger()
	}
	// every candle carries its volume, so the volume and close channels
	// always have the same length
	if n >= MinOBV {
		p.addOBV()
	}
	if n >= MinATR {
		p.addATR()
	}
	p.addLevels(s)
	return p
}

func (p *pass) update(c model.Candle) {
	for _, t := range p.tracks {
		t.ind.Update(c)
		if p.trailing && t.ind.Ready() {
			t.trail()
		}
	}
}

// averagePeriods adds the long windows once the series is long enough.
func averagePeriods(short []int, n int) []int {
	periods := append([]int{}, short...)
	if n >= MinLongAverages {
		periods = append(periods, longAvgs...)
	}
	return periods
}

// floatTrack registers ind with a trail of its scalar value.
func (p *pass) floatTrack(ind calculator.Indicator) *calculator.Window[float64] {
	w := calculator.NewWindow[float64](p.trailLen)
	p.tracks = append(p.tracks, track{ind: ind, trail: func() { w.Push(ind.Value()) }})
	return w
}

func (p *pass) addAverages(kind model.IndicatorKind, periods []int, newAverage func(int) calculator.Indicator,
	label func([]model.AverageValue, float64) []model.Label) {
	type average struct {
		period int
		ind    calculator.Indicator
		trail  *calculator.Window[float64]
	}
	avgs := make([]average, len(periods))
	for i, period := range periods {
		ind := newAverage(period)
		avgs[i] = average{period: period, ind: ind, trail: p.floatTrack(ind)}
	}
	p.project = append(p.project, func(price float64) model.IndicatorResult {
		values := make([]model.AverageValue, len(avgs))
		for i, a := range avgs {
			values[i] = model.AverageValue{Period: a.period, Value: a.ind.Value(), Trail: trailOf(p.trailing, a.trail)}
		}
		return model.IndicatorResult{Kind: kind, Averages: values, Labels: label(values, price)}
	})
}

func (p *pass) addRSI() {
	rsi := calculator.NewRSI(rsiPeriod)
	trail := p.floatTrack(rsi)
	p.project = append(p.project, func(float64) model.IndicatorResult {
		v := &model.RSIValue{Period: rsi.Period(), Value: rsi.Value(), Trail: trailOf(p.trailing, trail)}
		return model.IndicatorResult{Kind: model.KindRSI, RSI: v, Labels: rsiLabels(v.Value)}
	})
}

func (p *pass) addMACD() {
	macd := calculator.NewMACD(macdFast, macdSlow, macdSignal)
	trail := calculator.NewWindow[model.MACDPoint](p.trailLen)
	p.tracks = append(p.tracks, track{ind: macd, trail: func() { trail.Push(macd.Point()) }})
	p.project = append(p.project, func(float64) model.IndicatorResult {
		fast, slow, signal := macd.Periods()
		v := &model.MACDValue{
			Fast:         fast,
			Slow:         slow,
			SignalPeriod: signal,
			MACDPoint:    macd.Point(),
			Crossover:    macd.Crossover(),
			Trail:        trailOf(p.trailing, trail),
		}
		return model.IndicatorResult{Kind: model.KindMACD, MACD: v, Labels: macdLabels(v)}
	})
}

func (p *pass) addBollinger() {
	bb := calculator.NewBollinger(bbPeriod, bbK)
	trail := calculator.NewWindow[model.BandPoint](p.trailLen)
	p.tracks = append(p.tracks, track{ind: bb, trail: func() { trail.Push(bb.Bands()) }})
	p.project = append(p.project, func(price float64) model.IndicatorResult {
		v := &model.BandsValue{
			Period:      bb.Period(),
			K:           bb.K(),
			BandPoint:   bb.Bands(),
			PositionPct: bb.Position(price),
			Trail:       trailOf(p.trailing, trail),
		}
		return model.IndicatorResult{Kind: model.KindBollinger, Bands: v, Labels: bollingerLabels(v, price)}
	})
}

func (p *pass) addOBV() {
	obv := calculator.NewOBV()
	trail := p.floatTrack(obv)
	p.project = append(p.project, func(float64) model.IndicatorResult {
		v := &model.OBVValue{Value: obv.Value(), ChangePct: obv.ChangePct(), Trail: trailOf(p.trailing, trail)}
		return model.IndicatorResult{Kind: model.KindOBV, OBV: v, Labels: obvLabels(v.ChangePct)}
	})
}

func (p *pass) addATR() {
	atr := calculator.NewATR(atrPeriod)
	trail := p.floatTrack(atr)
	p.project = append(p.project, func(price float64) model.IndicatorResult {
		v := &model.ATRValue{
			Period:         atr.Period(),
			Value:          atr.Value(),
			PercentOfPrice: calculator.PercentOfPrice(atr.Value(), price),
			Trail:          trailOf(p.trailing, trail),
		}
		return model.IndicatorResult{Kind: model.KindATR, ATR: v, Labels: atrLabels(v.PercentOfPrice)}
	})
}

// addLevels projects support and resistance from the whole close channel.
func (p *pass) addLevels(s *model.Series) {
	p.project = append(p.project, func(price float64) model.IndicatorResult {
		support, resistance, _ := calculator.SupportResistance(s.Closes())
		v := &model.LevelsValue{Support: support, Resistance: resistance}
		return model.IndicatorResult{Kind: model.KindSupportResistance, Levels: v, Labels: levelLabels(v, price)}
	})
}

// trailOf returns the window contents in trailing mode and nil otherwise.
func trailOf[T any](trailing bool, w *calculator.Window[T]) []T {
	if !trailing || w == nil {
		return nil
	}
	return w.Values()
}
