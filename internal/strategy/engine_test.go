package strategy

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBrief/internal/model"
)

func closesOf(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func seriesOf(closes []float64) *model.Series {
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		candles[i] = model.Candle{
			OpenTime:  int64(i) * 14_400_000,
			Open:      open,
			High:      math.Max(open, c) * 1.01,
			Low:       math.Min(open, c) * 0.99,
			Close:     c,
			Volume:    1000 + float64(i%5)*10,
			CloseTime: int64(i+1)*14_400_000 - 1,
		}
	}
	return model.NewSeries("BTCUSDT", "4h", candles)
}

func kinds(results []model.IndicatorResult) []model.IndicatorKind {
	out := make([]model.IndicatorKind, 0, len(results))
	for _, r := range results {
		out = append(out, r.Kind)
	}
	return out
}

func periods(avgs []model.AverageValue) []int {
	out := make([]int, 0, len(avgs))
	for _, a := range avgs {
		out = append(out, a.Period)
	}
	return out
}

func TestCompute_Gating(t *testing.T) {
	price := func(i int) float64 { return 100 + 5*math.Sin(float64(i)/4) }
	tests := []struct {
		n    int
		want []model.IndicatorKind
	}{
		{0, nil},
		{1, []model.IndicatorKind{model.KindSupportResistance}},
		{2, []model.IndicatorKind{model.KindOBV, model.KindSupportResistance}},
		{13, []model.IndicatorKind{model.KindOBV, model.KindSupportResistance}},
		{14, []model.IndicatorKind{model.KindRSI, model.KindOBV, model.KindATR, model.KindSupportResistance}},
		{19, []model.IndicatorKind{model.KindRSI, model.KindOBV, model.KindATR, model.KindSupportResistance}},
		{20, []model.IndicatorKind{model.KindSMA, model.KindEMA, model.KindRSI, model.KindBollinger, model.KindOBV, model.KindATR, model.KindSupportResistance}},
		{34, []model.IndicatorKind{model.KindSMA, model.KindEMA, model.KindRSI, model.KindBollinger, model.KindOBV, model.KindATR, model.KindSupportResistance}},
		{35, []model.IndicatorKind{model.KindSMA, model.KindEMA, model.KindRSI, model.KindMACD, model.KindBollinger, model.KindOBV, model.KindATR, model.KindSupportResistance}},
	}

	e := NewEngine(ModeLatest, 0)
	for _, tt := range tests {
		results := e.Compute(seriesOf(closesOf(tt.n, price)))
		if tt.want == nil {
			assert.Empty(t, results, "n=%d", tt.n)
			continue
		}
		assert.Equal(t, tt.want, kinds(results), "n=%d", tt.n)
	}
}

func TestCompute_LongAveragesGate(t *testing.T) {
	e := NewEngine(ModeLatest, 0)
	price := func(i int) float64 { return 100 + float64(i%17) }

	res199 := e.Compute(seriesOf(closesOf(199, price)))
	sma, ok := model.Analysis{Results: res199}.Result(model.KindSMA)
	require.True(t, ok)
	assert.Equal(t, []int{7, 20}, periods(sma.Averages))
	ema, _ := model.Analysis{Results: res199}.Result(model.KindEMA)
	assert.Equal(t, []int{12, 26}, periods(ema.Averages))
	_, hasCross := sma.Label(LabelSMACross)
	assert.False(t, hasCross)

	res200 := e.Compute(seriesOf(closesOf(200, price)))
	sma, _ = model.Analysis{Results: res200}.Result(model.KindSMA)
	assert.Equal(t, []int{7, 20, 50, 200}, periods(sma.Averages))
	ema, _ = model.Analysis{Results: res200}.Result(model.KindEMA)
	assert.Equal(t, []int{12, 26, 50, 200}, periods(ema.Averages))
}

func assertFinite(t *testing.T, v float64, what string) {
	t.Helper()
	assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is %v", what, v)
}

func TestCompute_ValuesFinite(t *testing.T) {
	// flat prices and zero volume exercise every division guard
	closes := closesOf(60, func(int) float64 { return 0 })
	s := seriesOf(closes)
	for _, r := range NewEngine(ModeTrailing, 5).Compute(s) {
		for _, a := range r.Averages {
			assertFinite(t, a.Value, "average")
		}
		if r.RSI != nil {
			assert.Equal(t, 50.0, r.RSI.Value)
		}
		if r.MACD != nil {
			assertFinite(t, r.MACD.Histogram, "histogram")
		}
		if r.Bands != nil {
			assertFinite(t, r.Bands.PositionPct, "band position")
		}
		if r.OBV != nil {
			assertFinite(t, r.OBV.ChangePct, "obv change")
		}
		if r.ATR != nil {
			assertFinite(t, r.ATR.PercentOfPrice, "atr percent")
		}
	}
}

func TestCompute_EndToEnd250(t *testing.T) {
	// rises for 150 candles, then falls: SMA50 ends below SMA200
	closes := closesOf(250, func(i int) float64 {
		x := float64(i)
		if i < 150 {
			return 20000 + 40*x + 300*math.Sin(x/5)
		}
		return 26000 - 90*(x-150) + 300*math.Sin(x/5)
	})
	s := seriesOf(closes)
	analysis := NewEngine(ModeLatest, 0).Analyze(s)

	var sum200, sum50 float64
	for _, c := range closes[50:] {
		sum200 += c
	}
	for _, c := range closes[200:] {
		sum50 += c
	}
	wantSMA200 := sum200 / 200
	wantSMA50 := sum50 / 50

	seed := 0.0
	for _, c := range closes[:200] {
		seed += c
	}
	ema200 := seed / 200
	alpha := 2.0 / 201
	for _, c := range closes[200:] {
		ema200 = alpha*c + (1-alpha)*ema200
	}
	refEMA := talib.Ema(closes, 200)

	sma, ok := analysis.Result(model.KindSMA)
	require.True(t, ok)
	got200, ok := sma.Average(200)
	require.True(t, ok)
	assert.InEpsilon(t, wantSMA200, got200.Value, 1e-6)
	got50, _ := sma.Average(50)
	assert.InEpsilon(t, wantSMA50, got50.Value, 1e-6)

	ema, ok := analysis.Result(model.KindEMA)
	require.True(t, ok)
	gotEMA, ok := ema.Average(200)
	require.True(t, ok)
	assert.InEpsilon(t, ema200, gotEMA.Value, 1e-6)
	assert.InEpsilon(t, refEMA[249], gotEMA.Value, 1e-6)

	require.Less(t, wantSMA50, wantSMA200)
	cross, ok := sma.Label(LabelSMACross)
	require.True(t, ok)
	assert.Equal(t, DeathCross, cross)

	assert.Equal(t, 250, analysis.Summary.Count)
	assert.Equal(t, closes[249], analysis.Summary.LastClose)
}

func TestCompute_GoldenCross(t *testing.T) {
	closes := closesOf(250, func(i int) float64 { return 100 + float64(i) })
	sma, ok := model.Analysis{Results: NewEngine(ModeLatest, 0).Compute(seriesOf(closes))}.Result(model.KindSMA)
	require.True(t, ok)
	cross, _ := sma.Label(LabelSMACross)
	assert.Equal(t, GoldenCross, cross)
	pos, _ := sma.Label(LabelPriceVsSMAs)
	assert.Contains(t, pos, "Strong bullish")
}

func TestCompute_TrailingMode(t *testing.T) {
	closes := closesOf(250, func(i int) float64 { return 100 + 10*math.Sin(float64(i)/9) })
	s := seriesOf(closes)

	latest := NewEngine(ModeLatest, 5).Compute(s)
	trailing := NewEngine(ModeTrailing, 5).Compute(s)
	require.Equal(t, kinds(latest), kinds(trailing))

	for i, r := range trailing {
		l := latest[i]
		for j, a := range r.Averages {
			require.Len(t, a.Trail, 5)
			assert.Equal(t, a.Value, a.Trail[4])
			assert.Equal(t, l.Averages[j].Value, a.Value, "mode does not change values")
			assert.Nil(t, l.Averages[j].Trail)
		}
		switch r.Kind {
		case model.KindRSI:
			require.Len(t, r.RSI.Trail, 5)
			assert.Equal(t, r.RSI.Value, r.RSI.Trail[4])
			assert.Nil(t, l.RSI.Trail)
		case model.KindMACD:
			require.Len(t, r.MACD.Trail, 5)
			assert.Equal(t, r.MACD.MACDPoint, r.MACD.Trail[4])
			for _, p := range r.MACD.Trail {
				assert.Equal(t, p.MACD-p.Signal, p.Histogram)
			}
		case model.KindBollinger:
			require.Len(t, r.Bands.Trail, 5)
			assert.Equal(t, r.Bands.BandPoint, r.Bands.Trail[4])
		case model.KindOBV:
			require.Len(t, r.OBV.Trail, 5)
			assert.Equal(t, r.OBV.Value, r.OBV.Trail[4])
		case model.KindATR:
			require.Len(t, r.ATR.Trail, 5)
			assert.Equal(t, r.ATR.Value, r.ATR.Trail[4])
		}
	}

	bb, _ := model.Analysis{Results: trailing}.Result(model.KindBollinger)
	sma, _ := model.Analysis{Results: trailing}.Result(model.KindSMA)
	sma20, _ := sma.Average(20)
	assert.Equal(t, sma20.Trail, middles(bb.Bands.Trail), "middle band tracks SMA20")
}

func middles(points []model.BandPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Middle
	}
	return out
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine("rolling", -1)
	assert.Equal(t, ModeLatest, e.Mode)
	assert.Equal(t, DefaultTrail, e.Trail)
}

func TestNewPass_OneTrackPerIndicator(t *testing.T) {
	e := NewEngine(ModeTrailing, 3)
	price := func(i int) float64 { return 100 + float64(i%11) }

	tests := []struct {
		n, tracks, results int
	}{
		{1, 0, 1},
		{2, 1, 2},    // OBV
		{20, 8, 7},   // SMA 7/20, EMA 12/26, RSI, BB, OBV, ATR
		{35, 9, 8},   // + MACD
		{250, 13, 8}, // + SMA/EMA 50/200
	}
	for _, tt := range tests {
		p := e.newPass(seriesOf(closesOf(tt.n, price)))
		assert.Len(t, p.tracks, tt.tracks, "tracks n=%d", tt.n)
		assert.Len(t, p.project, tt.results, "results n=%d", tt.n)
	}
}

func TestCompute_OBVWithZeroVolumes(t *testing.T) {
	s := seriesOf(closesOf(5, func(i int) float64 { return 10 + float64(i) }))
	candles := s.Candles()
	for i := range candles {
		candles[i].Volume = 0
	}
	res, ok := model.Analysis{Results: NewEngine(ModeLatest, 0).Compute(model.NewSeries("X", "1h", candles))}.Result(model.KindOBV)
	require.True(t, ok)
	assert.Equal(t, 0.0, res.OBV.Value)
	assert.Equal(t, 0.0, res.OBV.ChangePct)
}
