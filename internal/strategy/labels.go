package strategy

import (
	"fmt"

	"MarketBrief/internal/calculator"
	"MarketBrief/internal/model"
)

// Label names.
const (
	LabelShortTrend    = "Short-term Trend"
	LabelSMACross      = "Long-term Trend"
	LabelPriceVsSMAs   = "Price relative to SMAs"
	LabelEMAShortTrend = "Short-term EMA Trend"
	LabelEMALongTrend  = "Long-term EMA Trend"
	LabelEMAAlert      = "Alert"
	LabelRSI           = "RSI Indication"
	LabelMACD          = "MACD Indication"
	LabelMACDStrength  = "MACD Strength"
	LabelMACDCrossover = "MACD Crossover"
	LabelBollinger     = "BB Indication"
	LabelOBV           = "OBV Indication"
	LabelVolatility    = "Volatility"
	LabelRangePosition = "Range Position"
)

const (
	GoldenCross = "Golden Cross"
	DeathCross  = "Death Cross"
)

// band labels a value strictly above High, strictly below Low, or in between.
type band struct {
	High, Low            float64
	Above, Within, Below string
}

func (b band) classify(v float64) string {
	switch {
	case v > b.High:
		return b.Above
	case v < b.Low:
		return b.Below
	default:
		return b.Within
	}
}

// step maps values strictly above Min to Text; steps are checked in order.
type step struct {
	Min  float64
	Text string
}

func classifySteps(v float64, steps []step, fallback string) string {
	for _, s := range steps {
		if v > s.Min {
			return s.Text
		}
	}
	return fallback
}

var rsiBand = band{
	High: 70, Low: 30,
	Above: "Overbought", Within: "Neutral", Below: "Oversold",
}

var obvBand = band{
	High: 5, Low: -5,
	Above:  "Strong buying pressure (OBV increasing)",
	Within: "Neutral volume pressure",
	Below:  "Strong selling pressure (OBV decreasing)",
}

var atrSteps = []step{
	{5, "High (ATR > 5% of price)"},
	{3, "Medium (ATR 3-5% of price)"},
}

const atrLow = "Low (ATR < 3% of price)"

// Ratios of EMA50/EMA200 inside which a cross is reported as forming.
const (
	approachBelow = 0.995
	approachAbove = 1.005
)

func avg(avgs []model.AverageValue, period int) (float64, bool) {
	for _, a := range avgs {
		if a.Period == period {
			return a.Value, true
		}
	}
	return 0, false
}

func trendText(fast, slow float64, fastN, slowN int) string {
	if fast > slow {
		return fmt.Sprintf("Bullish (%d above %d)", fastN, slowN)
	}
	return fmt.Sprintf("Bearish (%d below %d)", fastN, slowN)
}

func smaLabels(avgs []model.AverageValue, price float64) []model.Label {
	var labels []model.Label
	s7, ok7 := avg(avgs, 7)
	s20, ok20 := avg(avgs, 20)
	if ok7 && ok20 {
		labels = append(labels, model.Label{Name: LabelShortTrend, Text: trendText(s7, s20, 7, 20)})
	}
	s50, ok50 := avg(avgs, 50)
	s200, ok200 := avg(avgs, 200)
	if !ok50 || !ok200 {
		return labels
	}
	cross := DeathCross
	if s50 > s200 {
		cross = GoldenCross
	}
	labels = append(labels, model.Label{Name: LabelSMACross, Text: cross})

	var pos string
	switch {
	case price > s50 && price > s200:
		pos = "Strong bullish (Price above both 50 & 200 SMAs)"
	case price > s200:
		pos = "Moderately bullish (Price above 200 SMA but below 50 SMA)"
	case price > s50:
		pos = "Mixed signals (Price above 50 SMA but below 200 SMA)"
	default:
		pos = "Bearish (Price below both 50 & 200 SMAs)"
	}
	return append(labels, model.Label{Name: LabelPriceVsSMAs, Text: pos})
}

func emaLabels(avgs []model.AverageValue) []model.Label {
	var labels []model.Label
	e12, ok12 := avg(avgs, 12)
	e26, ok26 := avg(avgs, 26)
	if ok12 && ok26 {
		labels = append(labels, model.Label{Name: LabelEMAShortTrend, Text: trendText(e12, e26, 12, 26)})
	}
	e50, ok50 := avg(avgs, 50)
	e200, ok200 := avg(avgs, 200)
	if !ok50 || !ok200 {
		return labels
	}
	labels = append(labels, model.Label{Name: LabelEMALongTrend, Text: trendText(e50, e200, 50, 200)})

	ratio := e50 / e200
	if e200 == 0 {
		ratio = e50
	}
	switch {
	case e50 < e200 && ratio > approachBelow:
		labels = append(labels, model.Label{Name: LabelEMAAlert, Text: "Potential golden cross forming (50 EMA approaching 200 EMA from below)"})
	case e50 > e200 && ratio < approachAbove:
		labels = append(labels, model.Label{Name: LabelEMAAlert, Text: "Potential death cross forming (50 EMA approaching 200 EMA from above)"})
	}
	return labels
}

func rsiLabels(v float64) []model.Label {
	return []model.Label{{Name: LabelRSI, Text: rsiBand.classify(v)}}
}

func macdLabels(v *model.MACDValue) []model.Label {
	var labels []model.Label
	if v.MACD > v.Signal {
		labels = append(labels, model.Label{Name: LabelMACD, Text: "Bullish (MACD Line above Signal Line)"})
		strength := "Potential bullish crossover (below zero)"
		if v.MACD > 0 && v.Signal > 0 {
			strength = "Strong bullish momentum (both lines above zero)"
		}
		labels = append(labels, model.Label{Name: LabelMACDStrength, Text: strength})
	} else {
		labels = append(labels, model.Label{Name: LabelMACD, Text: "Bearish (MACD Line below Signal Line)"})
		strength := "Potential bearish crossover (above zero)"
		if v.MACD < 0 && v.Signal < 0 {
			strength = "Strong bearish momentum (both lines below zero)"
		}
		labels = append(labels, model.Label{Name: LabelMACDStrength, Text: strength})
	}
	if v.Crossover != "" {
		labels = append(labels, model.Label{Name: LabelMACDCrossover, Text: v.Crossover})
	}
	return labels
}

func bollingerLabels(v *model.BandsValue, price float64) []model.Label {
	text := "Within normal trading range"
	switch {
	case price > v.Upper:
		text = "Potentially overbought (price above upper band)"
	case price < v.Lower:
		text = "Potentially oversold (price below lower band)"
	}
	return []model.Label{{Name: LabelBollinger, Text: text}}
}

func obvLabels(changePct float64) []model.Label {
	return []model.Label{{Name: LabelOBV, Text: obvBand.classify(changePct)}}
}

func atrLabels(pct float64) []model.Label {
	return []model.Label{{Name: LabelVolatility, Text: classifySteps(pct, atrSteps, atrLow)}}
}

func levelLabels(v *model.LevelsValue, price float64) []model.Label {
	pos, err := calculator.RangePosition(price, v.Support, v.Resistance)
	if err != nil {
		return nil
	}
	return []model.Label{{Name: LabelRangePosition, Text: fmt.Sprintf("%.0f%% of the support-resistance range", pos*100)}}
}
