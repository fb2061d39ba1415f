package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MarketBrief/internal/calculator"
	"MarketBrief/internal/model"
)

func labelText(labels []model.Label, name string) string {
	for _, l := range labels {
		if l.Name == name {
			return l.Text
		}
	}
	return ""
}

func TestRSILabels(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{85, "Overbought"},
		{70.01, "Overbought"},
		{70, "Neutral"},
		{50, "Neutral"},
		{30, "Neutral"},
		{29.99, "Oversold"},
		{0, "Oversold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, labelText(rsiLabels(tt.v), LabelRSI), "rsi=%v", tt.v)
	}
}

func TestATRLabels(t *testing.T) {
	assert.Contains(t, labelText(atrLabels(5.5), LabelVolatility), "High")
	assert.Contains(t, labelText(atrLabels(5), LabelVolatility), "Medium")
	assert.Contains(t, labelText(atrLabels(3.1), LabelVolatility), "Medium")
	assert.Contains(t, labelText(atrLabels(3), LabelVolatility), "Low")
}

func TestOBVLabels(t *testing.T) {
	assert.Contains(t, labelText(obvLabels(6), LabelOBV), "buying")
	assert.Contains(t, labelText(obvLabels(-6), LabelOBV), "selling")
	assert.Contains(t, labelText(obvLabels(5), LabelOBV), "Neutral")
}

func TestMACDLabels(t *testing.T) {
	labels := macdLabels(&model.MACDValue{MACDPoint: model.MACDPoint{MACD: 2, Signal: 1, Histogram: 1}, Crossover: calculator.CrossoverBullish})
	assert.Contains(t, labelText(labels, LabelMACD), "Bullish")
	assert.Contains(t, labelText(labels, LabelMACDStrength), "Strong bullish")
	assert.Equal(t, calculator.CrossoverBullish, labelText(labels, LabelMACDCrossover))

	labels = macdLabels(&model.MACDValue{MACDPoint: model.MACDPoint{MACD: 1, Signal: 2, Histogram: -1}})
	assert.Contains(t, labelText(labels, LabelMACD), "Bearish")
	assert.Contains(t, labelText(labels, LabelMACDStrength), "Potential bearish")
	assert.Empty(t, labelText(labels, LabelMACDCrossover))
}

func TestEMAApproachAlerts(t *testing.T) {
	avgs := func(e50, e200 float64) []model.AverageValue {
		return []model.AverageValue{{Period: 12, Value: 1}, {Period: 26, Value: 2}, {Period: 50, Value: e50}, {Period: 200, Value: e200}}
	}
	assert.Contains(t, labelText(emaLabels(avgs(99.8, 100)), LabelEMAAlert), "golden cross forming")
	assert.Contains(t, labelText(emaLabels(avgs(100.2, 100)), LabelEMAAlert), "death cross forming")
	assert.Empty(t, labelText(emaLabels(avgs(90, 100)), LabelEMAAlert))
	assert.Equal(t, "Bearish (12 below 26)", labelText(emaLabels(avgs(90, 100)), LabelEMAShortTrend))
}

func TestBollingerLabels(t *testing.T) {
	v := &model.BandsValue{BandPoint: model.BandPoint{Upper: 110, Middle: 100, Lower: 90}}
	assert.Contains(t, labelText(bollingerLabels(v, 111), LabelBollinger), "above upper")
	assert.Contains(t, labelText(bollingerLabels(v, 89), LabelBollinger), "below lower")
	assert.Contains(t, labelText(bollingerLabels(v, 100), LabelBollinger), "Within")
}
