package model

// IndicatorKind tags the payload carried by an IndicatorResult.
type IndicatorKind string

const (
	KindSMA               IndicatorKind = "SMA"
	KindEMA               IndicatorKind = "EMA"
	KindRSI               IndicatorKind = "RSI"
	KindMACD              IndicatorKind = "MACD"
	KindBollinger         IndicatorKind = "BollingerBands"
	KindOBV               IndicatorKind = "OBV"
	KindATR               IndicatorKind = "ATR"
	KindSupportResistance IndicatorKind = "SupportResistance"
)

// Label is a qualitative reading attached to an indicator, e.g.
// {Name: "RSI Indication", Text: "Overbought"}.
type Label struct {
	Name string
	Text string
}

// AverageValue is one window of a moving-average family.
type AverageValue struct {
	Period int
	Value  float64
	Trail  []float64
}

type RSIValue struct {
	Period int
	Value  float64
	Trail  []float64
}

// MACDPoint is one period of MACD output.
type MACDPoint struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

type MACDValue struct {
	Fast, Slow, SignalPeriod int
	MACDPoint
	// Crossover is "Bullish crossover", "Bearish crossover" or "".
	Crossover string
	Trail     []MACDPoint
}

// BandPoint is one period of Bollinger output.
type BandPoint struct {
	Upper  float64
	Middle float64
	Lower  float64
}

type BandsValue struct {
	Period int
	K      float64
	BandPoint
	PositionPct float64 // price position inside the band, 0 = lower, 100 = upper
	Trail       []BandPoint
}

type OBVValue struct {
	Value     float64
	ChangePct float64 // change across the last five periods
	Trail     []float64
}

type ATRValue struct {
	Period         int
	Value          float64
	PercentOfPrice float64
	Trail          []float64
}

type LevelsValue struct {
	Support    float64
	Resistance float64
}

// IndicatorResult is a tagged union: exactly the payload matching Kind is set
// (Averages for SMA and EMA). Results are never mutated after creation.
type IndicatorResult struct {
	Kind     IndicatorKind
	Averages []AverageValue
	RSI      *RSIValue
	MACD     *MACDValue
	Bands    *BandsValue
	OBV      *OBVValue
	ATR      *ATRValue
	Levels   *LevelsValue
	Labels   []Label
}

// Average returns the window with the given period.
func (r IndicatorResult) Average(period int) (AverageValue, bool) {
	for _, a := range r.Averages {
		if a.Period == period {
			return a, true
		}
	}
	return AverageValue{}, false
}

// Label returns the text of the named label.
func (r IndicatorResult) Label(name string) (string, bool) {
	for _, l := range r.Labels {
		if l.Name == name {
			return l.Text, true
		}
	}
	return "", false
}

// SummaryStats holds whole-series statistics printed at the top of a report.
type SummaryStats struct {
	Count           int
	FirstOpenTime   int64
	LastOpenTime    int64
	FirstClose      float64
	LastClose       float64
	High            float64
	Low             float64
	MeanClose       float64
	ChangePct       float64
	AvgVolume       float64
	TotalVolume     float64
	ReturnStdDevPct float64 // standard deviation of per-period close returns
}

// Analysis is the engine output handed to the report formatter.
type Analysis struct {
	Summary SummaryStats
	Results []IndicatorResult
}

// Result returns the first result of the given kind.
func (a Analysis) Result(kind IndicatorKind) (IndicatorResult, bool) {
	for _, r := range a.Results {
		if r.Kind == kind {
			return r, true
		}
	}
	return IndicatorResult{}, false
}
