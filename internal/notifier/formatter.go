package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MarketBrief/internal/model"
)

// ReportInput is everything a report is assembled from.
type ReportInput struct {
	AssetName string
	Series    *model.Series
	Analysis  model.Analysis
	Sentiment []model.SentimentPoint
	// RecentCandles limits the raw candle section; 0 prints every candle.
	RecentCandles int
	// Truncated marks a series whose paged fetch stopped early.
	Truncated bool
}

const insufficient = "insufficient data"

// longAverageMin is the series length at which the 50 and 200 period
// averages are computed.
const longAverageMin = 200

// indicatorMinimums drives the placeholders for indicators the engine omitted.
var indicatorMinimums = []struct {
	Kind  model.IndicatorKind
	Title string
	Min   int
}{
	{model.KindSMA, "Simple Moving Averages", 20},
	{model.KindEMA, "Exponential Moving Averages", 20},
	{model.KindRSI, "RSI (14)", 14},
	{model.KindMACD, "MACD (12, 26, 9)", 35},
	{model.KindBollinger, "Bollinger Bands (20, 2)", 20},
	{model.KindOBV, "On Balance Volume (OBV)", 2},
	{model.KindATR, "Average True Range (ATR)", 14},
	{model.KindSupportResistance, "Support / Resistance", 1},
}

// FormatReport renders the report sections in a fixed order: summary
// statistics, recent candles, technical indicators, sentiment. Every result
// passed in is printed; sections without data get a placeholder.
func FormatReport(in ReportInput) string {
	var b strings.Builder
	asset := in.AssetName
	if asset == "" {
		asset = "Asset"
	}

	writeSummary(&b, asset, in)
	writeCandles(&b, asset, in)
	writeIndicators(&b, in.Analysis.Results)
	writeSentiment(&b, in.Sentiment)
	return b.String()
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func num(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

func writeSummary(b *strings.Builder, asset string, in ReportInput) {
	b.WriteString("=== SUMMARY STATISTICS ===\n")
	st := in.Analysis.Summary
	if st.Count == 0 {
		fmt.Fprintf(b, "%s: no candles\n", insufficient)
		return
	}
	if in.Series != nil {
		fmt.Fprintf(b, "%s %s (%s candles)\n", asset, in.Series.Symbol, in.Series.Interval)
	}
	fmt.Fprintf(b, "Period: %s to %s UTC (%d candles)\n", formatMillis(st.FirstOpenTime), formatMillis(st.LastOpenTime), st.Count)
	if in.Truncated {
		b.WriteString("Note: history is partial, the provider stopped returning pages early\n")
	}
	fmt.Fprintf(b, "First close: %s | Last close: %s | Change: %+.2f%%\n", money(st.FirstClose), money(st.LastClose), st.ChangePct)
	fmt.Fprintf(b, "High: %s | Low: %s | Mean close: %s\n", money(st.High), money(st.Low), money(st.MeanClose))
	fmt.Fprintf(b, "Average volume: %s | Total volume: %s\n", num(st.AvgVolume), num(st.TotalVolume))
	fmt.Fprintf(b, "Volatility (std dev of period returns): %.2f%%\n", st.ReturnStdDevPct)
}

func writeCandles(b *strings.Builder, asset string, in ReportInput) {
	fmt.Fprintf(b, "\n=== RECENT CANDLES ===\n")
	candles := in.Series.Tail(in.RecentCandles)
	if len(candles) == 0 {
		fmt.Fprintf(b, "%s: no candles\n", insufficient)
		return
	}
	fmt.Fprintf(b, "%s OHLC + Volume (%d shown)\n", asset, len(candles))
	b.WriteString("Date: Open, High, Low, Close, Volume\n")
	for _, c := range candles {
		fmt.Fprintf(b, "%s: O=%s H=%s L=%s C=%s V=%s\n",
			formatMillis(c.OpenTime), money(c.Open), money(c.High), money(c.Low), money(c.Close), num(c.Volume))
	}
}

func writeIndicators(b *strings.Builder, results []model.IndicatorResult) {
	b.WriteString("\n=== TECHNICAL INDICATORS ===\n")
	seen := make(map[model.IndicatorKind]bool, len(results))
	for _, r := range results {
		seen[r.Kind] = true
		writeResult(b, r)
	}
	for _, m := range indicatorMinimums {
		if !seen[m.Kind] {
			fmt.Fprintf(b, "\n%s: %s (needs at least %d candles)\n", m.Title, insufficient, m.Min)
		}
	}
}

func writeResult(b *strings.Builder, r model.IndicatorResult) {
	switch r.Kind {
	case model.KindSMA, model.KindEMA:
		title, short := "Simple Moving Averages", "SMA"
		if r.Kind == model.KindEMA {
			title, short = "Exponential Moving Averages", "EMA"
		}
		fmt.Fprintf(b, "\n%s:\n", title)
		for _, a := range r.Averages {
			fmt.Fprintf(b, "%s (%d-period): %s%s\n", short, a.Period, money(a.Value), trail(a.Trail, money))
		}
		if !hasPeriod(r.Averages, longAverageMin) {
			missing := short + " (50/200-period)"
			if r.Kind == model.KindSMA {
				missing += " and Golden/Death Cross"
			}
			fmt.Fprintf(b, "%s: %s (needs at least %d candles)\n", missing, insufficient, longAverageMin)
		}
	case model.KindRSI:
		if r.RSI != nil {
			fmt.Fprintf(b, "\nRSI (%d-period): %.2f%s\n", r.RSI.Period, r.RSI.Value, trail(r.RSI.Trail, fixed2))
		}
	case model.KindMACD:
		if v := r.MACD; v != nil {
			fmt.Fprintf(b, "\nMACD (%d, %d, %d):\n", v.Fast, v.Slow, v.SignalPeriod)
			fmt.Fprintf(b, "MACD Line: %.2f\nSignal Line: %.2f\nHistogram: %.2f\n", v.MACD, v.Signal, v.Histogram)
			if len(v.Trail) > 0 {
				hist := make([]float64, len(v.Trail))
				for i, p := range v.Trail {
					hist[i] = p.Histogram
				}
				fmt.Fprintf(b, "Histogram%s\n", trail(hist, fixed2))
			}
		}
	case model.KindBollinger:
		if v := r.Bands; v != nil {
			fmt.Fprintf(b, "\nBollinger Bands (%d, %g):\n", v.Period, v.K)
			fmt.Fprintf(b, "Upper Band: %s\nMiddle Band (SMA): %s\nLower Band: %s\n", money(v.Upper), money(v.Middle), money(v.Lower))
			fmt.Fprintf(b, "Price Position: %.1f%% of band width from lower band\n", v.PositionPct)
			if len(v.Trail) > 0 {
				mid := make([]float64, len(v.Trail))
				for i, p := range v.Trail {
					mid[i] = p.Middle
				}
				fmt.Fprintf(b, "Middle Band%s\n", trail(mid, money))
			}
		}
	case model.KindOBV:
		if v := r.OBV; v != nil {
			b.WriteString("\nOn Balance Volume (OBV):\n")
			fmt.Fprintf(b, "Current OBV: %s%s\n", humanize.FormatFloat("#,###.", v.Value), trail(v.Trail, num))
			fmt.Fprintf(b, "5-period OBV Change: %.2f%%\n", v.ChangePct)
		}
	case model.KindATR:
		if v := r.ATR; v != nil {
			b.WriteString("\nAverage True Range (ATR):\n")
			fmt.Fprintf(b, "%d-period ATR: %s%s\n", v.Period, money(v.Value), trail(v.Trail, money))
			fmt.Fprintf(b, "ATR as %% of price: %.2f%%\n", v.PercentOfPrice)
		}
	case model.KindSupportResistance:
		if v := r.Levels; v != nil {
			fmt.Fprintf(b, "\nSupport level: %s\nResistance level: %s\n", money(v.Support), money(v.Resistance))
		}
	default:
		fmt.Fprintf(b, "\n%s\n", r.Kind)
	}
	for _, l := range r.Labels {
		fmt.Fprintf(b, "%s: %s\n", l.Name, l.Text)
	}
}

func hasPeriod(avgs []model.AverageValue, period int) bool {
	for _, a := range avgs {
		if a.Period == period {
			return true
		}
	}
	return false
}

func fixed2(v float64) string { return fmt.Sprintf("%.2f", v) }

// trail renders " (last N: a, b, c)" or nothing for an empty trail.
func trail(values []float64, f func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = f(v)
	}
	return fmt.Sprintf(" (last %d: %s)", len(values), strings.Join(parts, ", "))
}

func writeSentiment(b *strings.Builder, points []model.SentimentPoint) {
	b.WriteString("\n=== FEAR & GREED INDEX ===\n")
	if len(points) == 0 {
		fmt.Fprintf(b, "%s: sentiment unavailable\n", insufficient)
		return
	}
	b.WriteString("Date: Index classification - Index value\n")
	for _, p := range points {
		date := "unknown date"
		if t := p.Time(); !t.IsZero() {
			date = t.Format("2006-01-02")
		}
		fmt.Fprintf(b, "%s: %s - %s\n", date, p.Classification, p.Value)
	}
}

// digestCandles is how many of the newest candles head a delivered analysis.
const digestCandles = 3

// FormatDigest prefixes the model's analysis with the newest candles, the
// indicator readings and the sentiment, so the delivered text stands alone.
func FormatDigest(in ReportInput, analysis string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== LAST %d CANDLES ===\n", digestCandles)
	candles := in.Series.Tail(digestCandles)
	if len(candles) == 0 {
		b.WriteString("No data points available.\n")
	}
	for _, c := range candles {
		fmt.Fprintf(&b, "%s: O=%s H=%s L=%s C=%s V=%s\n",
			formatMillis(c.OpenTime), money(c.Open), money(c.High), money(c.Low), money(c.Close), num(c.Volume))
	}

	b.WriteString("\n=== TECHNICAL ANALYSIS SUMMARY ===\n")
	n := 0
	for _, r := range in.Analysis.Results {
		for _, l := range r.Labels {
			fmt.Fprintf(&b, "%s: %s\n", l.Name, l.Text)
			n++
		}
	}
	if n == 0 {
		fmt.Fprintf(&b, "%s\n", insufficient)
	}

	b.WriteString("\n=== FEAR AND GREED INDEX ===\n")
	if len(in.Sentiment) == 0 {
		b.WriteString("Sentiment unavailable.\n")
	}
	for _, p := range in.Sentiment {
		fmt.Fprintf(&b, "%s - %s\n", p.Classification, p.Value)
	}

	b.WriteString("\n=== AI ANALYSIS ===\n")
	b.WriteString(strings.TrimSpace(analysis))
	b.WriteString("\n")
	return b.String()
}
