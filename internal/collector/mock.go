package collector

import (
	"context"
	"math"
	"strconv"
	"time"

	"MarketBrief/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With Candles nil it synthesizes a gently oscillating series covering the
// requested range.
type MockFetcher struct {
	Symbol   string
	Interval string
	Price    float64
	Candles  []model.Candle
	Err      error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, start, end time.Time, _ int) (*model.FetchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	candles := m.Candles
	if candles == nil {
		step, err := ParseInterval(m.Interval)
		if err != nil {
			step = 4 * time.Hour
		}
		candles = generateMockCandles(m.Price, start, end, step)
	}
	return &model.FetchResult{
		Series: model.NewSeries(m.Symbol, m.Interval, candles),
		Pages:  1,
	}, nil
}

func generateMockCandles(basePrice float64, start, end time.Time, step time.Duration) []model.Candle {
	if basePrice <= 0 {
		basePrice = 100
	}
	var candles []model.Candle
	for i, t := 0, start; t.Before(end); i, t = i+1, t.Add(step) {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/12) + float64(i)*0.0005)
		candles = append(candles, model.Candle{
			OpenTime:  t.UnixMilli(),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000 + float64(i%7)*100,
			CloseTime: t.Add(step).UnixMilli() - 1,
		})
	}
	return candles
}

// MockSentiment returns fixed sentiment readings.
type MockSentiment struct {
	Points []model.SentimentPoint
	Err    error
}

func (m *MockSentiment) FetchSentiment(_ context.Context, count int) ([]model.SentimentPoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	pts := m.Points
	if pts == nil {
		now := time.Now().UTC().Truncate(24 * time.Hour)
		for i := 0; i < count; i++ {
			pts = append(pts, model.SentimentPoint{
				Timestamp:      strconv.FormatInt(now.AddDate(0, 0, -i).Unix(), 10),
				Value:          "50",
				Classification: "Neutral",
			})
		}
	}
	if count > 0 && len(pts) > count {
		pts = pts[:count]
	}
	return pts, nil
}
