package collector

import (
	"context"
	"time"

	"MarketBrief/internal/model"
)

// SeriesFetcher retrieves a merged candle series for a time range.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, start, end time.Time, pageLimit int) (*model.FetchResult, error)
	Name() string
}

// SentimentSource retrieves the most recent sentiment readings.
type SentimentSource interface {
	FetchSentiment(ctx context.Context, count int) ([]model.SentimentPoint, error)
}

const defaultHTTPTimeout = 30 * time.Second

func withDefaultTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultHTTPTimeout
	}
	return d
}

const maxErrorBody = 512

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
