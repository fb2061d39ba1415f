package collector

import (
	"context"
	"fmt"
	"time"

	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
	"MarketBrief/internal/model"
)

// Snapshot is everything fetched for one run.
type Snapshot struct {
	Start, End time.Time
	Fetch      *model.FetchResult
	Sentiment  []model.SentimentPoint
	// SentimentErr is set when an optional sentiment fetch failed.
	SentimentErr error
}

// Series is a shorthand for Fetch.Series.
func (s *Snapshot) Series() *model.Series {
	if s == nil || s.Fetch == nil {
		return nil
	}
	return s.Fetch.Series
}

// Collector orchestrates the fetches of one run.
type Collector struct {
	Fetcher           SeriesFetcher
	Sentiment         SentimentSource
	Lookback          time.Duration
	PageLimit         int
	SentimentCount    int
	SentimentOptional bool

	now func() time.Time
	log *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(cfg *config.Config, fetcher SeriesFetcher, sentiment SentimentSource, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Get()
	}
	return &Collector{
		Fetcher:           fetcher,
		Sentiment:         sentiment,
		Lookback:          time.Duration(cfg.Binance.LookbackDays) * 24 * time.Hour,
		PageLimit:         cfg.Binance.PageLimit,
		SentimentCount:    cfg.Sentiment.Count,
		SentimentOptional: cfg.Sentiment.Optional,
		now:               time.Now,
		log:               log.With("component", "collector"),
	}
}

// Collect fetches the candle series for [now-lookback, now] and the sentiment
// readings. A series failure is always fatal; a sentiment failure is fatal
// unless SentimentOptional is set.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	end := c.now().UTC()
	start := end.Add(-c.Lookback)
	snap := &Snapshot{Start: start, End: end}

	c.log.Infow("fetching series", "source", c.Fetcher.Name(), "from", start.Format(time.RFC3339), "to", end.Format(time.RFC3339))
	res, err := c.Fetcher.FetchSeries(ctx, start, end, c.PageLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	snap.Fetch = res
	if last, ok := res.Series.Last(); ok {
		c.log.Infow("series range",
			"first", res.Series.At(0).Time().Format(time.RFC3339),
			"last", last.Time().Format(time.RFC3339),
			"candles", res.Series.Len())
	}

	if c.Sentiment == nil {
		return snap, nil
	}
	points, err := c.Sentiment.FetchSentiment(ctx, c.SentimentCount)
	if err != nil {
		if !c.SentimentOptional {
			return nil, fmt.Errorf("fetch sentiment: %w", err)
		}
		c.log.Warnw("sentiment unavailable, continuing without it", "error", err)
		snap.SentimentErr = err
		return snap, nil
	}
	snap.Sentiment = points
	return snap, nil
}
