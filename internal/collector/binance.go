package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
	"MarketBrief/internal/metrics"
	"MarketBrief/internal/model"
)

// DefaultPageLimit is the largest page the klines endpoint serves.
const DefaultPageLimit = 1000

// BinanceFetcher implements SeriesFetcher against the Binance klines endpoint.
// It walks the range page by page, each page starting one millisecond after
// the previous page's last close time.
type BinanceFetcher struct {
	BaseURL    string
	Symbol     string
	Interval   string
	MaxPages   int // 0 derives the cap from the range
	AllowEmpty bool
	Client     *http.Client

	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewBinanceFetcher creates a fetcher from the binance config section.
func NewBinanceFetcher(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*BinanceFetcher, error) {
	rpm := cfg.Binance.RequestsPerMinute
	if rpm <= 0 {
		rpm = 600
	}
	if log == nil {
		log = logger.Get()
	}
	client, err := cfg.HTTPClient(withDefaultTimeout(cfg.Binance.HTTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("binance client: %w", err)
	}
	return &BinanceFetcher{
		BaseURL:    strings.TrimRight(cfg.Binance.BaseURL, "/"),
		Symbol:     cfg.Binance.Symbol,
		Interval:   cfg.Binance.Interval,
		MaxPages:   cfg.Binance.MaxPages,
		AllowEmpty: cfg.Binance.AllowEmpty,
		Client:     client,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		metrics:    m,
		log:        log.With("component", "binance", "symbol", cfg.Binance.Symbol),
	}, nil
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchSeries retrieves every candle in [start, end].
//
// A failure on the first page is returned. A failure on a later page stops
// pagination and returns the candles gathered so far with Truncated set, as
// does reaching the page cap while the provider still returns full pages.
func (f *BinanceFetcher) FetchSeries(ctx context.Context, start, end time.Time, pageLimit int) (*model.FetchResult, error) {
	if pageLimit <= 0 || pageLimit > DefaultPageLimit {
		// the exchange silently caps larger limits at DefaultPageLimit
		pageLimit = DefaultPageLimit
	}
	if !end.After(start) {
		return nil, fmt.Errorf("fetch series: end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	step, err := ParseInterval(f.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	maxPages := f.MaxPages
	if maxPages <= 0 {
		maxPages = PageBudget(end.Sub(start), pageLimit, step)
	}

	endMs := end.UnixMilli()
	cursor := start.UnixMilli()
	res := &model.FetchResult{}
	var all []model.Candle

	for {
		if res.Pages >= maxPages {
			res.Truncated = true
			f.metrics.Truncated()
			f.log.Warnw("page cap reached, returning partial series", "pages", res.Pages, "candles", len(all))
			break
		}

		page, rows, err := f.fetchPage(ctx, cursor, endMs, pageLimit)
		if err != nil {
			if res.Pages == 0 || ctx.Err() != nil {
				return nil, err
			}
			res.Truncated = true
			res.TruncatedBy = err
			f.metrics.Truncated()
			f.log.Warnw("page fetch failed, returning partial series", "page", res.Pages+1, "candles", len(all), "error", err)
			break
		}
		res.Pages++
		f.metrics.PageFetched(f.Name())
		f.log.Debugw("page fetched", "page", res.Pages, "rows", rows, "candles", len(page))

		if len(page) == 0 {
			if res.Pages == 1 && !f.AllowEmpty {
				return nil, &EmptyResultError{Op: "fetch klines " + f.Symbol}
			}
			break
		}
		all = append(all, page...)
		// short rows are dropped after decoding, so page fullness is judged on raw rows
		if rows < pageLimit {
			break
		}

		next := nextPageStart(page[len(page)-1])
		if next >= endMs || next <= cursor {
			break
		}
		cursor = next
	}

	res.Series = model.NewSeries(f.Symbol, f.Interval, all)
	f.metrics.Candles(res.Series.Len())
	f.log.Infow("series fetched", "pages", res.Pages, "candles", res.Series.Len(), "truncated", res.Truncated)
	return res, nil
}

func nextPageStart(last model.Candle) int64 {
	if last.CloseTime > 0 {
		return last.CloseTime + 1
	}
	return last.OpenTime + 1
}

// fetchPage returns the decoded candles and the number of raw rows the
// provider sent, which includes rows skipped as too short.
func (f *BinanceFetcher) fetchPage(ctx context.Context, startMs, endMs int64, limit int) ([]model.Candle, int, error) {
	const op = "fetch klines"
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: rate limiter: %w", op, err)
	}

	q := url.Values{}
	q.Set("symbol", f.Symbol)
	q.Set("interval", f.Interval)
	q.Set("startTime", strconv.FormatInt(startMs, 10))
	q.Set("endTime", strconv.FormatInt(endMs, 10))
	q.Set("limit", strconv.Itoa(limit))
	endpoint := f.BaseURL + "/api/v3/klines?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, &TransportError{Op: op, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	candles, skipped, err := decodeKlines(body)
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		f.log.Debugw("skipped short kline rows", "count", skipped)
	}
	return candles, len(candles) + skipped, nil
}
