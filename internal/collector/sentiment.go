package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
	"MarketBrief/internal/model"
)

// DefaultSentimentCount is how many daily readings a report shows.
const DefaultSentimentCount = 4

// FearGreedFetcher reads the alternative.me Fear & Greed index.
type FearGreedFetcher struct {
	BaseURL string
	Client  *http.Client
	log     *logger.Logger
}

func NewFearGreedFetcher(cfg *config.Config, log *logger.Logger) (*FearGreedFetcher, error) {
	if log == nil {
		log = logger.Get()
	}
	client, err := cfg.HTTPClient(withDefaultTimeout(cfg.Sentiment.Timeout))
	if err != nil {
		return nil, fmt.Errorf("fear & greed client: %w", err)
	}
	return &FearGreedFetcher{
		BaseURL: strings.TrimRight(cfg.Sentiment.BaseURL, "/"),
		Client:  client,
		log:     log.With("component", "fear_greed"),
	}, nil
}

// FetchSentiment returns up to count readings, newest first as the provider
// orders them.
func (f *FearGreedFetcher) FetchSentiment(ctx context.Context, count int) ([]model.SentimentPoint, error) {
	const op = "fetch fear & greed"
	if count <= 0 {
		count = DefaultSentimentCount
	}
	endpoint := f.BaseURL + "/fng/?limit=" + strconv.Itoa(count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	points, err := decodeSentiment(op, body)
	if err != nil {
		return nil, err
	}
	f.log.Debugw("sentiment fetched", "points", len(points))
	return points, nil
}

// decodeSentiment parses {data:[{value, value_classification, timestamp}], metadata:{error}}.
func decodeSentiment(op string, body []byte) ([]model.SentimentPoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Op: op, Err: errors.New("invalid json")}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("top level is %s, want object", root.Type)}
	}
	if msg := root.Get("metadata.error"); msg.Type == gjson.String && strings.TrimSpace(msg.Str) != "" {
		return nil, &ProviderError{Op: op, Message: msg.Str}
	}

	data := root.Get("data")
	if !data.IsArray() {
		return nil, &DecodeError{Op: op, Err: errors.New("data is missing or not an array")}
	}
	var points []model.SentimentPoint
	for _, item := range data.Array() {
		if !item.IsObject() {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("data item is %s, want object", item.Type)}
		}
		points = append(points, model.SentimentPoint{
			Timestamp:      item.Get("timestamp").String(),
			Value:          item.Get("value").String(),
			Classification: item.Get("value_classification").String(),
		})
	}
	return points, nil
}
