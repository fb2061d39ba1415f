package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
)

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1704067200,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "Overall: Hold."}
  }],
  "usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.AI.BaseURL = baseURL
	cfg.AI.APIKey = "sk-test"
	cfg.AI.Model = "gpt-4o"
	cfg.AI.MaxTokens = 4096
	return cfg
}

func TestOpenAICompleter_Complete(t *testing.T) {
	var body []byte
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionJSON)
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(testConfig(srv.URL), logger.Nop())
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "analyze <historical_data>x</historical_data>")
	require.NoError(t, err)
	assert.Equal(t, "Overall: Hold.", out)

	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	req := gjson.ParseBytes(body)
	assert.Equal(t, "gpt-4o", req.Get("model").String())
	assert.Equal(t, int64(4096), req.Get("max_tokens").Int())
	assert.Equal(t, "user", req.Get("messages.0.role").String())
	assert.Contains(t, req.Get("messages.0.content").String(), "<historical_data>x</historical_data>")
}

func TestOpenAICompleter_Errors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"bad model","type":"invalid_request_error"}}`)
		}))
		defer srv.Close()

		c, err := NewOpenAICompleter(testConfig(srv.URL), logger.Nop())
		require.NoError(t, err)
		_, err = c.Complete(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat completion")
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`)
		}))
		defer srv.Close()

		c, err := NewOpenAICompleter(testConfig(srv.URL), logger.Nop())
		require.NoError(t, err)
		_, err = c.Complete(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := testConfig("http://localhost")
		cfg.AI.APIKey = ""
		_, err := NewOpenAICompleter(cfg, logger.Nop())
		assert.Error(t, err)
	})

	t.Run("malformed proxy", func(t *testing.T) {
		cfg := testConfig("http://localhost")
		cfg.Proxy = "socks://"
		_, err := NewOpenAICompleter(cfg, logger.Nop())
		assert.ErrorContains(t, err, "proxy")
	})
}
