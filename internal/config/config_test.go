package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "binance", cfg.DataSource.Provider)
	assert.Equal(t, "BTCUSDT", cfg.Binance.Symbol)
	assert.Equal(t, "4h", cfg.Binance.Interval)
	assert.Equal(t, 1000, cfg.Binance.PageLimit)
	assert.Equal(t, 120, cfg.Binance.LookbackDays)
	assert.Equal(t, 4, cfg.Sentiment.Count)
	assert.Equal(t, "latest", cfg.Analysis.Mode)
	assert.Equal(t, 5, cfg.Analysis.TrailingWindow)
	assert.Equal(t, 3900, cfg.Telegram.ChunkSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Telegram.ChunkPause)
	assert.Equal(t, "console", cfg.Output.Mode)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
binance:
  symbol: ETHUSDT
  interval: 1h
  http_timeout: 5s
analysis:
  mode: trailing
  trailing_window: 3
telegram:
  chat_id: 42
  chunk_pause: 250ms
`)
	t.Setenv("BINANCE_SYMBOL", "SOLUSDT")
	t.Setenv("AI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "SOLUSDT", cfg.Binance.Symbol, "env wins over file")
	assert.Equal(t, "1h", cfg.Binance.Interval)
	assert.Equal(t, 5*time.Second, cfg.Binance.HTTPTimeout)
	assert.Equal(t, "trailing", cfg.Analysis.Mode)
	assert.Equal(t, 3, cfg.Analysis.TrailingWindow)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, 250*time.Millisecond, cfg.Telegram.ChunkPause)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "binance: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		cfg.AI.APIKey = "sk-test"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "only prompt needs no key", mutate: func(c *Config) { c.AI.APIKey = ""; c.Output.OnlyPrompt = true }},
		{name: "missing key", mutate: func(c *Config) { c.AI.APIKey = "" }, wantErr: "ai.api_key"},
		{name: "bad mode", mutate: func(c *Config) { c.Analysis.Mode = "rolling" }, wantErr: "analysis.mode"},
		{name: "bad provider", mutate: func(c *Config) { c.DataSource.Provider = "kraken" }, wantErr: "data_source.provider"},
		{name: "page limit", mutate: func(c *Config) { c.Binance.PageLimit = 5000 }, wantErr: "binance.page_limit"},
		{name: "telegram without token", mutate: func(c *Config) { c.Output.Mode = "telegram"; c.Telegram.ChatID = 1 }, wantErr: "telegram.bot_token"},
		{name: "telegram without chat", mutate: func(c *Config) { c.Output.Mode = "telegram"; c.Telegram.BotToken = "t" }, wantErr: "telegram.chat_id"},
		{name: "chunk size", mutate: func(c *Config) { c.Telegram.ChunkSize = 5000 }, wantErr: "telegram.chunk_size"},
		{name: "proxy", mutate: func(c *Config) { c.Proxy = "http://127.0.0.1:7890" }},
		{name: "proxy without scheme", mutate: func(c *Config) { c.Proxy = "127.0.0.1:7890" }, wantErr: "proxy"},
		{name: "proxy bad escape", mutate: func(c *Config) { c.Proxy = "http://%zz" }, wantErr: "proxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPClient_Proxy(t *testing.T) {
	cfg := &Config{Proxy: "socks5://proxy.local:1080"}
	client, err := cfg.HTTPClient(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	req, err := http.NewRequest(http.MethodGet, "https://api.binance.com/api/v3/klines", nil)
	require.NoError(t, err)
	u, err := transport.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "socks5://proxy.local:1080", u.String())
}

func TestHTTPClient_NoProxy(t *testing.T) {
	client, err := (&Config{}).HTTPClient(0)
	require.NoError(t, err)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, transport.Proxy)
}

func TestHTTPClient_RejectsMalformedProxy(t *testing.T) {
	_, err := (&Config{Proxy: "proxy.local:1080"}).HTTPClient(0)
	assert.Error(t, err)
}
