package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
//
// Values are layered: YAML file, then .env, then environment variables
// (envconfig keys are SECTION_FIELD, or the explicit tag), then defaults.
type Config struct {
	DataSource struct {
		// Provider is "binance" or "mock".
		Provider string `yaml:"provider" envconfig:"DATA_PROVIDER"`
	} `yaml:"data_source"`
	Binance struct {
		BaseURL           string        `yaml:"base_url" envconfig:"BINANCE_BASE_URL"`
		Symbol            string        `yaml:"symbol" envconfig:"BINANCE_SYMBOL"`
		Interval          string        `yaml:"interval" envconfig:"BINANCE_INTERVAL"`
		PageLimit         int           `yaml:"page_limit" envconfig:"BINANCE_PAGE_LIMIT"`
		LookbackDays      int           `yaml:"lookback_days" envconfig:"BINANCE_LOOKBACK_DAYS"`
		RequestsPerMinute int           `yaml:"requests_per_minute" envconfig:"BINANCE_REQUESTS_PER_MINUTE"`
		MaxPages          int           `yaml:"max_pages" envconfig:"BINANCE_MAX_PAGES"`
		AllowEmpty        bool          `yaml:"allow_empty" envconfig:"BINANCE_ALLOW_EMPTY"`
		HTTPTimeout       time.Duration `yaml:"http_timeout" envconfig:"BINANCE_HTTP_TIMEOUT"`
	} `yaml:"binance"`
	Sentiment struct {
		BaseURL  string        `yaml:"base_url" envconfig:"SENTIMENT_BASE_URL"`
		Count    int           `yaml:"count" envconfig:"SENTIMENT_COUNT"`
		Optional bool          `yaml:"optional" envconfig:"SENTIMENT_OPTIONAL"`
		Timeout  time.Duration `yaml:"timeout" envconfig:"SENTIMENT_TIMEOUT"`
	} `yaml:"sentiment"`
	Analysis struct {
		// Mode is "latest" or "trailing".
		Mode           string `yaml:"mode" envconfig:"ANALYSIS_MODE"`
		TrailingWindow int    `yaml:"trailing_window" envconfig:"ANALYSIS_TRAILING_WINDOW"`
	} `yaml:"analysis"`
	Report struct {
		RecentCandles int    `yaml:"recent_candles" envconfig:"REPORT_RECENT_CANDLES"`
		AssetName     string `yaml:"asset_name" envconfig:"REPORT_ASSET_NAME"`
	} `yaml:"report"`
	AI struct {
		BaseURL   string        `yaml:"base_url" envconfig:"AI_BASE_URL"`
		APIKey    string        `yaml:"api_key" envconfig:"AI_API_KEY"`
		Model     string        `yaml:"model" envconfig:"AI_MODEL"`
		MaxTokens int           `yaml:"max_tokens" envconfig:"AI_MAX_TOKENS"`
		Timeout   time.Duration `yaml:"timeout" envconfig:"AI_TIMEOUT"`
	} `yaml:"ai"`
	Output struct {
		// Mode is "console" or "telegram".
		Mode       string `yaml:"mode" envconfig:"OUTPUT_FORMAT"`
		OnlyPrompt bool   `yaml:"only_prompt" envconfig:"ONLY_PROMPT"`
	} `yaml:"output"`
	Telegram struct {
		BotToken    string        `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID      int64         `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
		ChunkSize   int           `yaml:"chunk_size" envconfig:"TELEGRAM_CHUNK_SIZE"`
		ChunkPause  time.Duration `yaml:"chunk_pause" envconfig:"TELEGRAM_CHUNK_PAUSE"`
		PollTimeout int           `yaml:"poll_timeout" envconfig:"TELEGRAM_POLL_TIMEOUT"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron       string `yaml:"cron" envconfig:"CRON_SCHEDULE"`
		RunOnStart bool   `yaml:"run_on_start" envconfig:"RUN_ON_START"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr" envconfig:"METRICS_ADDR"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level" envconfig:"LOG_LEVEL"`
		Env   string `yaml:"env" envconfig:"APP_ENV"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "binance"
	}
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://api.binance.com"
	}
	if c.Binance.Symbol == "" {
		c.Binance.Symbol = "BTCUSDT"
	}
	if c.Binance.Interval == "" {
		c.Binance.Interval = "4h"
	}
	if c.Binance.PageLimit == 0 {
		c.Binance.PageLimit = 1000
	}
	if c.Binance.LookbackDays == 0 {
		c.Binance.LookbackDays = 120
	}
	if c.Binance.RequestsPerMinute == 0 {
		c.Binance.RequestsPerMinute = 600
	}
	if c.Binance.HTTPTimeout == 0 {
		c.Binance.HTTPTimeout = 30 * time.Second
	}
	if c.Sentiment.BaseURL == "" {
		c.Sentiment.BaseURL = "https://api.alternative.me"
	}
	if c.Sentiment.Count == 0 {
		c.Sentiment.Count = 4
	}
	if c.Sentiment.Timeout == 0 {
		c.Sentiment.Timeout = 30 * time.Second
	}
	if c.Analysis.Mode == "" {
		c.Analysis.Mode = "latest"
	}
	if c.Analysis.TrailingWindow == 0 {
		c.Analysis.TrailingWindow = 5
	}
	if c.Report.AssetName == "" {
		c.Report.AssetName = "Bitcoin"
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://api.openai.com/v1/"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o"
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 4096
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 2 * time.Minute
	}
	if c.Output.Mode == "" {
		c.Output.Mode = "console"
	}
	if c.Telegram.ChunkSize == 0 {
		c.Telegram.ChunkSize = 3900
	}
	if c.Telegram.ChunkPause == 0 {
		c.Telegram.ChunkPause = 500 * time.Millisecond
	}
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = 30
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 8 * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
}

// Validate checks that all required fields are set and enumerations are known.
func (c *Config) Validate() error {
	var errs []error
	switch c.DataSource.Provider {
	case "binance", "mock":
	default:
		errs = append(errs, fmt.Errorf("data_source.provider %q: want binance or mock", c.DataSource.Provider))
	}
	if c.Binance.Symbol == "" {
		errs = append(errs, errors.New("binance.symbol is required"))
	}
	if c.Binance.PageLimit <= 0 || c.Binance.PageLimit > 1000 {
		errs = append(errs, fmt.Errorf("binance.page_limit %d: must be in 1..1000", c.Binance.PageLimit))
	}
	if c.Binance.LookbackDays <= 0 {
		errs = append(errs, errors.New("binance.lookback_days must be positive"))
	}
	if c.Binance.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("binance.requests_per_minute must be positive"))
	}
	if c.Binance.MaxPages < 0 {
		errs = append(errs, errors.New("binance.max_pages must not be negative"))
	}
	if c.Sentiment.Count <= 0 {
		errs = append(errs, errors.New("sentiment.count must be positive"))
	}
	switch c.Analysis.Mode {
	case "latest", "trailing":
	default:
		errs = append(errs, fmt.Errorf("analysis.mode %q: want latest or trailing", c.Analysis.Mode))
	}
	if c.Analysis.TrailingWindow <= 0 {
		errs = append(errs, errors.New("analysis.trailing_window must be positive"))
	}
	if c.Report.RecentCandles < 0 {
		errs = append(errs, errors.New("report.recent_candles must not be negative"))
	}
	switch c.Output.Mode {
	case "console":
	case "telegram":
		if c.Telegram.BotToken == "" {
			errs = append(errs, errors.New("telegram.bot_token is required for telegram output"))
		}
		if c.Telegram.ChatID == 0 {
			errs = append(errs, errors.New("telegram.chat_id is required for telegram output"))
		}
	default:
		errs = append(errs, fmt.Errorf("output.mode %q: want console or telegram", c.Output.Mode))
	}
	if c.Telegram.ChunkSize <= 0 || c.Telegram.ChunkSize > 4096 {
		errs = append(errs, fmt.Errorf("telegram.chunk_size %d: must be in 1..4096", c.Telegram.ChunkSize))
	}
	if _, err := ParseProxy(c.Proxy); err != nil {
		errs = append(errs, err)
	}
	if !c.Output.OnlyPrompt && c.AI.APIKey == "" {
		errs = append(errs, errors.New("ai.api_key is required unless output.only_prompt is set"))
	}
	return errors.Join(errs...)
}
