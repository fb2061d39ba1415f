package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketBrief/internal/ai"
	"MarketBrief/internal/collector"
	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
	"MarketBrief/internal/metrics"
	"MarketBrief/internal/notifier"
	"MarketBrief/internal/pipeline"
	"MarketBrief/internal/recorder"
	"MarketBrief/internal/scheduler"
)

func main() {
	cfgPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to the YAML config file")
	onlyPrompt := flag.Bool("only-prompt", false, "deliver the analyst prompt instead of calling the model")
	daemon := flag.Bool("daemon", false, "stay running: cron schedule, Telegram commands and /metrics")
	flag.Parse()

	if err := run(*cfgPath, *onlyPrompt, *daemon); err != nil {
		fmt.Fprintf(os.Stderr, "marketbrief: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, onlyPrompt, daemon bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if onlyPrompt {
		cfg.Output.OnlyPrompt = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()
	log.Infow("MarketBrief starting", "symbol", cfg.Binance.Symbol, "interval", cfg.Binance.Interval, "daemon", daemon)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Init data sources
	var (
		fetcher   collector.SeriesFetcher
		sentiment collector.SentimentSource
	)
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Symbol: cfg.Binance.Symbol, Interval: cfg.Binance.Interval, Price: 42000}
		sentiment = &collector.MockSentiment{}
	default:
		bf, err := collector.NewBinanceFetcher(cfg, m, log)
		if err != nil {
			return err
		}
		fg, err := collector.NewFearGreedFetcher(cfg, log)
		if err != nil {
			return err
		}
		fetcher, sentiment = bf, fg
	}
	log.Infow("data source selected", "source", fetcher.Name())
	col := collector.NewCollector(cfg, fetcher, sentiment, log)

	var completer ai.Completer
	if !cfg.Output.OnlyPrompt {
		c, err := ai.NewOpenAICompleter(cfg, log)
		if err != nil {
			return fmt.Errorf("init completer: %w", err)
		}
		completer = c
	}

	// Telegram is needed for telegram output and for commands in daemon mode.
	var bot *tgbotapi.BotAPI
	if cfg.Telegram.BotToken != "" && (cfg.Output.Mode == "telegram" || daemon) {
		bot, err = notifier.NewTelegramBot(cfg)
		if err != nil {
			return err
		}
		log.Infow("telegram bot authorized", "username", bot.Self.UserName)
	}

	var deliverer notifier.Deliverer = notifier.NewConsoleDeliverer(os.Stdout)
	if cfg.Output.Mode == "telegram" {
		deliverer = notifier.NewTelegramDeliverer(bot, cfg, log)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warnw("init sqlite recorder failed, using noop", "error", err)
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	runner := pipeline.NewRunner(cfg, col, completer, deliverer, rec, m, log)

	if !daemon {
		_, err := runner.Run(ctx, pipeline.Options{})
		return err
	}
	return runDaemon(ctx, cfg, runner, bot, reg, log)
}

func runDaemon(ctx context.Context, cfg *config.Config, runner *pipeline.Runner, bot *tgbotapi.BotAPI,
	reg *prometheus.Registry, log *logger.Logger) error {
	sched := scheduler.NewScheduler(ctx, runner, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Infow("metrics server listening", "addr", cfg.Metrics.Addr)
	}

	if bot != nil {
		poller := notifier.NewPoller(bot, cfg.Telegram.ChatID, cfg.Telegram.PollTimeout, log)
		go poller.Run(ctx, sched.HandleCommand)
	}

	if cfg.Schedule.RunOnStart {
		log.Info("run_on_start enabled, executing report now")
		go func() {
			if _, err := sched.RunNow(pipeline.Options{}); err != nil {
				log.Errorw("startup report failed", "error", err)
			}
		}()
	}

	log.Info("MarketBrief is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping...")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
