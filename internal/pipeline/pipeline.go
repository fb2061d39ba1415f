// Package pipeline runs one report end to end: collect, analyze, assemble,
// prompt, complete and deliver.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"MarketBrief/internal/ai"
	"MarketBrief/internal/collector"
	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
	"MarketBrief/internal/metrics"
	"MarketBrief/internal/model"
	"MarketBrief/internal/notifier"
	"MarketBrief/internal/prompt"
	"MarketBrief/internal/recorder"
	"MarketBrief/internal/strategy"
)

// Collector fetches the data of one run.
type Collector interface {
	Collect(ctx context.Context) (*collector.Snapshot, error)
}

// Options adjust a single run.
type Options struct {
	// OnlyPrompt delivers the prompt instead of calling the completer.
	OnlyPrompt bool
}

// Result is what a successful run produced.
type Result struct {
	RunID     string
	Snapshot  *collector.Snapshot
	Analysis  model.Analysis
	Report    string
	Prompt    string
	Reply     string // empty for prompt-only runs
	Delivered string
}

// Runner wires the stages of a run. Runs are strictly sequential; callers
// serialize concurrent Run calls.
type Runner struct {
	Collector     Collector
	Engine        *strategy.Engine
	Completer     ai.Completer
	Deliverer     notifier.Deliverer
	Recorder      recorder.Recorder
	Metrics       *metrics.Metrics
	AssetName     string
	RecentCandles int
	OnlyPrompt    bool

	now func() time.Time
	log *logger.Logger
}

// NewRunner creates a Runner. completer may be nil when only prompts are
// delivered; rec may be nil to disable the journal.
func NewRunner(cfg *config.Config, col Collector, completer ai.Completer, deliverer notifier.Deliverer,
	rec recorder.Recorder, m *metrics.Metrics, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Get()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{
		Collector:     col,
		Engine:        strategy.NewEngine(strategy.Mode(cfg.Analysis.Mode), cfg.Analysis.TrailingWindow),
		Completer:     completer,
		Deliverer:     deliverer,
		Recorder:      rec,
		Metrics:       m,
		AssetName:     cfg.Report.AssetName,
		RecentCandles: cfg.Report.RecentCandles,
		OnlyPrompt:    cfg.Output.OnlyPrompt,
		now:           time.Now,
		log:           log.With("component", "pipeline"),
	}
}

// Run executes one report. Any failure aborts the run before delivery; the
// outcome is journaled and counted either way.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := r.log.With("run_id", res.RunID)
	onlyPrompt := opts.OnlyPrompt || r.OnlyPrompt
	started := r.now()

	log.Infow("run started", "only_prompt", onlyPrompt)
	err := r.run(ctx, res, onlyPrompt, log)
	elapsed := r.now().Sub(started)

	status := recorder.StatusOK
	if err != nil {
		status = recorder.StatusFailed
		log.Errorw("run failed", "error", err, "elapsed", elapsed)
	} else {
		log.Infow("run finished", "elapsed", elapsed)
	}
	r.Metrics.RunFinished(status, elapsed)
	r.record(res, started, onlyPrompt, status, err, log)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, res *Result, onlyPrompt bool, log *logger.Logger) error {
	snap, err := r.Collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	res.Snapshot = snap

	series := snap.Series()
	res.Analysis = r.Engine.Analyze(series)
	log.Infow("analysis complete", "candles", series.Len(), "indicators", len(res.Analysis.Results))

	in := notifier.ReportInput{
		AssetName:     r.AssetName,
		Series:        series,
		Analysis:      res.Analysis,
		Sentiment:     snap.Sentiment,
		RecentCandles: r.RecentCandles,
		Truncated:     snap.Fetch != nil && snap.Fetch.Truncated,
	}
	res.Report = notifier.FormatReport(in)
	res.Prompt = prompt.Build(r.AssetName, res.Report)

	if onlyPrompt {
		res.Delivered = res.Prompt
		return r.deliver(ctx, r.AssetName+" Analysis Prompt", res.Delivered)
	}

	if r.Completer == nil {
		return errors.New("no completer configured")
	}
	reply, err := r.Completer.Complete(ctx, res.Prompt)
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	res.Reply = reply
	res.Delivered = notifier.FormatDigest(in, reply)
	return r.deliver(ctx, r.AssetName+" Trading Analysis", res.Delivered)
}

func (r *Runner) deliver(ctx context.Context, title, body string) error {
	if err := r.Deliverer.Deliver(ctx, title, body); err != nil {
		return fmt.Errorf("deliver: %w", err)
	}
	return nil
}

func (r *Runner) record(res *Result, started time.Time, onlyPrompt bool, status string, runErr error, log *logger.Logger) {
	rec := &recorder.RunRecord{
		RunID:      res.RunID,
		StartedAt:  started,
		FinishedAt: r.now(),
		OnlyPrompt: onlyPrompt,
		Status:     status,
		Report:     res.Report,
		Reply:      res.Reply,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if f := res.Snapshot; f != nil && f.Fetch != nil {
		s := f.Fetch.Series
		if s != nil {
			rec.Symbol, rec.Interval, rec.Candles = s.Symbol, s.Interval, s.Len()
		}
		rec.Pages = f.Fetch.Pages
		rec.Truncated = f.Fetch.Truncated
	}
	if err := r.Recorder.RecordRun(rec); err != nil {
		log.Errorw("record run", "error", err)
	}
}
