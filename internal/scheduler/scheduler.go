package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"MarketBrief/internal/logger"
	"MarketBrief/internal/pipeline"
)

// Runner executes one report run.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

const helpText = "Available commands:\n" +
	"/brief - fetch data, analyze and send a full report\n" +
	"/prompt - send the analyst prompt without calling the model\n" +
	"/help - show this message"

// Scheduler triggers runs from cron and from bot commands. Runs never
// overlap.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context

	mu  sync.Mutex
	log *logger.Logger
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, runner Runner, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Get()
	}
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Ctx:    ctx,
		log:    log.With("component", "scheduler"),
	}
}

// Register adds the report job under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scheduledRun); err != nil {
		return fmt.Errorf("register report task %q: %w", spec, err)
	}
	s.log.Infow("report task registered", "cron", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes a run immediately, waiting for any run in progress.
func (s *Scheduler) RunNow(opts pipeline.Options) (*pipeline.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Runner.Run(s.Ctx, opts)
}

func (s *Scheduler) scheduledRun() {
	s.log.Info("running scheduled report")
	if _, err := s.RunNow(pipeline.Options{}); err != nil {
		s.log.Errorw("scheduled report failed", "error", err)
	}
}

// HandleCommand processes a bot command and returns a reply. A successful
// run delivers its own output, so the reply is empty.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	var opts pipeline.Options
	switch command {
	case "/brief":
	case "/prompt":
		opts.OnlyPrompt = true
	default:
		return helpText
	}

	if !s.mu.TryLock() {
		return "⏳ A report is already running, try again shortly."
	}
	defer s.mu.Unlock()

	if _, err := s.Runner.Run(ctx, opts); err != nil {
		return fmt.Sprintf("❌ Report failed: %v", err)
	}
	return ""
}
