package recorder

import "time"

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunRecord describes one pipeline run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Symbol     string
	Interval   string
	Candles    int
	Pages      int
	Truncated  bool
	OnlyPrompt bool
	Status     string
	Error      string
	Report     string
	Reply      string
}

// Recorder journals runs. Nothing in the application reads the journal back.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
