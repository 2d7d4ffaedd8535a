package report

import (
	"context"
	"log/slog"

	"github.com/roach88/bowtie/internal/result"
)

// LogReporter writes one record per case to a slog.Logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter that logs to logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

var _ result.Reporter = (*LogReporter)(nil)

func (l *LogReporter) GotResults(r result.CaseResult) {
	level := slog.LevelInfo
	if r.Failed() {
		level = slog.LevelWarn
	}
	u := r.Unsuccessful()
	l.logger.Log(context.Background(), level, "case completed",
		"implementation", r.Implementation,
		"seq", r.Seq,
		"tests", len(r.Results),
		"failed", u.Failed,
		"errored", u.Errored,
		"skipped", u.Skipped,
	)
}

func (l *LogReporter) CaseErrored(e result.CaseErrored) {
	l.logger.Warn("case errored",
		"implementation", e.Implementation,
		"seq", e.Seq,
		"caught", e.Caught,
		"reason", e.Reason(),
	)
}

func (l *LogReporter) Skipped(s result.CaseSkipped) {
	l.logger.Info("case skipped",
		"implementation", s.Implementation,
		"seq", s.Seq,
		"reason", s.Reason(),
	)
}

func (l *LogReporter) NoResponse(implementation string) {
	l.logger.Warn("no response", "implementation", implementation)
}

// Multi forwards every event to each reporter in order.
type Multi []result.Reporter

var _ result.Reporter = Multi(nil)

func (m Multi) GotResults(r result.CaseResult) {
	for _, rep := range m {
		rep.GotResults(r)
	}
}

func (m Multi) CaseErrored(e result.CaseErrored) {
	for _, rep := range m {
		rep.CaseErrored(e)
	}
}

func (m Multi) Skipped(s result.CaseSkipped) {
	for _, rep := range m {
		rep.Skipped(s)
	}
}

func (m Multi) NoResponse(implementation string) {
	for _, rep := range m {
		rep.NoResponse(implementation)
	}
}
