package runner

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/bowtie/internal/report"
	"github.com/roach88/bowtie/internal/result"
	"github.com/roach88/bowtie/internal/testcase"
)

// Fleet runs the same cases against several started runners at once.
// Each runner sees the cases in order; runners proceed independently.
type Fleet struct {
	runners  []*Runner
	settings settings
	logger   *slog.Logger
}

// NewFleet groups runners. WithSequence, WithRunID and WithLogger apply;
// timeouts belong to the individual runners.
func NewFleet(runners []*Runner, opts ...Option) *Fleet {
	s := newSettings(opts)
	if s.runID == "" {
		s.runID = newRunID()
	}
	return &Fleet{
		runners:  runners,
		settings: s,
		logger:   s.logger.With("run_id", s.runID),
	}
}

// RunID identifies this fleet's run.
func (f *Fleet) RunID() string { return f.settings.runID }

// Run numbers each case once and submits it to every runner. Every outcome
// is added to the returned summary and forwarded to reporters, which must be
// safe for concurrent use.
//
// The error is non-nil only for harness defects or cancellation of ctx;
// the summary holds whatever completed.
func (f *Fleet) Run(ctx context.Context, cases []testcase.TestCase, reporters ...result.Reporter) (*report.Summary, error) {
	summary := report.NewSummary(f.RunID())
	seqs := make([]result.Seq, len(cases))
	for i := range cases {
		seqs[i] = f.settings.seq.Next()
	}
	f.logger.Info("run started", "implementations", len(f.runners), "cases", len(cases))

	sink := report.Multi(reporters)
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range f.runners {
		g.Go(func() error {
			for i, tc := range cases {
				outcome, err := tc.Run(ctx, seqs[i], r).Await(ctx)
				if err != nil {
					return err
				}
				summary.Add(outcome)
				outcome.Report(sink)
			}
			return nil
		})
	}
	err := g.Wait()
	f.logger.Info("run finished", "unsuccessful", summary.Total().String())
	return summary, err
}

// Stop stops every runner concurrently.
func (f *Fleet) Stop(ctx context.Context) error {
	var g errgroup.Group
	for _, r := range f.runners {
		g.Go(func() error { return r.Stop(ctx) })
	}
	return g.Wait()
}
