package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/result"
	"github.com/roach88/bowtie/internal/testcase"
)

// Runner drives one started implementation.
type Runner struct {
	transport Transport
	codec     protocol.Codec
	settings  settings
	logger    *slog.Logger

	started protocol.Started
	dialect testcase.Dialect

	// mu guards tail and stopped. tail is closed when the most recently
	// queued exchange finishes; each exchange waits for its predecessor.
	mu      sync.Mutex
	tail    chan struct{}
	stopped bool

	// stopDone is closed once the first Stop has finished; stopErr is its
	// result.
	stopDone chan struct{}
	stopErr  error
}

var _ testcase.Runner = (*Runner)(nil)

// Start performs the handshake on transport: a Start command, then a Dialect
// command for dialect. The whole handshake is bounded by the start timeout.
//
// Errors are fatal for the stream: *SetupError wraps transport and protocol
// failures, protocol.VersionMismatchError and ErrImplementationNotReady;
// *DialectRefusedError means the implementation cannot run dialect.
func Start(ctx context.Context, transport Transport, codec protocol.Codec, dialect testcase.Dialect, opts ...Option) (*Runner, error) {
	s := newSettings(opts)
	tail := make(chan struct{})
	close(tail)
	r := &Runner{
		transport: transport,
		codec:     codec,
		settings:  s,
		logger:    s.logger,
		dialect:   dialect,
		tail:      tail,
		stopDone:  make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(ctx, s.startTimeout)
	defer cancel()

	started, err := roundTrip(ctx, r, protocol.StartV1)
	if err != nil {
		return nil, &SetupError{Phase: PhaseStart, Err: err}
	}
	r.started = started
	r.logger = s.logger.With("implementation", started.ID())
	r.logger.Debug("implementation started", "version", started.Version)

	if declared := started.Dialects(); len(declared) > 0 && !slices.Contains(declared, string(dialect)) {
		return nil, &DialectRefusedError{Implementation: started.ID(), Dialect: string(dialect)}
	}

	reply, err := roundTrip(ctx, r, protocol.Dialect{Dialect: string(dialect)})
	if err != nil {
		return nil, &SetupError{Phase: PhaseDialect, Err: err}
	}
	if !reply.OK {
		return nil, &DialectRefusedError{Implementation: started.ID(), Dialect: string(dialect)}
	}
	r.logger.Debug("dialect accepted", "dialect", dialect.ShortName())
	return r, nil
}

// roundTrip sends cmd and decodes the single reply.
func roundTrip[R any](ctx context.Context, r *Runner, cmd protocol.Command[R]) (R, error) {
	var zero R
	request, err := protocol.MarshalRequest(cmd, r.codec)
	if err != nil {
		return zero, err
	}
	if err := r.transport.Send(ctx, request); err != nil {
		return zero, fmt.Errorf("sending %s: %w", cmd.Name(), err)
	}
	raw, err := r.transport.Receive(ctx)
	if err != nil {
		return zero, fmt.Errorf("receiving %s response: %w", cmd.Name(), err)
	}
	return protocol.FromResponse(cmd, raw, r.codec)
}

// Implementation returns the metadata reported at start.
func (r *Runner) Implementation() protocol.Started { return r.started }

// ID returns the implementation's identifier.
func (r *Runner) ID() string { return r.started.ID() }

// Dialect returns the dialect negotiated at start.
func (r *Runner) Dialect() testcase.Dialect { return r.dialect }

// enqueue reserves the next exchange slot. The caller must wait on prev
// before touching the transport and close done afterwards. A final slot
// marks the runner stopped so nothing can queue behind it.
func (r *Runner) enqueue(final bool) (prev, done chan struct{}, stopped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return nil, nil, true
	}
	prev, done = r.tail, make(chan struct{})
	r.tail = done
	r.stopped = final
	return prev, done, false
}

// RunValidation sends run and resolves the returned future with the
// implementation's outcome. The future fails only for harness defects: an
// invalid request or a runner that was already stopped.
func (r *Runner) RunValidation(ctx context.Context, run protocol.Run, tests []testcase.Test) *result.Future {
	expected := testcase.Expected(tests)
	request, err := protocol.MarshalRequest(run, r.codec)
	if err != nil {
		return result.Rejected(err)
	}
	prev, done, stopped := r.enqueue(false)
	if stopped {
		return result.Rejected(ErrStopped)
	}

	future := result.NewFuture()
	go func() {
		defer close(done)
		<-prev
		future.Resolve(r.exchange(ctx, run, request, expected))
	}()
	return future
}

// Submit runs tc under the next number from the runner's sequence.
func (r *Runner) Submit(ctx context.Context, tc testcase.TestCase) *result.Future {
	return tc.Run(ctx, r.settings.seq.Next(), r)
}

func (r *Runner) exchange(ctx context.Context, run protocol.Run, request []byte, expected []result.Validity) result.CaseOutcome {
	id := r.started.ID()
	logger := r.logger.With("seq", run.Seq)
	uncaught := func(format string, args ...any) result.CaseOutcome {
		message := fmt.Sprintf(format, args...)
		logger.Warn("case errored", "error", message)
		return result.Uncaught(id, run.Seq, expected, map[string]any{"message": message})
	}

	if err := ctx.Err(); err != nil {
		return uncaught("not run: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.settings.runTimeout)
	defer cancel()

	if err := r.transport.Send(ctx, request); err != nil {
		return uncaught("sending run request: %v", err)
	}
	for {
		raw, err := r.transport.Receive(ctx)
		switch {
		case errors.Is(err, io.EOF):
			logger.Warn("no response")
			return result.NoResponse(id, run.Seq, expected)
		case errors.Is(err, context.DeadlineExceeded):
			return uncaught("timed out after %s", r.settings.runTimeout)
		case err != nil:
			return uncaught("receiving run response: %v", err)
		case len(raw) == 0:
			logger.Warn("empty response")
			return result.NoResponse(id, run.Seq, expected)
		}

		response, err := protocol.FromResponse(run, raw, r.codec)
		if err != nil {
			return uncaught("%v", err)
		}
		if response.Seq < run.Seq {
			// A late reply to an earlier case that timed out.
			logger.Debug("discarding stale response", "stale_seq", response.Seq)
			continue
		}
		if response.Seq != run.Seq {
			return uncaught("response seq %d does not match request seq %d", response.Seq, run.Seq)
		}
		outcome := response.Bind(id, expected)
		logger.Debug("case finished", "unsuccessful", outcome.Unsuccessful().String())
		return outcome
	}
}

// Stop waits for queued cases to finish, sends the Stop command, then
// closes the transport if it is an io.Closer. Cases submitted afterwards fail
// with ErrStopped.
//
// Only the first Stop does any work; later calls wait for it and return its
// result. A first Stop whose ctx ends before the queue drains is final: the
// command is never sent and every Stop reports that.
func (r *Runner) Stop(ctx context.Context) error {
	prev, done, stopped := r.enqueue(true)
	if stopped {
		select {
		case <-r.stopDone:
			return r.stopErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer close(done)

	r.stopErr = r.stop(ctx, prev)
	close(r.stopDone)
	return r.stopErr
}

func (r *Runner) stop(ctx context.Context, prev chan struct{}) error {
	select {
	case <-prev:
	case <-ctx.Done():
		r.logger.Warn("stop abandoned", "error", ctx.Err())
		return fmt.Errorf("stop abandoned before queued cases finished: %w", ctx.Err())
	}

	ctx, cancel := context.WithTimeout(ctx, r.settings.stopTimeout)
	defer cancel()
	request, err := protocol.MarshalRequest(protocol.StopCommand, r.codec)
	if err != nil {
		return err
	}
	sendErr := r.transport.Send(ctx, request)
	if closer, ok := r.transport.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			r.logger.Debug("closing transport", "error", err)
		}
	}
	if sendErr != nil {
		return fmt.Errorf("sending stop: %w", sendErr)
	}
	r.logger.Debug("implementation stopped")
	return nil
}
