package result

import (
	"context"
	"sync"
)

// Future is a handle to a case outcome that is still being produced.
// It is resolved exactly once; later resolutions are ignored.
type Future struct {
	once    sync.Once
	done    chan struct{}
	outcome CaseOutcome
	err     error
}

// NewFuture returns an unresolved Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a Future that already holds outcome.
func Resolved(outcome CaseOutcome) *Future {
	f := NewFuture()
	f.Resolve(outcome)
	return f
}

// Rejected returns a Future that already holds err.
func Rejected(err error) *Future {
	f := NewFuture()
	f.Fail(err)
	return f
}

// Resolve completes the Future with an outcome.
func (f *Future) Resolve(outcome CaseOutcome) {
	f.once.Do(func() {
		f.outcome = outcome
		close(f.done)
	})
}

// Fail completes the Future with an error. Errors are reserved for harness
// defects; case-level problems are outcomes.
func (f *Future) Fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the Future is resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future is resolved or ctx is done.
func (f *Future) Await(ctx context.Context) (CaseOutcome, error) {
	select {
	case <-f.done:
		return f.outcome, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
