package testutil

import (
	"sync"

	"github.com/roach88/bowtie/internal/result"
)

// RecordingReporter keeps every event it is given, in arrival order.
//
// Thread-safety: all methods are safe for concurrent use.
type RecordingReporter struct {
	mu     sync.Mutex
	events []Event
}

// Event is one reporter callback. Exactly one of the outcome fields is set,
// except for NoResponse events which carry only the implementation.
type Event struct {
	Kind           string
	Implementation string
	Results        *result.CaseResult
	Errored        *result.CaseErrored
	Skipped        *result.CaseSkipped
}

// Event kinds.
const (
	KindResults    = "results"
	KindErrored    = "errored"
	KindSkipped    = "skipped"
	KindNoResponse = "no_response"
)

var _ result.Reporter = (*RecordingReporter)(nil)

func (r *RecordingReporter) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *RecordingReporter) GotResults(res result.CaseResult) {
	r.record(Event{Kind: KindResults, Implementation: res.Implementation, Results: &res})
}

func (r *RecordingReporter) CaseErrored(e result.CaseErrored) {
	r.record(Event{Kind: KindErrored, Implementation: e.Implementation, Errored: &e})
}

func (r *RecordingReporter) Skipped(s result.CaseSkipped) {
	r.record(Event{Kind: KindSkipped, Implementation: s.Implementation, Skipped: &s})
}

func (r *RecordingReporter) NoResponse(implementation string) {
	r.record(Event{Kind: KindNoResponse, Implementation: implementation})
}

// Events returns a copy of the recorded events.
func (r *RecordingReporter) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kind of each recorded event.
func (r *RecordingReporter) Kinds() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}
