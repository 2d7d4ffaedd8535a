package report

import (
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"github.com/roach88/bowtie/internal/result"
)

// Counts describes what one implementation did over a run.
type Counts struct {
	Cases      int `json:"cases"`
	Results    int `json:"results"`
	Errored    int `json:"errored_cases"`
	Skipped    int `json:"skipped_cases"`
	NoResponse int `json:"no_response"`
	FailedCase int `json:"failed_cases"`

	Unsuccessful result.Unsuccessful `json:"unsuccessful"`
}

// Summary aggregates outcomes for a run. The zero value is not usable; call
// NewSummary.
type Summary struct {
	runID string

	mu    sync.Mutex
	byImp map[string]*Counts
}

// NewSummary returns an empty summary for the run identified by runID.
func NewSummary(runID string) *Summary {
	return &Summary{runID: runID, byImp: make(map[string]*Counts)}
}

var _ result.Reporter = (*Summary)(nil)

// RunID returns the run identifier.
func (s *Summary) RunID() string { return s.runID }

// Add records outcome: its tally and which kind of outcome it was.
func (s *Summary) Add(outcome result.CaseOutcome) {
	s.mu.Lock()
	c := s.counts(outcome.About().Implementation)
	c.Unsuccessful = c.Unsuccessful.Add(outcome.Unsuccessful())
	if outcome.Failed() {
		c.FailedCase++
	}
	s.mu.Unlock()

	outcome.Report(s)
}

// counts must be called with mu held.
func (s *Summary) counts(implementation string) *Counts {
	c, ok := s.byImp[implementation]
	if !ok {
		c = &Counts{}
		s.byImp[implementation] = c
	}
	return c
}

func (s *Summary) bump(implementation string, field func(*Counts) *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.counts(implementation)
	c.Cases++
	*field(c)++
}

// GotResults counts a case that produced per-test results.
func (s *Summary) GotResults(r result.CaseResult) {
	s.bump(r.Implementation, func(c *Counts) *int { return &c.Results })
}

// CaseErrored counts a case that errored.
func (s *Summary) CaseErrored(e result.CaseErrored) {
	s.bump(e.Implementation, func(c *Counts) *int { return &c.Errored })
}

// Skipped counts a case the implementation skipped.
func (s *Summary) Skipped(sk result.CaseSkipped) {
	s.bump(sk.Implementation, func(c *Counts) *int { return &c.Skipped })
}

// NoResponse counts a case with no response.
func (s *Summary) NoResponse(implementation string) {
	s.bump(implementation, func(c *Counts) *int { return &c.NoResponse })
}

// Implementations returns the implementations seen so far, sorted.
func (s *Summary) Implementations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.byImp))
}

// For returns a copy of one implementation's counts.
func (s *Summary) For(implementation string) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.byImp[implementation]; ok {
		return *c
	}
	return Counts{}
}

// Total folds every implementation's tally.
func (s *Summary) Total() result.Unsuccessful {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total result.Unsuccessful
	for _, c := range s.byImp {
		total = total.Add(c.Unsuccessful)
	}
	return total
}

// Failed reports whether any case failed or errored.
func (s *Summary) Failed() bool {
	total := s.Total()
	return total.Failed > 0 || total.Errored > 0
}

type summaryJSON struct {
	RunID           string              `json:"run_id"`
	Implementations map[string]Counts   `json:"implementations"`
	Total           result.Unsuccessful `json:"total"`
}

// MarshalJSON renders the summary with implementations keyed by id.
func (s *Summary) MarshalJSON() ([]byte, error) {
	out := summaryJSON{
		RunID:           s.runID,
		Implementations: make(map[string]Counts),
		Total:           s.Total(),
	}
	for _, id := range s.Implementations() {
		out.Implementations[id] = s.For(id)
	}
	return json.Marshal(out)
}
