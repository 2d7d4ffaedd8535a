package result

// Seq identifies a case's position within a run.
type Seq int64

// Case is the identifying part shared by every case outcome.
// Expected is supplied by the caller and never read from the wire.
type Case struct {
	Implementation string     `json:"implementation"`
	Seq            Seq        `json:"seq"`
	Expected       []Validity `json:"expected"`
}

// About returns the identifying part of the outcome.
func (c Case) About() Case { return c }

// Expectations returns the caller's expected validities in test order.
func (c Case) Expectations() []Validity { return c.Expected }

// CaseOutcome is the outcome of running one case against one implementation.
// It is a sealed interface implemented by CaseResult, CaseErrored,
// CaseSkipped and Empty.
type CaseOutcome interface {
	About() Case

	// Outcomes returns one TestOutcome per expected slot.
	Outcomes() []TestOutcome
	Expectations() []Validity

	Errored() bool
	Skipped() bool

	// Failed reports whether any verdict contradicts a known expectation.
	// Errors and skips are never failures.
	Failed() bool

	Unsuccessful() Unsuccessful

	// Report delivers the outcome to exactly one Reporter method.
	Report(Reporter)

	caseOutcome() // sealed
}

// CaseResult is a case the implementation ran, with one result per test.
type CaseResult struct {
	Case
	Results []TestOutcome `json:"results"`
}

func (r CaseResult) Outcomes() []TestOutcome { return r.Results }
func (CaseResult) Errored() bool             { return false }
func (CaseResult) Skipped() bool             { return false }
func (r CaseResult) Report(rep Reporter)     { rep.GotResults(r) }
func (CaseResult) caseOutcome()              {}

// Compare pairs each result with its expectation.
func (r CaseResult) Compare() []Comparison {
	return Compare(r.Results, r.Expected)
}

func (r CaseResult) Failed() bool {
	for _, c := range r.Compare() {
		if c.Failed {
			return true
		}
	}
	return false
}

// Unsuccessful folds the comparisons into a tally.
func (r CaseResult) Unsuccessful() Unsuccessful {
	var u Unsuccessful
	for _, c := range r.Compare() {
		switch {
		case c.Outcome.Skipped():
			u.Skipped++
		case c.Outcome.Errored():
			u.Errored++
		case c.Failed:
			u.Failed++
		}
	}
	return u
}

// CaseErrored is a whole case that produced an error.
//
// Caught is true when the implementation itself reported the error and
// false when the harness detected it (crash, timeout, undecodable response).
type CaseErrored struct {
	Case
	Context map[string]any `json:"context"`
	Caught  bool           `json:"caught"`
}

// Errored builds an implementation-reported case error.
func Errored(implementation string, seq Seq, expected []Validity, context map[string]any) CaseErrored {
	return CaseErrored{
		Case:    Case{Implementation: implementation, Seq: seq, Expected: expected},
		Context: context,
		Caught:  true,
	}
}

// Uncaught builds a harness-detected case error.
func Uncaught(implementation string, seq Seq, expected []Validity, context map[string]any) CaseErrored {
	return CaseErrored{
		Case:    Case{Implementation: implementation, Seq: seq, Expected: expected},
		Context: context,
		Caught:  false,
	}
}

// Outcomes synthesizes one errored marker per expected slot.
func (e CaseErrored) Outcomes() []TestOutcome {
	out := make([]TestOutcome, len(e.Expected))
	for i := range out {
		out[i] = ErroredTest{Context: e.Context, InCase: true}
	}
	return out
}

func (CaseErrored) Errored() bool         { return true }
func (CaseErrored) Skipped() bool         { return false }
func (CaseErrored) Failed() bool          { return false }
func (e CaseErrored) Report(rep Reporter) { rep.CaseErrored(e) }
func (CaseErrored) caseOutcome()          {}

func (e CaseErrored) Unsuccessful() Unsuccessful {
	return Unsuccessful{Errored: len(e.Expected)}
}

// Reason returns the context message when there is one.
func (e CaseErrored) Reason() string {
	return ErroredTest{Context: e.Context}.Reason()
}

// CaseSkipped is a whole case the implementation declined to run.
type CaseSkipped struct {
	Case
	Message  string `json:"message,omitempty"`
	IssueURL string `json:"issue_url,omitempty"`
}

// Outcomes synthesizes one skipped marker per expected slot.
func (s CaseSkipped) Outcomes() []TestOutcome {
	out := make([]TestOutcome, len(s.Expected))
	for i := range out {
		out[i] = SkippedTest{Message: s.Message, IssueURL: s.IssueURL, InCase: true}
	}
	return out
}

func (CaseSkipped) Errored() bool         { return false }
func (CaseSkipped) Skipped() bool         { return true }
func (CaseSkipped) Failed() bool          { return false }
func (s CaseSkipped) Report(rep Reporter) { rep.Skipped(s) }
func (CaseSkipped) caseOutcome()          {}

func (s CaseSkipped) Unsuccessful() Unsuccessful {
	return Unsuccessful{Skipped: len(s.Expected)}
}

// Reason prefers the message, then the issue URL.
func (s CaseSkipped) Reason() string {
	return SkippedTest{Message: s.Message, IssueURL: s.IssueURL}.Reason()
}

// Empty means the implementation sent no response at all. It counts as
// errored but is reported separately from an error the implementation sent.
type Empty struct {
	Case
}

// NoResponse builds an Empty outcome.
func NoResponse(implementation string, seq Seq, expected []Validity) Empty {
	return Empty{Case: Case{Implementation: implementation, Seq: seq, Expected: expected}}
}

var noResponseContext = map[string]any{"message": "no response"}

func (e Empty) Outcomes() []TestOutcome {
	out := make([]TestOutcome, len(e.Expected))
	for i := range out {
		out[i] = ErroredTest{Context: noResponseContext, InCase: true}
	}
	return out
}

func (Empty) Errored() bool         { return true }
func (Empty) Skipped() bool         { return false }
func (Empty) Failed() bool          { return false }
func (e Empty) Report(rep Reporter) { rep.NoResponse(e.Implementation) }
func (Empty) caseOutcome()          {}

func (e Empty) Unsuccessful() Unsuccessful {
	return Unsuccessful{Errored: len(e.Expected)}
}
