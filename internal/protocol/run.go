package protocol

import (
	"fmt"

	"github.com/roach88/bowtie/internal/result"
)

// Run asks an implementation to validate every instance of one case.
// Case must already have its expected results stripped.
type Run struct {
	Seq  result.Seq
	Case map[string]any
}

func (Run) Name() string { return "run" }

func (r Run) Fields() map[string]any {
	return map[string]any{"seq": r.Seq, "case": r.Case}
}

type testWire struct {
	Valid    *bool          `json:"valid"`
	Skipped  bool           `json:"skipped"`
	Errored  bool           `json:"errored"`
	Message  string         `json:"message"`
	IssueURL string         `json:"issue_url"`
	Context  map[string]any `json:"context"`
}

func (Run) Response(raw []byte) (CaseResponse, error) {
	var wire struct {
		Seq      result.Seq     `json:"seq"`
		Errored  bool           `json:"errored"`
		Skipped  bool           `json:"skipped"`
		Context  map[string]any `json:"context"`
		Message  string         `json:"message"`
		IssueURL string         `json:"issue_url"`
		Results  *[]testWire    `json:"results"`
	}
	if err := unmarshal("run", raw, &wire); err != nil {
		return CaseResponse{}, err
	}

	resp := CaseResponse{
		Seq:      wire.Seq,
		Errored:  wire.Errored,
		Skipped:  wire.Skipped,
		Context:  wire.Context,
		Message:  wire.Message,
		IssueURL: wire.IssueURL,
	}
	if wire.Results != nil {
		resp.Results = make([]result.TestOutcome, len(*wire.Results))
		for i, t := range *wire.Results {
			if t.Valid == nil && !t.Skipped && !t.Errored {
				continue
			}
			valid := t.Valid != nil && *t.Valid
			resp.Results[i] = result.DecodeTest(valid, t.Skipped, t.Errored, t.Message, t.IssueURL, t.Context)
		}
	}
	return resp, nil
}

// CaseResponse is a decoded run response that has not yet been bound to the
// implementation and expectations it belongs to. Those are known only to the
// caller and are never sent over the wire.
type CaseResponse struct {
	Seq      result.Seq
	Errored  bool
	Skipped  bool
	Context  map[string]any
	Message  string
	IssueURL string

	// Results is nil when the response carried no per-test results. An entry
	// is nil when its result was neither skipped, errored nor a verdict.
	Results []result.TestOutcome
}

// Bind turns the response into a case outcome.
//
// The flags are matched in a fixed order: skipped, then errored, then a
// normal result. A normal response whose results do not line up with
// expected, or that leaves a test without a verdict, is reported as a
// harness-detected error.
func (r CaseResponse) Bind(implementation string, expected []result.Validity) result.CaseOutcome {
	switch {
	case r.Skipped:
		return result.CaseSkipped{
			Case:     result.Case{Implementation: implementation, Seq: r.Seq, Expected: expected},
			Message:  r.Message,
			IssueURL: r.IssueURL,
		}
	case r.Errored:
		return result.Errored(implementation, r.Seq, expected, r.Context)
	case r.Results == nil:
		return result.Uncaught(implementation, r.Seq, expected, map[string]any{
			"message": "run response has no results",
		})
	case len(r.Results) != len(expected):
		return result.Uncaught(implementation, r.Seq, expected, map[string]any{
			"message": fmt.Sprintf("expected %d results, got %d", len(expected), len(r.Results)),
		})
	}
	for i, outcome := range r.Results {
		if outcome == nil {
			return result.Uncaught(implementation, r.Seq, expected, map[string]any{
				"message": fmt.Sprintf("result %d has no verdict", i),
			})
		}
	}
	return result.CaseResult{
		Case:    result.Case{Implementation: implementation, Seq: r.Seq, Expected: expected},
		Results: r.Results,
	}
}
