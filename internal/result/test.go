package result

import "fmt"

// TestOutcome is the outcome of one test instance.
// It is a sealed interface implemented by TestResult, SkippedTest and
// ErroredTest; at most one of Skipped and Errored is true.
type TestOutcome interface {
	// Skipped reports whether the implementation did not run the test.
	Skipped() bool

	// Errored reports whether the test could not produce a verdict.
	Errored() bool

	// Reason is a short human-readable description of the outcome.
	Reason() string

	testOutcome() // sealed
}

// TestResult is a plain verdict from an implementation.
type TestResult struct {
	Valid bool `json:"valid"`
}

// ValidResult and InvalidResult are the two plain verdicts.
var (
	ValidResult   = TestResult{Valid: true}
	InvalidResult = TestResult{Valid: false}
)

func (TestResult) Skipped() bool { return false }
func (TestResult) Errored() bool { return false }
func (TestResult) testOutcome()  {}

// Reason returns "valid" or "invalid".
func (r TestResult) Reason() string {
	if r.Valid {
		return "valid"
	}
	return "invalid"
}

// SkippedTest is a test the implementation declined to run.
//
// InCase marks a placeholder synthesized because the whole case was skipped.
type SkippedTest struct {
	Message  string `json:"message,omitempty"`
	IssueURL string `json:"issue_url,omitempty"`
	InCase   bool   `json:"-"`
}

func (SkippedTest) Skipped() bool { return true }
func (SkippedTest) Errored() bool { return false }
func (SkippedTest) testOutcome()  {}

// Reason prefers the message, then the issue URL.
func (s SkippedTest) Reason() string {
	if s.Message != "" {
		return s.Message
	}
	if s.IssueURL != "" {
		return s.IssueURL
	}
	return "skipped"
}

// ErroredTest is a test that produced an error instead of a verdict.
//
// InCase marks a placeholder synthesized because the whole case errored.
type ErroredTest struct {
	Context map[string]any `json:"context,omitempty"`
	InCase  bool           `json:"-"`
}

func (ErroredTest) Skipped() bool { return false }
func (ErroredTest) Errored() bool { return true }
func (ErroredTest) testOutcome()  {}

// Reason returns the context message when there is one.
func (e ErroredTest) Reason() string {
	if msg, ok := e.Context["message"]; ok && msg != nil {
		if s := fmt.Sprint(msg); s != "" {
			return s
		}
	}
	return "Encountered an error."
}

// DecodeTest builds a TestOutcome from the flags of a decoded per-test
// payload. Skipped wins over errored, and both win over a plain verdict.
func DecodeTest(valid, skipped, errored bool, message, issueURL string, context map[string]any) TestOutcome {
	switch {
	case skipped:
		return SkippedTest{Message: message, IssueURL: issueURL}
	case errored:
		return ErroredTest{Context: context}
	case valid:
		return ValidResult
	default:
		return InvalidResult
	}
}
