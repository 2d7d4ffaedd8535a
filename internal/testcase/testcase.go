package testcase

import (
	"context"
	"maps"
	"slices"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/result"
)

// Test is one instance to validate, with its expected validity.
type Test struct {
	Description string
	Instance    any

	// Comment is optional; empty means absent.
	Comment string

	Valid result.Validity
}

// serializable renders the test with every field present; an absent comment
// and an unknown validity both encode as null.
func (t Test) serializable() map[string]any {
	var comment any
	if t.Comment != "" {
		comment = t.Comment
	}
	return map[string]any{
		"description": t.Description,
		"instance":    t.Instance,
		"comment":     comment,
		"valid":       t.Valid,
	}
}

// TestCase is a schema, the tests to run against it, and the registry the
// schema may reference.
type TestCase struct {
	description string
	schema      any
	tests       []Test
	comment     string
	registry    Registry
}

// Option configures a TestCase.
type Option func(*TestCase)

// WithComment attaches a free-form comment to the case.
func WithComment(comment string) Option {
	return func(tc *TestCase) { tc.comment = comment }
}

// WithRegistry sets the schemas the root schema may reference.
func WithRegistry(r Registry) Option {
	return func(tc *TestCase) { tc.registry = r }
}

// New builds a TestCase. The tests slice is copied.
func New(description string, schema any, tests []Test, opts ...Option) TestCase {
	tc := TestCase{
		description: description,
		schema:      schema,
		tests:       slices.Clone(tests),
	}
	for _, opt := range opts {
		opt(&tc)
	}
	return tc
}

func (tc TestCase) Description() string { return tc.description }
func (tc TestCase) Schema() any         { return tc.schema }
func (tc TestCase) Comment() string     { return tc.comment }
func (tc TestCase) Registry() Registry  { return tc.registry }

// Tests returns a copy of the case's tests, in order.
func (tc TestCase) Tests() []Test { return slices.Clone(tc.tests) }

// Len returns the number of tests.
func (tc TestCase) Len() int { return len(tc.tests) }

// Expected returns each test's expected validity, in test order.
func (tc TestCase) Expected() []result.Validity { return Expected(tc.tests) }

// Serializable renders the case as a JSON-ready map, including expectations.
func (tc TestCase) Serializable() map[string]any {
	tests := make([]any, len(tc.tests))
	for i, t := range tc.tests {
		tests[i] = t.serializable()
	}
	out := map[string]any{
		"description": tc.description,
		"schema":      tc.schema,
		"tests":       tests,
	}
	if tc.comment != "" {
		out["comment"] = tc.comment
	}
	if registry := tc.registry.Contents(); registry != nil {
		out["registry"] = registry
	}
	return out
}

// WithoutExpectedResults renders the case as sent to an implementation: no
// test carries "valid", and null comments are dropped.
func (tc TestCase) WithoutExpectedResults() map[string]any {
	out := tc.Serializable()
	raw := out["tests"].([]any)
	tests := make([]any, len(raw))
	for i, t := range raw {
		test := maps.Clone(t.(map[string]any))
		delete(test, "valid")
		if test["comment"] == nil {
			delete(test, "comment")
		}
		tests[i] = test
	}
	out["tests"] = tests
	return out
}

// Runner executes a Run command against one implementation.
type Runner interface {
	RunValidation(ctx context.Context, run protocol.Run, tests []Test) *result.Future
}

// Run submits the case to runner under seq. The returned future resolves to
// the implementation's outcome.
func (tc TestCase) Run(ctx context.Context, seq result.Seq, runner Runner) *result.Future {
	cmd := protocol.Run{Seq: seq, Case: tc.WithoutExpectedResults()}
	return runner.RunValidation(ctx, cmd, tc.Tests())
}

// Expected collects the expected validity of each test, in order.
func Expected(tests []Test) []result.Validity {
	out := make([]result.Validity, len(tests))
	for i, t := range tests {
		out[i] = t.Valid
	}
	return out
}
