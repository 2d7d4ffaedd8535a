package testcase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/result"
)

func sampleCase(opts ...Option) TestCase {
	return New("minimum", map[string]any{"minimum": 3}, []Test{
		{Description: "equal", Instance: 3, Valid: result.Valid},
		{Description: "below", Instance: 2, Valid: result.Invalid, Comment: "off by one"},
		{Description: "unknown", Instance: "x"},
	}, opts...)
}

func TestExpected(t *testing.T) {
	tc := sampleCase()
	assert.Equal(t, []result.Validity{result.Valid, result.Invalid, result.Unknown}, tc.Expected())
	assert.Equal(t, 3, tc.Len())
}

func TestSerializable(t *testing.T) {
	tc := sampleCase()
	out := tc.Serializable()

	assert.Equal(t, "minimum", out["description"])
	assert.NotContains(t, out, "registry")
	assert.NotContains(t, out, "comment")

	tests := out["tests"].([]any)
	require.Len(t, tests, 3)
	first := tests[0].(map[string]any)
	assert.Equal(t, result.Valid, first["valid"])
	assert.Contains(t, first, "comment")
	assert.Nil(t, first["comment"])

	data, err := protocol.Marshal(tests[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"unknown","instance":"x","comment":null,"valid":null}`, string(data))
}

func TestSerializable_RegistryAndComment(t *testing.T) {
	registry := NewRegistry(Draft202012, map[string]any{
		"https://example.com/a": map[string]any{"type": "string"},
	})
	out := sampleCase(WithComment("note"), WithRegistry(registry)).Serializable()

	assert.Equal(t, "note", out["comment"])
	assert.Equal(t, map[string]any{
		"https://example.com/a": map[string]any{"type": "string"},
	}, out["registry"])
}

func TestWithoutExpectedResults(t *testing.T) {
	out := sampleCase().WithoutExpectedResults()

	for _, raw := range out["tests"].([]any) {
		test := raw.(map[string]any)
		assert.NotContains(t, test, "valid")
	}
	tests := out["tests"].([]any)
	assert.NotContains(t, tests[0].(map[string]any), "comment")
	assert.Equal(t, "off by one", tests[1].(map[string]any)["comment"])
}

func TestWithoutExpectedResults_LeavesCaseUntouched(t *testing.T) {
	tc := sampleCase()
	_ = tc.WithoutExpectedResults()

	tests := tc.Serializable()["tests"].([]any)
	assert.Contains(t, tests[0].(map[string]any), "valid")
}

func TestNew_CopiesTests(t *testing.T) {
	tests := []Test{{Description: "a", Instance: 1, Valid: result.Valid}}
	tc := New("copy", true, tests)
	tests[0].Valid = result.Invalid

	assert.Equal(t, result.Valid, tc.Tests()[0].Valid)
}

type captureRunner struct {
	run   protocol.Run
	tests []Test
}

func (c *captureRunner) RunValidation(_ context.Context, run protocol.Run, tests []Test) *result.Future {
	c.run = run
	c.tests = tests
	return result.Resolved(result.NoResponse("fake", run.Seq, Expected(tests)))
}

func TestRun(t *testing.T) {
	runner := &captureRunner{}
	tc := sampleCase()

	future := tc.Run(context.Background(), 7, runner)
	outcome, err := future.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, result.Seq(7), runner.run.Seq)
	assert.Equal(t, tc.WithoutExpectedResults(), runner.run.Case)
	assert.Len(t, runner.tests, 3)
	assert.Equal(t, tc.Expected(), outcome.Expectations())
}
