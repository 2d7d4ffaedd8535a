package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_FailureRule(t *testing.T) {
	tests := []struct {
		name     string
		outcome  TestOutcome
		expected Validity
		failed   bool
	}{
		{"expected valid, got invalid", InvalidResult, Valid, true},
		{"expected invalid, got valid", ValidResult, Invalid, true},
		{"expected unknown, got invalid", InvalidResult, Unknown, false},
		{"expected unknown, got valid", ValidResult, Unknown, false},
		{"expected invalid, got invalid", InvalidResult, Invalid, false},
		{"expected valid, got valid", ValidResult, Valid, false},
		{"skipped never fails", SkippedTest{Message: "nope"}, Valid, false},
		{"errored never fails", ErroredTest{}, Invalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare([]TestOutcome{tt.outcome}, []Validity{tt.expected})
			require.Len(t, got, 1)
			assert.Equal(t, tt.failed, got[0].Failed)
			assert.Equal(t, tt.expected, got[0].Expected)
			assert.Equal(t, tt.outcome, got[0].Outcome)
		})
	}
}

func TestCompare_ThreeTestScenario(t *testing.T) {
	r := CaseResult{
		Case: Case{
			Implementation: "go-example",
			Seq:            1,
			Expected:       Validities(true, false, nil),
		},
		Results: []TestOutcome{ValidResult, ValidResult, InvalidResult},
	}

	got := r.Compare()
	require.Len(t, got, 3)
	assert.False(t, got[0].Failed, "matching verdict")
	assert.True(t, got[1].Failed, "mismatched verdict")
	assert.False(t, got[2].Failed, "no ground truth")

	assert.True(t, r.Failed())
	assert.Equal(t, Unsuccessful{Failed: 1}, r.Unsuccessful())
}

func TestCompare_PreservesOrder(t *testing.T) {
	results := []TestOutcome{
		ValidResult,
		SkippedTest{Message: "second"},
		ErroredTest{Context: map[string]any{"message": "third"}},
		InvalidResult,
	}
	expected := Validities(true, true, false, true)

	got := Compare(results, expected)
	require.Len(t, got, len(results))
	for i := range got {
		assert.Equal(t, results[i], got[i].Outcome, "slot %d", i)
		assert.Equal(t, expected[i], got[i].Expected, "slot %d", i)
	}
	assert.True(t, got[3].Failed)
}

func TestCaseResult_UnsuccessfulCountsEachKind(t *testing.T) {
	r := CaseResult{
		Case: Case{Expected: Validities(true, true, false, nil, true)},
		Results: []TestOutcome{
			InvalidResult,
			SkippedTest{},
			ErroredTest{},
			InvalidResult,
			ValidResult,
		},
	}

	assert.Equal(t, Unsuccessful{Failed: 1, Errored: 1, Skipped: 1}, r.Unsuccessful())
	assert.Len(t, r.Compare(), len(r.Expected))
}

func TestCaseResult_NotFailedWithoutMismatch(t *testing.T) {
	r := CaseResult{
		Case:    Case{Expected: Validities(nil, false)},
		Results: []TestOutcome{InvalidResult, InvalidResult},
	}

	assert.False(t, r.Failed())
	assert.True(t, r.Unsuccessful().IsZero())
}
