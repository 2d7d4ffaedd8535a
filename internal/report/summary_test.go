package report

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bowtie/internal/result"
)

func expected(n int) []result.Validity {
	out := make([]result.Validity, n)
	for i := range out {
		out[i] = result.Valid
	}
	return out
}

func TestSummary_Add(t *testing.T) {
	s := NewSummary("run-1")

	s.Add(result.CaseResult{
		Case:    result.Case{Implementation: "a", Seq: 1, Expected: expected(2)},
		Results: []result.TestOutcome{result.ValidResult, result.InvalidResult},
	})
	s.Add(result.Errored("a", 2, expected(3), nil))
	s.Add(result.CaseSkipped{Case: result.Case{Implementation: "b", Seq: 1, Expected: expected(2)}})
	s.Add(result.NoResponse("b", 2, expected(4)))

	assert.Equal(t, Counts{
		Cases:        2,
		Results:      1,
		Errored:      1,
		FailedCase:   1,
		Unsuccessful: result.Unsuccessful{Failed: 1, Errored: 3},
	}, s.For("a"))
	assert.Equal(t, Counts{
		Cases:        2,
		Skipped:      1,
		NoResponse:   1,
		Unsuccessful: result.Unsuccessful{Errored: 4, Skipped: 2},
	}, s.For("b"))
	assert.Equal(t, result.Unsuccessful{Failed: 1, Errored: 7, Skipped: 2}, s.Total())
	assert.True(t, s.Failed())
	assert.Equal(t, Counts{}, s.For("missing"))
}

func TestSummary_SkippedOnlyIsNotFailure(t *testing.T) {
	s := NewSummary("run-2")
	s.Add(result.CaseSkipped{Case: result.Case{Implementation: "a", Expected: expected(1)}})
	assert.False(t, s.Failed())
}

func TestSummary_ConcurrentAddIsOrderIndependent(t *testing.T) {
	s := NewSummary("run-3")
	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			impl := "even"
			if i%2 == 1 {
				impl = "odd"
			}
			s.Add(result.Errored(impl, result.Seq(i), expected(2), nil))
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"even", "odd"}, s.Implementations())
	assert.Equal(t, 20, s.For("odd").Cases)
	assert.Equal(t, result.Unsuccessful{Errored: 80}, s.Total())
}

func TestSummary_MarshalJSON(t *testing.T) {
	s := NewSummary("run-4")
	s.Add(result.NoResponse("a", 1, expected(1)))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"run_id": "run-4",
		"implementations": {
			"a": {
				"cases": 1, "results": 0, "errored_cases": 0, "skipped_cases": 0,
				"no_response": 1, "failed_cases": 0,
				"unsuccessful": {"failed": 0, "errored": 1, "skipped": 0}
			}
		},
		"total": {"failed": 0, "errored": 1, "skipped": 0}
	}`, string(data))
}
