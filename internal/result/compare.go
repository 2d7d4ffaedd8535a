package result

// Comparison pairs one test outcome with the expectation for the same slot.
type Comparison struct {
	Outcome  TestOutcome
	Expected Validity
	Failed   bool
}

// Compare pairs results with expectations by index.
//
// A pair fails only when the outcome is a plain verdict, the expectation is
// known, and the two disagree. Slots past the shorter slice are not paired.
func Compare(results []TestOutcome, expected []Validity) []Comparison {
	n := min(len(results), len(expected))
	out := make([]Comparison, n)
	for i := range n {
		out[i] = Comparison{
			Outcome:  results[i],
			Expected: expected[i],
			Failed:   failed(results[i], expected[i]),
		}
	}
	return out
}

func failed(outcome TestOutcome, expected Validity) bool {
	if outcome.Skipped() || outcome.Errored() || !expected.Known() {
		return false
	}
	verdict, ok := outcome.(TestResult)
	if !ok {
		return false
	}
	return !expected.Matches(verdict.Valid)
}
