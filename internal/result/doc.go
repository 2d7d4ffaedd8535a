// Package result provides the outcome taxonomy for conformance runs.
//
// Outcomes come in two layers:
//
//   - TestOutcome: the outcome of one sample instance. Exactly one of
//     TestResult, SkippedTest or ErroredTest.
//   - CaseOutcome: the outcome of a whole test case for one implementation.
//     Exactly one of CaseResult, CaseErrored, CaseSkipped or Empty.
//
// Both layers are sealed sum types. Callers dispatch with a type switch or,
// for case outcomes, through the Reporter visitor via Report.
//
// # Alignment
//
// Results are positional. Slot i of Results() belongs to test i of the case
// that produced it, and slot i of Expected() is the caller's expectation for
// that same test. Every CaseOutcome satisfies
//
//	len(o.Results()) == len(o.Expected())
//
// Whole-case errors and skips synthesize one marker per expected slot so this
// holds even when an implementation sends no per-test breakdown.
//
// # Tallies
//
// Unsuccessful counts failed, errored and skipped tests. Addition is
// pointwise, so run-level totals can be folded in any order.
package result
