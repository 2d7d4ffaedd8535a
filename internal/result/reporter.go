package result

// Reporter consumes finalized case outcomes.
// Each CaseOutcome calls exactly one of these methods from Report.
type Reporter interface {
	GotResults(CaseResult)
	CaseErrored(CaseErrored)
	Skipped(CaseSkipped)
	NoResponse(implementation string)
}
