package model

// Outcome is the per-file result of one ingestion attempt.
type Outcome string

const (
	// OutcomeCreated means the file seeded a previously absent ledger.
	OutcomeCreated Outcome = "created"
	// OutcomeAppended means the file's period was new and its rows were
	// appended after the existing ones.
	OutcomeAppended Outcome = "appended"
	// OutcomeReplaced means an existing period's rows were removed and
	// the file's rows took their place.
	OutcomeReplaced Outcome = "replaced"
	// OutcomeSkippedDuplicate means the period already existed and
	// policy rejected replacement.
	OutcomeSkippedDuplicate Outcome = "skipped-duplicate"
	// OutcomeSkippedDeclined means the operator declined replacement.
	OutcomeSkippedDeclined Outcome = "skipped-declined"
	// OutcomeSkippedEmpty means normalization yielded no transactional
	// rows, so there was nothing to consolidate.
	OutcomeSkippedEmpty Outcome = "skipped-empty"
	// OutcomeFailed means the file could not be processed.
	OutcomeFailed Outcome = "failed"
)
