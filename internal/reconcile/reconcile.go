// Package reconcile arbitrates duplicate-period conflicts between a
// folder's master ledger and a freshly normalized trial balance.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/acertijo-dev/balanza/internal/model"
	"github.com/acertijo-dev/balanza/internal/period"
)

// Policy selects how a duplicate period is resolved.
type Policy int

const (
	// Interactive asks the operator to confirm replacement.
	Interactive Policy = iota
	// RejectDuplicates always skips a duplicate period.
	RejectDuplicates
	// ReplaceDuplicates always replaces without prompting.
	ReplaceDuplicates
)

// String returns the policy's configuration name.
func (p Policy) String() string {
	switch p {
	case Interactive:
		return "interactive"
	case RejectDuplicates:
		return "reject"
	case ReplaceDuplicates:
		return "replace"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses a configuration name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interactive":
		return Interactive, nil
	case "reject":
		return RejectDuplicates, nil
	case "replace":
		return ReplaceDuplicates, nil
	default:
		return Interactive, fmt.Errorf("unknown policy %q", s)
	}
}

// Confirmer answers whether an already-ingested period should be
// replaced by a new file. Only consulted under the Interactive policy.
type Confirmer interface {
	ConfirmReplace(source string, p period.Period) (bool, error)
}

// Result is the outcome of one reconciliation: the full ledger row set
// to persist and what happened.
type Result struct {
	Rows    []model.Row
	Outcome model.Outcome
}

// Reconcile merges incoming rows for one file into the existing master
// ledger. All incoming rows carry the same period; replacement is
// whole-period, never row-by-row.
func Reconcile(existing, incoming []model.Row, source string, policy Policy, confirmer Confirmer) (Result, error) {
	if len(incoming) == 0 {
		return Result{Rows: existing, Outcome: model.OutcomeSkippedEmpty}, nil
	}
	if len(existing) == 0 {
		return Result{Rows: incoming, Outcome: model.OutcomeCreated}, nil
	}

	p := incoming[0].Period
	if !hasPeriod(existing, p) {
		return Result{Rows: append(existing, incoming...), Outcome: model.OutcomeAppended}, nil
	}

	switch policy {
	case RejectDuplicates:
		return Result{Rows: existing, Outcome: model.OutcomeSkippedDuplicate}, nil
	case ReplaceDuplicates:
		return Result{Rows: replacePeriod(existing, incoming, p), Outcome: model.OutcomeReplaced}, nil
	default:
		if confirmer == nil {
			return Result{Rows: existing, Outcome: model.OutcomeSkippedDuplicate}, nil
		}
		ok, err := confirmer.ConfirmReplace(source, p)
		if err != nil {
			return Result{}, fmt.Errorf("confirming replacement of %s: %w", p, err)
		}
		if !ok {
			return Result{Rows: existing, Outcome: model.OutcomeSkippedDeclined}, nil
		}
		return Result{Rows: replacePeriod(existing, incoming, p), Outcome: model.OutcomeReplaced}, nil
	}
}

func hasPeriod(rows []model.Row, p period.Period) bool {
	for _, r := range rows {
		if r.Period.Equal(p) {
			return true
		}
	}
	return false
}

// replacePeriod removes every existing row of period p, then appends
// the incoming rows, preserving the order of everything kept.
func replacePeriod(existing, incoming []model.Row, p period.Period) []model.Row {
	kept := make([]model.Row, 0, len(existing))
	for _, r := range existing {
		if !r.Period.Equal(p) {
			kept = append(kept, r)
		}
	}
	return append(kept, incoming...)
}
