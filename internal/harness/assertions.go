package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/cardvault/internal/card"
)

// AssertionError describes one expectation mismatch.
type AssertionError struct {
	Where    string // step label or "expect"
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s mismatch\n", e.Where, e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// check evaluates exp against the engine state and, for step expectations,
// the operation outcome. Failures are added to result.
func (h *Harness) check(where string, exp *Expectation, outcome *stepOutcome, result *Result) {
	for _, err := range h.evaluate(where, exp, outcome) {
		result.AddError(err.Error())
	}
}

func (h *Harness) evaluate(where string, exp *Expectation, outcome *stepOutcome) []*AssertionError {
	var errs []*AssertionError
	mismatch := func(field string, expected, actual any) {
		errs = append(errs, &AssertionError{
			Where:    where,
			Field:    field,
			Expected: fmt.Sprint(expected),
			Actual:   fmt.Sprint(actual),
		})
	}

	cards := h.engine.Cards()
	stats := h.engine.Stats()

	if exp.Entries != nil && *exp.Entries != len(cards) {
		mismatch("entries", *exp.Entries, len(cards))
	}
	if exp.TotalCards != nil && *exp.TotalCards != stats.TotalCards {
		mismatch("total_cards", *exp.TotalCards, stats.TotalCards)
	}
	if exp.FavoriteCards != nil && *exp.FavoriteCards != stats.FavoriteCards {
		mismatch("favorite_cards", *exp.FavoriteCards, stats.FavoriteCards)
	}
	if exp.DistinctSets != nil && *exp.DistinctSets != stats.DistinctSets {
		mismatch("distinct_sets", *exp.DistinctSets, stats.DistinctSets)
	}
	if exp.TotalValue != nil && *exp.TotalValue != stats.TotalValue {
		mismatch("total_value", *exp.TotalValue, stats.TotalValue)
	}

	if exp.Quantities != nil {
		actual := make([]int, len(cards))
		for i, c := range cards {
			actual[i] = c.Quantity
		}
		if !equalInts(exp.Quantities, actual) {
			mismatch("quantities", exp.Quantities, actual)
		}
	}

	for i, want := range exp.Cards {
		field := fmt.Sprintf("cards[%d]", i)
		if i >= len(cards) {
			mismatch(field, "an entry", "none")
			continue
		}
		for _, diff := range matchEntry(want, cards[i]) {
			mismatch(field+"."+diff.field, diff.expected, diff.actual)
		}
	}

	if exp.Created != nil {
		if outcome == nil || outcome.created == nil {
			mismatch("created", *exp.Created, "not an add step")
		} else if *exp.Created != *outcome.created {
			mismatch("created", *exp.Created, *outcome.created)
		}
	}
	if exp.Changed != nil {
		if outcome == nil || outcome.changed == nil {
			mismatch("changed", *exp.Changed, "not an entry step")
		} else if *exp.Changed != *outcome.changed {
			mismatch("changed", *exp.Changed, *outcome.changed)
		}
	}
	if exp.Updated != nil {
		if outcome == nil || outcome.updated == nil {
			mismatch("updated", *exp.Updated, "not a sync step")
		} else if *exp.Updated != *outcome.updated {
			mismatch("updated", *exp.Updated, *outcome.updated)
		}
	}

	return errs
}

type fieldDiff struct {
	field            string
	expected, actual any
}

// matchEntry compares the fields set in want against got.
func matchEntry(want EntryExpectation, got card.CollectionCard) []fieldDiff {
	var diffs []fieldDiff
	if want.ID != "" && want.ID != got.ID {
		diffs = append(diffs, fieldDiff{"id", want.ID, got.ID})
	}
	if want.Name != "" && want.Name != got.Name {
		diffs = append(diffs, fieldDiff{"name", want.Name, got.Name})
	}
	if want.Source != "" && want.Source != got.Source {
		diffs = append(diffs, fieldDiff{"source", want.Source, got.Source})
	}
	if want.OriginalID != nil && *want.OriginalID != got.OriginalID {
		diffs = append(diffs, fieldDiff{"original_id", *want.OriginalID, got.OriginalID})
	}
	if want.Condition != "" && want.Condition != got.Condition {
		diffs = append(diffs, fieldDiff{"condition", want.Condition, got.Condition})
	}
	if want.Quantity != nil && *want.Quantity != got.Quantity {
		diffs = append(diffs, fieldDiff{"quantity", *want.Quantity, got.Quantity})
	}
	if want.Price != nil && *want.Price != got.Price {
		diffs = append(diffs, fieldDiff{"price", *want.Price, got.Price})
	}
	if want.Favorite != nil && *want.Favorite != got.IsFavorite {
		diffs = append(diffs, fieldDiff{"favorite", *want.Favorite, got.IsFavorite})
	}
	return diffs
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
